package reconcile

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/openlegis/billtracker/go-engine/internal/status"
)

// #region evaluate

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		bill          Bill
		wantDecision  Decision
		wantCandidate status.Status
	}{
		{
			name:          "referral-from-introduced",
			bill:          Bill{ID: "119-hr-1", Status: status.Introduced, LatestActionText: "Referred to the Committee on Ways and Means."},
			wantDecision:  DecisionUpdated,
			wantCandidate: status.ReferredToCommittee,
		},
		{
			name:          "repeat-referral-unchanged",
			bill:          Bill{ID: "119-hr-1", Status: status.ReferredToCommittee, LatestActionText: "Referred to the Subcommittee on Health."},
			wantDecision:  DecisionUnchanged,
			wantCandidate: status.ReferredToCommittee,
		},
		{
			name:          "skip-to-law",
			bill:          Bill{ID: "119-hr-2", Status: status.PassedBothChambers, LatestActionText: "Became Public Law No: 119-1."},
			wantDecision:  DecisionUpdated,
			wantCandidate: status.SignedIntoLaw,
		},
		{
			name:         "terminal-absorbs-tabling",
			bill:         Bill{ID: "119-hr-2", Status: status.SignedIntoLaw, LatestActionText: "Motion to reconsider laid on the table."},
			wantDecision: DecisionRejected,
		},
		{
			name:         "procedural-noise-undetermined",
			bill:         Bill{ID: "119-s-3", Status: status.Introduced, LatestActionText: "Sponsor introductory remarks on measure."},
			wantDecision: DecisionUndetermined,
		},
		{
			name:         "empty-action-undetermined",
			bill:         Bill{ID: "119-s-4", Status: status.PassedChamber, LatestActionText: ""},
			wantDecision: DecisionUndetermined,
		},
		{
			name:         "missing-id-malformed",
			bill:         Bill{Status: status.Introduced, LatestActionText: "Passed House by voice vote."},
			wantDecision: DecisionMalformed,
		},
		{
			name:          "backfill-unknown-current",
			bill:          Bill{ID: "118-hr-9", Status: "", LatestActionText: "Passed Senate without amendment by Unanimous Consent."},
			wantDecision:  DecisionUpdated,
			wantCandidate: status.PassedChamber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.bill)
			if got.Decision != tt.wantDecision {
				t.Fatalf("decision: got %q, want %q (reason=%q)", got.Decision, tt.wantDecision, got.Reason)
			}
			if tt.wantCandidate != "" && got.Candidate != tt.wantCandidate {
				t.Errorf("candidate: got %q, want %q", got.Candidate, tt.wantCandidate)
			}
			if got.Decision == DecisionRejected && got.Reason == "" {
				t.Error("rejected outcome missing reason")
			}
		})
	}
}

// #endregion

// #region reconcile

func snapshotFixture() []Bill {
	return []Bill{
		{ID: "119-hr-1", Status: status.Introduced, LatestActionText: "Referred to the Committee on Energy and Commerce."},
		{ID: "119-hr-2", Status: status.ReferredToCommittee, LatestActionText: "Referred to the Subcommittee on Health."},
		{ID: "119-hr-3", Status: status.PassedBothChambers, LatestActionText: "Became Public Law No: 119-12."},
		{ID: "119-hr-4", Status: status.SignedIntoLaw, LatestActionText: "Motion to reconsider laid on the table."},
		{ID: "119-s-5", Status: status.Introduced, LatestActionText: "Sponsor introductory remarks on measure."},
		{ID: "", Status: status.Introduced, LatestActionText: "Passed House by voice vote."},
	}
}

func TestReconcileCounters(t *testing.T) {
	res, err := Reconcile(context.Background(), snapshotFixture(), Config{PassTime: time.Unix(0, 0).UTC()})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	want := Counters{
		TotalProcessed: 5,
		Updated:        2,
		Unchanged:      1,
		Rejected:       1,
		Undetermined:   1,
		Malformed:      1,
	}
	if res.Counters != want {
		t.Errorf("counters: got %+v, want %+v", res.Counters, want)
	}
	if !res.Counters.Conserved() {
		t.Errorf("counters not conserved: %s", res.Counters)
	}
}

func TestReconcileHistoryPairsUpdates(t *testing.T) {
	passTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	res, err := Reconcile(context.Background(), snapshotFixture(), Config{PassTime: passTime})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if len(res.History) != len(res.Updates) {
		t.Fatalf("history/update mismatch: %d history, %d updates", len(res.History), len(res.Updates))
	}
	for i, up := range res.Updates {
		h := res.History[i]
		if h.BillID != up.BillID || h.Status != up.Status {
			t.Errorf("entry %d: history (%s, %s) does not pair update (%s, %s)",
				i, h.BillID, h.Status, up.BillID, up.Status)
		}
		if !h.ChangedAt.Equal(passTime) {
			t.Errorf("entry %d: changedAt %v, want pass time %v", i, h.ChangedAt, passTime)
		}
	}
}

// Re-running the pass over the post-apply snapshot must produce no updates.
func TestReconcileIdempotent(t *testing.T) {
	bills := snapshotFixture()
	first, err := Reconcile(context.Background(), bills, Config{})
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}

	applied := make(map[string]status.Status, len(first.Updates))
	for _, up := range first.Updates {
		applied[up.BillID] = up.Status
	}
	for i := range bills {
		if s, ok := applied[bills[i].ID]; ok {
			bills[i].Status = s
		}
	}

	second, err := Reconcile(context.Background(), bills, Config{})
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if len(second.Updates) != 0 {
		t.Errorf("second pass produced %d updates, want 0: %+v", len(second.Updates), second.Updates)
	}
	if second.Counters.Updated != 0 {
		t.Errorf("second pass counters: %s", second.Counters)
	}
	wantUnchanged := first.Counters.Unchanged + first.Counters.Updated
	if second.Counters.Unchanged != wantUnchanged {
		t.Errorf("second pass unchanged: got %d, want %d", second.Counters.Unchanged, wantUnchanged)
	}
}

// Parallel evaluation must produce byte-identical results to serial.
func TestReconcileParallelDeterministic(t *testing.T) {
	bills := snapshotFixture()
	for i := 0; i < 40; i++ {
		bills = append(bills, Bill{
			ID:               "119-hr-" + string(rune('a'+i%26)) + "00",
			Status:           status.ReferredToCommittee,
			LatestActionText: "Reported by the Committee on the Judiciary. H. Rept. 119-40.",
		})
	}
	passTime := time.Unix(1700000000, 0).UTC()

	serial, err := Reconcile(context.Background(), bills, Config{PassTime: passTime, Workers: 1})
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	parallel, err := Reconcile(context.Background(), bills, Config{PassTime: passTime, Workers: 8})
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	if !reflect.DeepEqual(serial, parallel) {
		t.Errorf("parallel result diverges from serial:\nserial:   %+v\nparallel: %+v",
			serial.Counters, parallel.Counters)
	}
}

func TestReconcileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Reconcile(ctx, snapshotFixture(), Config{}); err == nil {
		t.Error("expected error from cancelled context")
	}
	if _, err := Reconcile(ctx, snapshotFixture(), Config{Workers: 4}); err == nil {
		t.Error("expected error from cancelled context with workers")
	}
}

func TestReconcileEmptySnapshot(t *testing.T) {
	res, err := Reconcile(context.Background(), nil, Config{})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.Counters.TotalProcessed != 0 || len(res.Updates) != 0 || len(res.History) != 0 {
		t.Errorf("empty snapshot produced work: %s", res.Counters)
	}
}

// #endregion
