// Package reconcile implements the single-pass reconciliation engine:
// classify each bill's latest action, validate the transition against the
// progression graph, and accumulate updates, history entries, and counters
// entirely in memory.
package reconcile

// #region imports
import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openlegis/billtracker/go-engine/internal/lexicon"
	"github.com/openlegis/billtracker/go-engine/internal/progression"
)

// #endregion

// #region evaluate

// Evaluate classifies and validates a single bill. Pure; no shared state.
func Evaluate(b Bill) Outcome {
	if b.ID == "" {
		return Outcome{
			Decision:   DecisionMalformed,
			Current:    b.Status,
			Reason:     "missing bill id",
			ActionText: b.LatestActionText,
		}
	}

	candidate, ok := lexicon.Classify(b.LatestActionText)
	if !ok {
		return Outcome{
			BillID:     b.ID,
			Decision:   DecisionUndetermined,
			Current:    b.Status,
			Reason:     "no lexicon rule matched",
			ActionText: b.LatestActionText,
		}
	}

	if !progression.IsLegal(b.Status, candidate) {
		return Outcome{
			BillID:     b.ID,
			Decision:   DecisionRejected,
			Current:    b.Status,
			Candidate:  candidate,
			Reason:     fmt.Sprintf("illegal progression %s → %s", b.Status, candidate),
			ActionText: b.LatestActionText,
		}
	}

	if candidate == b.Status {
		return Outcome{
			BillID:     b.ID,
			Decision:   DecisionUnchanged,
			Current:    b.Status,
			Candidate:  candidate,
			ActionText: b.LatestActionText,
		}
	}

	return Outcome{
		BillID:     b.ID,
		Decision:   DecisionUpdated,
		Current:    b.Status,
		Candidate:  candidate,
		ActionText: b.LatestActionText,
	}
}

// #endregion

// #region reconcile

// Reconcile evaluates every bill in the snapshot and aggregates the pass
// result in input order. Evaluation fans out across cfg.Workers goroutines
// (classification and validation are pure), but aggregation is serial so
// output ordering is deterministic. The only error is context cancellation.
func Reconcile(ctx context.Context, bills []Bill, cfg Config) (Result, error) {
	passTime := cfg.PassTime
	if passTime.IsZero() {
		passTime = time.Now().UTC()
	}

	outcomes := make([]Outcome, len(bills))
	if cfg.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Workers)
		for i := range bills {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				outcomes[i] = Evaluate(bills[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, fmt.Errorf("reconcile pass: %w", err)
		}
	} else {
		for i := range bills {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("reconcile pass: %w", err)
			}
			outcomes[i] = Evaluate(bills[i])
		}
	}

	var res Result
	res.Outcomes = outcomes
	for _, out := range outcomes {
		switch out.Decision {
		case DecisionMalformed:
			res.Counters.Malformed++
			log.Printf("[RECON] skip malformed record: %s", out.Reason)
			continue
		case DecisionUndetermined:
			res.Counters.Undetermined++
			log.Printf("[RECON] undetermined bill=%s text=%q", out.BillID, out.ActionText)
		case DecisionRejected:
			res.Counters.Rejected++
			log.Printf("[RECON] reject bill=%s current=%s candidate=%s text=%q",
				out.BillID, out.Current, out.Candidate, out.ActionText)
		case DecisionUnchanged:
			res.Counters.Unchanged++
		case DecisionUpdated:
			res.Counters.Updated++
			res.Updates = append(res.Updates, StatusUpdate{
				BillID: out.BillID,
				Status: out.Candidate,
			})
			res.History = append(res.History, HistoryEntry{
				BillID:     out.BillID,
				Status:     out.Candidate,
				ChangedAt:  passTime,
				ActionText: out.ActionText,
			})
		}
		res.Counters.TotalProcessed++
	}

	return res, nil
}

// #endregion

// #region summary-check

// Conserved reports whether the counters satisfy the conservation
// invariant: decisions partition the processed set.
func (c Counters) Conserved() bool {
	return c.Updated+c.Unchanged+c.Rejected+c.Undetermined == c.TotalProcessed
}

// String renders the run summary for operator logs.
func (c Counters) String() string {
	return fmt.Sprintf("total=%d updated=%d unchanged=%d rejected=%d undetermined=%d malformed=%d",
		c.TotalProcessed, c.Updated, c.Unchanged, c.Rejected, c.Undetermined, c.Malformed)
}

// #endregion
