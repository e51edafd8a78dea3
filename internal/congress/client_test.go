package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// #region test-server

type pageBill struct {
	typ, number, title, actionDate, actionText string
}

// billServer serves a paged /bill/{congress} list the way the v3 API does.
func billServer(t *testing.T, congressNum int, bills []pageBill, pageSize int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := fmt.Sprintf("/bill/%d", congressNum)
		if r.URL.Path != wantPath {
			t.Errorf("path: got %s, want %s", r.URL.Path, wantPath)
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format param: got %q, want json", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("api_key param: got %q, want test-key", got)
		}

		offset := 0
		fmt.Sscanf(r.URL.Query().Get("offset"), "%d", &offset)
		end := offset + pageSize
		if end > len(bills) {
			end = len(bills)
		}
		page := bills[offset:end]

		type latestAction struct {
			ActionDate string `json:"actionDate"`
			Text       string `json:"text"`
		}
		type billJSON struct {
			Type         string       `json:"type"`
			Number       string       `json:"number"`
			Congress     int          `json:"congress"`
			Title        string       `json:"title"`
			LatestAction latestAction `json:"latestAction"`
		}
		out := struct {
			Bills      []billJSON `json:"bills"`
			Pagination struct {
				Count int `json:"count"`
			} `json:"pagination"`
		}{}
		for _, b := range page {
			out.Bills = append(out.Bills, billJSON{
				Type:     b.typ,
				Number:   b.number,
				Congress: congressNum,
				Title:    b.title,
				LatestAction: latestAction{
					ActionDate: b.actionDate,
					Text:       b.actionText,
				},
			})
		}
		out.Pagination.Count = len(bills)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			t.Errorf("encode page: %v", err)
		}
	}))
}

// #endregion

// #region tests

func TestFetchBillsPaged(t *testing.T) {
	bills := []pageBill{
		{"HR", "1", "One Act", "2026-01-03", "Introduced in House"},
		{"HR", "2", "Two Act", "2026-01-10", "Referred to the Committee on Ways and Means."},
		{"S", "1", "Three Act", "2026-02-01", "Passed Senate without amendment."},
		{"HR", "3", "Four Act", "2026-02-15", "Became Public Law No: 119-2."},
		{"S", "2", "Five Act", "2026-03-01", "Presented to President."},
	}
	srv := billServer(t, 119, bills, 2)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", 2, srv.Client())
	got, err := c.FetchBills(context.Background(), 119, 0)
	if err != nil {
		t.Fatalf("FetchBills: %v", err)
	}
	if len(got) != len(bills) {
		t.Fatalf("bills: got %d, want %d", len(got), len(bills))
	}

	wantIDs := []string{"119-hr-1", "119-hr-2", "119-s-1", "119-hr-3", "119-s-2"}
	for i, rec := range got {
		if rec.ID != wantIDs[i] {
			t.Errorf("bill %d id: got %s, want %s", i, rec.ID, wantIDs[i])
		}
		if rec.Congress != 119 {
			t.Errorf("bill %d congress: got %d, want 119", i, rec.Congress)
		}
		if rec.LatestActionText != bills[i].actionText {
			t.Errorf("bill %d action: got %q, want %q", i, rec.LatestActionText, bills[i].actionText)
		}
		if rec.LatestActionDate != bills[i].actionDate {
			t.Errorf("bill %d action date: got %q, want %q", i, rec.LatestActionDate, bills[i].actionDate)
		}
	}
}

func TestFetchBillsMaxCap(t *testing.T) {
	bills := []pageBill{
		{"HR", "1", "One Act", "2026-01-03", "Introduced in House"},
		{"HR", "2", "Two Act", "2026-01-10", "Introduced in House"},
		{"HR", "3", "Three Act", "2026-01-12", "Introduced in House"},
	}
	srv := billServer(t, 119, bills, 2)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", 2, srv.Client())
	got, err := c.FetchBills(context.Background(), 119, 2)
	if err != nil {
		t.Fatalf("FetchBills: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("capped fetch: got %d bills, want 2", len(got))
	}
}

func TestFetchBillsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", 250, srv.Client())
	if _, err := c.FetchBills(context.Background(), 119, 0); err == nil {
		t.Error("expected error from non-200 response")
	}
}

func TestBillID(t *testing.T) {
	tests := []struct {
		congress int
		typ      string
		number   string
		want     string
	}{
		{119, "HR", "1234", "119-hr-1234"},
		{119, "S", "77", "119-s-77"},
		{118, "HJRES", "5", "118-hjres-5"},
	}
	for _, tt := range tests {
		if got := billID(tt.congress, tt.typ, tt.number); got != tt.want {
			t.Errorf("billID(%d, %q, %q): got %q, want %q", tt.congress, tt.typ, tt.number, got, tt.want)
		}
	}
}

// #endregion
