package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/openlegis/billtracker/go-engine/internal/config"
	"github.com/openlegis/billtracker/go-engine/internal/store"
)

// #region main

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", cfg.Database.Path, "path to bills.db")
	billID := flag.String("bill", "", "show one bill with its status history")
	runs := flag.Bool("runs", false, "list recent reconcile runs")
	diagRun := flag.String("diagnostics", "", "list diagnostics for a run id")
	limit := flag.Int("limit", 20, "max rows to print")
	flag.Parse()

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(2)
	}
	defer st.Close()

	ctx := context.Background()

	switch {
	case *billID != "":
		os.Exit(showBill(ctx, st, *billID, *limit))
	case *runs:
		os.Exit(showRuns(ctx, st, *limit))
	case *diagRun != "":
		os.Exit(showDiagnostics(ctx, st, *diagRun, *limit))
	default:
		fmt.Fprintln(os.Stderr, "usage: inspect --bill ID | --runs | --diagnostics RUN_ID")
		os.Exit(2)
	}
}

// #endregion main

// #region show-bill

func showBill(ctx context.Context, st *store.Store, id string, limit int) int {
	rec, err := st.GetBill(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "get bill: %v\n", err)
		return 1
	}

	fmt.Printf("Bill:    %s\n", rec.ID)
	fmt.Printf("Title:   %s\n", rec.Title)
	fmt.Printf("Status:  %s\n", rec.Status)
	fmt.Printf("Action:  %s (%s)\n", rec.LatestActionText, rec.LatestActionDate)

	history, err := st.ListHistory(ctx, id, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list history: %v\n", err)
		return 1
	}

	fmt.Printf("\nHistory (%d entries, newest first):\n", len(history))
	for _, h := range history {
		fmt.Printf("  %s  %-22s %q\n", h.ChangedAt.Format("2006-01-02 15:04:05"), h.Status, h.ActionText)
	}
	return 0
}

// #endregion show-bill

// #region show-runs

func showRuns(ctx context.Context, st *store.Store, limit int) int {
	runs, err := st.ListRuns(ctx, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list runs: %v\n", err)
		return 1
	}

	fmt.Printf("%-36s| %-19s| %s\n", "Run", "Started", "Counters")
	for _, r := range runs {
		fmt.Printf("%-36s| %-19s| %s hist=%d stat=%d failed=%d\n",
			r.RunID, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Counters, r.HistoryWritten, r.StatusesWritten, r.ChunksFailed)
	}
	return 0
}

// #endregion show-runs

// #region show-diagnostics

func showDiagnostics(ctx context.Context, st *store.Store, runID string, limit int) int {
	diags, err := st.ListDiagnostics(ctx, runID, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list diagnostics: %v\n", err)
		return 1
	}

	fmt.Printf("%-16s| %-13s| %-22s| %-22s| %s\n", "Bill", "Decision", "Current", "Candidate", "Reason")
	for _, d := range diags {
		fmt.Printf("%-16s| %-13s| %-22s| %-22s| %s\n",
			d.BillID, d.Decision, d.Current, d.Candidate, d.Reason)
	}
	return 0
}

// #endregion show-diagnostics
