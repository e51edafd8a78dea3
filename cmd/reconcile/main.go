package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/openlegis/billtracker/go-engine/internal/batch"
	"github.com/openlegis/billtracker/go-engine/internal/config"
	"github.com/openlegis/billtracker/go-engine/internal/fixture"
	"github.com/openlegis/billtracker/go-engine/internal/reconcile"
	"github.com/openlegis/billtracker/go-engine/internal/store"
)

// #region main

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", cfg.Database.Path, "path to bills.db (live mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	dryRun := flag.Bool("dry-run", false, "classify and validate but write nothing")
	workers := flag.Int("workers", cfg.Reconcile.Workers, "classify fan-out width")
	flag.Parse()

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runLiveMode(cfg, *dbPath, *workers, *dryRun)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region live

func runLiveMode(cfg config.Config, dbPath string, workers int, dryRun bool) int {
	ctx := context.Background()

	st, err := store.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer st.Close()

	bills, err := st.SnapshotBills(ctx)
	if err != nil {
		// Input unreadable: the only fatal failure. Nothing is written.
		fmt.Fprintf(os.Stderr, "snapshot bills: %v\n", err)
		return 2
	}
	log.Printf("[RECON] snapshot loaded: %d bills", len(bills))

	startedAt := time.Now().UTC()
	res, err := reconcile.Reconcile(ctx, bills, reconcile.Config{
		PassTime: startedAt,
		Workers:  workers,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
		return 1
	}

	if dryRun {
		log.Printf("[RECON] dry run, skipping writes")
		fmt.Printf("Summary (dry run): %s\n", res.Counters)
		return 0
	}

	writer := batch.NewWriter(st, batch.Config{
		ChunkSize:     cfg.Reconcile.ChunkSize,
		RetryAttempts: cfg.Reconcile.RetryAttempts,
		RetryBackoff:  time.Duration(cfg.Reconcile.RetryBackoffMs) * time.Millisecond,
	})
	sum, err := writer.Apply(ctx, res)
	if err != nil {
		fmt.Fprintf(os.Stderr, "apply: %v\n", err)
		return 1
	}

	runID := store.NewRunID()
	rec := store.RunRecord{
		RunID:           runID,
		StartedAt:       startedAt,
		FinishedAt:      time.Now().UTC(),
		Counters:        res.Counters,
		HistoryWritten:  sum.HistoryWritten,
		StatusesWritten: sum.StatusesWritten,
		ChunksFailed:    sum.ChunksFailed,
	}
	if err := st.RecordRun(ctx, rec); err != nil {
		fmt.Fprintf(os.Stderr, "record run: %v\n", err)
		return 1
	}
	if err := st.InsertDiagnostics(ctx, runID, res.Outcomes); err != nil {
		fmt.Fprintf(os.Stderr, "record diagnostics: %v\n", err)
		return 1
	}

	fmt.Printf("Run %s: %s history_written=%d statuses_written=%d chunks_failed=%d\n",
		runID, res.Counters, sum.HistoryWritten, sum.StatusesWritten, sum.ChunksFailed)

	if sum.ChunksFailed > 0 {
		return 1
	}
	return 0
}

// #endregion live

// #region fixture-mode

func runFixtureMode(path string) int {
	f, err := fixture.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	rows, counters, err := fixture.Run(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run fixture: %v\n", err)
		return 2
	}

	fmt.Printf("%-16s| %-15s| %-15s| %s\n", "Bill", "Expected", "Got", "Match")
	fmt.Printf("%-16s+%-15s+%-15s+%s\n",
		"----------------", "----------------", "----------------", "------")

	matches := 0
	for _, r := range rows {
		match := "DIFF"
		if r.Match {
			match = "OK"
			matches++
		}
		fmt.Printf("%-16s| %-15s| %-15s| %s\n", r.BillID, r.Expected, r.Got, match)
	}

	diverge := len(rows) - matches
	fmt.Printf("\nSummary: %s (%d match, %d diverge)\n", counters, matches, diverge)

	if diverge > 0 {
		return 1
	}
	return 0
}

// #endregion fixture-mode
