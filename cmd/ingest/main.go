package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/openlegis/billtracker/go-engine/internal/config"
	"github.com/openlegis/billtracker/go-engine/internal/congress"
	"github.com/openlegis/billtracker/go-engine/internal/store"
)

// #region main

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", cfg.Database.Path, "path to bills.db")
	congressNum := flag.Int("congress", cfg.Congress.Congress, "congress number to ingest")
	maxBills := flag.Int("max", 0, "max bills to fetch (0 = all)")
	flag.Parse()

	if cfg.Congress.APIKey == "" {
		fmt.Fprintln(os.Stderr, "CONGRESS_API_KEY is not set")
		os.Exit(2)
	}

	ctx := context.Background()

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(2)
	}
	defer st.Close()

	client := congress.NewClient(cfg.Congress.BaseURL, cfg.Congress.APIKey, cfg.Congress.PageSize, nil)

	log.Printf("[INGEST] fetching bills for congress %d", *congressNum)
	bills, err := client.FetchBills(ctx, *congressNum, *maxBills)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch bills: %v\n", err)
		os.Exit(1)
	}
	log.Printf("[INGEST] fetched %d bills", len(bills))

	if err := st.UpsertBills(ctx, bills); err != nil {
		fmt.Fprintf(os.Stderr, "upsert bills: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Ingested %d bills into %s\n", len(bills), *dbPath)
}

// #endregion main
