// Package batch applies a reconciliation result to the external store in
// bounded chunks with partial-failure tolerance. All history chunks are
// written before any status chunk so a crash mid-pass can leave an orphan
// audit entry but never an unexplained status.
package batch

// #region imports
import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/openlegis/billtracker/go-engine/internal/reconcile"
)

// #endregion

// #region status-writer

// StatusWriter is the store-side contract the engine consumes. Both calls
// receive bounded chunks, never the whole pass.
type StatusWriter interface {
	InsertHistory(ctx context.Context, entries []reconcile.HistoryEntry) error
	UpdateStatuses(ctx context.Context, updates []reconcile.StatusUpdate) error
}

// #endregion

// #region config

// Config bounds chunk size and the per-chunk retry policy.
type Config struct {
	ChunkSize     int
	RetryAttempts int
	RetryBackoff  time.Duration
}

// DefaultConfig matches store-side batch limits: chunks of 50, three
// attempts with doubling backoff starting at 200ms.
func DefaultConfig() Config {
	return Config{
		ChunkSize:     50,
		RetryAttempts: 3,
		RetryBackoff:  200 * time.Millisecond,
	}
}

func (c Config) normalized() Config {
	if c.ChunkSize < 1 {
		c.ChunkSize = DefaultConfig().ChunkSize
	}
	if c.RetryAttempts < 1 {
		c.RetryAttempts = 1
	}
	return c
}

// #endregion

// #region summary

// WriteSummary reports what was durably written. Failed chunks are counted,
// their record ids kept so an operator can re-run a narrower pass.
type WriteSummary struct {
	HistoryWritten  int
	StatusesWritten int
	ChunksFailed    int
	FailedBillIDs   []string
}

// #endregion

// #region writer

// Writer drives chunked writes against a StatusWriter.
type Writer struct {
	store StatusWriter
	cfg   Config
}

// NewWriter wraps a store-side writer with the chunk/retry policy.
func NewWriter(store StatusWriter, cfg Config) *Writer {
	return &Writer{store: store, cfg: cfg.normalized()}
}

// Apply persists a pass result: history first, then status updates. A
// failed chunk is logged with its bill ids and the pass continues with the
// next chunk. Cancellation is honored between chunks only; already-written
// chunks stay committed.
func (w *Writer) Apply(ctx context.Context, res reconcile.Result) (WriteSummary, error) {
	var sum WriteSummary

	for start := 0; start < len(res.History); start += w.cfg.ChunkSize {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("apply cancelled: %w", err)
		}
		chunk := res.History[start:min(start+w.cfg.ChunkSize, len(res.History))]
		err := w.withRetry(ctx, func() error {
			return w.store.InsertHistory(ctx, chunk)
		})
		if err != nil {
			sum.ChunksFailed++
			ids := historyIDs(chunk)
			sum.FailedBillIDs = append(sum.FailedBillIDs, ids...)
			log.Printf("[BATCH] history chunk failed after %d attempts: %v bills=%v",
				w.cfg.RetryAttempts, err, ids)
			continue
		}
		sum.HistoryWritten += len(chunk)
	}

	// Status updates whose history chunk failed are withheld: a status
	// change must never land without its audit entry.
	failed := map[string]bool{}
	for _, id := range sum.FailedBillIDs {
		failed[id] = true
	}
	updates := res.Updates
	if len(failed) > 0 {
		kept := make([]reconcile.StatusUpdate, 0, len(updates))
		for _, u := range updates {
			if !failed[u.BillID] {
				kept = append(kept, u)
			}
		}
		updates = kept
	}

	for start := 0; start < len(updates); start += w.cfg.ChunkSize {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("apply cancelled: %w", err)
		}
		chunk := updates[start:min(start+w.cfg.ChunkSize, len(updates))]
		err := w.withRetry(ctx, func() error {
			return w.store.UpdateStatuses(ctx, chunk)
		})
		if err != nil {
			sum.ChunksFailed++
			ids := updateIDs(chunk)
			sum.FailedBillIDs = append(sum.FailedBillIDs, ids...)
			log.Printf("[BATCH] status chunk failed after %d attempts: %v bills=%v",
				w.cfg.RetryAttempts, err, ids)
			continue
		}
		sum.StatusesWritten += len(chunk)
	}

	return sum, nil
}

// #endregion

// #region retry

// withRetry runs fn up to RetryAttempts times with doubling backoff.
func (w *Writer) withRetry(ctx context.Context, fn func() error) error {
	backoff := w.cfg.RetryBackoff
	var err error
	for attempt := 1; attempt <= w.cfg.RetryAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt == w.cfg.RetryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

// #endregion

// #region helpers

func historyIDs(entries []reconcile.HistoryEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.BillID
	}
	return ids
}

func updateIDs(updates []reconcile.StatusUpdate) []string {
	ids := make([]string, len(updates))
	for i, u := range updates {
		ids[i] = u.BillID
	}
	return ids
}

// #endregion
