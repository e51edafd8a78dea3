// Package store persists bills, append-only status history, reconcile run
// summaries, and per-bill diagnostics in SQLite.
package store

// #region imports
import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/openlegis/billtracker/go-engine/internal/reconcile"
	"github.com/openlegis/billtracker/go-engine/internal/status"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS bills (
	id                 TEXT PRIMARY KEY,
	title              TEXT,
	congress           INTEGER,
	status             TEXT NOT NULL DEFAULT 'introduced',
	latest_action_text TEXT,
	latest_action_date TEXT,
	updated_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS status_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	bill_id     TEXT NOT NULL,
	status      TEXT NOT NULL,
	action_text TEXT,
	changed_at  TEXT NOT NULL,
	FOREIGN KEY (bill_id) REFERENCES bills(id)
);
CREATE INDEX IF NOT EXISTS idx_history_bill ON status_history(bill_id);

CREATE TABLE IF NOT EXISTS reconcile_runs (
	run_id           TEXT PRIMARY KEY,
	started_at       TEXT NOT NULL,
	finished_at      TEXT NOT NULL,
	total            INTEGER NOT NULL,
	updated          INTEGER NOT NULL,
	unchanged        INTEGER NOT NULL,
	rejected         INTEGER NOT NULL,
	undetermined     INTEGER NOT NULL,
	malformed        INTEGER NOT NULL,
	history_written  INTEGER NOT NULL,
	statuses_written INTEGER NOT NULL,
	chunks_failed    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_diagnostics (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id           TEXT NOT NULL,
	bill_id          TEXT,
	decision         TEXT NOT NULL,
	current_status   TEXT,
	candidate_status TEXT,
	action_text      TEXT,
	reason           TEXT,
	created_at       TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES reconcile_runs(run_id)
);
`

// #endregion schema

// #region types
// BillRecord is the stored shape of a bill, as written by ingest.
type BillRecord struct {
	ID               string
	Title            string
	Congress         int
	Status           status.Status
	LatestActionText string
	LatestActionDate string
	UpdatedAt        time.Time
}

// RunRecord is one row of the reconcile_runs ledger.
type RunRecord struct {
	RunID           string
	StartedAt       time.Time
	FinishedAt      time.Time
	Counters        reconcile.Counters
	HistoryWritten  int
	StatusesWritten int
	ChunksFailed    int
}

// HistoryRow is a persisted status_history entry.
type HistoryRow struct {
	ID         int64
	BillID     string
	Status     status.Status
	ActionText string
	ChangedAt  time.Time
}

// DiagnosticRow is a persisted run_diagnostics entry.
type DiagnosticRow struct {
	ID        int64
	RunID     string
	BillID    string
	Decision  reconcile.Decision
	Current   status.Status
	Candidate status.Status
	Reason    string
	CreatedAt time.Time
}

// Store manages the bill database.
type Store struct {
	db *sql.DB
}

// #endregion types

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages.
func (s *Store) DB() *sql.DB {
	return s.db
}

// NewRunID returns a fresh identifier for a reconciliation pass.
func NewRunID() string {
	return uuid.New().String()
}

// #endregion constructor

// #region upsert-bills
// UpsertBills inserts or refreshes bill rows in one transaction. On
// conflict the latest-action fields are refreshed but status is left
// untouched: only the reconciliation engine mutates status.
func (s *Store) UpsertBills(ctx context.Context, bills []BillRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, b := range bills {
		st := b.Status
		if st == "" {
			st = status.Introduced
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO bills (id, title, congress, status, latest_action_text, latest_action_date, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   title = excluded.title,
			   latest_action_text = excluded.latest_action_text,
			   latest_action_date = excluded.latest_action_date,
			   updated_at = excluded.updated_at`,
			b.ID, b.Title, b.Congress, string(st), b.LatestActionText, b.LatestActionDate, now,
		)
		if err != nil {
			return fmt.Errorf("upsert bill %s: %w", b.ID, err)
		}
	}
	return tx.Commit()
}

// #endregion upsert-bills

// #region snapshot
// SnapshotBills reads the full dataset for a reconciliation pass.
func (s *Store) SnapshotBills(ctx context.Context) ([]reconcile.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, COALESCE(latest_action_text, '') FROM bills ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot bills: %w", err)
	}
	defer rows.Close()

	var bills []reconcile.Bill
	for rows.Next() {
		var b reconcile.Bill
		var st string
		if err := rows.Scan(&b.ID, &st, &b.LatestActionText); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		b.Status = status.Status(st)
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// GetBill retrieves a single bill row by id.
func (s *Store) GetBill(ctx context.Context, id string) (BillRecord, error) {
	var rec BillRecord
	var title, actionText, actionDate sql.NullString
	var congress sql.NullInt64
	var st, updatedStr string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, congress, status, latest_action_text, latest_action_date, updated_at
		 FROM bills WHERE id = ?`, id,
	).Scan(&rec.ID, &title, &congress, &st, &actionText, &actionDate, &updatedStr)
	if err != nil {
		return BillRecord{}, fmt.Errorf("get bill %s: %w", id, err)
	}
	rec.Title = title.String
	rec.Congress = int(congress.Int64)
	rec.Status = status.Status(st)
	rec.LatestActionText = actionText.String
	rec.LatestActionDate = actionDate.String
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	return rec, nil
}

// #endregion snapshot

// #region history-writes
// InsertHistory appends one chunk of audit rows in a single transaction.
// History is immutable once written; there is no update or delete path.
func (s *Store) InsertHistory(ctx context.Context, entries []reconcile.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO status_history (bill_id, status, action_text, changed_at)
			 VALUES (?, ?, ?, ?)`,
			e.BillID, string(e.Status), e.ActionText, e.ChangedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert history %s: %w", e.BillID, err)
		}
	}
	return tx.Commit()
}

// UpdateStatuses applies one chunk of status updates in a single
// transaction, keyed by bill id.
func (s *Store) UpdateStatuses(ctx context.Context, updates []reconcile.StatusUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, u := range updates {
		_, err := tx.ExecContext(ctx,
			`UPDATE bills SET status = ?, updated_at = ? WHERE id = ?`,
			string(u.Status), now, u.BillID,
		)
		if err != nil {
			return fmt.Errorf("update status %s: %w", u.BillID, err)
		}
	}
	return tx.Commit()
}

// ListHistory returns the most recent history rows for a bill.
func (s *Store) ListHistory(ctx context.Context, billID string, limit int) ([]HistoryRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, bill_id, status, COALESCE(action_text, ''), changed_at
		 FROM status_history WHERE bill_id = ? ORDER BY id DESC LIMIT ?`,
		billID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		var st, changedStr string
		if err := rows.Scan(&h.ID, &h.BillID, &st, &h.ActionText, &changedStr); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		h.Status = status.Status(st)
		h.ChangedAt, _ = time.Parse(time.RFC3339Nano, changedStr)
		out = append(out, h)
	}
	return out, rows.Err()
}

// #endregion history-writes

// #region run-ledger
// RecordRun persists the summary row for a completed pass.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reconcile_runs
		 (run_id, started_at, finished_at, total, updated, unchanged, rejected,
		  undetermined, malformed, history_written, statuses_written, chunks_failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
		rec.Counters.TotalProcessed,
		rec.Counters.Updated,
		rec.Counters.Unchanged,
		rec.Counters.Rejected,
		rec.Counters.Undetermined,
		rec.Counters.Malformed,
		rec.HistoryWritten,
		rec.StatusesWritten,
		rec.ChunksFailed,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// InsertDiagnostics persists the non-clean outcomes of a pass (rejected,
// undetermined, malformed) so operators can audit them after the fact.
func (s *Store) InsertDiagnostics(ctx context.Context, runID string, outcomes []reconcile.Outcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, out := range outcomes {
		switch out.Decision {
		case reconcile.DecisionRejected, reconcile.DecisionUndetermined, reconcile.DecisionMalformed:
		default:
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO run_diagnostics
			 (run_id, bill_id, decision, current_status, candidate_status, action_text, reason, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID,
			nullIfEmpty(out.BillID),
			string(out.Decision),
			nullIfEmpty(string(out.Current)),
			nullIfEmpty(string(out.Candidate)),
			nullIfEmpty(out.ActionText),
			nullIfEmpty(out.Reason),
			now,
		)
		if err != nil {
			return fmt.Errorf("insert diagnostic: %w", err)
		}
	}
	return tx.Commit()
}

// ListRuns returns the most recent run summaries.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, started_at, finished_at, total, updated, unchanged, rejected,
		        undetermined, malformed, history_written, statuses_written, chunks_failed
		 FROM reconcile_runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var startedStr, finishedStr string
		if err := rows.Scan(
			&rec.RunID, &startedStr, &finishedStr,
			&rec.Counters.TotalProcessed, &rec.Counters.Updated, &rec.Counters.Unchanged,
			&rec.Counters.Rejected, &rec.Counters.Undetermined, &rec.Counters.Malformed,
			&rec.HistoryWritten, &rec.StatusesWritten, &rec.ChunksFailed,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
		rec.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedStr)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListDiagnostics returns diagnostics for a run, oldest first.
func (s *Store) ListDiagnostics(ctx context.Context, runID string, limit int) ([]DiagnosticRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, COALESCE(bill_id, ''), decision,
		        COALESCE(current_status, ''), COALESCE(candidate_status, ''),
		        COALESCE(reason, ''), created_at
		 FROM run_diagnostics WHERE run_id = ? ORDER BY id ASC LIMIT ?`,
		runID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list diagnostics: %w", err)
	}
	defer rows.Close()

	var out []DiagnosticRow
	for rows.Next() {
		var d DiagnosticRow
		var decision, cur, cand, createdStr string
		if err := rows.Scan(&d.ID, &d.RunID, &d.BillID, &decision, &cur, &cand, &d.Reason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		d.Decision = reconcile.Decision(decision)
		d.Current = status.Status(cur)
		d.Candidate = status.Status(cand)
		d.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, d)
	}
	return out, rows.Err()
}

// #endregion run-ledger

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
