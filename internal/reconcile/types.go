package reconcile

// #region imports
import (
	"time"

	"github.com/openlegis/billtracker/go-engine/internal/status"
)

// #endregion

// #region bill

// Bill is one row of the dataset snapshot a pass operates on. Status is
// mutated only through engine updates; LatestActionText is read-only here.
type Bill struct {
	ID               string
	Status           status.Status
	LatestActionText string
}

// #endregion

// #region outputs

// StatusUpdate is a row update keyed by bill id.
type StatusUpdate struct {
	BillID string
	Status status.Status
}

// HistoryEntry is one append-only audit row. ChangedAt is the pass time,
// not the legislative event time; the source text carries no reliable
// timestamp.
type HistoryEntry struct {
	BillID     string
	Status     status.Status
	ChangedAt  time.Time
	ActionText string
}

// #endregion

// #region decision

// Decision tags the outcome of evaluating one bill.
type Decision string

const (
	DecisionUpdated      Decision = "updated"
	DecisionUnchanged    Decision = "unchanged"
	DecisionRejected     Decision = "rejected"
	DecisionUndetermined Decision = "undetermined"
	DecisionMalformed    Decision = "malformed"
)

// #endregion

// #region outcome

// Outcome records the evaluation of a single bill, including enough context
// for the diagnostic log (current status, attempted status, raw text).
type Outcome struct {
	BillID     string
	Decision   Decision
	Current    status.Status
	Candidate  status.Status // empty when undetermined
	Reason     string
	ActionText string
}

// #endregion

// #region counters

// Counters summarize a pass. Updated+Unchanged+Rejected+Undetermined ==
// TotalProcessed; malformed records are excluded up front and counted
// separately.
type Counters struct {
	TotalProcessed int
	Updated        int
	Unchanged      int
	Rejected       int
	Undetermined   int
	Malformed      int
}

// #endregion

// #region result

// Result is the in-memory product of one reconciliation pass. No external
// writes happen inside the engine; Updates and History are handed to the
// batch writer by the caller.
type Result struct {
	Updates  []StatusUpdate
	History  []HistoryEntry
	Outcomes []Outcome
	Counters Counters
}

// #endregion

// #region config

// Config tunes a pass. PassTime stamps history entries; zero means
// time.Now at pass start. Workers caps the classify fan-out; values < 1
// run the evaluation serially.
type Config struct {
	PassTime time.Time
	Workers  int
}

// #endregion
