// Package fixture runs the pure reconciliation engine against recorded
// bill datasets and compares per-bill decisions with expectations.
// Operates entirely in memory; no store required.
package fixture

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/openlegis/billtracker/go-engine/internal/reconcile"
	"github.com/openlegis/billtracker/go-engine/internal/status"
)

// #endregion

// #region fixture-types

// Fixture is the top-level JSON structure for a reconciliation fixture.
type Fixture struct {
	Description string            `json:"description"`
	Bills       []FixtureBill     `json:"bills"`
	Expected    []FixtureExpected `json:"expected"`
}

// FixtureBill is the JSON-serializable snapshot row.
type FixtureBill struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	LatestActionText string `json:"latest_action_text"`
}

// FixtureExpected is the reference decision for one bill, in dataset order.
type FixtureExpected struct {
	BillID    string `json:"bill_id"`
	Decision  string `json:"decision"`
	NewStatus string `json:"new_status,omitempty"`
}

// ToBill converts the JSON shape to an engine bill.
func (f FixtureBill) ToBill() reconcile.Bill {
	return reconcile.Bill{
		ID:               f.ID,
		Status:           status.Status(f.Status),
		LatestActionText: f.LatestActionText,
	}
}

// #endregion fixture-types

// #region load

// LoadFixture reads and parses a fixture JSON file.
func LoadFixture(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(raw, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if len(f.Bills) == 0 {
		return Fixture{}, fmt.Errorf("fixture has no bills")
	}
	return f, nil
}

// #endregion load

// #region harness

// ComparisonRow pairs the expected and replayed decision for one bill.
type ComparisonRow struct {
	BillID    string
	Expected  string
	Got       string
	NewStatus status.Status
	Match     bool
}

// Run executes the pure engine over the fixture dataset and compares each
// outcome with the fixture's expectations, in dataset order.
func Run(f Fixture) ([]ComparisonRow, reconcile.Counters, error) {
	bills := make([]reconcile.Bill, len(f.Bills))
	for i, fb := range f.Bills {
		bills[i] = fb.ToBill()
	}

	res, err := reconcile.Reconcile(context.Background(), bills, reconcile.Config{
		PassTime: time.Unix(0, 0).UTC(), // fixed for reproducible output
	})
	if err != nil {
		return nil, reconcile.Counters{}, err
	}

	rows := make([]ComparisonRow, 0, len(res.Outcomes))
	for i, out := range res.Outcomes {
		row := ComparisonRow{
			BillID:    out.BillID,
			Got:       string(out.Decision),
			NewStatus: out.Candidate,
		}
		if i < len(f.Expected) {
			exp := f.Expected[i]
			row.Expected = exp.Decision
			row.Match = exp.Decision == string(out.Decision)
			if row.Match && exp.NewStatus != "" {
				row.Match = exp.NewStatus == string(out.Candidate)
			}
		}
		rows = append(rows, row)
	}

	return rows, res.Counters, nil
}

// #endregion harness
