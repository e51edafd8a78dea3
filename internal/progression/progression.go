// Package progression encodes the partially ordered set of legal status
// transitions. The closure table is built once at init; IsLegal is a pure
// lookup with no scattered conditionals.
package progression

// #region imports
import (
	"github.com/openlegis/billtracker/go-engine/internal/status"
)

// #endregion

// #region forward-edges

// forwardEdges is the canonical single-step sequence:
// introduced → referred → reported → passed chamber → passed both →
// presented → {signed | vetoed} → veto_overridden → signed.
var forwardEdges = map[status.Status][]status.Status{
	status.Introduced:           {status.ReferredToCommittee},
	status.ReferredToCommittee:  {status.ReportedByCommittee},
	status.ReportedByCommittee:  {status.PassedChamber},
	status.PassedChamber:        {status.PassedBothChambers},
	status.PassedBothChambers:   {status.PresentedToPresident},
	status.PresentedToPresident: {status.SignedIntoLaw, status.Vetoed},
	status.Vetoed:               {status.VetoOverridden},
	status.VetoOverridden:       {status.SignedIntoLaw},
}

// #endregion

// #region closure

// reachable holds the transitive closure of forwardEdges: reachable[a][b]
// means b lies forward of a, possibly skipping intermediate stages.
var reachable = buildClosure()

func buildClosure() map[status.Status]map[status.Status]bool {
	closure := make(map[status.Status]map[status.Status]bool, len(status.All))
	for _, s := range status.All {
		closure[s] = map[status.Status]bool{}
	}

	// DFS from each node over the fixed edge table.
	var walk func(origin, from status.Status)
	walk = func(origin, from status.Status) {
		for _, next := range forwardEdges[from] {
			if closure[origin][next] {
				continue
			}
			closure[origin][next] = true
			walk(origin, next)
		}
	}
	for _, s := range status.All {
		walk(s, s)
	}
	return closure
}

// #endregion

// #region is-legal

// IsLegal reports whether moving a bill from current to candidate is a
// legitimate single classification step. Rules in priority order:
//
//  1. current empty/unknown, or equal to candidate → legal
//  2. candidate == failed → legal from any non-terminal state
//  3. current == introduced → legal (wildcard origin: recorded history is
//     not reliable enough to forbid jumps from the initial state)
//  4. candidate forward-reachable from current → legal
//  5. otherwise illegal
func IsLegal(current, candidate status.Status) bool {
	if current == "" || !status.Valid(current) || current == candidate {
		return true
	}
	if candidate == status.Failed {
		return !status.IsTerminal(current)
	}
	if current == status.Introduced {
		return true
	}
	return reachable[current][candidate]
}

// #endregion
