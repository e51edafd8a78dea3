// Package lexicon classifies free-text legislative action descriptions
// into canonical statuses via ordered phrase matching. No model call.
package lexicon

// #region imports
import (
	"strings"

	"github.com/openlegis/billtracker/go-engine/internal/status"
)

// #endregion

// #region rule

// Rule maps phrase predicates to a canonical status. Phrases are matched
// case-insensitively as substrings; Phrases alternatives are OR-combined.
// When RequireAny is non-empty, at least one of its phrases must co-occur
// with a Phrases match ("reported by" AND ("committee" | "comm.")).
type Rule struct {
	Status     status.Status
	Phrases    []string
	RequireAny []string
}

// matches reports whether lower (already lower-cased) satisfies the rule.
func (r Rule) matches(lower string) bool {
	hit := false
	for _, p := range r.Phrases {
		if strings.Contains(lower, p) {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}
	if len(r.RequireAny) == 0 {
		return true
	}
	for _, p := range r.RequireAny {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// #endregion

// #region rules

// Rules is the ordered lexicon, most-terminal first. Order is load-bearing:
// a terminal action line ("Became Public Law No: 119-1. Referred to ...")
// must classify as the terminal event, not the earlier stage it mentions.
var Rules = []Rule{
	{
		Status: status.SignedIntoLaw,
		Phrases: []string{
			"became public law",
			"public law no:",
			"signed by president",
			"signed by the president",
			"signed into law",
			"enacted",
		},
	},
	{
		Status: status.Vetoed,
		Phrases: []string{
			"vetoed by president",
			"vetoed by the president",
			"veto message received",
			"pocket veto",
		},
	},
	{
		Status: status.VetoOverridden,
		Phrases: []string{
			"veto overridden",
			"passed over veto",
			"over the veto",
			"over the president's veto",
			"override the veto",
			"overriding the veto",
		},
	},
	{
		Status: status.Failed,
		Phrases: []string{
			"motion to reconsider laid on the table",
			"failed of passage",
			"failed passage",
			"failed to pass",
			"indefinitely postponed",
			"withdrawn by sponsor",
			"laid on table",
		},
	},
	{
		Status: status.PresentedToPresident,
		Phrases: []string{
			"presented to president",
			"presented to the president",
		},
	},
	{
		Status: status.PassedBothChambers,
		Phrases: []string{
			"cleared for the white house",
			"cleared for white house",
			"passed congress",
			"passed both chambers",
		},
	},
	{
		Status: status.PassedChamber,
		Phrases: []string{
			"passed house",
			"passed senate",
			"passed the house",
			"passed the senate",
			"passed/agreed to in house",
			"passed/agreed to in senate",
			"on passage passed",
		},
	},
	{
		Status:     status.ReportedByCommittee,
		Phrases:    []string{"reported by"},
		RequireAny: []string{"committee", "comm."},
	},
	{
		Status:  status.ReportedByCommittee,
		Phrases: []string{"ordered to be reported", "committee reported"},
	},
	{
		Status:     status.ReferredToCommittee,
		Phrases:    []string{"referred to"},
		RequireAny: []string{"committee", "subcommittee", "comm."},
	},
	{
		Status: status.Introduced,
		Phrases: []string{
			"introduced in house",
			"introduced in senate",
			"introduced in the house",
			"introduced in the senate",
		},
	},
}

// #endregion

// #region classify

// Classify maps an action text to a canonical status. The second return is
// false when the text is empty or matches no rule; ambiguity is reported to
// the caller, never defaulted. Same input always yields the same output.
func Classify(actionText string) (status.Status, bool) {
	lower := strings.ToLower(strings.TrimSpace(actionText))
	if lower == "" {
		return "", false
	}
	for _, r := range Rules {
		if r.matches(lower) {
			return r.Status, true
		}
	}
	return "", false
}

// #endregion
