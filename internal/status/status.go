package status

// #region status

// Status is a canonical legislative-process state for a bill.
type Status string

const (
	Introduced           Status = "introduced"
	ReferredToCommittee  Status = "referred_to_committee"
	ReportedByCommittee  Status = "reported_by_committee"
	PassedChamber        Status = "passed_chamber"
	PassedBothChambers   Status = "passed_both_chambers"
	PresentedToPresident Status = "presented_to_president"
	SignedIntoLaw        Status = "signed_into_law"
	Vetoed               Status = "vetoed"
	VetoOverridden       Status = "veto_overridden"
	Failed               Status = "failed"
)

// #endregion

// #region canonical-order

// CanonicalOrder is the forward sequence of process stages. Vetoed and
// VetoOverridden share rank with their neighbors on the veto branch;
// Failed sits outside the sequence as an abandonment terminal.
var CanonicalOrder = []Status{
	Introduced,
	ReferredToCommittee,
	ReportedByCommittee,
	PassedChamber,
	PassedBothChambers,
	PresentedToPresident,
	Vetoed,
	VetoOverridden,
	SignedIntoLaw,
}

var rank = func() map[Status]int {
	m := make(map[Status]int, len(CanonicalOrder))
	for i, s := range CanonicalOrder {
		m[s] = i
	}
	return m
}()

// Rank returns the position of s in the canonical forward sequence,
// or -1 for Failed and unknown values.
func Rank(s Status) int {
	if r, ok := rank[s]; ok {
		return r
	}
	return -1
}

// #endregion

// #region predicates

// Valid reports whether s is one of the canonical statuses.
func Valid(s Status) bool {
	return s == Failed || Rank(s) >= 0
}

// IsTerminal reports whether s has no legal outgoing transition except
// the self-loop.
func IsTerminal(s Status) bool {
	return s == SignedIntoLaw || s == Failed
}

// #endregion

// #region all

// All lists every canonical status, terminal ones last.
var All = []Status{
	Introduced,
	ReferredToCommittee,
	ReportedByCommittee,
	PassedChamber,
	PassedBothChambers,
	PresentedToPresident,
	Vetoed,
	VetoOverridden,
	SignedIntoLaw,
	Failed,
}

// #endregion
