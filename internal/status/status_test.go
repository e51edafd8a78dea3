package status

import "testing"

func TestRank(t *testing.T) {
	tests := []struct {
		name string
		s    Status
		want int
	}{
		{"introduced-first", Introduced, 0},
		{"referred", ReferredToCommittee, 1},
		{"reported", ReportedByCommittee, 2},
		{"passed-chamber", PassedChamber, 3},
		{"passed-both", PassedBothChambers, 4},
		{"presented", PresentedToPresident, 5},
		{"vetoed", Vetoed, 6},
		{"overridden", VetoOverridden, 7},
		{"signed-last", SignedIntoLaw, 8},
		{"failed-outside", Failed, -1},
		{"unknown", Status("bogus"), -1},
		{"empty", Status(""), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rank(tt.s); got != tt.want {
				t.Errorf("Rank(%q): got %d, want %d", tt.s, got, tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	for _, s := range All {
		if !Valid(s) {
			t.Errorf("Valid(%q): got false, want true", s)
		}
	}
	for _, s := range []Status{"", "signed", "SIGNED_INTO_LAW", "pending"} {
		if Valid(s) {
			t.Errorf("Valid(%q): got true, want false", s)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	wantTerminal := map[Status]bool{SignedIntoLaw: true, Failed: true}
	for _, s := range All {
		if got := IsTerminal(s); got != wantTerminal[s] {
			t.Errorf("IsTerminal(%q): got %v, want %v", s, got, wantTerminal[s])
		}
	}
}

func TestAllCoversCanonicalOrder(t *testing.T) {
	seen := make(map[Status]bool, len(All))
	for _, s := range All {
		if seen[s] {
			t.Errorf("duplicate status %q in All", s)
		}
		seen[s] = true
	}
	for _, s := range CanonicalOrder {
		if !seen[s] {
			t.Errorf("canonical status %q missing from All", s)
		}
	}
	if len(All) != len(CanonicalOrder)+1 {
		t.Errorf("All has %d statuses, want %d (canonical order plus failed)",
			len(All), len(CanonicalOrder)+1)
	}
}
