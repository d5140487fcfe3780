package sim

import "testing"

func TestStateString_CoversAllStates(t *testing.T) {
	want := []string{
		"latent",
		"symptoms_non_infectious",
		"latent_infectious",
		"symptoms",
		"recovering",
		"dying",
		"recovered",
		"dead",
	}
	for i, name := range want {
		if got := State(i).String(); got != name {
			t.Fatalf("state %d: expected %q, got %q", i, name, got)
		}
	}
	if got := State(99).String(); got != "unknown" {
		t.Fatalf("expected unknown for out-of-range state, got %q", got)
	}
}

func TestStatePredicates(t *testing.T) {
	tests := []struct {
		state     State
		canInfect bool
		reported  bool
		terminal  bool
	}{
		{Latent, false, false, false},
		{SymptomsNonInfectious, false, true, false},
		{LatentInfectious, true, false, false},
		{Symptoms, true, true, false},
		{Recovering, false, true, false},
		{Dying, false, true, false},
		{Recovered, false, true, true},
		{Dead, false, true, true},
	}

	for _, tc := range tests {
		t.Run(tc.state.String(), func(t *testing.T) {
			if got := tc.state.CanInfect(); got != tc.canInfect {
				t.Fatalf("CanInfect: expected %v, got %v", tc.canInfect, got)
			}
			if got := tc.state.Reported(); got != tc.reported {
				t.Fatalf("Reported: expected %v, got %v", tc.reported, got)
			}
			if got := tc.state.Terminal(); got != tc.terminal {
				t.Fatalf("Terminal: expected %v, got %v", tc.terminal, got)
			}
		})
	}
}
