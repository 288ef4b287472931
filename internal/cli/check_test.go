package cli

import (
	"testing"

	"github.com/rs/zerolog"
)

// TestRunCheckPasses runs the consistency checks for a spread of seeds and
// expects no violations.
func TestRunCheckPasses(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		for run := 0; run < 4; run++ {
			res := runCheck(run, seed, zerolog.Nop())
			if len(res.Violations) != 0 {
				t.Errorf("seed %d run %d: %d violations: %v", seed, run, len(res.Violations), res.Violations)
			}
			if res.Contracts != 3 {
				t.Errorf("seed %d run %d: contracts = %d, want 3", seed, run, res.Contracts)
			}
			if res.Quotes == 0 || res.Orders == 0 || res.Fills == 0 || res.Trades == 0 || res.RoundTrips == 0 {
				t.Errorf("seed %d run %d: empty counters: %+v", seed, run, res)
			}
		}
	}
}

// TestRunCheckDeterministic re-runs the same seed and expects identical
// counters.
func TestRunCheckDeterministic(t *testing.T) {
	a := runCheck(3, 42, zerolog.Nop())
	b := runCheck(3, 42, zerolog.Nop())

	a.ElapsedMS, b.ElapsedMS = 0, 0
	if a.Orders != b.Orders || a.Fills != b.Fills || a.Trades != b.Trades ||
		a.RoundTrips != b.RoundTrips || a.NetPnL != b.NetPnL {
		t.Errorf("same seed diverged:\n  %+v\n  %+v", a, b)
	}
}
