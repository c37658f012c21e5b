// Package framework holds regression tests for the trial driver's universal
// invariants: properties that must hold for every run regardless of which
// property or descriptors are under test.
package framework

import (
	"testing"

	"github.com/lucaskalb/fuzzcore/descriptor"
	"github.com/lucaskalb/fuzzcore/fuzz"
	"github.com/lucaskalb/fuzzcore/gen"
	"github.com/lucaskalb/fuzzcore/quick"
)

func countingTypeInfo() descriptor.Erased {
	return descriptor.Erase(gen.Adapt(gen.IntRange(-1000, 1000), gen.Size{}))
}

func runDeterminismScenario(seed uint64) fuzz.Result {
	return fuzz.Run(fuzz.Config{
		Name:     "determinism_scenario",
		Seed:     seed,
		Trials:   300,
		TypeInfo: []descriptor.Erased{countingTypeInfo()},
		Prop1: func(a any) fuzz.Verdict {
			v := a.(int)
			if v*v <= 50000 {
				return fuzz.VerdictOK
			}
			return fuzz.VerdictFail
		},
	})
}

// TestDeterminism_SameSeedProducesIdenticalResults covers invariant 1: two
// runs with the same (seed, trials, descriptors, property) and no hooks or
// isolation produce identical per-run counters and the identical minimal
// counterexample.
func TestDeterminism_SameSeedProducesIdenticalResults(t *testing.T) {
	first := runDeterminismScenario(424242)
	second := runDeterminismScenario(424242)

	if first.Outcome != second.Outcome {
		t.Fatalf("Outcome = %v, want %v", second.Outcome, first.Outcome)
	}
	if first.Pass != second.Pass || first.Fail != second.Fail || first.Dup != second.Dup {
		t.Fatalf("counters differ: first={pass:%d fail:%d dup:%d} second={pass:%d fail:%d dup:%d}",
			first.Pass, first.Fail, first.Dup, second.Pass, second.Fail, second.Dup)
	}
	quick.Equal(t, second.Counterexample, first.Counterexample)
	if first.ShrinkCount != second.ShrinkCount {
		t.Fatalf("ShrinkCount = %d, want %d", second.ShrinkCount, first.ShrinkCount)
	}
}
