package framework

import (
	"testing"

	"github.com/lucaskalb/fuzzcore/descriptor"
	"github.com/lucaskalb/fuzzcore/fuzz"
)

const terminationMaxListLen = 64

// terminationListTypeInfo is a linked-list-shaped autoshrink descriptor that
// draws continuation bits before each element, up to terminationMaxListLen
// elements.
func terminationListTypeInfo() descriptor.Erased {
	return descriptor.Erase(descriptor.TypeInfo[[]byte]{
		Alloc: func(d descriptor.Driver) ([]byte, error) {
			var nodes []byte
			for len(nodes) < terminationMaxListLen {
				if d.RandomBits(3) == 0 {
					break
				}
				nodes = append(nodes, byte(d.RandomBits(8)))
			}
			return nodes, nil
		},
		Autoshrink: descriptor.AutoshrinkConfig{Enable: true},
	})
}

// TestTermination_ShrinkCountStaysWithinTacticBudget covers invariant 5: a
// single-argument run's total shrink count stays within MaxTactics times
// terminationMaxListLen (each tactic index is tried at most once per sweep
// per argument before the loop either commits and restarts the sweep or
// gives up).
func TestTermination_ShrinkCountStaysWithinTacticBudget(t *testing.T) {
	const maxTactics = 16

	res := fuzz.Run(fuzz.Config{
		Name:       "termination_bound",
		Seed:       9090,
		Trials:     100,
		MaxTactics: maxTactics,
		TypeInfo:   []descriptor.Erased{terminationListTypeInfo()},
		Prop1: func(v any) fuzz.Verdict {
			if len(v.([]byte)) < 3 {
				return fuzz.VerdictOK
			}
			return fuzz.VerdictFail
		},
	})

	if res.Outcome != fuzz.VerdictFail {
		t.Skip("scenario did not reproduce a failure this seed; termination bound is vacuously satisfied")
	}

	// A sweep can run at most maxTactics attempts per argument before
	// NoMoreTactics forces it to stop; the outer "while progress" loop
	// only continues after at least one committed shrink, and the pool
	// this descriptor allocates is small enough that it cannot sustain
	// more than terminationMaxListLen committed shrinks before it is exhausted.
	bound := maxTactics * terminationMaxListLen
	if res.ShrinkCount > bound {
		t.Fatalf("ShrinkCount = %d, want <= %d (arity 1 x MaxTactics x max list length)", res.ShrinkCount, bound)
	}
}
