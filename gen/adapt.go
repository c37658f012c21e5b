package gen

import (
	"math/rand"
	"reflect"

	"github.com/lucaskalb/fuzzcore/descriptor"
)

// Adapt bridges a math/rand-based Generator[T] into a manual-shrink-mode
// descriptor.TypeInfo[T], so the generators in this package (IntRange and
// Uint64Range) can supply an argument to the bit-pool-driven trial engine
// without being rewritten against descriptor.Driver directly.
//
// Generate's random source is seeded from one 63-bit draw off the driver,
// so the generated value is still replayable from the recorded bit pool.
// Its Shrinker, though, is not: the teacher's shrink contract is a stateful
// "propose next candidate given whether the last one still reproduced the
// failure" sequence rather than a tactic-indexed pure function, so Adapt
// captures the Shrinker returned alongside the value and drives it in
// order across successive Shrink calls. This only holds together because
// the trial driver calls Alloc once and then Shrink repeatedly for the same
// argument within a single trial before moving on — never interleaved with
// another trial's Alloc. The tactic index is not used.
func Adapt[T any](g Generator[T], sz Size) descriptor.TypeInfo[T] {
	var shrink Shrinker[T]
	var last T
	var proposed bool

	return descriptor.TypeInfo[T]{
		Alloc: func(d descriptor.Driver) (T, error) {
			seed := int64(d.RandomBits(63))
			r := rand.New(rand.NewSource(seed))
			value, s := g.Generate(r, sz)
			shrink = s
			proposed = false
			return value, nil
		},
		Shrink: func(d descriptor.Driver, v T, tactic int) (descriptor.ShrinkOutcome, T, error) {
			if shrink == nil {
				var zero T
				return descriptor.ShrinkNoMoreTactics, zero, nil
			}
			// The driver passes the argument's current value; it equals the
			// last proposed candidate exactly when that candidate reproduced
			// the failure and was committed.
			accept := proposed && reflect.DeepEqual(v, last)

			next, ok := shrink(accept)
			if !ok {
				var zero T
				return descriptor.ShrinkNoMoreTactics, zero, nil
			}
			last, proposed = next, true
			return descriptor.ShrinkOK, next, nil
		},
	}
}
