package gen

import "math/rand"

// Uint64Range generates uint64 uniformly in the range [min, max] (inclusive).
// The full span (min == 0, max == math.MaxUint64) is handled by
// randUint64n, since max-min+1 would otherwise wrap to 0.
func Uint64Range(min, max uint64) Generator[uint64] {
	if min > max {
		min, max = max, min
	}
	return From(func(r *rand.Rand, _ Size) (uint64, Shrinker[uint64]) {
		if r == nil {
			r = rand.New(rand.NewSource(rand.Int63()))
		}
		v := min + randUint64n(r, max-min)
		return uint64ShrinkInit(v, min, max)
	})
}

// randUint64n returns a uniform value in [0, span] inclusive, where span may
// be as large as ^uint64(0) (the full uint64 range). span+1 would overflow
// to 0 in that case, so it is handled directly instead of going through the
// rejection-sampling path below.
func randUint64n(r *rand.Rand, span uint64) uint64 {
	if span == 0 {
		return 0
	}
	if span == ^uint64(0) {
		return r.Uint64()
	}
	n := span + 1
	limit := ^uint64(0) - (^uint64(0) % n) // rejection threshold removing modulo bias
	for {
		v := r.Uint64()
		if v < limit {
			return v % n
		}
	}
}

// ---------------- implementation / shrinking ----------------

// uint64ShrinkInit initializes the shrinking process for a uint64 value.
// It returns the initial value and a shrinker function that can generate
// progressively smaller candidates.
func uint64ShrinkInit(start, min, max uint64) (uint64, Shrinker[uint64]) {
	cur, last := clampU64(start, min, max), clampU64(start, min, max)

	queue := make([]uint64, 0, 16)
	seen := map[uint64]struct{}{cur: {}}

	push := func(x uint64) {
		if x < min || x > max {
			return
		}
		if _, ok := seen[x]; ok {
			return
		}
		seen[x] = struct{}{}
		queue = append(queue, x)
	}

	grow := func(base uint64) {
		queue = queue[:0]
		// (1) natural target for uint64 is 0
		if base != 0 {
			push(0)
		}
		// (2) bisections towards 0
		if base != 0 {
			next := base / 2
			if next != base {
				push(next)
			}
			series := next
			for i := 0; i < 8 && series > 0; i++ {
				series /= 2
				push(series)
			}
		}
		// (3) unit step
		if base > 0 {
			push(base - 1)
		}
		// (4) bounds
		if base != min {
			push(min)
		}
		if base != max {
			push(max)
		}
	}
	grow(cur)

	pop := func() (uint64, bool) {
		if len(queue) == 0 {
			return 0, false
		}
		if shrinkStrategy == "dfs" {
			v := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			return v, true
		}
		v := queue[0]
		queue = queue[1:]
		return v, true
	}

	return cur, func(accept bool) (uint64, bool) {
		if accept && last != cur {
			cur = last
			grow(cur)
		}
		nxt, ok := pop()
		if !ok {
			return 0, false
		}
		last = nxt
		return nxt, true
	}
}

// clampU64 constrains a uint64 value to be within the given bounds.
func clampU64(x, min, max uint64) uint64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
