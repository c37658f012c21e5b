package autoshrink

import "github.com/lucaskalb/fuzzcore/bitpool"

// applyTactic mutates candidate (a clone of the pool being shrunk) in place
// according to action, drawing whatever randomness it needs (which request
// to touch, how far to shift, which mask or subtrahend to use) from
// parentDraw — the parent pool's own save_request=false entropy, per the
// bit pool's replay contract. Reports whether the candidate actually
// changed; an unchanged candidate means this tactic is a dead end for the
// current pool contents.
func applyTactic(action Action, candidate *bitpool.Pool, parentDraw Draw, env *Env) bool {
	n := candidate.RequestCount()
	if n == 0 {
		return false
	}

	switch action {
	case ActionDrop:
		return applyDrop(candidate, parentDraw, env, n)
	case ActionShift:
		idx := pickRequest(parentDraw, n)
		amount := int(parentDraw(2)%3) + 1 // 1..3
		return candidate.ShiftRequestRight(idx, amount)
	case ActionMask:
		idx := pickRequest(parentDraw, n)
		size := candidate.RequestSize(idx)
		mask := biasedClearMask(parentDraw, size)
		return candidate.MaskRequest(idx, mask)
	case ActionSwap:
		idx := pickRequest(parentDraw, n)
		if idx+1 >= n || candidate.RequestSize(idx) != candidate.RequestSize(idx+1) {
			// Retry once with a fresh pick, per spec ("a no-op on
			// unequal sizes; retry once").
			idx = pickRequest(parentDraw, n)
			if idx+1 >= n {
				return false
			}
		}
		return candidate.SwapRequests(idx, idx+1)
	case ActionSub:
		idx := pickRequest(parentDraw, n)
		v := candidate.ReadRequest(idx)
		if v == 0 {
			return false
		}
		// amount must land in [0, v]; v+1 overflows to 0 when v is the
		// maximum 64-bit value, so that case draws over the full range
		// directly instead of reducing it with %.
		var amount uint64
		if v == ^uint64(0) {
			amount = parentDraw(64)
		} else {
			amount = parentDraw(64) % (v + 1)
		}
		return candidate.SubRequest(idx, amount)
	default:
		return false
	}
}

func pickRequest(draw Draw, n int) int {
	return int(draw(32) % uint64(n))
}

// biasedClearMask builds a size-bit mask biased toward clearing bits: each
// bit is independently kept (1) with probability 1/4, cleared (0)
// otherwise, so masking tends to zero out most of a request's content
// rather than leaving it untouched.
func biasedClearMask(draw Draw, size int) uint64 {
	if size > 64 {
		size = 64
	}
	var mask uint64
	for i := 0; i < size; i++ {
		a := draw(1)
		b := draw(1)
		if a == 1 && b == 1 { // 1/4 chance to keep this bit set
			mask |= 1 << uint(i)
		}
	}
	return mask
}

func applyDrop(candidate *bitpool.Pool, parentDraw Draw, env *Env, n int) bool {
	if env.ForcedDropIndex != nil && *env.ForcedDropIndex == DoNotDrop {
		return false
	}

	idx := pickRequest(parentDraw, n)
	drawn := parentDraw(uint8(env.DropBits))
	if drawn >= env.DropThreshold {
		return false
	}

	if parentDraw(1) == 0 {
		return candidate.ZeroRequest(idx)
	}
	candidate.SpliceOutRequest(idx)
	return true
}
