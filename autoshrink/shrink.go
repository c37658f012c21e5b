package autoshrink

import "github.com/lucaskalb/fuzzcore/bitpool"

// Outcome is the result of one autoshrink.Shrink call, the autoshrink
// analogue of a descriptor's manual Shrink result code.
type Outcome int

const (
	// OK means the tactic produced a materially different candidate
	// value; Shrink's candidate return values are valid.
	OK Outcome = iota
	// DeadEnd means this tactic produced no change; the caller should
	// try the next tactic index.
	DeadEnd
	// NoMoreTactics means every tactic has been exhausted (or the
	// tactic budget was reached) for this argument this step.
	NoMoreTactics
	// Error means the allocator failed while materializing the
	// candidate.
	Error
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case DeadEnd:
		return "dead_end"
	case NoMoreTactics:
		return "no_more_tactics"
	case Error:
		return "error"
	default:
		panic("autoshrink: unknown Outcome")
	}
}

// Alloc materializes a value by reading from pool (in replay mode, since
// Shrink always hands it a pool with BeginShrinking already called).
type Alloc func(pool *bitpool.Pool) (any, error)

// Shrink attempts to simplify env's current value using the tactic
// selected at step tactic (tactic only bounds the loop in the trial
// driver; the actual tactic choice comes from env.Model). Returns the
// materialized candidate value and the candidate pool on OK, so the caller
// can commit or revert them.
func Shrink(env *Env, tacticStep int, alloc Alloc) (Outcome, any, *bitpool.Pool) {
	if tacticStep >= env.MaxFailedShrinks {
		return NoMoreTactics, nil, nil
	}

	action := env.Model.Choose(env.draw())
	if action == ActionDone {
		return NoMoreTactics, nil, nil
	}
	env.Model.MarkTried(action)
	env.setLastAction(action)

	candidate := env.Pool.Clone()
	changed := applyTactic(action, candidate, env.draw(), env)
	if !changed {
		return DeadEnd, nil, nil
	}

	if !env.LeaveTrailingZeroes {
		candidate.TrimTrailingZeros()
	}
	candidate.BeginShrinking()

	value, err := alloc(candidate)
	if err != nil {
		return Error, nil, nil
	}
	return OK, value, candidate
}

// LastAction exposes which tactic the most recent Shrink call selected, so
// the trial driver can feed the right outcome back into Model.Update
// (spec's attempt_shrink commits "+8" on FAIL, "-3" on PASS/SKIP, against
// the mutation just taken).
func (e *Env) LastAction() Action {
	return e.lastAction
}

func (e *Env) setLastAction(a Action) {
	e.lastAction = a
}
