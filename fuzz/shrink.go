package fuzz

import (
	"fmt"

	"github.com/lucaskalb/fuzzcore/autoshrink"
	"github.com/lucaskalb/fuzzcore/bitpool"
	"github.com/lucaskalb/fuzzcore/descriptor"
	"github.com/lucaskalb/fuzzcore/hooks"
)

// stepResult unifies autoshrink.Outcome and descriptor.ShrinkOutcome so
// shrinkLoop and attemptShrink can be written once for both shrink modes.
type stepResult int

const (
	stepOK stepResult = iota
	stepDeadEnd
	stepNoMoreTactics
	stepError
)

// shrinkLoop repeatedly sweeps every argument, attempting to shrink each in
// turn, until a full sweep makes no progress on any argument — spec's
// "while progress { for arg_i { ... } }" structure.
func (rs *runState) shrinkLoop(trialIndex int, trialSeed uint64, state []argState) (shrinkCount int, halted bool, err error) {
	for {
		progress := false

	argLoop:
		for i := range state {
			if !state[i].shrinkable() {
				continue
			}

			if rs.hooks.CallShrinkPre(hooks.ShrinkPreInfo{ArgIndex: i, ShrinkCount: shrinkCount, Env: rs.hooks.Env}) == hooks.Halt {
				return shrinkCount, true, nil
			}

			if state[i].env != nil {
				state[i].env.Model.ResetStep()
			}

		innerLoop:
			for tactic := 0; tactic < rs.maxTactics; tactic++ {
				result, improved, serr := rs.attemptShrink(trialIndex, state, i, tactic)
				if serr != nil {
					return shrinkCount, halted, serr
				}

				switch result {
				case stepNoMoreTactics:
					break innerLoop
				case stepDeadEnd:
					continue innerLoop
				case stepError:
					return shrinkCount, halted, fmt.Errorf("fuzz: shrinking argument %d failed", i)
				case stepOK:
					shrinkCount++
					progress = progress || improved
					post := rs.hooks.CallShrinkPost(hooks.ShrinkPostInfo{
						ArgIndex: i, ShrinkCount: shrinkCount, Improved: improved, Env: rs.hooks.Env,
					})
					if post == hooks.Halt {
						return shrinkCount, true, nil
					}
					if improved {
						break innerLoop
					}
				}
			}
			continue argLoop
		}

		if !progress {
			return shrinkCount, halted, nil
		}
	}
}

// attemptShrink tries exactly one tactic against argument i (autoshrink mode
// via autoshrink.Shrink, manual mode via the descriptor's Shrink callback),
// calls the property against the resulting full argument tuple, and commits
// or reverts the candidate. improved reports whether the candidate still
// reproduced the failure (and was therefore committed).
func (rs *runState) attemptShrink(trialIndex int, state []argState, i, tactic int) (result stepResult, improved bool, err error) {
	s := &state[i]

	if s.env != nil {
		return rs.attemptAutoshrink(trialIndex, state, i, tactic)
	}
	return rs.attemptManualShrink(trialIndex, state, i, tactic)
}

func (rs *runState) attemptAutoshrink(trialIndex int, state []argState, i, tactic int) (stepResult, bool, error) {
	s := &state[i]
	env := s.env

	alloc := func(candidate *bitpool.Pool) (any, error) {
		drv := &argDriver{pool: candidate, hookEnv: rs.hooks.Env}
		return s.ti.Alloc(drv)
	}

	outcome, candidateValue, candidatePool := autoshrink.Shrink(env, tactic, alloc)
	switch outcome {
	case autoshrink.NoMoreTactics:
		return stepNoMoreTactics, false, nil
	case autoshrink.DeadEnd:
		return stepDeadEnd, false, nil
	case autoshrink.Error:
		return stepError, false, nil
	}

	return rs.tryCandidate(trialIndex, state, i, candidatePool, candidateValue, func(committed bool) {
		env.Model.Update(env.LastAction(), committed, updateWeight(committed))
		if committed {
			s.pool = candidatePool
			env.Pool = candidatePool
		}
	})
}

func (rs *runState) attemptManualShrink(trialIndex int, state []argState, i, tactic int) (stepResult, bool, error) {
	s := &state[i]
	drv := &argDriver{pool: s.pool, hookEnv: rs.hooks.Env}

	outcome, candidateValue, err := s.ti.Shrink(drv, s.value, tactic)
	if err != nil {
		return stepError, false, nil
	}
	switch outcome {
	case descriptor.ShrinkNoMoreTactics:
		return stepNoMoreTactics, false, nil
	case descriptor.ShrinkDeadEnd:
		return stepDeadEnd, false, nil
	case descriptor.ShrinkError:
		return stepError, false, nil
	}

	return rs.tryCandidate(trialIndex, state, i, s.pool, candidateValue, nil)
}

// updateWeight mirrors spec's attempt_shrink adjustment: +8 on a reproducing
// (committed) candidate, -3 on one that stopped reproducing.
func updateWeight(committed bool) uint8 {
	if committed {
		return 8
	}
	return 3
}

// tryCandidate substitutes candidateValue for argument i, runs the property
// against the full tuple, and either commits (freeing the old value, calling
// onResult(true)) or reverts (freeing the candidate, calling onResult(false)).
// onResult may be nil for manual-shrink-mode arguments, which have no model
// to update.
func (rs *runState) tryCandidate(trialIndex int, state []argState, i int, candidatePool *bitpool.Pool, candidateValue any, onResult func(committed bool)) (stepResult, bool, error) {
	s := &state[i]
	old := s.value

	trialArgs := valuesOf(state)
	trialArgs[i] = candidateValue

	key := rs.hashArgsWith(state, i, candidatePool, candidateValue)
	if rs.filter.Contains(key) {
		s.ti.Free(candidateValue)
		if onResult != nil {
			onResult(false)
		}
		return stepDeadEnd, false, nil
	}
	rs.filter.Insert(key)

	verdict := rs.callProperty(trialIndex, 0, trialArgs)

	postResult := hooks.TrialPass
	switch verdict {
	case VerdictFail:
		postResult = hooks.TrialFail
	case VerdictSkip:
		postResult = hooks.TrialSkip
	case VerdictError:
		postResult = hooks.TrialError
	}
	if rs.hooks.CallShrinkTrialPost(hooks.ShrinkTrialPostInfo{ArgIndex: i, Args: trialArgs, Result: postResult, Env: rs.hooks.Env}) == hooks.Halt {
		s.ti.Free(candidateValue)
		return stepNoMoreTactics, false, nil
	}

	if verdict == VerdictError {
		s.ti.Free(candidateValue)
		return stepError, false, nil
	}

	if verdict == VerdictFail {
		s.ti.Free(old)
		s.value = candidateValue
		if onResult != nil {
			onResult(true)
		}
		return stepOK, true, nil
	}

	// OK or SKIP: the candidate no longer reproduces the failure, revert.
	s.ti.Free(candidateValue)
	if onResult != nil {
		onResult(false)
	}
	return stepOK, false, nil
}
