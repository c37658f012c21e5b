// Package autoshrink implements the bit-pool shrinking engine: an adaptive
// model that biases among five mutation tactics (drop, shift, mask, swap,
// sub), and the orchestration that applies one tactic to a bitpool.Pool to
// produce a simplified candidate value.
package autoshrink

// Action identifies one shrink tactic. Values are a bitset (one bit each)
// so a Model can track which tactics have been tried this step with a
// single uint8, matching the reference implementation's enum
// autoshrink_action.
type Action uint8

const (
	// ActionDone is not a real tactic; Choose returns it when every
	// tactic has already been tried this step.
	ActionDone Action = 0

	ActionDrop  Action = 1 << 0
	ActionShift Action = 1 << 1
	ActionMask  Action = 1 << 2
	ActionSwap  Action = 1 << 3
	ActionSub   Action = 1 << 4
)

func (a Action) String() string {
	switch a {
	case ActionDrop:
		return "drop"
	case ActionShift:
		return "shift"
	case ActionMask:
		return "mask"
	case ActionSwap:
		return "swap"
	case ActionSub:
		return "sub"
	case ActionDone:
		return "done"
	default:
		return "unknown"
	}
}

// weightIndex maps an Action to its slot in Model.weights.
func weightIndex(a Action) int {
	switch a {
	case ActionDrop:
		return 0
	case ActionShift:
		return 1
	case ActionMask:
		return 2
	case ActionSwap:
		return 3
	case ActionSub:
		return 4
	default:
		panic("autoshrink: weightIndex of non-tactic action")
	}
}

var allActions = [5]Action{ActionDrop, ActionShift, ActionMask, ActionSwap, ActionSub}

// Saturation bounds for tactic weights, and the drop tactic's tighter
// sub-range, taken from the reference implementation.
const (
	ModelMin = 8
	ModelMax = 128

	DropsMin = 16
	DropsMax = 160
)

// Probabilities (expressed as "matches one value drawn from a byte") for
// the model's two escape hatches: a uniform pick among the four
// bit-selectable tactics, and a uniform pick between drop and shift.
const (
	fourEvenly = 0x40
	twoEvenly  = 0x80
)

// Model holds the five tactic weights and the per-step bookkeeping that
// Choose and Update consult. The zero value is not ready for use; call
// NewModel.
type Model struct {
	weights [5]uint8

	curTried Action // bitset: tactics already tried this shrink step
	curSet   Action // bitset: tactics that have ever produced a successful shrink

	nextAction *Action // test hook: force the next Choose result
}

// NewModel returns a Model with every tactic weighted at the midpoint of
// its range.
func NewModel() *Model {
	m := &Model{}
	mid := uint8((ModelMin + ModelMax) / 2)
	for i := range m.weights {
		m.weights[i] = mid
	}
	return m
}

// ResetStep clears the per-step "tried" bitset, called once at the start of
// shrinking a fresh argument (not between individual tactic attempts within
// the same step).
func (m *Model) ResetStep() {
	m.curTried = 0
}

// SetNextAction forces the next Choose call to return a, bypassing the
// weighted sampling. This exists purely for deterministic tests.
func (m *Model) SetNextAction(a Action) {
	m.nextAction = &a
}

// Draw is the entropy source Choose needs: it must return a value with the
// given number of low bits meaningfully random. In production this is
// always bitpool.Pool.Request(bits, false) on the *parent* (unmutated)
// pool, so that the model's own tactic choices become part of the
// replayable recording, per the bit pool's contract.
type Draw func(bits uint8) uint64

// Choose selects the next tactic to try, skipping any tactic already in
// curTried. Returns ActionDone when every tactic has been tried this step.
func (m *Model) Choose(draw Draw) Action {
	if m.nextAction != nil {
		a := *m.nextAction
		m.nextAction = nil
		return a
	}

	if b := draw(8); b == fourEvenly {
		bits := draw(2)
		return Action(1 << bits)
	} else if b == twoEvenly {
		if draw(1) == 0 {
			return ActionDrop
		}
		return ActionShift
	}

	total := 0
	for _, a := range allActions {
		if m.curTried&a != 0 {
			continue
		}
		total += int(m.weights[weightIndex(a)])
	}
	if total == 0 {
		return ActionDone
	}

	pick := int(draw(32) % uint64(total))
	acc := 0
	for _, a := range allActions {
		if m.curTried&a != 0 {
			continue
		}
		acc += int(m.weights[weightIndex(a)])
		if pick < acc {
			return a
		}
	}
	return ActionDone
}

// MarkTried records that action was attempted this step, so Choose will not
// offer it again until ResetStep.
func (m *Model) MarkTried(a Action) {
	m.curTried |= a
}

// Update adjusts the weight of the tactic that produced (or failed to
// produce) a shrink. reduced reports whether the candidate it proposed
// still reproduced the failure (a successful shrink); adjustment is added
// on success and subtracted on failure, saturating at [ModelMin, ModelMax]
// (and additionally [DropsMin, DropsMax] for ActionDrop).
func (m *Model) Update(a Action, reduced bool, adjustment uint8) {
	idx := weightIndex(a)
	w := int(m.weights[idx])
	if reduced {
		w += int(adjustment)
		m.curSet |= a
	} else {
		w -= int(adjustment)
	}

	lo, hi := ModelMin, ModelMax
	if a == ActionDrop {
		lo, hi = DropsMin, DropsMax
	}
	if w < lo {
		w = lo
	}
	if w > hi {
		w = hi
	}
	m.weights[idx] = uint8(w)
}

// Weight returns the current weight for a, for tests and diagnostics.
func (m *Model) Weight(a Action) uint8 {
	return m.weights[weightIndex(a)]
}
