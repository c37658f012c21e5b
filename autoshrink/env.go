package autoshrink

import "github.com/lucaskalb/fuzzcore/bitpool"

// PrintMode controls how an autoshrink-mode argument is printed, per the
// type descriptor's AutoshrinkConfig.
type PrintMode int

const (
	PrintNever PrintMode = iota
	PrintUser
	PrintBitPool
	PrintAll
)

// DoNotDrop is the sentinel request index meaning "never drop a request",
// used by tests that need the drop tactic to be a guaranteed no-op.
const DoNotDrop = 0xFFFFFFFF

// Default tuning values, taken from the reference implementation.
const (
	DefaultPoolBits         = bitpool.DefaultPoolBits
	DefaultMaxFailedShrinks = 100
	DefaultDropThreshold    = 0
	DefaultDropBits         = 5
)

// Config is the subset of a type descriptor's autoshrink configuration this
// engine consumes: whether autoshrinking is enabled for the argument, and
// how it should be printed. Pool sizing and tactic tuning use the package
// defaults unless a test overrides the Env fields directly.
type Config struct {
	Enable    bool
	PrintMode PrintMode
}

// Env is the per-argument autoshrink context: its bit pool, its adaptive
// model, and the tuning knobs from spec.md's "Autoshrink env" data model.
type Env struct {
	ArgIndex         int
	PrintMode        PrintMode
	DropThreshold    uint64
	DropBits         uint8
	MaxFailedShrinks int

	// LeaveTrailingZeroes disables the trailing-zero-word trim that
	// normally runs after a mutation and before materializing a
	// candidate value, accelerating convergence toward smaller
	// recordings. Tests that need an exact bit layout set this.
	LeaveTrailingZeroes bool

	// ForcedDropIndex, when non-nil and equal to DoNotDrop, disables the
	// drop tactic's request-selection entirely (a deterministic no-op),
	// mirroring the reference implementation's DO_NOT_DROP magic value.
	ForcedDropIndex *uint32

	Model *Model
	Pool  *bitpool.Pool

	// lastAction records the tactic most recently returned by Shrink, so
	// the trial driver can feed the outcome of trying that candidate back
	// into Model.Update without threading the Action through its own
	// call stack.
	lastAction Action
}

// NewEnv builds an Env for argument argIndex, wrapping pool and a freshly
// initialized Model, with package-default tuning.
func NewEnv(argIndex int, pool *bitpool.Pool, cfg Config) *Env {
	return &Env{
		ArgIndex:         argIndex,
		PrintMode:        cfg.PrintMode,
		DropThreshold:    DefaultDropThreshold,
		DropBits:         DefaultDropBits,
		MaxFailedShrinks: DefaultMaxFailedShrinks,
		Model:            NewModel(),
		Pool:             pool,
	}
}

// draw returns a Draw that pulls save_request=false entropy from the
// env's current (parent) pool, per the bit pool's contract that the
// autoshrink engine's own tactic-selection randomness is itself part of
// the replayable recording.
func (e *Env) draw() Draw {
	return func(bits uint8) uint64 {
		return e.Pool.Request(int(bits), false)
	}
}
