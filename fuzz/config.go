// Package fuzz implements the trial driver: given a Config naming a
// property and its per-argument type descriptors, Run generates
// pseudorandom arguments, deduplicates them with a Bloom filter, calls the
// property (optionally in an isolated worker), and on failure shrinks the
// counterexample to a local minimum.
package fuzz

import (
	"log/slog"
	"os"
	"time"

	"github.com/lucaskalb/fuzzcore/descriptor"
	"github.com/lucaskalb/fuzzcore/hooks"
	"github.com/lucaskalb/fuzzcore/worker"
)

// MaxArity is the largest number of property arguments this package
// dispatches, mirroring the reference implementation's FUZZ_MAX_ARITY.
const MaxArity = 7

// Default tuning constants, named identically to their spec counterparts.
const (
	DefaultTrials      = 100
	DefaultBloomBits   = 1 << 20
	DefaultMaxTactics  = 1024
	DefaultExitTimeout = 10 * time.Millisecond
)

// ForkConfig is the optional worker-isolation configuration.
type ForkConfig struct {
	Enable      bool
	Timeout     time.Duration
	Signal      os.Signal // nil means the worker package's SIGTERM default
	ExitTimeout time.Duration
}

func (f ForkConfig) toWorkerConfig(reexecArgs []string) worker.Config {
	return worker.Config{
		Enable:      f.Enable,
		Timeout:     f.Timeout,
		Signal:      f.Signal,
		ExitTimeout: f.ExitTimeout,
		ReexecArgs:  reexecArgs,
	}
}

// Config describes one property run. One PropN field (matching the
// property's arity) and the corresponding number of TypeInfo entries must
// be set. If several PropN fields are set, the lowest-numbered one is used;
// Run returns a Result with Outcome VerdictError when none is set or when
// len(TypeInfo) differs from that arity.
type Config struct {
	// Name identifies the property for replay messages and, when
	// isolation is enabled, for the worker child's lookup via Register.
	Name string

	Prop1 func(any) Verdict
	Prop2 func(any, any) Verdict
	Prop3 func(any, any, any) Verdict
	Prop4 func(any, any, any, any) Verdict
	Prop5 func(any, any, any, any, any) Verdict
	Prop6 func(any, any, any, any, any, any) Verdict
	Prop7 func(any, any, any, any, any, any, any) Verdict

	// TypeInfo holds one erased descriptor per argument, in order.
	// Built via descriptor.Erase(typeInfo) by callers, since Config
	// cannot itself be generic over each argument's type.
	TypeInfo []descriptor.Erased

	// Seed is the run seed; 0 resolves to a time-derived value at Run
	// entry, and the resolved value is returned in Result so a failing
	// run can be replayed exactly.
	Seed uint64

	Trials int

	// BloomBits sizes the dedup filter, rounded up to a power of two; 0
	// disables deduplication.
	BloomBits int

	// MaxTactics bounds tactics tried per shrink attempt (spec's
	// MAX_TACTICS); 0 uses DefaultMaxTactics.
	MaxTactics int

	Fork  ForkConfig
	Hooks hooks.Hooks

	// ReexecArgs is forwarded to worker.Config when Fork.Enable is set.
	ReexecArgs []string

	// Logger receives structured run/shrink/fork events. nil uses
	// slog.Default().
	Logger *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) arity() int {
	switch {
	case c.Prop1 != nil:
		return 1
	case c.Prop2 != nil:
		return 2
	case c.Prop3 != nil:
		return 3
	case c.Prop4 != nil:
		return 4
	case c.Prop5 != nil:
		return 5
	case c.Prop6 != nil:
		return 6
	case c.Prop7 != nil:
		return 7
	default:
		return 0
	}
}

func (c Config) call(args []any) Verdict {
	switch len(args) {
	case 1:
		return c.Prop1(args[0])
	case 2:
		return c.Prop2(args[0], args[1])
	case 3:
		return c.Prop3(args[0], args[1], args[2])
	case 4:
		return c.Prop4(args[0], args[1], args[2], args[3])
	case 5:
		return c.Prop5(args[0], args[1], args[2], args[3], args[4])
	case 6:
		return c.Prop6(args[0], args[1], args[2], args[3], args[4], args[5])
	case 7:
		return c.Prop7(args[0], args[1], args[2], args[3], args[4], args[5], args[6])
	default:
		return VerdictError
	}
}

// Verdict is a property call's outcome, the `result_code` spec §6 names.
type Verdict int

const (
	VerdictOK Verdict = iota
	VerdictFail
	VerdictSkip
	VerdictError
)

func (v Verdict) String() string {
	switch v {
	case VerdictOK:
		return "ok"
	case VerdictFail:
		return "fail"
	case VerdictSkip:
		return "skip"
	case VerdictError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is what Run returns: the resolved seed (for replay), final
// counters, and — on FAIL — the minimal counterexample found.
type Result struct {
	Seed   uint64
	Pass   int
	Fail   int
	Skip   int
	Dup    int
	Halted bool

	// Outcome is the overall run result: OK, FAIL, or (on hook halt)
	// Skip per spec §7's "conventionally SKIP" rule.
	Outcome Verdict

	// Counterexample holds the minimal failing arguments, valid only
	// when Outcome == VerdictFail.
	Counterexample []any
	ShrinkCount    int
	FailingTrial   int
}
