// Package hooks defines the observation and override points the trial
// driver calls through at each phase of a run: one result-bearing callback
// per lifecycle point, plus the shared info structures those callbacks
// receive.
package hooks

// RunResult is what a hook callback returns to steer the driver: continue
// as normal, halt the whole run early, report an error, or (where the call
// site supports it) repeat the current step.
type RunResult int

const (
	Continue RunResult = iota
	Halt
	Error
	Repeat
	RepeatOnce
)

func (r RunResult) String() string {
	switch r {
	case Continue:
		return "continue"
	case Halt:
		return "halt"
	case Error:
		return "error"
	case Repeat:
		return "repeat"
	case RepeatOnce:
		return "repeat_once"
	default:
		return "unknown"
	}
}

// RunInfo is passed to RunPre/RunPost: once-per-run context.
type RunInfo struct {
	Name        string
	Seed        uint64
	TotalTrials int
	Env         any
}

// GenArgsPreInfo is passed to GenArgsPre, just before a trial's arguments
// are allocated.
type GenArgsPreInfo struct {
	TrialIndex int
	Seed       uint64
	Env        any
}

// TrialPreInfo is passed to TrialPre, just before the property function is
// invoked with freshly generated arguments. TrialPre is not called for
// shrink candidates; those are reported through ShrinkTrialPost.
type TrialPreInfo struct {
	TrialIndex int
	Args       []any
	Env        any
}

// TrialResult is the outcome of one property call, shared by TrialPostInfo
// and ShrinkTrialPostInfo.
type TrialResult int

const (
	TrialPass TrialResult = iota
	TrialFail
	TrialSkip
	TrialError
	TrialDup
)

func (r TrialResult) String() string {
	switch r {
	case TrialPass:
		return "pass"
	case TrialFail:
		return "fail"
	case TrialSkip:
		return "skip"
	case TrialError:
		return "error"
	case TrialDup:
		return "dup"
	default:
		return "unknown"
	}
}

// TrialPostInfo is passed to TrialPost, after a trial completes.
type TrialPostInfo struct {
	TrialIndex int
	Args       []any
	Result     TrialResult
	Env        any
}

// ForkPostInfo is passed to ForkPost. In isolated-worker mode the fuzz
// package calls this hook in the parent, just before it re-executes the
// worker child for a property call; it is not called inside the child. A
// ForkPost result of Error makes that property call's verdict Error.
type ForkPostInfo struct {
	TrialIndex int
	Env        any
}

// ShrinkPreInfo is passed to ShrinkPre, before an attempt to shrink a
// failing argument begins.
type ShrinkPreInfo struct {
	ArgIndex    int
	ShrinkCount int
	Env         any
}

// ShrinkPostInfo is passed to ShrinkPost, after one shrink attempt (whether
// or not it produced a smaller reproducing value).
type ShrinkPostInfo struct {
	ArgIndex    int
	ShrinkCount int
	Improved    bool
	Env         any
}

// ShrinkTrialPostInfo is passed to ShrinkTrialPost: the result of calling
// the property with a shrink candidate, as distinct from TrialPost's
// top-level trial calls.
type ShrinkTrialPostInfo struct {
	ArgIndex int
	Args     []any
	Result   TrialResult
	Env      any
}

// CounterexampleInfo is passed to Counterexample once the driver has a
// locally minimal failing input to report.
type CounterexampleInfo struct {
	Args        []any
	ShrinkCount int
	Env         any
}

// Hooks collects one optional callback per lifecycle point, plus the opaque
// Env every callback and descriptor.Driver.HookEnv() receives back
// verbatim. A nil field means "no hook installed"; the driver treats that
// the same as a callback that always returns Continue.
type Hooks struct {
	Env any

	RunPre  func(RunInfo) RunResult
	RunPost func(RunInfo) RunResult

	GenArgsPre func(GenArgsPreInfo) RunResult

	TrialPre  func(TrialPreInfo) RunResult
	TrialPost func(TrialPostInfo) RunResult

	ForkPost func(ForkPostInfo) RunResult

	ShrinkPre       func(ShrinkPreInfo) RunResult
	ShrinkPost      func(ShrinkPostInfo) RunResult
	ShrinkTrialPost func(ShrinkTrialPostInfo) RunResult

	Counterexample func(CounterexampleInfo) RunResult
}

// call* helpers apply the "nil hook means Continue" rule uniformly, so the
// driver never has to nil-check before invoking a hook.

func (h Hooks) CallRunPre(info RunInfo) RunResult {
	if h.RunPre == nil {
		return Continue
	}
	return h.RunPre(info)
}

func (h Hooks) CallRunPost(info RunInfo) RunResult {
	if h.RunPost == nil {
		return Continue
	}
	return h.RunPost(info)
}

func (h Hooks) CallGenArgsPre(info GenArgsPreInfo) RunResult {
	if h.GenArgsPre == nil {
		return Continue
	}
	return h.GenArgsPre(info)
}

func (h Hooks) CallTrialPre(info TrialPreInfo) RunResult {
	if h.TrialPre == nil {
		return Continue
	}
	return h.TrialPre(info)
}

func (h Hooks) CallTrialPost(info TrialPostInfo) RunResult {
	if h.TrialPost == nil {
		return Continue
	}
	return h.TrialPost(info)
}

func (h Hooks) CallForkPost(info ForkPostInfo) RunResult {
	if h.ForkPost == nil {
		return Continue
	}
	return h.ForkPost(info)
}

func (h Hooks) CallShrinkPre(info ShrinkPreInfo) RunResult {
	if h.ShrinkPre == nil {
		return Continue
	}
	return h.ShrinkPre(info)
}

func (h Hooks) CallShrinkPost(info ShrinkPostInfo) RunResult {
	if h.ShrinkPost == nil {
		return Continue
	}
	return h.ShrinkPost(info)
}

func (h Hooks) CallShrinkTrialPost(info ShrinkTrialPostInfo) RunResult {
	if h.ShrinkTrialPost == nil {
		return Continue
	}
	return h.ShrinkTrialPost(info)
}

func (h Hooks) CallCounterexample(info CounterexampleInfo) RunResult {
	if h.Counterexample == nil {
		return Continue
	}
	return h.Counterexample(info)
}
