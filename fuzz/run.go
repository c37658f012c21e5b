package fuzz

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"github.com/lucaskalb/fuzzcore/autoshrink"
	"github.com/lucaskalb/fuzzcore/bitpool"
	"github.com/lucaskalb/fuzzcore/bloom"
	"github.com/lucaskalb/fuzzcore/descriptor"
	"github.com/lucaskalb/fuzzcore/hooks"
	"github.com/lucaskalb/fuzzcore/rng"
	"github.com/lucaskalb/fuzzcore/worker"
)

// Driver is the descriptor.Driver passed to Alloc/Shrink callbacks.
type Driver = descriptor.Driver

// argState is one argument's current value and the bit pool that produced
// it (every argument is backed by a pool, whether or not it is in
// autoshrink mode, since that is this engine's only entropy source).
type argState struct {
	value any
	pool  *bitpool.Pool
	env   *autoshrink.Env // non-nil only in autoshrink mode
	ti    descriptor.Erased
}

func (a *argState) shrinkable() bool {
	return a.env != nil || a.ti.HasManualShrink()
}

// runState carries everything Run's trial and shrink loops share.
type runState struct {
	cfg        Config
	seed       uint64
	trials     int
	maxTactics int
	filter     *bloom.Filter
	hooks      hooks.Hooks
	counters   Result
	log        *slog.Logger
}

// Run executes cfg's property for cfg.Trials pseudorandom trials,
// deduplicating by Bloom filter and shrinking the first failure found.
func Run(cfg Config) Result {
	arity := cfg.arity()
	if arity == 0 || len(cfg.TypeInfo) != arity {
		return Result{Outcome: VerdictError}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	trials := cfg.Trials
	if trials <= 0 {
		trials = DefaultTrials
	}
	maxTactics := cfg.MaxTactics
	if maxTactics <= 0 {
		maxTactics = DefaultMaxTactics
	}

	rs := &runState{
		cfg:        cfg,
		seed:       seed,
		trials:     trials,
		maxTactics: maxTactics,
		filter:     bloom.New(cfg.BloomBits, 0),
		hooks:      cfg.Hooks,
		counters:   Result{Seed: seed},
		log:        cfg.logger(),
	}

	rs.log.Info("fuzz run starting", "name", cfg.Name, "seed", seed, "trials", trials)

	if rs.hooks.CallRunPre(hooks.RunInfo{Name: cfg.Name, Seed: seed, TotalTrials: trials, Env: rs.hooks.Env}) == hooks.Halt {
		rs.counters.Outcome = VerdictSkip
		rs.counters.Halted = true
		rs.log.Info("fuzz run halted before first trial", "name", cfg.Name, "seed", seed)
		return rs.counters
	}

	rs.counters.Outcome = VerdictOK
	for trialIndex := 0; trialIndex < trials; trialIndex++ {
		if !rs.runOneTrial(trialIndex) {
			break
		}
	}

	if rs.hooks.CallRunPost(hooks.RunInfo{Name: cfg.Name, Seed: seed, TotalTrials: trials, Env: rs.hooks.Env}) == hooks.Halt {
		rs.counters.Halted = true
	}
	if rs.counters.Halted && rs.counters.Outcome == VerdictOK {
		rs.counters.Outcome = VerdictSkip
	}

	rs.log.Info("fuzz run finished", "name", cfg.Name, "outcome", rs.counters.Outcome.String(),
		"pass", rs.counters.Pass, "fail", rs.counters.Fail, "skip", rs.counters.Skip, "dup", rs.counters.Dup)
	return rs.counters
}

// runOneTrial runs trial trialIndex to completion (including any shrink
// loop on failure) and reports whether the run should continue.
func (rs *runState) runOneTrial(trialIndex int) bool {
	trialSeed := rng.DeriveTrialSeed(rs.seed, trialIndex)

	if rs.hooks.CallGenArgsPre(hooks.GenArgsPreInfo{TrialIndex: trialIndex, Seed: trialSeed, Env: rs.hooks.Env}) == hooks.Halt {
		rs.counters.Halted = true
		return false
	}

	state, err := rs.allocateArgs(trialSeed)
	if err != nil {
		rs.log.Error("argument allocation failed", "trial", trialIndex, "err", err)
		rs.counters.Outcome = VerdictError
		return false
	}
	defer rs.freeAll(state)

	key := rs.hashArgs(state)
	if rs.filter.Contains(key) {
		rs.counters.Dup++
		return true
	}
	rs.filter.Insert(key)

	values := valuesOf(state)
	if rs.hooks.CallTrialPre(hooks.TrialPreInfo{TrialIndex: trialIndex, Args: values, Env: rs.hooks.Env}) == hooks.Halt {
		rs.counters.Halted = true
		return false
	}

	verdict := rs.callProperty(trialIndex, trialSeed, values)

	postResult := hooks.TrialPass
	switch verdict {
	case VerdictFail:
		postResult = hooks.TrialFail
	case VerdictSkip:
		postResult = hooks.TrialSkip
	case VerdictError:
		postResult = hooks.TrialError
	}
	if rs.hooks.CallTrialPost(hooks.TrialPostInfo{TrialIndex: trialIndex, Args: values, Result: postResult, Env: rs.hooks.Env}) == hooks.Halt {
		rs.counters.Halted = true
		return false
	}

	switch verdict {
	case VerdictOK:
		rs.counters.Pass++
	case VerdictSkip:
		rs.counters.Skip++
	case VerdictError:
		rs.counters.Outcome = VerdictError
		return false
	case VerdictFail:
		rs.counters.Fail++
		rs.log.Info("trial failed, shrinking", "trial", trialIndex, "args", values)
		shrinkCount, halted, serr := rs.shrinkLoop(trialIndex, trialSeed, state)
		rs.counters.ShrinkCount = shrinkCount
		rs.counters.Outcome = VerdictFail
		rs.counters.FailingTrial = trialIndex
		rs.counters.Counterexample = valuesOf(state)
		rs.hooks.CallCounterexample(hooks.CounterexampleInfo{
			Args:        rs.counters.Counterexample,
			ShrinkCount: shrinkCount,
			Env:         rs.hooks.Env,
		})
		if halted {
			rs.counters.Halted = true
		}
		if serr != nil {
			rs.log.Error("shrink loop aborted", "trial", trialIndex, "err", serr)
			rs.counters.Outcome = VerdictError
		}
		rs.log.Info("counterexample found", "trial", trialIndex, "shrinks", shrinkCount,
			"counterexample", rs.counters.Counterexample)
		return false
	}
	return true
}

// allocateArgs materializes one value per argument in index order, sharing
// a single PRNG stream across a fresh pool per argument.
func (rs *runState) allocateArgs(trialSeed uint64) ([]argState, error) {
	src := rng.New(trialSeed)
	state := make([]argState, len(rs.cfg.TypeInfo))
	for i, ti := range rs.cfg.TypeInfo {
		autoCfg := ti.Autoshrink()
		pool := newArgPool(src, autoCfg)
		drv := &argDriver{pool: pool, hookEnv: rs.hooks.Env}

		val, err := ti.Alloc(drv)
		if err != nil {
			return nil, fmt.Errorf("fuzz: alloc argument %d: %w", i, err)
		}

		var env *autoshrink.Env
		if ti.AutoshrinkMode() {
			env = autoshrink.NewEnv(i, pool, autoshrink.Config{
				Enable:    true,
				PrintMode: autoshrink.PrintMode(autoCfg.PrintMode),
			})
		}
		state[i] = argState{value: val, pool: pool, env: env, ti: ti}
	}
	return state, nil
}

func (rs *runState) freeAll(state []argState) {
	for _, s := range state {
		s.ti.Free(s.value)
	}
}

func valuesOf(state []argState) []any {
	out := make([]any, len(state))
	for i, s := range state {
		out[i] = s.value
	}
	return out
}

// hashArgs builds the Bloom filter key: each argument's hash (autoshrink
// mode hashes the bit pool; manual mode uses the descriptor's Hash, or 0
// when it declares none), concatenated as fixed-width big-endian words.
func (rs *runState) hashArgs(state []argState) []byte {
	return rs.hashArgsWith(state, -1, nil, nil)
}

// hashArgsWith is hashArgs, but for argument overrideIdx (when >= 0) it
// hashes overridePool/overrideValue instead of the argument's current
// state — used while probing a shrink candidate that has not been
// committed into state yet.
func (rs *runState) hashArgsWith(state []argState, overrideIdx int, overridePool *bitpool.Pool, overrideValue any) []byte {
	buf := make([]byte, 8*len(state))
	for i, s := range state {
		var h uint64
		if i == overrideIdx {
			h = argHash(s.env != nil, overridePool, s.ti, overrideValue)
		} else {
			h = argHash(s.env != nil, s.pool, s.ti, s.value)
		}
		binary.BigEndian.PutUint64(buf[i*8:], h)
	}
	return buf
}

func argHash(autoshrinkMode bool, pool *bitpool.Pool, ti descriptor.Erased, value any) uint64 {
	if autoshrinkMode {
		return pool.Hash()
	}
	if h, ok := ti.Hash(value); ok {
		return h
	}
	return 0
}

// callProperty invokes the property directly, or — when worker isolation
// is enabled — re-executes this binary to run it in a fresh process.
func (rs *runState) callProperty(trialIndex int, trialSeed uint64, values []any) Verdict {
	if !rs.cfg.Fork.Enable {
		return rs.cfg.call(values)
	}

	if rs.hooks.CallForkPost(hooks.ForkPostInfo{TrialIndex: trialIndex, Env: rs.hooks.Env}) == hooks.Error {
		return VerdictError
	}

	wcfg := rs.cfg.Fork.toWorkerConfig(rs.cfg.ReexecArgs)
	res, err := worker.Call(wcfg, worker.ChildRequest{
		PropertyName: rs.cfg.Name,
		TrialIndex:   trialIndex,
		RunSeed:      rs.seed,
	})
	if err != nil {
		rs.log.Error("worker call failed", "trial", trialIndex, "err", fmt.Errorf("fuzz: worker call: %w", err))
		return VerdictError
	}
	switch res {
	case worker.ResultOK:
		return VerdictOK
	case worker.ResultSkip:
		return VerdictSkip
	case worker.ResultFail:
		return VerdictFail
	default:
		return VerdictError
	}
}
