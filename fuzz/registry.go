package fuzz

import (
	"fmt"
	"os"
	"sync"

	"github.com/lucaskalb/fuzzcore/rng"
	"github.com/lucaskalb/fuzzcore/worker"
)

// registry maps a property name to the Config that can reproduce one of its
// trials, so a worker child (a separate process, with no access to the
// parent's closures) can look a property back up by the name carried in
// worker.ChildRequest.PropertyName.
var (
	registryMu sync.RWMutex
	registry   = map[string]Config{}
)

// Register makes cfg's property callable by name from a worker child.
// Callers that set Fork.Enable must Register their Config (typically from
// an init or TestMain) before calling Run.
func Register(name string, cfg Config) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = cfg
}

func lookup(name string) (Config, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	cfg, ok := registry[name]
	return cfg, ok
}

// RunWorker implements the worker child side of isolation: given the
// request a re-exec'd process received, it looks up the registered
// property, regenerates that trial's arguments from (RunSeed, TrialIndex),
// and calls the property exactly as the parent would have.
//
// A TestMain (or main) that supports Fork.Enable must call this when
// worker.IsChild() reports true, before running anything else:
//
//	if req, ok := worker.IsChild(); ok {
//	    worker.RunChild(req, os.Stdout, fuzz.RunWorker)
//	    os.Exit(0)
//	}
func RunWorker(req worker.ChildRequest) worker.Result {
	cfg, ok := lookup(req.PropertyName)
	if !ok {
		fmt.Fprintf(os.Stderr, "fuzz: worker child: unregistered property %q\n", req.PropertyName)
		return worker.ResultError
	}

	rs := &runState{cfg: cfg, seed: req.RunSeed, hooks: cfg.Hooks, log: cfg.logger()}
	state, err := rs.allocateArgs(rng.DeriveTrialSeed(req.RunSeed, req.TrialIndex))
	if err != nil {
		rs.log.Error("worker child argument allocation failed", "property", req.PropertyName, "trial", req.TrialIndex, "err", err)
		return worker.ResultError
	}
	defer rs.freeAll(state)

	verdict := cfg.call(valuesOf(state))
	switch verdict {
	case VerdictOK:
		return worker.ResultOK
	case VerdictSkip:
		return worker.ResultSkip
	case VerdictFail:
		return worker.ResultFail
	default:
		return worker.ResultError
	}
}
