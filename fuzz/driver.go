package fuzz

import (
	"github.com/lucaskalb/fuzzcore/autoshrink"
	"github.com/lucaskalb/fuzzcore/bitpool"
	"github.com/lucaskalb/fuzzcore/descriptor"
	"github.com/lucaskalb/fuzzcore/rng"
)

// argDriver implements descriptor.Driver for one argument's Alloc/Shrink
// calls. In both autoshrink and manual-shrink mode it reads (or, while
// generating, draws and records) from the argument's own bit pool; the
// trial's arguments share one PRNG stream but not a pool.
type argDriver struct {
	pool    *bitpool.Pool
	hookEnv any
}

var _ descriptor.Driver = (*argDriver)(nil)

func (d *argDriver) RandomBits(n int) uint64 {
	return d.pool.Request(n, true)
}

func (d *argDriver) RandomBitsBulk(n int, out []uint64) {
	d.pool.RequestBulk(n, true, out)
}

func (d *argDriver) HookEnv() any {
	return d.hookEnv
}

// newArgPool allocates a fresh generation-mode pool for one argument, sized
// per the descriptor's autoshrink configuration (or the package default
// when the argument is in manual-shrink mode but still wants recorded
// entropy for replay-free allocation).
func newArgPool(src *rng.Source, autoCfg descriptor.AutoshrinkConfig) *bitpool.Pool {
	bits := autoCfg.InitialPoolBits
	if bits <= 0 {
		bits = autoshrink.DefaultPoolBits
	}
	return bitpool.NewPool(src, bits, 0)
}
