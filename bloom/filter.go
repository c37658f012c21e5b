// Package bloom provides a concrete Bloom filter over byte-string keys, used
// by the trial driver to skip argument combinations it has already tried.
// The core spec treats the filter implementation as an external collaborator
// ("any standard counting/bitset filter suffices"); this package is one such
// implementation, sized in bits and addressed by two independent FNV hashes
// (standard double-hashing, avoiding a dependency on a k-hash-function
// family library that the retrieved example pack does not provide — see
// DESIGN.md).
package bloom

import (
	"hash/fnv"
	"math/bits"
)

// Filter is a fixed-size bitset Bloom filter. It is not safe for concurrent
// use; the engine never needs it to be, since at most one trial is ever in
// flight (see the core spec's concurrency model).
type Filter struct {
	bits   []uint64
	nbits  uint64
	hashes int
}

// New returns a Filter sized to hold sizeBits bits, rounded up to the next
// power of two (0 or a non-positive size disables the filter: Contains
// always reports false and Insert is a no-op, letting callers always run
// the filter through the same code path instead of special-casing "no
// dedup" at every call site).
func New(sizeBits int, numHashes int) *Filter {
	if numHashes <= 0 {
		numHashes = 2
	}
	if sizeBits <= 0 {
		return &Filter{}
	}
	n := nextPow2(uint64(sizeBits))
	return &Filter{
		bits:   make([]uint64, (n+63)/64),
		nbits:  n,
		hashes: numHashes,
	}
}

func nextPow2(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << uint(64-bits.LeadingZeros64(n-1))
}

// Enabled reports whether this filter actually dedups (a zero-sized filter
// is a deliberate no-op, per Config.BloomBits == 0 meaning "disabled").
func (f *Filter) Enabled() bool {
	return f != nil && f.nbits > 0
}

// indices returns the hashes bit positions key maps to, using the standard
// "h1 + i*h2" double-hashing construction (Kirsch/Mitzenmacher) to derive
// many probe positions from two independent FNV hashes.
func (f *Filter) indices(key []byte) []uint64 {
	h1 := fnv.New64a()
	h1.Write(key)
	a := h1.Sum64()

	h2 := fnv.New64()
	h2.Write(key)
	b := h2.Sum64()
	if b%f.nbits == 0 {
		b |= 1
	}

	out := make([]uint64, f.hashes)
	for i := 0; i < f.hashes; i++ {
		out[i] = (a + uint64(i)*b) % f.nbits
	}
	return out
}

// Contains reports whether key has (probably) been inserted before. False
// positives are possible; false negatives are not.
func (f *Filter) Contains(key []byte) bool {
	if !f.Enabled() {
		return false
	}
	for _, idx := range f.indices(key) {
		if f.bits[idx/64]&(1<<(idx%64)) == 0 {
			return false
		}
	}
	return true
}

// Insert marks key as seen.
func (f *Filter) Insert(key []byte) {
	if !f.Enabled() {
		return
	}
	for _, idx := range f.indices(key) {
		f.bits[idx/64] |= 1 << (idx % 64)
	}
}
