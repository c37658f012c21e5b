// Package rng provides the deterministic 64-bit pseudorandom stream used to
// drive argument generation. It implements MT19937-64 so that recorded test
// corpora (a run seed plus a trial index) replay bit-for-bit across
// platforms, per the engine's reproducibility requirement.
//
// The constants below are taken directly from Takuji Nishimura and Makoto
// Matsumoto's reference MT19937-64 implementation.
package rng

// Mersenne Twister (MT19937-64) parameters, unchanged from the reference
// implementation.
const (
	nn        = 312
	mm        = 156
	matrixA   = 0xB5026F5AA96619E9
	upperMask = 0xFFFFFFFF80000000 // most significant 33 bits
	lowerMask = 0x7FFFFFFF         // least significant 31 bits
)

// Source is a self-contained MT19937-64 generator. The zero value is not
// ready for use; construct one with New or Reset it before drawing output.
type Source struct {
	mt  [nn]uint64
	mti int // nn+1 means "uninitialized"
}

// New returns a Source seeded with seed.
func New(seed uint64) *Source {
	s := &Source{}
	s.Reset(seed)
	return s
}

// Reset reseeds the generator, discarding any prior state. Two Sources
// Reset with the same seed produce identical output streams.
func (s *Source) Reset(seed uint64) {
	s.mt[0] = seed
	for i := 1; i < nn; i++ {
		prev := s.mt[i-1] ^ (s.mt[i-1] >> 62)
		s.mt[i] = 6364136223846793005*prev + uint64(i)
	}
	s.mti = nn
}

var mag01 = [2]uint64{0, matrixA}

// Uint64 returns the next 64-bit value in the stream.
func (s *Source) Uint64() uint64 {
	if s.mti >= nn {
		if s.mti == nn+1 {
			s.Reset(5489)
		}

		var i int
		for i = 0; i < nn-mm; i++ {
			x := (s.mt[i] & upperMask) | (s.mt[i+1] & lowerMask)
			s.mt[i] = s.mt[i+mm] ^ (x >> 1) ^ mag01[x&1]
		}
		for ; i < nn-1; i++ {
			x := (s.mt[i] & upperMask) | (s.mt[i+1] & lowerMask)
			s.mt[i] = s.mt[i+(mm-nn)] ^ (x >> 1) ^ mag01[x&1]
		}
		x := (s.mt[nn-1] & upperMask) | (s.mt[0] & lowerMask)
		s.mt[nn-1] = s.mt[mm-1] ^ (x >> 1) ^ mag01[x&1]

		s.mti = 0
	}

	x := s.mt[s.mti]
	s.mti++

	x ^= (x >> 29) & 0x5555555555555555
	x ^= (x << 17) & 0x71D67FFFEDA60000
	x ^= (x << 37) & 0xFFF7EEE000000000
	x ^= x >> 43

	return x
}

// UnitFloat64 maps a 64-bit draw to the closed interval [0, 1], using the
// reference implementation's 53-bit-mantissa construction.
func UnitFloat64(x uint64) float64 {
	return float64(x>>11) * (1.0 / 9007199254740991.0)
}

// Int63 implements math/rand.Source64's 63-bit half so a *Source composes
// with the standard library's *rand.Rand for callers that want that, without
// weakening the MT19937-64 stream itself (Int63/Seed only adapt the
// interface; Uint64 remains the canonical output).
func (s *Source) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

// Seed implements math/rand.Source's Seed method.
func (s *Source) Seed(seed int64) {
	s.Reset(uint64(seed))
}

// DeriveTrialSeed computes the seed for the trial at index i, as a pure
// function of the run seed and the index. It uses a splitmix64-style
// avalanche mix (the standard technique for deriving independent
// sub-sequences from a seed/counter pair) so that trial seeds are
// well-distributed even for small, sequential trial indices.
func DeriveTrialSeed(runSeed uint64, index int) uint64 {
	z := runSeed + uint64(index+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
