package rng

import "testing"

// The reference implementation falls back to the default seed 5489 the
// first time Uint64 is called on an uninitialized generator (mti == nn+1).
// Exercise that path and confirm it matches an explicit Reset(5489).
func TestUint64_DefaultSeedFallback(t *testing.T) {
	uninitialized := &Source{mti: nn + 1}
	explicit := New(5489)

	for i := 0; i < 1000; i++ {
		a, b := uninitialized.Uint64(), explicit.Uint64()
		if a != b {
			t.Fatalf("draw %d: default-seed fallback = %d, want %d", i, a, b)
		}
	}
}

func TestUint64_NotConstant(t *testing.T) {
	s := New(1)
	first := s.Uint64()
	allSame := true
	for i := 0; i < 64; i++ {
		if s.Uint64() != first {
			allSame = false
			break
		}
	}
	if allSame {
		t.Fatalf("generator produced the same value 65 times in a row")
	}
}

func TestReset_Deterministic(t *testing.T) {
	a := New(42)
	b := New(1)
	b.Reset(42)

	for i := 0; i < 1000; i++ {
		av, bv := a.Uint64(), b.Uint64()
		if av != bv {
			t.Fatalf("draw %d diverged: %d != %d", i, av, bv)
		}
	}
}

func TestUnitFloat64_Range(t *testing.T) {
	s := New(7)
	for i := 0; i < 10000; i++ {
		f := UnitFloat64(s.Uint64())
		if f < 0 || f > 1 {
			t.Fatalf("UnitFloat64 out of range: %v", f)
		}
	}
}

func TestDeriveTrialSeed_DeterministicAndDistinct(t *testing.T) {
	seen := map[uint64]int{}
	for i := 0; i < 256; i++ {
		s1 := DeriveTrialSeed(99, i)
		s2 := DeriveTrialSeed(99, i)
		if s1 != s2 {
			t.Fatalf("DeriveTrialSeed(99, %d) not deterministic: %d != %d", i, s1, s2)
		}
		seen[s1]++
	}
	for seed, count := range seen {
		if count > 1 {
			t.Fatalf("trial seed %d repeated %d times across 256 indices", seed, count)
		}
	}
}

func TestDeriveTrialSeed_VariesWithRunSeed(t *testing.T) {
	if DeriveTrialSeed(1, 0) == DeriveTrialSeed(2, 0) {
		t.Fatalf("trial seed should depend on run seed")
	}
}

func TestInt63_NonNegative(t *testing.T) {
	s := New(123)
	for i := 0; i < 1000; i++ {
		if s.Int63() < 0 {
			t.Fatalf("Int63 produced a negative value")
		}
	}
}

func TestSeed_MatchesReset(t *testing.T) {
	a := New(0)
	a.Seed(555)
	b := New(555)
	if a.Uint64() != b.Uint64() {
		t.Fatalf("Seed did not match Reset with the same value")
	}
}
