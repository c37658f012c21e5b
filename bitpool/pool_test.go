package bitpool

import (
	"testing"

	"github.com/lucaskalb/fuzzcore/rng"
)

func TestRequest_RecordsAndReplaysExactly(t *testing.T) {
	src := rng.New(1)
	p := NewPool(src, 0, 0)

	var drawn []uint64
	for i := 0; i < 20; i++ {
		drawn = append(drawn, p.Request(7, true))
	}
	if p.BitsFilled() != 20*7 {
		t.Fatalf("bitsFilled = %d, want %d", p.BitsFilled(), 20*7)
	}
	if len(p.Requests()) != 20 {
		t.Fatalf("len(requests) = %d, want 20", len(p.Requests()))
	}

	p.BeginShrinking()
	for i, want := range drawn {
		got := p.Request(7, true)
		if got != want {
			t.Fatalf("replay %d = %d, want %d", i, got, want)
		}
	}
}

func TestRequest_SumOfRequestsEqualsBitsFilled(t *testing.T) {
	src := rng.New(2)
	p := NewPool(src, 0, 0)
	sizes := []int{1, 3, 8, 13, 64, 5}
	for _, n := range sizes {
		p.Request(n, true)
	}
	sum := 0
	for _, r := range p.Requests() {
		sum += int(r)
	}
	if sum != p.BitsFilled() {
		t.Fatalf("sum(requests) = %d, bitsFilled = %d", sum, p.BitsFilled())
	}
}

func TestRequest_UnsavedRequestNotRecorded(t *testing.T) {
	src := rng.New(3)
	p := NewPool(src, 0, 0)
	p.Request(10, false)
	if len(p.Requests()) != 0 {
		t.Fatalf("unsaved request should not appear in the ledger, got %v", p.Requests())
	}
	if p.BitsFilled() != 10 {
		t.Fatalf("unsaved request should still contribute bits, got %d", p.BitsFilled())
	}
}

func TestShrinking_PastLimitReturnsZero(t *testing.T) {
	src := rng.New(4)
	p := NewPool(src, 0, 1) // limit: 1 byte
	p.Request(64, true)
	p.BeginShrinking()

	first := p.Request(8, true) // within limit
	_ = first
	second := p.Request(8, true) // at/after limit boundary
	if second != 0 {
		t.Fatalf("request past byte limit should return 0, got %d", second)
	}
}

func TestShrinking_PastBitsFilledZeroExtends(t *testing.T) {
	src := rng.New(5)
	p := NewPool(src, 0, 0)
	p.Request(4, true)
	p.BeginShrinking()
	v := p.Request(16, true) // only 4 recorded bits exist
	if v>>4 != 0 {
		t.Fatalf("bits past bitsFilled should be zero, got %x", v)
	}
}

func TestRequestBulk_ReplaysBitForBit(t *testing.T) {
	src := rng.New(6)
	p := NewPool(src, 0, 0)

	n := 20
	out := make([]uint64, wordsFor(n))
	buf := make([]uint64, wordsFor(n))
	p.RequestBulk(n, true, out)

	p.BeginShrinking()
	p.RequestBulk(n, true, buf)

	for i := range out {
		if out[i] != buf[i] {
			t.Fatalf("bulk replay word %d = %d, want %d", i, buf[i], out[i])
		}
	}
}

func TestIndex_MatchesCumulativeRequestSizes(t *testing.T) {
	src := rng.New(7)
	p := NewPool(src, 0, 0)
	sizes := []int{3, 5, 1, 64, 2}
	for _, n := range sizes {
		p.Request(n, true)
	}
	idx := p.Index()
	off := 0
	for i, sz := range sizes {
		if idx[i] != off {
			t.Fatalf("index[%d] = %d, want %d", i, idx[i], off)
		}
		off += sz
	}
}

func TestIndex_InvalidatedByGeneration(t *testing.T) {
	src := rng.New(8)
	p := NewPool(src, 0, 0)
	p.Request(8, true)
	idx1 := p.Index()
	p.Request(8, true)
	idx2 := p.Index()
	if len(idx1) == len(idx2) {
		t.Fatalf("stale index should have been rebuilt after a mutation")
	}
}

func TestClone_IsIndependent(t *testing.T) {
	src := rng.New(9)
	p := NewPool(src, 0, 0)
	p.Request(8, true)

	c := p.Clone()
	c.Request(8, true)

	if p.BitsFilled() == c.BitsFilled() {
		t.Fatalf("mutating the clone should not affect the original")
	}
}

func TestTrimTrailingZeros_ShrinksBitsFilled(t *testing.T) {
	src := rng.New(10)
	p := NewPool(src, 0, 0)
	p.Request(64, true) // some value
	p.setBits(0, 64, 0) // force to all zero bits for a deterministic trim
	p.bits = append(p.bits, 0, 0)
	p.bitsFilled = 64 * 3

	before := p.BitsFilled()
	p.TrimTrailingZeros()
	if p.BitsFilled() >= before {
		t.Fatalf("expected TrimTrailingZeros to shrink bitsFilled from %d, got %d", before, p.BitsFilled())
	}
}

func TestHash_StableForIdenticalPools(t *testing.T) {
	src1 := rng.New(11)
	src2 := rng.New(11)
	p1 := NewPool(src1, 0, 0)
	p2 := NewPool(src2, 0, 0)
	for i := 0; i < 5; i++ {
		p1.Request(9, true)
		p2.Request(9, true)
	}
	if p1.Hash() != p2.Hash() {
		t.Fatalf("identical pools produced different hashes")
	}
}

func TestHash_DiffersAfterMutation(t *testing.T) {
	src := rng.New(12)
	p := NewPool(src, 0, 0)
	p.Request(9, true)
	h1 := p.Hash()
	p.Request(9, true)
	h2 := p.Hash()
	if h1 == h2 {
		t.Fatalf("hash should change after recording more bits")
	}
}
