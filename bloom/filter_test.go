package bloom

import "testing"

func TestFilter_InsertThenContains(t *testing.T) {
	f := New(1<<16, 4)
	key := []byte("argument-hash-tuple")

	if f.Contains(key) {
		t.Fatalf("fresh filter should not contain key")
	}
	f.Insert(key)
	if !f.Contains(key) {
		t.Fatalf("filter should contain key after Insert")
	}
}

func TestFilter_DistinctKeysRarelyCollide(t *testing.T) {
	f := New(1<<20, 4)
	keys := make([][]byte, 1000)
	for i := range keys {
		keys[i] = []byte{byte(i), byte(i >> 8), byte(i >> 16), 0xAB}
		f.Insert(keys[i])
	}
	falsePositives := 0
	for i := 0; i < 1000; i++ {
		probe := []byte{byte(i), byte(i >> 8), byte(i >> 16), 0xCD}
		if f.Contains(probe) {
			falsePositives++
		}
	}
	if falsePositives > 50 {
		t.Fatalf("unexpectedly high false positive rate: %d/1000", falsePositives)
	}
}

func TestFilter_ZeroSizeIsDisabledNoOp(t *testing.T) {
	f := New(0, 4)
	if f.Enabled() {
		t.Fatalf("zero-size filter should report Enabled() == false")
	}
	key := []byte("x")
	f.Insert(key)
	if f.Contains(key) {
		t.Fatalf("disabled filter must never report Contains == true")
	}
}

func TestNew_RoundsUpToPowerOfTwo(t *testing.T) {
	f := New(100, 3)
	if f.nbits != 128 {
		t.Fatalf("nbits = %d, want 128", f.nbits)
	}
}

func TestFilter_NilSafeDefaults(t *testing.T) {
	var f *Filter
	if f.Enabled() {
		t.Fatalf("nil filter must report Enabled() == false")
	}
	if f.Contains([]byte("anything")) {
		t.Fatalf("nil filter must never report Contains == true")
	}
}
