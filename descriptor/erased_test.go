package descriptor

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type fakeDriver struct {
	bits uint64
}

func (f *fakeDriver) RandomBits(n int) uint64 { return f.bits }
func (f *fakeDriver) RandomBitsBulk(n int, out []uint64) {
	for i := range out {
		out[i] = f.bits
	}
}
func (f *fakeDriver) HookEnv() any { return nil }

func TestErase_AllocAndFree(t *testing.T) {
	freed := false
	ti := TypeInfo[int]{
		Alloc: func(d Driver) (int, error) { return int(d.RandomBits(8)), nil },
		Free:  func(v int) { freed = true },
	}
	e := Erase(ti)
	d := &fakeDriver{bits: 42}
	v, err := e.Alloc(d)
	if err != nil {
		t.Fatalf("Alloc error: %v", err)
	}
	if v.(int) != 42 {
		t.Fatalf("Alloc() = %v, want 42", v)
	}
	e.Free(v)
	if !freed {
		t.Fatal("Free was not invoked")
	}
}

func TestErase_FreeIsNoOpWhenUnset(t *testing.T) {
	ti := TypeInfo[int]{Alloc: func(d Driver) (int, error) { return 1, nil }}
	e := Erase(ti)
	e.Free(1) // must not panic
}

func TestErase_HashReportsAbsence(t *testing.T) {
	ti := TypeInfo[string]{Alloc: func(d Driver) (string, error) { return "x", nil }}
	e := Erase(ti)
	if _, ok := e.Hash("x"); ok {
		t.Fatal("Hash should report false when TypeInfo declared none")
	}
}

func TestErase_HashDelegates(t *testing.T) {
	ti := TypeInfo[string]{
		Alloc: func(d Driver) (string, error) { return "x", nil },
		Hash:  func(v string) (uint64, bool) { return uint64(len(v)), true },
	}
	e := Erase(ti)
	h, ok := e.Hash("hello")
	if !ok || h != 5 {
		t.Fatalf("Hash() = (%d, %v), want (5, true)", h, ok)
	}
}

func TestErase_PrintDelegates(t *testing.T) {
	ti := TypeInfo[int]{
		Alloc: func(d Driver) (int, error) { return 1, nil },
		Print: func(w io.Writer, v int) {
			w.Write([]byte("printed"))
		},
	}
	e := Erase(ti)
	var buf bytes.Buffer
	e.Print(&buf, 7)
	if buf.String() != "printed" {
		t.Fatalf("Print wrote %q, want printed", buf.String())
	}
}

func TestErase_ShrinkDelegatesAndTypeAsserts(t *testing.T) {
	ti := TypeInfo[int]{
		Alloc: func(d Driver) (int, error) { return 1, nil },
		Shrink: func(d Driver, v int, tactic int) (ShrinkOutcome, int, error) {
			if tactic > 2 {
				return ShrinkNoMoreTactics, v, nil
			}
			return ShrinkOK, v / 2, nil
		},
	}
	e := Erase(ti)
	if !e.HasManualShrink() {
		t.Fatal("expected HasManualShrink true")
	}
	outcome, next, err := e.Shrink(&fakeDriver{}, 10, 0)
	if err != nil || outcome != ShrinkOK || next.(int) != 5 {
		t.Fatalf("Shrink() = (%v, %v, %v), want (ok, 5, nil)", outcome, next, err)
	}
}

func TestErase_NoManualShrinkReportsFalse(t *testing.T) {
	ti := TypeInfo[int]{Alloc: func(d Driver) (int, error) { return 1, nil }}
	e := Erase(ti)
	if e.HasManualShrink() {
		t.Fatal("expected HasManualShrink false when no Shrink callback set")
	}
}

func TestErase_AutoshrinkModePassthrough(t *testing.T) {
	ti := TypeInfo[int]{
		Alloc:      func(d Driver) (int, error) { return 1, nil },
		Autoshrink: AutoshrinkConfig{Enable: true, PrintMode: PrintBitPool},
	}
	e := Erase(ti)
	if !e.AutoshrinkMode() {
		t.Fatal("expected AutoshrinkMode true")
	}
	if e.Autoshrink().PrintMode != PrintBitPool {
		t.Fatalf("Autoshrink().PrintMode = %v, want PrintBitPool", e.Autoshrink().PrintMode)
	}
}

func TestErase_AllocPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	ti := TypeInfo[int]{Alloc: func(d Driver) (int, error) { return 0, wantErr }}
	e := Erase(ti)
	_, err := e.Alloc(&fakeDriver{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Alloc() error = %v, want %v", err, wantErr)
	}
}
