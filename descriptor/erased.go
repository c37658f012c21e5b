package descriptor

import "io"

// Erased is a type-erased view of a TypeInfo[T], the Go analogue of the
// reference implementation's void* + function-pointer-table descriptor: it
// lets the fuzz package hold a fixed-size, arity-indexed array of
// descriptors for heterogeneous argument types without repeating the driver
// loop once per arity via generics.
type Erased struct {
	alloc      func(d Driver) (any, error)
	free       func(v any)
	hash       func(v any) (uint64, bool)
	print      func(w io.Writer, v any)
	shrink     func(d Driver, v any, tactic int) (ShrinkOutcome, any, error)
	autoshrink AutoshrinkConfig
}

// Erase adapts a TypeInfo[T] into an Erased descriptor.
func Erase[T any](t TypeInfo[T]) Erased {
	e := Erased{autoshrink: t.Autoshrink}

	if t.Alloc != nil {
		e.alloc = func(d Driver) (any, error) { return t.Alloc(d) }
	}
	if t.Free != nil {
		e.free = func(v any) { t.Free(v.(T)) }
	}
	if t.Hash != nil {
		e.hash = func(v any) (uint64, bool) { return t.Hash(v.(T)) }
	}
	if t.Print != nil {
		e.print = func(w io.Writer, v any) { t.Print(w, v.(T)) }
	}
	if t.Shrink != nil {
		e.shrink = func(d Driver, v any, tactic int) (ShrinkOutcome, any, error) {
			outcome, next, err := t.Shrink(d, v.(T), tactic)
			return outcome, next, err
		}
	}
	return e
}

// Alloc draws one value via the wrapped TypeInfo's Alloc. Panics if the
// descriptor has no Alloc; the fuzz package does not check for a nil Alloc
// before calling it.
func (e Erased) Alloc(d Driver) (any, error) {
	return e.alloc(d)
}

// Free releases a value, a no-op if the descriptor declared none.
func (e Erased) Free(v any) {
	if e.free != nil {
		e.free(v)
	}
}

// Hash returns a stable summary of v, reporting false when the descriptor
// declared no Hash (the caller falls back to bit-pool hashing in autoshrink
// mode, or skips dedup entirely otherwise).
func (e Erased) Hash(v any) (uint64, bool) {
	if e.hash == nil {
		return 0, false
	}
	return e.hash(v)
}

// Print renders v, a no-op if the descriptor declared no Print.
func (e Erased) Print(w io.Writer, v any) {
	if e.print != nil {
		e.print(w, v)
	}
}

// HasManualShrink reports whether this descriptor supplies a Shrink
// callback (manual shrink mode) as opposed to autoshrink mode.
func (e Erased) HasManualShrink() bool {
	return e.shrink != nil
}

// Shrink invokes the wrapped TypeInfo's Shrink callback. Callers must check
// HasManualShrink first.
func (e Erased) Shrink(d Driver, v any, tactic int) (ShrinkOutcome, any, error) {
	return e.shrink(d, v, tactic)
}

// Autoshrink returns the descriptor's autoshrink configuration.
func (e Erased) Autoshrink() AutoshrinkConfig {
	return e.autoshrink
}

// AutoshrinkMode reports whether this descriptor is in autoshrink mode
// (Autoshrink.Enable and no manual Shrink callback).
func (e Erased) AutoshrinkMode() bool {
	return e.autoshrink.Enable && e.shrink == nil
}
