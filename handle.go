package vpi

import (
	"iter"

	"github.com/wippyai/go-vpi/abi"
)

// Handle references a simulator object. It is a small value type: copying
// it is free and it never owns the referenced object. The zero Handle is
// null.
type Handle struct {
	sim *Simulator
	raw abi.Handle
}

// Null is the null handle.
var Null Handle

// IsNull reports whether h references nothing.
func (h Handle) IsNull() bool {
	return h.raw == 0
}

// Raw returns the native handle value.
func (h Handle) Raw() abi.Handle {
	return h.raw
}

// Simulator returns the simulator h belongs to, or nil for Null.
func (h Handle) Simulator() *Simulator {
	return h.sim
}

// Equal reports whether h and o reference the same object, as decided by
// the simulator. Two null handles are equal; a null and a bound handle
// are not.
func (h Handle) Equal(o Handle) bool {
	switch {
	case h.IsNull() && o.IsNull():
		return true
	case h.IsNull() || o.IsNull():
		return false
	}
	return h.sim.native.CompareObjects(h.raw, o.raw)
}

// Release tells the simulator the handle is no longer needed. Handles are
// never released implicitly; call this only for handles the simulator
// documents as caller-owned. Copies of h must not be used afterwards.
func (h Handle) Release() bool {
	if h.IsNull() {
		return false
	}
	return h.sim.native.ReleaseHandle(h.raw)
}

// String returns the full hierarchical name, or a placeholder.
func (h Handle) String() string {
	if h.IsNull() {
		return "<null>"
	}
	if name, ok := h.Str(PropFullName); ok {
		return name
	}
	return "<unnamed>"
}

// Iterate starts iterating objects of kind related to h. A null h on a
// bound simulator (see Simulator.Root) iterates the top level.
func (h Handle) Iterate(kind ObjectType) *Iterator {
	if h.sim == nil {
		return &Iterator{done: true}
	}
	raw := h.sim.native.Iterate(int32(kind), h.raw)
	return &Iterator{sim: h.sim, raw: raw, done: raw == 0}
}

// Iterator is a lazy, single-pass sequence of handles. Each Next issues
// one scan. The simulator frees the iterator when the sequence ends, so
// an exhausted Iterator holds nothing.
type Iterator struct {
	sim  *Simulator
	raw  abi.Handle
	done bool
}

// Next returns the next handle, or (Null, false) once exhausted.
func (it *Iterator) Next() (Handle, bool) {
	if it.done {
		return Null, false
	}
	h := it.sim.native.Scan(it.raw)
	if h == 0 {
		it.done = true
		it.raw = 0
		return Null, false
	}
	return Handle{sim: it.sim, raw: h}, true
}

// All returns the remaining handles as a range-over-func sequence.
// Breaking out of the loop closes the iterator.
func (it *Iterator) All() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for {
			h, ok := it.Next()
			if !ok {
				return
			}
			if !yield(h) {
				it.Close()
				return
			}
		}
	}
}

// Collect drains the iterator into a slice.
func (it *Iterator) Collect() []Handle {
	var out []Handle
	for h := range it.All() {
		out = append(out, h)
	}
	return out
}

// Close releases an iterator abandoned before exhaustion. It does nothing
// for an exhausted iterator and is safe to call more than once.
func (it *Iterator) Close() {
	if !it.done && it.raw != 0 {
		it.sim.native.ReleaseHandle(it.raw)
	}
	it.done = true
	it.raw = 0
}
