// Package resource provides the capsule table behind callback registration.
//
// The simulator only understands one callback routine and one opaque
// user-data word per registration. Go values cannot cross that boundary
// as pointers, so each registered closure is stored here and the native
// side receives a 32-bit Key instead.
//
// # Keys
//
// A Key packs a 1-based slot index with a generation counter:
//
//	bits 0..19   slot index (0 is never issued)
//	bits 20..31  generation, bumped every time the slot is reused
//
// A stale key, kept by the simulator after its capsule was removed, never
// matches the new occupant of the slot. Lookups with such a key fail
// instead of invoking the wrong closure.
//
// # Table
//
//	table := resource.NewTable()
//
//	// Insert a value, get a key
//	key := table.Insert(typeID, capsule)
//
//	// Retrieve by key
//	value, ok := table.Get(key)
//
//	// Reclaim exactly once; the second call reports false
//	value, ok = table.Remove(key)
//
// # Observers
//
// Observers see every allocation and reclamation:
//
//	table.Subscribe(counter)
//
// which is how tests verify that a registration/removal pair performs one
// allocation and one deallocation.
//
// # Memory Management
//
// Entries are never reclaimed implicitly. Remove or Close must run for
// every inserted value; Close drops whatever is left and calls Drop on
// values implementing Dropper.
package resource
