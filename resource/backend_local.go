package resource

import (
	"errors"
	"sync"
)

var (
	ErrClosed = errors.New("resource backend closed")
	ErrFull   = errors.New("resource backend full")
)

// LocalBackend is an in-memory backend with generation-checked slots.
type LocalBackend struct {
	entries  []entry
	freeList []uint32
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value  any
	typeID uint32
	gen    uint32
	valid  bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// Create stores a value and returns a key.
func (b *LocalBackend) Create(typeID uint32, value any) (Key, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	if n := len(b.freeList); n > 0 {
		index := b.freeList[n-1]
		b.freeList = b.freeList[:n-1]
		e := &b.entries[index-1]
		e.gen = (e.gen + 1) & genMask
		e.typeID = typeID
		e.value = value
		e.valid = true
		return makeKey(index, e.gen), nil
	}

	if len(b.entries) >= MaxEntries {
		return 0, ErrFull
	}

	b.entries = append(b.entries, entry{
		typeID: typeID,
		value:  value,
		valid:  true,
	})
	return makeKey(uint32(len(b.entries)), 0), nil
}

// lookup returns the live entry for key. Caller holds b.mu.
func (b *LocalBackend) lookup(key Key) *entry {
	index := key.Index()
	if index == 0 || int(index) > len(b.entries) {
		return nil
	}
	e := &b.entries[index-1]
	if !e.valid || e.gen != key.Generation() {
		return nil
	}
	return e
}

// Get retrieves a value by key.
func (b *LocalBackend) Get(key Key) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(key)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// TypeID returns the type ID for a key.
func (b *LocalBackend) TypeID(key Key) (uint32, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(key)
	if e == nil {
		return 0, false
	}
	return e.typeID, true
}

// Drop removes a value and returns (value, true) the first time it is
// called for a live key.
func (b *LocalBackend) Drop(key Key) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(key)
	if e == nil {
		return nil, false
	}

	value := e.value
	e.valid = false
	e.value = nil
	b.freeList = append(b.freeList, key.Index())

	return value, true
}

// Close releases all values.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for i := range b.entries {
		if b.entries[i].valid {
			if d, ok := b.entries[i].value.(Dropper); ok {
				d.Drop()
			}
			b.entries[i].valid = false
			b.entries[i].value = nil
		}
	}

	b.entries = nil
	b.freeList = nil
	return nil
}

// Len returns the number of live values.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.entries) - len(b.freeList)
}

// Each iterates over all live values. fn runs without the backend lock
// held, on a snapshot taken at call time.
func (b *LocalBackend) Each(fn func(Key, uint32, any) bool) {
	type item struct {
		key    Key
		typeID uint32
		value  any
	}

	b.mu.RLock()
	items := make([]item, 0, len(b.entries))
	for i, e := range b.entries {
		if e.valid {
			items = append(items, item{makeKey(uint32(i+1), e.gen), e.typeID, e.value})
		}
	}
	b.mu.RUnlock()

	for _, it := range items {
		if !fn(it.key, it.typeID, it.value) {
			break
		}
	}
}
