package resource

import (
	"sync"
)

// UnifiedTable implements the Table interface using a LocalBackend for storage.
type UnifiedTable struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

var _ Table = (*UnifiedTable)(nil)

// NewTable creates a new unified table with a LocalBackend.
func NewTable() *UnifiedTable {
	return &UnifiedTable{
		backend: NewLocalBackend(),
	}
}

// Insert adds a value and returns its key.
func (t *UnifiedTable) Insert(typeID uint32, value any) Key {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0
	}
	t.closeMu.RUnlock()

	key, err := t.backend.Create(typeID, value)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:   EventCreated,
		Key:    key,
		TypeID: typeID,
		Value:  value,
	})

	return key
}

// Get retrieves a value by key.
func (t *UnifiedTable) Get(key Key) (any, bool) {
	return t.backend.Get(key)
}

// GetTyped retrieves a value only if it matches the expected type.
func (t *UnifiedTable) GetTyped(key Key, typeID uint32) (any, bool) {
	actualTypeID, ok := t.backend.TypeID(key)
	if !ok || actualTypeID != typeID {
		return nil, false
	}
	return t.backend.Get(key)
}

// Remove drops a value and returns (value, true) if it was live.
func (t *UnifiedTable) Remove(key Key) (any, bool) {
	typeID, _ := t.backend.TypeID(key)
	value, ok := t.backend.Drop(key)
	if !ok {
		return nil, false
	}

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventDropped,
		Key:    key,
		TypeID: typeID,
		Value:  value,
	})

	return value, true
}

// Subscribe adds an observer for lifecycle events.
func (t *UnifiedTable) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *UnifiedTable) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live values.
func (t *UnifiedTable) Len() int {
	return t.backend.Len()
}

// Each iterates over live values of typeID.
func (t *UnifiedTable) Each(typeID uint32, fn func(Key, any) bool) {
	t.backend.Each(func(k Key, tid uint32, v any) bool {
		if tid != typeID {
			return true
		}
		return fn(k, v)
	})
}

// Clear drops all values, notifying observers for each.
func (t *UnifiedTable) Clear() {
	var keys []Key
	t.backend.Each(func(k Key, typeID uint32, value any) bool {
		keys = append(keys, k)
		return true
	})
	for _, k := range keys {
		t.Remove(k)
	}
}

// Close drops all values and stops accepting inserts.
func (t *UnifiedTable) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	t.Clear()
	return t.backend.Close()
}

func (t *UnifiedTable) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
