package resource

// Key is an opaque reference to a value in a table.
// Key 0 is reserved and always invalid.
type Key uint32

const (
	indexBits = 20
	indexMask = 1<<indexBits - 1
	genMask   = 1<<(32-indexBits) - 1

	// MaxEntries is the number of live entries a table can hold.
	MaxEntries = indexMask
)

func makeKey(index uint32, gen uint32) Key {
	return Key((gen&genMask)<<indexBits | index&indexMask)
}

// Index returns the 1-based slot index encoded in k.
func (k Key) Index() uint32 { return uint32(k) & indexMask }

// Generation returns the slot generation encoded in k.
func (k Key) Generation() uint32 { return uint32(k) >> indexBits }

// Event types for lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event represents a lifecycle event.
type Event struct {
	Value  any
	Key    Key
	TypeID uint32
	Type   EventType
}

// Observer receives notifications about lifecycle events.
// Observers run synchronously and must not call back into the table.
type Observer interface {
	OnResourceEvent(Event)
}

// Backend provides the underlying storage mechanism.
type Backend interface {
	// Create stores a value and returns a key.
	Create(typeID uint32, value any) (Key, error)

	// Get retrieves a value by key.
	Get(key Key) (any, bool)

	// Drop removes a value and returns (value, true) the first time only.
	Drop(key Key) (any, bool)

	// Close releases all values held by the backend.
	Close() error
}

// Table manages values with type information and observer support.
type Table interface {
	// Insert adds a value and returns its key, or 0 when the table is
	// closed or full.
	Insert(typeID uint32, value any) Key

	// Get retrieves a value by key.
	Get(key Key) (any, bool)

	// GetTyped retrieves a value only if it matches the expected type.
	GetTyped(key Key, typeID uint32) (any, bool)

	// Remove drops a value and returns (value, true) if it was live.
	Remove(key Key) (any, bool)

	// Subscribe adds an observer for lifecycle events.
	Subscribe(Observer)

	// Unsubscribe removes an observer.
	Unsubscribe(Observer)

	// Len returns the number of live values.
	Len() int

	// Clear drops all values.
	Clear()

	// Close drops all values and stops accepting inserts.
	Close() error
}

// Dropper is optionally implemented by values that need cleanup.
type Dropper interface {
	Drop()
}
