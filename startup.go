package vpi

import (
	"sync"

	"github.com/wippyai/go-vpi/errors"
)

// StartupFunc runs once when the simulator loads the plugin.
type StartupFunc func(*Simulator)

// Registry is the list of startup routines a plugin exposes. It is filled
// during package initialization and sealed the first time it is read.
type Registry struct {
	routines []StartupFunc
	mu       sync.Mutex
	sealed   bool
}

// NewRegistry creates an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends fn. It fails once the registry has been sealed.
func (r *Registry) Add(fn StartupFunc) error {
	if fn == nil {
		return errors.InvalidInput(errors.PhaseStartup, "nil startup routine")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return errors.Sealed("startup registry")
	}
	r.routines = append(r.routines, fn)
	return nil
}

// Routines seals the registry and returns its routines in registration
// order.
func (r *Registry) Routines() []StartupFunc {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
	out := make([]StartupFunc, len(r.routines))
	copy(out, r.routines)
	return out
}

// Sealed reports whether the registry has been read.
func (r *Registry) Sealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sealed
}

// Run seals the registry and runs every routine against sim.
func (r *Registry) Run(sim *Simulator) {
	for _, fn := range r.Routines() {
		fn(sim)
	}
}

var startup = NewRegistry()

// OnStartup adds fn to the plugin's startup routines. Call it from init.
func OnStartup(fn StartupFunc) error {
	return startup.Add(fn)
}

// StartupRoutines seals and returns the plugin's startup routines.
func StartupRoutines() []StartupFunc {
	return startup.Routines()
}

// RunStartup seals the plugin's startup routines and runs them.
func RunStartup(sim *Simulator) {
	startup.Run(sim)
}
