package vpi

import (
	"go.uber.org/zap"

	"github.com/wippyai/go-vpi/abi"
	"github.com/wippyai/go-vpi/errors"
	"github.com/wippyai/go-vpi/resource"
)

// capsuleType tags callback closures in the capsule table.
const capsuleType uint32 = 1

// Config holds simulator options.
type Config struct {
	// Logger receives capsule lifecycle and dispatch diagnostics.
	// Defaults to the package logger.
	Logger *zap.Logger

	// CapsuleObserver, when set, is notified of every capsule allocation
	// and reclamation.
	CapsuleObserver resource.Observer
}

// Simulator is the plugin's view of one running simulation. All methods
// must be called from the thread the simulator drives the plugin on.
type Simulator struct {
	native   abi.Interface
	capsules *resource.UnifiedTable
	log      *zap.Logger
}

// New creates a Simulator over a native interface with default settings.
func New(native abi.Interface) *Simulator {
	return NewWithConfig(native, Config{})
}

// NewWithConfig creates a Simulator over a native interface.
func NewWithConfig(native abi.Interface, cfg Config) *Simulator {
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}
	s := &Simulator{
		native:   native,
		capsules: resource.NewTable(),
		log:      log,
	}
	if cfg.CapsuleObserver != nil {
		s.capsules.Subscribe(cfg.CapsuleObserver)
	}
	return s
}

// Native returns the underlying native interface.
func (s *Simulator) Native() abi.Interface {
	return s.native
}

// Root returns the null scope handle. Iterating it walks the top level of
// the design.
func (s *Simulator) Root() Handle {
	return Handle{sim: s}
}

// Wrap binds a raw native handle to this simulator.
func (s *Simulator) Wrap(raw abi.Handle) Handle {
	return Handle{sim: s, raw: raw}
}

// HandleByName looks up an object by hierarchical name. A null scope
// searches from the top level. The result is null when nothing matches.
func (s *Simulator) HandleByName(name string, scope Handle) Handle {
	return Handle{sim: s, raw: s.native.HandleByName(name, scope.raw)}
}

// Now returns the current simulation time in simulator ticks.
func (s *Simulator) Now() Time {
	t := abi.Time{Type: abi.SimTime}
	s.native.GetTime(0, &t)
	return DecodeTime(t)
}

// Callbacks returns the number of live callback registrations.
func (s *Simulator) Callbacks() int {
	return s.capsules.Len()
}

// Close removes every outstanding callback registration and reclaims its
// capsule. The Simulator must not be used afterwards.
func (s *Simulator) Close() error {
	var keys []resource.Key
	s.capsules.Each(capsuleType, func(k resource.Key, _ any) bool {
		keys = append(keys, k)
		return true
	})

	var first error
	for _, k := range keys {
		v, ok := s.capsules.Get(k)
		if !ok {
			continue
		}
		c := v.(*capsule)
		if c.native != 0 && !s.native.RemoveCB(c.native) && first == nil {
			first = errors.NativeRefused(errors.PhaseCallback, "remove_cb", s.pendingError())
		}
		s.capsules.Remove(k)
	}
	if len(keys) > 0 {
		s.log.Debug("removed outstanding callbacks", zap.Int("count", len(keys)))
	}

	if err := s.capsules.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// pendingError returns the simulator's error snapshot as an error, or nil.
func (s *Simulator) pendingError() error {
	if info, ok := s.CheckError(); ok {
		return info
	}
	return nil
}
