package vpi

import (
	"math"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/go-vpi/abi"
	"github.com/wippyai/go-vpi/errors"
	"github.com/wippyai/go-vpi/resource"
)

// Reason is a callback trigger condition.
type Reason int32

const (
	CbValueChange            = Reason(abi.CbValueChange)
	CbStmt                   = Reason(abi.CbStmt)
	CbForce                  = Reason(abi.CbForce)
	CbRelease                = Reason(abi.CbRelease)
	CbAtStartOfSimTime       = Reason(abi.CbAtStartOfSimTime)
	CbReadWriteSynch         = Reason(abi.CbReadWriteSynch)
	CbReadOnlySynch          = Reason(abi.CbReadOnlySynch)
	CbNextSimTime            = Reason(abi.CbNextSimTime)
	CbAfterDelay             = Reason(abi.CbAfterDelay)
	CbEndOfCompile           = Reason(abi.CbEndOfCompile)
	CbStartOfSimulation      = Reason(abi.CbStartOfSimulation)
	CbEndOfSimulation        = Reason(abi.CbEndOfSimulation)
	CbError                  = Reason(abi.CbError)
	CbTchkViolation          = Reason(abi.CbTchkViolation)
	CbStartOfSave            = Reason(abi.CbStartOfSave)
	CbEndOfSave              = Reason(abi.CbEndOfSave)
	CbStartOfRestart         = Reason(abi.CbStartOfRestart)
	CbEndOfRestart           = Reason(abi.CbEndOfRestart)
	CbStartOfReset           = Reason(abi.CbStartOfReset)
	CbEndOfReset             = Reason(abi.CbEndOfReset)
	CbEnterInteractive       = Reason(abi.CbEnterInteractive)
	CbExitInteractive        = Reason(abi.CbExitInteractive)
	CbInteractiveScopeChange = Reason(abi.CbInteractiveScopeChange)
	CbUnresolvedSystf        = Reason(abi.CbUnresolvedSystf)
	CbAtEndOfSimTime         = Reason(abi.CbAtEndOfSimTime)
)

var reasonNames = map[Reason]string{
	CbValueChange:            "cbValueChange",
	CbStmt:                   "cbStmt",
	CbForce:                  "cbForce",
	CbRelease:                "cbRelease",
	CbAtStartOfSimTime:       "cbAtStartOfSimTime",
	CbReadWriteSynch:         "cbReadWriteSynch",
	CbReadOnlySynch:          "cbReadOnlySynch",
	CbNextSimTime:            "cbNextSimTime",
	CbAfterDelay:             "cbAfterDelay",
	CbEndOfCompile:           "cbEndOfCompile",
	CbStartOfSimulation:      "cbStartOfSimulation",
	CbEndOfSimulation:        "cbEndOfSimulation",
	CbError:                  "cbError",
	CbTchkViolation:          "cbTchkViolation",
	CbStartOfSave:            "cbStartOfSave",
	CbEndOfSave:              "cbEndOfSave",
	CbStartOfRestart:         "cbStartOfRestart",
	CbEndOfRestart:           "cbEndOfRestart",
	CbStartOfReset:           "cbStartOfReset",
	CbEndOfReset:             "cbEndOfReset",
	CbEnterInteractive:       "cbEnterInteractive",
	CbExitInteractive:        "cbExitInteractive",
	CbInteractiveScopeChange: "cbInteractiveScopeChange",
	CbUnresolvedSystf:        "cbUnresolvedSystf",
	CbAtEndOfSimTime:         "cbAtEndOfSimTime",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "cbReason(" + strconv.Itoa(int(r)) + ")"
}

// CbData is the event context passed to a callback. Object is only valid
// for the duration of the call. Time and Value are nil unless requested
// at registration and delivered by the simulator.
type CbData struct {
	Reason Reason
	Object Handle
	Time   Time
	Value  Value
	Index  int32
}

// CallbackFunc handles a callback firing.
type CallbackFunc func(*CbData)

// capsule is the table entry for one registration. fn is the only state
// the trampoline needs; the key in the table is what crosses the boundary.
type capsule struct {
	fn     CallbackFunc
	reason Reason
	native abi.Handle
}

type callbackConfig struct {
	obj    Handle
	time   Time
	format ValueFormat
}

// CallbackOption configures a callback registration.
type CallbackOption func(*callbackConfig)

// WithObject sets the object the callback watches.
func WithObject(h Handle) CallbackOption {
	return func(c *callbackConfig) {
		c.obj = h
	}
}

// WithTime sets the callback time: the delay for CbAfterDelay, or the
// time representation delivered in CbData.Time.
func WithTime(t Time) CallbackOption {
	return func(c *callbackConfig) {
		c.time = t
	}
}

// WithValueFormat requests the object's value in CbData.Value.
func WithValueFormat(f ValueFormat) CallbackOption {
	return func(c *callbackConfig) {
		c.format = f
	}
}

// Callback is a live registration. Remove must be called exactly once to
// stop it and reclaim its capsule; Simulator.Close removes any that remain.
type Callback struct {
	sim     *Simulator
	key     resource.Key
	reason  Reason
	raw     abi.Handle
	removed bool
}

// Reason returns the registration's trigger condition.
func (c *Callback) Reason() Reason {
	return c.reason
}

// Handle returns the simulator's handle for the registration.
func (c *Callback) Handle() Handle {
	return Handle{sim: c.sim, raw: c.raw}
}

// Key returns the capsule key passed to the simulator as user data.
func (c *Callback) Key() uint32 {
	return uint32(c.key)
}

// RegisterCallback registers fn to run whenever reason fires.
func (s *Simulator) RegisterCallback(reason Reason, fn CallbackFunc, opts ...CallbackOption) (*Callback, error) {
	if fn == nil {
		return nil, errors.InvalidInput(errors.PhaseCallback, "nil callback function")
	}

	var cfg callbackConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &capsule{fn: fn, reason: reason}
	key := s.capsules.Insert(capsuleType, c)
	if key == 0 {
		return nil, errors.Registration(reason.String(), errors.InvalidInput(errors.PhaseCallback, "capsule table closed or full"))
	}

	data := &abi.CbData{
		Reason:   int32(reason),
		Obj:      cfg.obj.raw,
		UserData: uintptr(key),
	}
	if cfg.time != nil {
		t := EncodeTime(cfg.time)
		data.Time = &t
	}
	if cfg.format != 0 {
		data.Value = &abi.Value{Format: int32(cfg.format)}
	}

	raw := s.native.RegisterCB(data)
	if raw == 0 {
		s.capsules.Remove(key)
		s.log.Warn("callback registration refused", zap.Stringer("reason", reason))
		return nil, errors.Registration(reason.String(), s.pendingError())
	}
	c.native = raw

	s.log.Debug("callback registered",
		zap.Stringer("reason", reason),
		zap.Uint32("key", uint32(key)))

	return &Callback{sim: s, key: key, reason: reason, raw: raw}, nil
}

// RegisterCallback registers fn for reason with h as the watched object.
func (h Handle) RegisterCallback(reason Reason, fn CallbackFunc, opts ...CallbackOption) (*Callback, error) {
	if h.IsNull() {
		return nil, errors.NullHandle(errors.PhaseCallback, "vpi_register_cb")
	}
	return h.sim.RegisterCallback(reason, fn, append(slices.Clip(opts), WithObject(h))...)
}

// Remove deregisters the callback and reclaims its capsule. Once Remove
// returns the closure is never invoked again. A second call reports a
// KindCapsuleMisuse error without calling into the simulator.
func (c *Callback) Remove() error {
	// The key alone is not proof of ownership: a slot's generation wraps
	// after 4096 reuses and may then name another registration.
	if c.removed {
		return errors.CapsuleMisuse(uint32(c.key), "callback already removed")
	}
	if _, ok := c.sim.capsules.Get(c.key); !ok {
		c.removed = true
		return errors.CapsuleMisuse(uint32(c.key), "callback already removed")
	}
	c.removed = true

	removed := c.sim.native.RemoveCB(c.raw)
	c.sim.capsules.Remove(c.key)

	c.sim.log.Debug("callback removed",
		zap.Stringer("reason", c.reason),
		zap.Uint32("key", uint32(c.key)),
		zap.Bool("native", removed))

	if !removed {
		return errors.NativeRefused(errors.PhaseCallback, "vpi_remove_cb", c.sim.pendingError())
	}
	return nil
}

// Dispatch is the trampoline body: backends call it for every native
// callback firing. Payloads without a live capsule key are ignored. The
// return value is the routine's result for the simulator and is always 0.
func (s *Simulator) Dispatch(data *abi.CbData) int32 {
	if data == nil || data.UserData == 0 {
		return 0
	}
	if uint64(data.UserData) > math.MaxUint32 {
		s.log.Warn("callback user data out of range", zap.Uintptr("user_data", data.UserData))
		return 0
	}

	key := resource.Key(uint32(data.UserData))
	v, ok := s.capsules.GetTyped(key, capsuleType)
	if !ok {
		s.log.Warn("callback for unknown capsule", zap.Uint32("key", uint32(key)))
		return 0
	}
	c := v.(*capsule)

	cb := &CbData{
		Reason: Reason(data.Reason),
		Object: Handle{sim: s, raw: data.Obj},
		Index:  data.Index,
	}
	if data.Time != nil {
		cb.Time = DecodeTime(*data.Time)
	}
	if data.Value != nil {
		if val, ok := s.decodeValue(data.Obj, data.Value); ok {
			cb.Value = val
		}
	}

	c.fn(cb)

	// The object belongs to the simulator.
	cb.Object = Null
	return 0
}
