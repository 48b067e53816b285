package vpi

import (
	"github.com/wippyai/go-vpi/abi"
	"github.com/wippyai/go-vpi/errors"
)

// DelayMode selects how PutValue schedules the new value.
type DelayMode int32

const (
	NoDelay            = DelayMode(abi.NoDelay)
	InertialDelay      = DelayMode(abi.InertialDelay)
	TransportDelay     = DelayMode(abi.TransportDelay)
	PureTransportDelay = DelayMode(abi.PureTransportDelay)
	ForceFlag          = DelayMode(abi.ForceFlag)
	ReleaseFlag        = DelayMode(abi.ReleaseFlag)
)

type putConfig struct {
	mode        DelayMode
	delay       Time
	returnEvent bool
}

// PutOption configures PutValue.
type PutOption func(*putConfig)

// WithDelay schedules the value after delay using mode.
func WithDelay(mode DelayMode, delay Time) PutOption {
	return func(c *putConfig) {
		c.mode = mode
		c.delay = delay
	}
}

// WithMode sets a delay mode that takes no time, such as ForceFlag or ReleaseFlag.
func WithMode(mode DelayMode) PutOption {
	return func(c *putConfig) {
		c.mode = mode
	}
}

// WithReturnEvent asks the simulator for a handle to the scheduled event.
func WithReturnEvent() PutOption {
	return func(c *putConfig) {
		c.returnEvent = true
	}
}

// PutValue writes v to the object. With WithReturnEvent the scheduled
// event handle is returned; otherwise the result is Null.
func (h Handle) PutValue(v Value, opts ...PutOption) (Handle, error) {
	if h.IsNull() {
		return Null, errors.NullHandle(errors.PhaseEncode, "vpi_put_value")
	}

	cfg := putConfig{mode: NoDelay}
	for _, opt := range opts {
		opt(&cfg)
	}

	nv, err := encodeValue(v)
	if err != nil {
		return Null, err
	}

	var t *abi.Time
	if cfg.delay != nil {
		enc := EncodeTime(cfg.delay)
		t = &enc
	}
	flags := int32(cfg.mode)
	if cfg.returnEvent {
		flags |= abi.ReturnEvent
	}

	ev := h.sim.native.PutValue(h.raw, nv, t, flags)
	if cfg.returnEvent && ev == 0 {
		if cause := h.sim.pendingError(); cause != nil {
			return Null, errors.NativeRefused(errors.PhaseEncode, "vpi_put_value", cause)
		}
	}
	return Handle{sim: h.sim, raw: ev}, nil
}
