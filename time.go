package vpi

import (
	"strconv"

	"github.com/wippyai/go-vpi/abi"
	"github.com/wippyai/go-vpi/errors"
)

// Time is a simulation time: SimTime, ScaledRealTime or SuppressTime.
type Time interface {
	// Type returns the native time type tag.
	Type() int32
	String() string
	isTime()
}

// SimTime is a time in simulator ticks.
type SimTime uint64

// ScaledRealTime is a time in the timescale units of a module.
type ScaledRealTime float64

// SuppressTime marks an absent time.
type SuppressTime struct{}

func (SimTime) Type() int32        { return abi.SimTime }
func (ScaledRealTime) Type() int32 { return abi.ScaledRealTime }
func (SuppressTime) Type() int32   { return abi.SuppressTime }

func (t SimTime) String() string { return strconv.FormatUint(uint64(t), 10) }
func (t ScaledRealTime) String() string {
	return strconv.FormatFloat(float64(t), 'g', -1, 64)
}
func (SuppressTime) String() string { return "suppressed" }

func (SimTime) isTime()        {}
func (ScaledRealTime) isTime() {}
func (SuppressTime) isTime()   {}

// EncodeTime converts t to the native representation. Fields not used by
// the variant are zero.
func EncodeTime(t Time) abi.Time {
	switch v := t.(type) {
	case SimTime:
		return abi.Time{
			Type: abi.SimTime,
			High: uint32(uint64(v) >> 32),
			Low:  uint32(uint64(v) & 0xFFFFFFFF),
		}
	case ScaledRealTime:
		return abi.Time{Type: abi.ScaledRealTime, Real: float64(v)}
	case SuppressTime:
		return abi.Time{Type: abi.SuppressTime}
	default:
		panic(errors.ContractViolation(errors.PhaseEncode, "time", t))
	}
}

// DecodeTime converts a native time. An unknown type tag means the
// simulator broke the protocol, and DecodeTime panics with a
// *errors.Error of kind KindContractViolation.
func DecodeTime(t abi.Time) Time {
	switch t.Type {
	case abi.SimTime:
		return SimTime(uint64(t.High)<<32 | uint64(t.Low))
	case abi.ScaledRealTime:
		return ScaledRealTime(t.Real)
	case abi.SuppressTime:
		return SuppressTime{}
	default:
		panic(errors.ContractViolation(errors.PhaseDecode, "time.type", t.Type))
	}
}

// Time returns the object's current time in simulator ticks.
func (h Handle) Time() (Time, bool) {
	return h.timeAs(abi.SimTime)
}

// ScaledTime returns the object's current time in its module's units.
func (h Handle) ScaledTime() (Time, bool) {
	return h.timeAs(abi.ScaledRealTime)
}

func (h Handle) timeAs(typ int32) (Time, bool) {
	if h.IsNull() {
		return nil, false
	}
	t := abi.Time{Type: typ}
	h.sim.native.GetTime(h.raw, &t)
	return DecodeTime(t), true
}
