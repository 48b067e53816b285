package vpi

import (
	"fmt"

	"github.com/wippyai/go-vpi/abi"
)

// Timescale exponents outside this range are not valid Verilog units.
const (
	minTimeExponent = -15
	maxTimeExponent = 2
)

// Timescale is a module's time unit and precision as powers of ten of a
// second.
type Timescale struct {
	Unit      int32
	Precision int32
}

// String renders the timescale the way `timescale does, e.g. "1ns / 1ps".
func (t Timescale) String() string {
	return t.UnitString() + " / " + t.PrecisionString()
}

// UnitString renders the unit, e.g. "10ns".
func (t Timescale) UnitString() string {
	return formatExponent(t.Unit)
}

// PrecisionString renders the precision, e.g. "1ps".
func (t Timescale) PrecisionString() string {
	return formatExponent(t.Precision)
}

var timeUnits = []struct {
	exp  int32
	name string
}{
	{0, "s"},
	{-3, "ms"},
	{-6, "us"},
	{-9, "ns"},
	{-12, "ps"},
	{-15, "fs"},
}

func formatExponent(exp int32) string {
	for _, u := range timeUnits {
		if exp >= u.exp {
			mag := 1
			for i := u.exp; i < exp; i++ {
				mag *= 10
			}
			return fmt.Sprintf("%d%s", mag, u.name)
		}
	}
	return fmt.Sprintf("1e%ds", exp)
}

func validExponent(exp int32) bool {
	return exp >= minTimeExponent && exp <= maxTimeExponent
}

// Timescale returns the module's timescale. It reports false when the
// simulator reports an exponent outside 1fs..100s.
func (h Handle) Timescale() (Timescale, bool) {
	if h.IsNull() {
		return Timescale{}, false
	}
	ts := Timescale{
		Unit:      h.sim.native.Get(abi.PropTimeUnit, h.raw),
		Precision: h.sim.native.Get(abi.PropTimePrecision, h.raw),
	}
	if !validExponent(ts.Unit) || !validExponent(ts.Precision) {
		return Timescale{}, false
	}
	return ts, true
}

// ModuleTimescale pairs a top-level module name with its timescale.
type ModuleTimescale struct {
	Module    string
	Timescale Timescale
	Defined   bool
}

// TopModuleTimescales returns the timescale of every top-level module.
func (s *Simulator) TopModuleTimescales() []ModuleTimescale {
	var out []ModuleTimescale
	for mod := range s.Root().Iterate(ObjModule).All() {
		name, ok := mod.Str(PropName)
		if !ok {
			name = "<unnamed>"
		}
		ts, defined := mod.Timescale()
		out = append(out, ModuleTimescale{Module: name, Timescale: ts, Defined: defined})
	}
	return out
}
