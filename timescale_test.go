package vpi

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/go-vpi/abi"
)

func TestTimescaleString(t *testing.T) {
	tests := []struct {
		ts   Timescale
		want string
	}{
		{Timescale{Unit: -9, Precision: -12}, "1ns / 1ps"},
		{Timescale{Unit: -8, Precision: -10}, "10ns / 100ps"},
		{Timescale{Unit: 2, Precision: 0}, "100s / 1s"},
		{Timescale{Unit: -3, Precision: -15}, "1ms / 1fs"},
		{Timescale{Unit: -4, Precision: -7}, "100us / 100ns"},
	}
	for _, tt := range tests {
		if got := tt.ts.String(); got != tt.want {
			t.Errorf("%+v = %q, want %q", tt.ts, got, tt.want)
		}
	}
}

func TestTopModuleTimescales(t *testing.T) {
	sim, native := newTestSim(t)
	native.AddModule(0, "tb")
	odd := native.AddModule(0, "odd")
	native.SetProp(odd, abi.PropTimeUnit, -7)
	native.SetProp(odd, abi.PropTimePrecision, -10)
	bad := native.AddModule(0, "bad")
	native.SetProp(bad, abi.PropTimeUnit, 5)

	want := []ModuleTimescale{
		{Module: "tb", Timescale: Timescale{Unit: -9, Precision: -12}, Defined: true},
		{Module: "odd", Timescale: Timescale{Unit: -7, Precision: -10}, Defined: true},
		{Module: "bad"},
	}
	if diff := cmp.Diff(want, sim.TopModuleTimescales()); diff != "" {
		t.Errorf("timescales mismatch (-want +got):\n%s", diff)
	}
}
