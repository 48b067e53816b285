package routines

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	vpi "github.com/wippyai/go-vpi"
	"github.com/wippyai/go-vpi/vpitest"
)

func newDemoSim(t *testing.T) (*vpi.Simulator, *vpitest.Demo) {
	t.Helper()
	d := vpitest.NewDemo()
	sim := vpi.New(d)
	d.Attach(sim.Dispatch)
	t.Cleanup(func() { sim.Close() })
	return sim, d
}

func TestNames(t *testing.T) {
	want := []string{"dump", "info", "timescale"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSimInfo(t *testing.T) {
	sim, d := newDemoSim(t)
	SimInfo(sim)

	want := "=== Simulator Information ===\nSimulator: vpitest demo 1.0\n"
	if got := d.Output.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if sim.Callbacks() != 0 {
		t.Errorf("Expected no callbacks, got %d", sim.Callbacks())
	}
}

func TestDumper(t *testing.T) {
	sim, d := newDemoSim(t)
	Dumper(sim)
	if sim.Callbacks() != 2 {
		t.Fatalf("Expected start and end callbacks, got %d", sim.Callbacks())
	}

	d.Run(5)
	out := d.Output.String()

	for _, want := range []string{
		"=== Simulation Started ===\n",
		"  Module: tb\n",
		"    Module: dut\n",
		"    Signal: count (vpiNet)\n",
		"=== Simulation Ended ===\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "Value change on signal count: "); n != 3 {
		t.Errorf("Expected 3 count changes, got %d in:\n%s", n, out)
	}
	if !strings.Contains(out, "Value change on signal count: 00000011") {
		t.Errorf("Expected the last count value, got:\n%s", out)
	}

	// start, end, and one value-change registration for count
	if sim.Callbacks() != 3 {
		t.Errorf("Expected 3 live callbacks, got %d", sim.Callbacks())
	}
}

func TestTimescale(t *testing.T) {
	sim, d := newDemoSim(t)
	Timescale(sim)
	d.Run(1)

	out := d.Output.String()
	for _, want := range []string{
		"=== Timescale Information ===\n",
		"Simulator: vpitest demo 1.0\n\n",
		"Module timescales:\n",
		"  tb : 1ns / 1ps\n",
		"    Unit: 1ns (10^-9 s)\n",
		"    Precision: 1ps (10^-12 s)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestTimescale_NoModules(t *testing.T) {
	n := vpitest.New()
	sim := vpi.New(n)
	n.Attach(sim.Dispatch)
	defer sim.Close()

	Timescale(sim)
	n.Fire(int32(vpi.CbStartOfSimulation), 0)

	if !strings.Contains(n.Output.String(), "No modules found\n") {
		t.Errorf("Expected no modules message, got %q", n.Output.String())
	}
}
