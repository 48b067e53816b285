// Package routines holds the startup routines shipped with go-vpi: a
// simulator information banner, a hierarchy and value-change dumper, and
// a timescale report. The vpirun CLI and the c-shared plugin both run
// them.
package routines

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	vpi "github.com/wippyai/go-vpi"
)

// All maps routine names to routines.
var All = map[string]vpi.StartupFunc{
	"info":      SimInfo,
	"dump":      Dumper,
	"timescale": Timescale,
}

// Names returns the routine names in sorted order.
func Names() []string {
	names := make([]string, 0, len(All))
	for name := range All {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SimInfo prints the simulator's product and version.
func SimInfo(sim *vpi.Simulator) {
	info := sim.Info()
	sim.Print("=== Simulator Information ===\n")
	sim.Printf("Simulator: %s %s\n", info.Product, info.Version)
}

// Dumper prints the design hierarchy at start of simulation and every
// subsequent value change on its nets.
func Dumper(sim *vpi.Simulator) {
	register(sim, vpi.CbStartOfSimulation, func(*vpi.CbData) {
		sim.Print("=== Simulation Started ===\n")
		walk(sim, sim.Root(), 0)
	})
	register(sim, vpi.CbEndOfSimulation, func(*vpi.CbData) {
		sim.Print("=== Simulation Ended ===\n")
	})
}

func walk(sim *vpi.Simulator, scope vpi.Handle, depth int) {
	indent := strings.Repeat("  ", depth)
	if !scope.IsNull() {
		sim.Printf("%sModule: %s\n", indent, nameOf(scope))
	}

	for child := range scope.Iterate(vpi.ObjModule).All() {
		walk(sim, child, depth+1)
	}

	inner := indent + "  "
	sim.Printf("%sSignals\n%s=======\n", inner, inner)
	for net := range scope.Iterate(vpi.ObjNet).All() {
		typ, ok := net.Str(vpi.PropType)
		if !ok {
			typ = "<unknown>"
		}
		sim.Printf("%sSignal: %s (%s)\n", inner, nameOf(net), typ)

		changed := inner + "  "
		_, err := net.RegisterCallback(vpi.CbValueChange, func(d *vpi.CbData) {
			text := "<unknown>"
			if v, ok := d.Object.Value(vpi.FormatObjType); ok {
				text = v.String()
			}
			sim.Printf("%sValue change on signal %s: %s\n", changed, nameOf(d.Object), text)
		})
		if err != nil {
			vpi.Logger().Warn("value change registration failed",
				zap.Stringer("net", net), zap.Error(err))
		}
	}
}

// Timescale prints the timescale of every top-level module at start of
// simulation.
func Timescale(sim *vpi.Simulator) {
	register(sim, vpi.CbStartOfSimulation, func(*vpi.CbData) {
		info := sim.Info()
		sim.Print("=== Timescale Information ===\n")
		sim.Printf("Simulator: %s %s\n\n", info.Product, info.Version)

		scales := sim.TopModuleTimescales()
		if len(scales) == 0 {
			sim.Print("No modules found\n\n")
			return
		}
		sim.Print("Module timescales:\n")
		for _, m := range scales {
			if !m.Defined {
				sim.Printf("  %s : No timescale defined\n", m.Module)
				continue
			}
			ts := m.Timescale
			sim.Printf("  %s : %s\n", m.Module, ts)
			sim.Printf("    Unit: %s (10^%d s)\n", ts.UnitString(), ts.Unit)
			sim.Printf("    Precision: %s (10^%d s)\n", ts.PrecisionString(), ts.Precision)
		}
		sim.Print("\n")
	})
}

func nameOf(h vpi.Handle) string {
	if name, ok := h.Str(vpi.PropName); ok {
		return name
	}
	return "<unnamed>"
}

func register(sim *vpi.Simulator, reason vpi.Reason, fn vpi.CallbackFunc) {
	if _, err := sim.RegisterCallback(reason, fn); err != nil {
		vpi.Logger().Warn("callback registration failed",
			zap.Stringer("reason", reason), zap.Error(err))
	}
}
