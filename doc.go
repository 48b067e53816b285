// Package vpi provides a Go binding for the IEEE 1364 Verilog Procedural
// Interface (VPI).
//
// Plugins loaded by a hardware simulator use VPI to inspect the design,
// read and write signal values, and register callbacks for simulation
// events. This package wraps the raw C-level interface behind typed values
// so that plugin code never handles native pointers.
//
// # Architecture Overview
//
//	vpi/                 Simulator, Handle, Value and Time codecs, callback bridge
//	├── abi/             Native interface contract: wire structs, constants, Interface
//	├── resource/        Generation-checked capsule table for callback closures
//	├── errors/          Structured error types
//	├── cabi/            cgo backend over vpi_user.h (build tag cgo)
//	├── wasmsim/         Backend for simulators compiled to WebAssembly (wazero)
//	├── vpitest/         Call-counting fake simulator for tests
//	└── cmd/vpirun/      CLI: simulator info, signal dumper, hierarchy browser
//
// # Quick Start
//
// Register a startup routine that walks the top-level modules:
//
//	func init() {
//	    vpi.OnStartup(func(sim *vpi.Simulator) {
//	        sim.RegisterCallback(vpi.CbStartOfSimulation, func(*vpi.CbData) {
//	            it := sim.Root().Iterate(vpi.ObjModule)
//	            for mod := range it.All() {
//	                name, _ := mod.Str(vpi.PropName)
//	                sim.Printf("module %s\n", name)
//	            }
//	        })
//	    })
//	}
//
// # Handles
//
// A Handle is a copyable reference to a simulator object. It never owns the
// native object: identity is decided by the simulator through Equal, and
// every accessor on a null Handle returns (zero, false) without calling
// into the simulator.
//
// # Callbacks
//
// RegisterCallback stores the Go closure in a capsule table and passes only
// a 32-bit key to the simulator. Callback.Remove deregisters the callback
// and reclaims the capsule exactly once; a second Remove returns an error.
// Keys carry a generation counter, so a late firing for a removed callback
// is ignored.
//
// # Threading
//
// The simulator drives the plugin from a single thread. Closures may call
// back into any Simulator or Handle method, including registering further
// callbacks.
package vpi
