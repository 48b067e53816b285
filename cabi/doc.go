// Package cabi binds go-vpi to a real simulator through the C VPI.
//
// A plugin built with -buildmode=c-shared and importing cabi exports
// vlog_startup_routines with a single entry. When the simulator loads the
// plugin, that entry creates a vpi.Simulator over the host's vpi_*
// routines and runs the routines registered with vpi.OnStartup. Every
// callback registration installs the same exported trampoline as cb_rtn
// and carries its capsule key in user_data.
//
// The package requires cgo.
package cabi
