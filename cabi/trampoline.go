//go:build cgo

package cabi

/*
#include "vpi_user.h"
*/
import "C"

import (
	"sync/atomic"

	vpi "github.com/wippyai/go-vpi"
)

var active atomic.Pointer[vpi.Simulator]

// Simulator returns the Simulator created at plugin startup, or nil
// before the simulator has run the startup routine.
func Simulator() *vpi.Simulator {
	return active.Load()
}

// goVPIStartup is the plugin's only vlog_startup_routines entry. It binds
// a Simulator to the host's vpi_* routines and runs every routine added
// with vpi.OnStartup.
//
//export goVPIStartup
func goVPIStartup() {
	sim := vpi.New(&Native{})
	active.Store(sim)
	vpi.RunStartup(sim)
}

// goVPITrampoline is the cb_rtn of every registration.
//
//export goVPITrampoline
func goVPITrampoline(cd *C.s_cb_data) C.PLI_INT32 {
	sim := active.Load()
	if sim == nil || cd == nil {
		return 0
	}
	n, ok := sim.Native().(*Native)
	if !ok {
		return 0
	}
	return C.PLI_INT32(sim.Dispatch(readCbData(cd, n.size)))
}
