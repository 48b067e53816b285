// Package abi describes the native side of the Verilog Procedural Interface.
//
// It holds the fixed contract every backend implements: the integer codes
// from vpi_user.h that the core actually uses, Go renderings of the wire
// structures (s_vpi_time, s_vpi_value, s_cb_data, ...) and the Interface
// method table mirroring the vpi_* entry points.
//
// Nothing here owns native memory. Backends copy native data into these
// structures before returning, so the core never holds a pointer into
// simulator-owned storage:
//
//	cabi/     real C ABI through cgo
//	wasmsim/  simulator compiled to wasm32, hosted by wazero
//	vpitest/  in-memory fake used by tests and the demo CLI
//
// # Strings
//
// Native C strings travel as []byte. A nil slice stands for a NULL pointer,
// an empty non-nil slice for "". Bytes are not validated here; decoding
// and placeholder substitution belong to the core.
package abi
