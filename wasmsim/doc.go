// Package wasmsim hosts a simulation kernel compiled to wasm32 and exposes
// it to the core as an abi.Interface.
//
// The guest module must export its linear memory and these functions:
//
//	memory                    linear memory
//	malloc(size) ptr          guest allocator
//	free(ptr)
//	sim_main() i32            runs the simulation to completion
//	vpi_trampoline() i32      table index of a guest routine that forwards
//	                          its p_cb_data argument to vpi_host.dispatch
//	vpi_get, vpi_get_str, vpi_get_time, vpi_get_value, vpi_put_value,
//	vpi_compare_objects, vpi_handle_by_name, vpi_iterate, vpi_scan,
//	vpi_release_handle, vpi_register_cb, vpi_remove_cb, vpi_chk_error,
//	vpi_get_vlog_info, vpi_control, vpi_printf
//
// Variadic entry points (vpi_control, vpi_printf) follow the wasm32 C
// convention: the variadic arguments are spilled to a buffer whose
// address is passed as the last parameter.
//
// The host provides the "vpi_host" module with a single import:
//
//	dispatch(p_cb_data) i32
//
// which decodes the callback payload from guest memory and hands it to the
// attached dispatcher (normally vpi.Simulator.Dispatch). WASI preview1 is
// available to the guest for argv and standard streams.
//
// Structures are read and written with the wasm32 layout of vpi_user.h.
// Guest pointers are 32-bit, so handles fit in abi.Handle unchanged.
package wasmsim
