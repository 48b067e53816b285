package abi

// Interface is the vpi_* function table of a simulation kernel.
//
// Implementations must not retain the pointers passed in; output
// structures are filled in place. Calls are made from the thread the
// simulator drives the plugin on and may be nested: a callback routine
// can call back into any method.
type Interface interface {
	// Get is vpi_get.
	Get(prop int32, obj Handle) int32

	// GetStr is vpi_get_str. Returns nil for a NULL result.
	GetStr(prop int32, obj Handle) []byte

	// GetTime is vpi_get_time. t.Type selects the requested representation.
	GetTime(obj Handle, t *Time)

	// GetValue is vpi_get_value. v.Format selects the requested format;
	// the simulator may overwrite it with the format it actually used.
	GetValue(obj Handle, v *Value)

	// PutValue is vpi_put_value. Returns the scheduled event handle when
	// flags include ReturnEvent.
	PutValue(obj Handle, v *Value, t *Time, flags int32) Handle

	// CompareObjects is vpi_compare_objects.
	CompareObjects(a, b Handle) bool

	// HandleByName is vpi_handle_by_name.
	HandleByName(name string, scope Handle) Handle

	// Iterate is vpi_iterate. A zero ref iterates the top level.
	Iterate(kind int32, ref Handle) Handle

	// Scan is vpi_scan. The simulator frees the iterator when it returns 0.
	Scan(iter Handle) Handle

	// ReleaseHandle is vpi_release_handle (vpi_free_object in older headers).
	ReleaseHandle(obj Handle) bool

	// RegisterCB is vpi_register_cb.
	RegisterCB(data *CbData) Handle

	// RemoveCB is vpi_remove_cb.
	RemoveCB(cb Handle) bool

	// ChkError is vpi_chk_error. Returns 0 when no error is pending.
	ChkError(info *ErrorInfo) int32

	// GetVlogInfo is vpi_get_vlog_info.
	GetVlogInfo(info *VlogInfo) bool

	// Control is vpi_control with a single diagnostic argument.
	Control(op int32, arg int32) bool

	// Printf is vpi_printf("%s", msg). msg is 7-bit ASCII.
	Printf(msg []byte) int32
}
