//go:build cgo

package cabi

/*
#include <stdlib.h>
#include <string.h>
#include "vpi_user.h"

static vpiHandle handle_of(uintptr_t h) { return (vpiHandle)h; }
static uintptr_t handle_bits(vpiHandle h) { return (uintptr_t)h; }

static PLI_BYTE8 *value_str(p_vpi_value v) { return v->value.str; }
static PLI_INT32 value_scalar(p_vpi_value v) { return v->value.scalar; }
static PLI_INT32 value_integer(p_vpi_value v) { return v->value.integer; }
static double value_real(p_vpi_value v) { return v->value.real; }
static p_vpi_time value_time(p_vpi_value v) { return v->value.time; }
static p_vpi_vecval value_vector(p_vpi_value v) { return v->value.vector; }
static p_vpi_strengthval value_strength(p_vpi_value v) { return v->value.strength; }

static void set_value_str(p_vpi_value v, PLI_BYTE8 *s) { v->value.str = s; }
static void set_value_scalar(p_vpi_value v, PLI_INT32 x) { v->value.scalar = x; }
static void set_value_integer(p_vpi_value v, PLI_INT32 x) { v->value.integer = x; }
static void set_value_real(p_vpi_value v, double x) { v->value.real = x; }
static void set_value_time(p_vpi_value v, p_vpi_time t) { v->value.time = t; }
static void set_value_vector(p_vpi_value v, p_vpi_vecval w) { v->value.vector = w; }
static void set_value_strength(p_vpi_value v, p_vpi_strengthval s) { v->value.strength = s; }
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/go-vpi/abi"
)

// Native implements abi.Interface over the vpi_* routines of the
// simulator that loaded the plugin. Every structure handed to the
// simulator lives in C memory owned by a per-call arena.
type Native struct{}

var _ abi.Interface = (*Native)(nil)

func handleOf(h abi.Handle) C.vpiHandle {
	return C.handle_of(C.uintptr_t(h))
}

func handleBits(h C.vpiHandle) abi.Handle {
	return abi.Handle(C.handle_bits(h))
}

// cBytes copies a NUL-terminated simulator string. NULL yields nil and an
// empty string a non-nil empty slice.
func cBytes(p *C.PLI_BYTE8) []byte {
	if p == nil {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(p), C.int(C.strlen((*C.char)(unsafe.Pointer(p)))))
}

// arena collects C allocations for one call.
type arena struct {
	ptrs []unsafe.Pointer
}

func (a *arena) alloc(size C.size_t) unsafe.Pointer {
	p := C.calloc(1, size)
	if p == nil {
		panic("cabi: out of C memory")
	}
	a.ptrs = append(a.ptrs, p)
	return p
}

func (a *arena) cstring(b []byte) *C.PLI_BYTE8 {
	p := a.alloc(C.size_t(len(b) + 1))
	if len(b) > 0 {
		C.memcpy(p, unsafe.Pointer(&b[0]), C.size_t(len(b)))
	}
	return (*C.PLI_BYTE8)(p)
}

func (a *arena) time(t *abi.Time) *C.s_vpi_time {
	if t == nil {
		return nil
	}
	ct := (*C.s_vpi_time)(a.alloc(C.sizeof_s_vpi_time))
	ct._type = C.PLI_INT32(t.Type)
	ct.high = C.PLI_UINT32(t.High)
	ct.low = C.PLI_UINT32(t.Low)
	ct.real = C.double(t.Real)
	return ct
}

// value encodes v, payload included, into C memory.
func (a *arena) value(v *abi.Value) *C.s_vpi_value {
	if v == nil {
		return nil
	}
	cv := (*C.s_vpi_value)(a.alloc(C.sizeof_s_vpi_value))
	cv.format = C.PLI_INT32(v.Format)
	switch v.Format {
	case abi.BinStrVal, abi.OctStrVal, abi.DecStrVal, abi.HexStrVal, abi.StringVal:
		C.set_value_str(cv, a.cstring(v.Str))
	case abi.ScalarVal:
		C.set_value_scalar(cv, C.PLI_INT32(v.Scalar))
	case abi.IntVal:
		C.set_value_integer(cv, C.PLI_INT32(v.Integer))
	case abi.RealVal:
		C.set_value_real(cv, C.double(v.Real))
	case abi.TimeVal:
		C.set_value_time(cv, a.time(v.Time))
	case abi.VectorVal:
		if len(v.Vector) > 0 {
			p := (*C.s_vpi_vecval)(a.alloc(C.size_t(len(v.Vector)) * C.sizeof_s_vpi_vecval))
			words := unsafe.Slice(p, len(v.Vector))
			for i, w := range v.Vector {
				words[i].aval = C.PLI_INT32(int32(w.Aval))
				words[i].bval = C.PLI_INT32(int32(w.Bval))
			}
			C.set_value_vector(cv, p)
		}
	case abi.StrengthVal:
		if len(v.Strength) > 0 {
			p := (*C.s_vpi_strengthval)(a.alloc(C.size_t(len(v.Strength)) * C.sizeof_s_vpi_strengthval))
			vals := unsafe.Slice(p, len(v.Strength))
			for i, s := range v.Strength {
				vals[i].logic = C.PLI_INT32(s.Logic)
				vals[i].s0 = C.PLI_INT32(s.S0)
				vals[i].s1 = C.PLI_INT32(s.S1)
			}
			C.set_value_strength(cv, p)
		}
	}
	return cv
}

func (a *arena) release() {
	for i := len(a.ptrs) - 1; i >= 0; i-- {
		C.free(a.ptrs[i])
	}
	a.ptrs = nil
}

func readTime(ct *C.s_vpi_time) abi.Time {
	return abi.Time{
		Type: int32(ct._type),
		High: uint32(ct.high),
		Low:  uint32(ct.low),
		Real: float64(ct.real),
	}
}

// readValue copies a simulator-filled value. size bounds the vector and
// strength arrays; the simulator gives no other length.
func readValue(cv *C.s_vpi_value, size int, v *abi.Value) {
	*v = abi.Value{Format: int32(cv.format)}
	switch v.Format {
	case abi.BinStrVal, abi.OctStrVal, abi.DecStrVal, abi.HexStrVal, abi.StringVal:
		v.Str = cBytes(C.value_str(cv))
	case abi.ScalarVal:
		v.Scalar = int32(C.value_scalar(cv))
	case abi.IntVal:
		v.Integer = int32(C.value_integer(cv))
	case abi.RealVal:
		v.Real = float64(C.value_real(cv))
	case abi.TimeVal:
		if ct := C.value_time(cv); ct != nil {
			t := readTime(ct)
			v.Time = &t
		}
	case abi.VectorVal:
		p := C.value_vector(cv)
		n := abi.WordsFor(size)
		if p == nil || n == 0 {
			return
		}
		v.Vector = make([]abi.Vecval, n)
		for i, w := range unsafe.Slice(p, n) {
			v.Vector[i] = abi.Vecval{Aval: uint32(w.aval), Bval: uint32(w.bval)}
		}
	case abi.StrengthVal:
		p := C.value_strength(cv)
		if p == nil {
			return
		}
		v.Strength = make([]abi.Strengthval, max(size, 1))
		for i, s := range unsafe.Slice(p, len(v.Strength)) {
			v.Strength[i] = abi.Strengthval{Logic: int32(s.logic), S0: int32(s.s0), S1: int32(s.s1)}
		}
	}
}

// readCbData copies a callback payload handed to the trampoline.
func readCbData(cd *C.s_cb_data, size func(abi.Handle) int) *abi.CbData {
	data := &abi.CbData{
		Reason:   int32(cd.reason),
		Obj:      handleBits(cd.obj),
		Index:    int32(cd.index),
		UserData: uintptr(C.go_vpi_cb_key(cd)),
	}
	if cd.time != nil {
		t := readTime(cd.time)
		data.Time = &t
	}
	if cd.value != nil {
		v := &abi.Value{}
		readValue(cd.value, size(data.Obj), v)
		data.Value = v
	}
	return data
}

func (n *Native) size(obj abi.Handle) int {
	if obj == 0 {
		return 0
	}
	return int(n.Get(abi.PropSize, obj))
}

func (n *Native) Get(prop int32, obj abi.Handle) int32 {
	return int32(C.vpi_get(C.PLI_INT32(prop), handleOf(obj)))
}

func (n *Native) GetStr(prop int32, obj abi.Handle) []byte {
	return cBytes(C.vpi_get_str(C.PLI_INT32(prop), handleOf(obj)))
}

func (n *Native) GetTime(obj abi.Handle, t *abi.Time) {
	a := &arena{}
	defer a.release()

	ct := a.time(t)
	C.vpi_get_time(handleOf(obj), ct)
	*t = readTime(ct)
}

func (n *Native) GetValue(obj abi.Handle, v *abi.Value) {
	a := &arena{}
	defer a.release()

	req := &abi.Value{Format: v.Format}
	if v.Format == abi.TimeVal {
		req.Time = v.Time
		if req.Time == nil {
			req.Time = &abi.Time{Type: abi.SimTime}
		}
	}
	cv := a.value(req)
	C.vpi_get_value(handleOf(obj), cv)
	readValue(cv, n.size(obj), v)
}

func (n *Native) PutValue(obj abi.Handle, v *abi.Value, t *abi.Time, flags int32) abi.Handle {
	a := &arena{}
	defer a.release()

	return handleBits(C.vpi_put_value(handleOf(obj), a.value(v), a.time(t), C.PLI_INT32(flags)))
}

func (n *Native) CompareObjects(x, y abi.Handle) bool {
	return C.vpi_compare_objects(handleOf(x), handleOf(y)) != 0
}

func (n *Native) HandleByName(name string, scope abi.Handle) abi.Handle {
	a := &arena{}
	defer a.release()

	return handleBits(C.vpi_handle_by_name(a.cstring([]byte(name)), handleOf(scope)))
}

func (n *Native) Iterate(kind int32, ref abi.Handle) abi.Handle {
	return handleBits(C.vpi_iterate(C.PLI_INT32(kind), handleOf(ref)))
}

func (n *Native) Scan(iter abi.Handle) abi.Handle {
	return handleBits(C.vpi_scan(handleOf(iter)))
}

func (n *Native) ReleaseHandle(obj abi.Handle) bool {
	return C.vpi_release_handle(handleOf(obj)) != 0
}

// RegisterCB installs the Go trampoline as cb_rtn and the capsule key as
// user_data. The simulator copies the structure, so it is freed on return.
func (n *Native) RegisterCB(data *abi.CbData) abi.Handle {
	a := &arena{}
	defer a.release()

	cd := (*C.s_cb_data)(a.alloc(C.sizeof_s_cb_data))
	cd.reason = C.PLI_INT32(data.Reason)
	cd.obj = handleOf(data.Obj)
	cd.time = a.time(data.Time)
	cd.value = a.value(data.Value)
	cd.index = C.PLI_INT32(data.Index)
	C.go_vpi_prepare_cb(cd, C.uintptr_t(data.UserData))
	return handleBits(C.vpi_register_cb(cd))
}

func (n *Native) RemoveCB(cb abi.Handle) bool {
	return C.vpi_remove_cb(handleOf(cb)) != 0
}

func (n *Native) ChkError(info *abi.ErrorInfo) int32 {
	var ci C.s_vpi_error_info
	level := int32(C.vpi_chk_error(&ci))
	if level == 0 {
		return 0
	}
	*info = abi.ErrorInfo{
		State:   int32(ci.state),
		Level:   int32(ci.level),
		Message: cBytes(ci.message),
		Product: cBytes(ci.product),
		Code:    cBytes(ci.code),
		File:    cBytes(ci.file),
		Line:    int32(ci.line),
	}
	return level
}

func (n *Native) GetVlogInfo(info *abi.VlogInfo) bool {
	var vi C.s_vpi_vlog_info
	if C.vpi_get_vlog_info(&vi) == 0 {
		return false
	}
	out := abi.VlogInfo{
		Product: cBytes(vi.product),
		Version: cBytes(vi.version),
	}
	if vi.argv != nil && vi.argc > 0 {
		for _, arg := range unsafe.Slice(vi.argv, int(vi.argc)) {
			out.Argv = append(out.Argv, cBytes(arg))
		}
	}
	*info = out
	return true
}

func (n *Native) Control(op int32, arg int32) bool {
	return C.go_vpi_control(C.PLI_INT32(op), C.PLI_INT32(arg)) != 0
}

func (n *Native) Printf(msg []byte) int32 {
	a := &arena{}
	defer a.release()

	return int32(C.go_vpi_print(a.cstring(msg)))
}
