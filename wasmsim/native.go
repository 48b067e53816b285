package wasmsim

import (
	"go.uber.org/zap"

	"github.com/wippyai/go-vpi/abi"
	"github.com/wippyai/go-vpi/errors"
)

// Guest export names.
const (
	fnMalloc         = "malloc"
	fnFree           = "free"
	fnMain           = "sim_main"
	fnTrampoline     = "vpi_trampoline"
	fnGet            = "vpi_get"
	fnGetStr         = "vpi_get_str"
	fnGetTime        = "vpi_get_time"
	fnGetValue       = "vpi_get_value"
	fnPutValue       = "vpi_put_value"
	fnCompareObjects = "vpi_compare_objects"
	fnHandleByName   = "vpi_handle_by_name"
	fnIterate        = "vpi_iterate"
	fnScan           = "vpi_scan"
	fnReleaseHandle  = "vpi_release_handle"
	fnRegisterCB     = "vpi_register_cb"
	fnRemoveCB       = "vpi_remove_cb"
	fnChkError       = "vpi_chk_error"
	fnGetVlogInfo    = "vpi_get_vlog_info"
	fnControl        = "vpi_control"
	fnPrintf         = "vpi_printf"
)

// requiredExports lists every function a guest simulator must export.
var requiredExports = []string{
	fnMalloc, fnFree, fnMain, fnTrampoline,
	fnGet, fnGetStr, fnGetTime, fnGetValue, fnPutValue,
	fnCompareObjects, fnHandleByName, fnIterate, fnScan, fnReleaseHandle,
	fnRegisterCB, fnRemoveCB, fnChkError, fnGetVlogInfo, fnControl, fnPrintf,
}

// Native implements abi.Interface over a guest simulator. Structures are
// marshalled into guest memory for each call and copied out before the
// call returns.
//
// abi.Interface has no error returns, so a failed guest call yields the
// zero result. The first such failure is kept and reported by Err.
type Native struct {
	g          guest
	alloc      Allocator
	trampoline uint32
	dispatch   func(*abi.CbData) int32
	err        error
	log        *zap.Logger
}

var _ abi.Interface = (*Native)(nil)

func newNative(log *zap.Logger) *Native {
	if log == nil {
		log = Logger()
	}
	return &Native{log: log}
}

// bind connects the Native to an instantiated guest and resolves the
// callback trampoline.
func (n *Native) bind(g guest) error {
	n.g = g
	n.alloc = &guestAllocator{g: g}
	idx, err := g.Call(fnTrampoline)
	if err != nil {
		return errors.Load("resolve callback trampoline", err)
	}
	n.trampoline = uint32(idx)
	return nil
}

// Attach sets the function that receives every callback firing.
func (n *Native) Attach(dispatch func(*abi.CbData) int32) {
	n.dispatch = dispatch
}

// Err returns the first guest call or memory failure, if any.
func (n *Native) Err() error {
	return n.err
}

func (n *Native) fail(op string, err error) {
	n.log.Error("guest call failed", zap.String("op", op), zap.Error(err))
	if n.err == nil {
		n.err = err
	}
}

func (n *Native) mem() Memory {
	return n.g.Memory()
}

func (n *Native) call(op string, args ...uint64) uint32 {
	r, err := n.g.Call(op, args...)
	if err != nil {
		n.fail(op, err)
		return 0
	}
	return uint32(r)
}

func (n *Native) scratch() *scratch {
	return newScratch(n.mem(), n.alloc)
}

func hArg(x abi.Handle) uint64 { return uint64(uint32(x)) }

func iArg(x int32) uint64 { return uint64(uint32(x)) }

// size is the bit width of obj, used to bound vector reads.
func (n *Native) size(obj abi.Handle) int {
	if obj == 0 {
		return 0
	}
	return int(n.Get(abi.PropSize, obj))
}

// fire is the body of the vpi_host.dispatch import.
func (n *Native) fire(ptr uint32) int32 {
	if n.dispatch == nil || ptr == 0 {
		return 0
	}
	data, err := readCbData(n.mem(), ptr, n.size)
	if err != nil {
		n.fail("dispatch", err)
		return 0
	}
	return n.dispatch(data)
}

func (n *Native) Get(prop int32, obj abi.Handle) int32 {
	return int32(n.call(fnGet, iArg(prop), hArg(obj)))
}

func (n *Native) GetStr(prop int32, obj abi.Handle) []byte {
	p := n.call(fnGetStr, iArg(prop), hArg(obj))
	s, err := readCString(n.mem(), p)
	if err != nil {
		n.fail(fnGetStr, err)
		return nil
	}
	return s
}

func (n *Native) GetTime(obj abi.Handle, t *abi.Time) {
	s := n.scratch()
	defer s.release()

	tp, err := s.time(t)
	if err != nil {
		n.fail(fnGetTime, err)
		return
	}
	n.call(fnGetTime, hArg(obj), uint64(tp))
	out, err := readTime(n.mem(), tp)
	if err != nil {
		n.fail(fnGetTime, err)
		return
	}
	*t = out
}

func (n *Native) GetValue(obj abi.Handle, v *abi.Value) {
	s := n.scratch()
	defer s.release()

	req := &abi.Value{Format: v.Format}
	if v.Format == abi.TimeVal {
		req.Time = v.Time
		if req.Time == nil {
			req.Time = &abi.Time{Type: abi.SimTime}
		}
	}
	vp, err := s.value(req)
	if err != nil {
		n.fail(fnGetValue, err)
		return
	}
	n.call(fnGetValue, hArg(obj), uint64(vp))
	if err := readValue(n.mem(), vp, func() int { return n.size(obj) }, v); err != nil {
		n.fail(fnGetValue, err)
		*v = abi.Value{}
	}
}

func (n *Native) PutValue(obj abi.Handle, v *abi.Value, t *abi.Time, flags int32) abi.Handle {
	s := n.scratch()
	defer s.release()

	vp, err := s.value(v)
	if err != nil {
		n.fail(fnPutValue, err)
		return 0
	}
	tp, err := s.time(t)
	if err != nil {
		n.fail(fnPutValue, err)
		return 0
	}
	return abi.Handle(n.call(fnPutValue, hArg(obj), uint64(vp), uint64(tp), iArg(flags)))
}

func (n *Native) CompareObjects(a, b abi.Handle) bool {
	return n.call(fnCompareObjects, hArg(a), hArg(b)) != 0
}

func (n *Native) HandleByName(name string, scope abi.Handle) abi.Handle {
	s := n.scratch()
	defer s.release()

	p, err := s.cstring([]byte(name))
	if err != nil {
		n.fail(fnHandleByName, err)
		return 0
	}
	return abi.Handle(n.call(fnHandleByName, uint64(p), hArg(scope)))
}

func (n *Native) Iterate(kind int32, ref abi.Handle) abi.Handle {
	return abi.Handle(n.call(fnIterate, iArg(kind), hArg(ref)))
}

func (n *Native) Scan(iter abi.Handle) abi.Handle {
	return abi.Handle(n.call(fnScan, hArg(iter)))
}

func (n *Native) ReleaseHandle(obj abi.Handle) bool {
	return n.call(fnReleaseHandle, hArg(obj)) != 0
}

// RegisterCB copies data into guest memory with the guest trampoline as
// cb_rtn. The simulator copies the structure during registration, so the
// guest copy is freed when the call returns.
func (n *Native) RegisterCB(data *abi.CbData) abi.Handle {
	s := n.scratch()
	defer s.release()

	p, err := s.cbData(data, n.trampoline)
	if err != nil {
		n.fail(fnRegisterCB, err)
		return 0
	}
	return abi.Handle(n.call(fnRegisterCB, uint64(p)))
}

func (n *Native) RemoveCB(cb abi.Handle) bool {
	return n.call(fnRemoveCB, hArg(cb)) != 0
}

func (n *Native) ChkError(info *abi.ErrorInfo) int32 {
	s := n.scratch()
	defer s.release()

	p, err := s.zeroed(errorInfoSize)
	if err != nil {
		n.fail(fnChkError, err)
		return 0
	}
	level := int32(n.call(fnChkError, uint64(p)))
	if level == 0 {
		return 0
	}
	if err := readErrorInfo(n.mem(), p, info); err != nil {
		n.fail(fnChkError, err)
	}
	return level
}

func (n *Native) GetVlogInfo(info *abi.VlogInfo) bool {
	s := n.scratch()
	defer s.release()

	p, err := s.zeroed(vlogInfoSize)
	if err != nil {
		n.fail(fnGetVlogInfo, err)
		return false
	}
	if n.call(fnGetVlogInfo, uint64(p)) == 0 {
		return false
	}
	if err := readVlogInfo(n.mem(), p, info); err != nil {
		n.fail(fnGetVlogInfo, err)
		return false
	}
	return true
}

// varargs spills 32-bit variadic arguments into a guest buffer.
func (s *scratch) varargs(args ...uint32) (uint32, error) {
	p, err := s.zeroed(uint32(len(args)) * ptrSize)
	if err != nil {
		return 0, err
	}
	for i, a := range args {
		if err := s.mem.WriteU32(p+uint32(i)*ptrSize, a); err != nil {
			return 0, err
		}
	}
	return p, nil
}

func (n *Native) Control(op int32, arg int32) bool {
	s := n.scratch()
	defer s.release()

	ap, err := s.varargs(uint32(arg))
	if err != nil {
		n.fail(fnControl, err)
		return false
	}
	return n.call(fnControl, iArg(op), uint64(ap)) != 0
}

func (n *Native) Printf(msg []byte) int32 {
	s := n.scratch()
	defer s.release()

	fp, err := s.cstring([]byte("%s"))
	if err != nil {
		n.fail(fnPrintf, err)
		return 0
	}
	mp, err := s.cstring(msg)
	if err != nil {
		n.fail(fnPrintf, err)
		return 0
	}
	ap, err := s.varargs(mp)
	if err != nil {
		n.fail(fnPrintf, err)
		return 0
	}
	return int32(n.call(fnPrintf, uint64(fp), uint64(ap)))
}
