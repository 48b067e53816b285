package vpitest

import (
	"bytes"
	"slices"
	"strings"

	"github.com/wippyai/go-vpi/abi"
)

// Native method names used as call counter keys.
const (
	CallGet            = "vpi_get"
	CallGetStr         = "vpi_get_str"
	CallGetTime        = "vpi_get_time"
	CallGetValue       = "vpi_get_value"
	CallPutValue       = "vpi_put_value"
	CallCompareObjects = "vpi_compare_objects"
	CallHandleByName   = "vpi_handle_by_name"
	CallIterate        = "vpi_iterate"
	CallScan           = "vpi_scan"
	CallReleaseHandle  = "vpi_release_handle"
	CallRegisterCB     = "vpi_register_cb"
	CallRemoveCB       = "vpi_remove_cb"
	CallChkError       = "vpi_chk_error"
	CallGetVlogInfo    = "vpi_get_vlog_info"
	CallControl        = "vpi_control"
	CallPrintf         = "vpi_printf"
)

type object struct {
	typ      int32
	name     string
	parent   *object
	children []*object
	size     int32
	props    map[int32]int32
	file     string
	line     int32

	words []abi.Vecval
	real  float64
	str   string

	// forceFormat, when set, overrides the format GetValue reports.
	forceFormat int32
}

type iterator struct {
	items []abi.Handle
	pos   int
}

type registration struct {
	data  abi.CbData
	order int
}

// Put records one PutValue call.
type Put struct {
	Obj   abi.Handle
	Value abi.Value
	Time  *abi.Time
	Flags int32
}

// Native is a fake simulator implementing abi.Interface.
type Native struct {
	calls map[string]int

	objects   map[abi.Handle]*object
	handles   map[*object]abi.Handle
	iterators map[abi.Handle]*iterator
	callbacks map[abi.Handle]*registration
	top       []*object
	next      abi.Handle
	order     int

	dispatch func(*abi.CbData) int32

	// Now is the current simulation time in ticks.
	Now uint64

	// Info is returned by GetVlogInfo.
	Info abi.VlogInfo

	// Err is the pending error returned by ChkError.
	Err *abi.ErrorInfo

	// NullEmptyIterators makes Iterate return 0 for empty collections, as
	// most simulators do. By default an iterator is returned and the first
	// Scan ends it.
	NullEmptyIterators bool

	// RefuseRegister makes RegisterCB fail and set Err.
	RefuseRegister bool

	// RefuseRemove makes RemoveCB report failure.
	RefuseRemove bool

	// RefusePrint makes Printf write nothing and return EOF.
	RefusePrint bool

	// Output collects text written with Printf.
	Output bytes.Buffer

	// Released lists handles passed to ReleaseHandle.
	Released []abi.Handle

	// Removed lists callback handles passed to RemoveCB.
	Removed []abi.Handle

	// Controls lists vpi_control operations.
	Controls []int32

	// Puts lists PutValue calls.
	Puts []Put
}

var _ abi.Interface = (*Native)(nil)

// New creates an empty fake simulator.
func New() *Native {
	return &Native{
		calls:     make(map[string]int),
		objects:   make(map[abi.Handle]*object),
		handles:   make(map[*object]abi.Handle),
		iterators: make(map[abi.Handle]*iterator),
		callbacks: make(map[abi.Handle]*registration),
		next:      0x100,
		Info: abi.VlogInfo{
			Argv:    [][]byte{[]byte("vpitest")},
			Product: []byte("vpitest"),
			Version: []byte("1.0"),
		},
	}
}

// Attach sets the trampoline Fire delivers callbacks to, normally
// (*vpi.Simulator).Dispatch.
func (n *Native) Attach(dispatch func(*abi.CbData) int32) {
	n.dispatch = dispatch
}

// Calls returns how many times the named method was called.
func (n *Native) Calls(name string) int {
	return n.calls[name]
}

// TotalCalls returns the number of native calls of any kind.
func (n *Native) TotalCalls() int {
	total := 0
	for _, c := range n.calls {
		total += c
	}
	return total
}

// ResetCalls zeroes the call counters.
func (n *Native) ResetCalls() {
	clear(n.calls)
}

// Registered returns the number of live callback registrations.
func (n *Native) Registered() int {
	return len(n.callbacks)
}

func (n *Native) count(name string) {
	n.calls[name]++
}

func (n *Native) alloc() abi.Handle {
	n.next++
	return n.next
}

func (n *Native) add(parent abi.Handle, typ int32, name string, size int32) abi.Handle {
	o := &object{typ: typ, name: name, size: size, props: make(map[int32]int32)}
	if p := n.objects[parent]; p != nil {
		o.parent = p
		p.children = append(p.children, o)
	} else {
		n.top = append(n.top, o)
	}
	if size > 0 {
		o.words = make([]abi.Vecval, abi.WordsFor(int(size)))
	}
	h := n.alloc()
	n.objects[h] = o
	n.handles[o] = h
	return h
}

// AddModule adds a module under parent, or at the top level when parent
// is 0. Modules default to a 1ns / 1ps timescale.
func (n *Native) AddModule(parent abi.Handle, name string) abi.Handle {
	h := n.add(parent, abi.ObjModule, name, 0)
	o := n.objects[h]
	o.props[abi.PropTimeUnit] = -9
	o.props[abi.PropTimePrecision] = -12
	return h
}

// AddNet adds a wire of size bits.
func (n *Native) AddNet(parent abi.Handle, name string, size int32) abi.Handle {
	h := n.add(parent, abi.ObjNet, name, size)
	n.objects[h].props[abi.PropNetType] = abi.NetWire
	return h
}

// AddReg adds a reg of size bits.
func (n *Native) AddReg(parent abi.Handle, name string, size int32) abi.Handle {
	return n.add(parent, abi.ObjReg, name, size)
}

// AddPort adds a port with the given direction.
func (n *Native) AddPort(parent abi.Handle, name string, size, dir int32) abi.Handle {
	h := n.add(parent, abi.ObjPort, name, size)
	n.objects[h].props[abi.PropDirection] = dir
	return h
}

// AddRealVar adds a real variable.
func (n *Native) AddRealVar(parent abi.Handle, name string) abi.Handle {
	return n.add(parent, abi.ObjRealVar, name, 64)
}

// AddTimeVar adds a 64-bit time variable.
func (n *Native) AddTimeVar(parent abi.Handle, name string) abi.Handle {
	return n.add(parent, abi.ObjTimeVar, name, 64)
}

// Alias returns a second handle for the object behind h. The two compare
// equal through CompareObjects.
func (n *Native) Alias(h abi.Handle) abi.Handle {
	o := n.objects[h]
	if o == nil {
		return 0
	}
	a := n.alloc()
	n.objects[a] = o
	return a
}

// SetProp sets an integer property.
func (n *Native) SetProp(h abi.Handle, prop, value int32) {
	if o := n.objects[h]; o != nil {
		o.props[prop] = value
	}
}

// SetSource sets the file and line reported for h.
func (n *Native) SetSource(h abi.Handle, file string, line int32) {
	if o := n.objects[h]; o != nil {
		o.file, o.line = file, line
	}
}

// SetWords sets the raw four-state words of h. Fewer words than the
// object's size simulate a truncated vector.
func (n *Native) SetWords(h abi.Handle, words ...abi.Vecval) {
	if o := n.objects[h]; o != nil {
		o.words = slices.Clone(words)
	}
}

// SetInt sets h to a fully known integer value.
func (n *Native) SetInt(h abi.Handle, v uint64) {
	o := n.objects[h]
	if o == nil {
		return
	}
	words := make([]abi.Vecval, max(abi.WordsFor(int(o.size)), 1))
	words[0].Aval = uint32(v)
	if len(words) > 1 {
		words[1].Aval = uint32(v >> 32)
	}
	o.words = words
}

// SetReal sets the value of a real variable.
func (n *Native) SetReal(h abi.Handle, v float64) {
	if o := n.objects[h]; o != nil {
		o.real = v
	}
}

// SetString sets the value returned for vpiStringVal requests.
func (n *Native) SetString(h abi.Handle, s string) {
	if o := n.objects[h]; o != nil {
		o.str = s
	}
}

// ForceFormat makes GetValue on h report format regardless of the
// request, as simulators that coerce values do.
func (n *Native) ForceFormat(h abi.Handle, format int32) {
	if o := n.objects[h]; o != nil {
		o.forceFormat = format
	}
}

func (n *Native) fullName(o *object) string {
	var parts []string
	for p := o; p != nil; p = p.parent {
		parts = append(parts, p.name)
	}
	slices.Reverse(parts)
	return strings.Join(parts, ".")
}

// Get implements abi.Interface.
func (n *Native) Get(prop int32, obj abi.Handle) int32 {
	n.count(CallGet)
	o := n.objects[obj]
	if o == nil {
		return abi.PropUndefined
	}
	if v, ok := o.props[prop]; ok {
		return v
	}
	switch prop {
	case abi.PropType:
		return o.typ
	case abi.PropSize:
		return o.size
	case abi.PropLineNo:
		return o.line
	case abi.PropTopModule:
		if o.typ == abi.ObjModule && o.parent == nil {
			return 1
		}
		return 0
	case abi.PropScalar:
		if o.size == 1 {
			return 1
		}
		return 0
	case abi.PropVector:
		if o.size > 1 {
			return 1
		}
		return 0
	}
	return abi.PropUndefined
}

var typeNames = map[int32]string{
	abi.ObjModule:   "vpiModule",
	abi.ObjNet:      "vpiNet",
	abi.ObjReg:      "vpiReg",
	abi.ObjPort:     "vpiPort",
	abi.ObjRealVar:  "vpiRealVar",
	abi.ObjTimeVar:  "vpiTimeVar",
	abi.ObjIterator: "vpiIterator",
	abi.ObjCallback: "vpiCallback",
}

// GetStr implements abi.Interface.
func (n *Native) GetStr(prop int32, obj abi.Handle) []byte {
	n.count(CallGetStr)
	o := n.objects[obj]
	if o == nil {
		return nil
	}
	switch prop {
	case abi.PropName:
		return []byte(o.name)
	case abi.PropFullName:
		return []byte(n.fullName(o))
	case abi.PropType:
		if name, ok := typeNames[o.typ]; ok {
			return []byte(name)
		}
	case abi.PropDefName:
		if o.typ == abi.ObjModule {
			return []byte(o.name)
		}
	case abi.PropFile, abi.PropDefFile:
		if o.file != "" {
			return []byte(o.file)
		}
	}
	return nil
}

func (n *Native) timeAs(typ int32) abi.Time {
	switch typ {
	case abi.ScaledRealTime:
		return abi.Time{Type: typ, Real: float64(n.Now)}
	case abi.SuppressTime:
		return abi.Time{Type: typ}
	default:
		return abi.Time{Type: abi.SimTime, High: uint32(n.Now >> 32), Low: uint32(n.Now)}
	}
}

// GetTime implements abi.Interface.
func (n *Native) GetTime(obj abi.Handle, t *abi.Time) {
	n.count(CallGetTime)
	*t = n.timeAs(t.Type)
}

// CompareObjects implements abi.Interface.
func (n *Native) CompareObjects(a, b abi.Handle) bool {
	n.count(CallCompareObjects)
	oa, ob := n.objects[a], n.objects[b]
	return oa != nil && oa == ob
}

// HandleByName implements abi.Interface.
func (n *Native) HandleByName(name string, scope abi.Handle) abi.Handle {
	n.count(CallHandleByName)
	candidates := n.top
	if s := n.objects[scope]; s != nil {
		candidates = s.children
	}
	parts := strings.Split(name, ".")
	var found *object
	for _, part := range parts {
		found = nil
		for _, c := range candidates {
			if c.name == part {
				found = c
				break
			}
		}
		if found == nil {
			return 0
		}
		candidates = found.children
	}
	return n.handles[found]
}

// Iterate implements abi.Interface.
func (n *Native) Iterate(kind int32, ref abi.Handle) abi.Handle {
	n.count(CallIterate)
	src := n.top
	if ref != 0 {
		o := n.objects[ref]
		if o == nil {
			return 0
		}
		src = o.children
	}
	it := &iterator{}
	for _, c := range src {
		if c.typ == kind {
			it.items = append(it.items, n.handles[c])
		}
	}
	if len(it.items) == 0 && n.NullEmptyIterators {
		return 0
	}
	h := n.alloc()
	n.iterators[h] = it
	return h
}

// Scan implements abi.Interface. The iterator is freed when it ends.
func (n *Native) Scan(iter abi.Handle) abi.Handle {
	n.count(CallScan)
	it := n.iterators[iter]
	if it == nil {
		return 0
	}
	if it.pos >= len(it.items) {
		delete(n.iterators, iter)
		return 0
	}
	h := it.items[it.pos]
	it.pos++
	return h
}

// LiveIterators returns the number of iterators not yet freed.
func (n *Native) LiveIterators() int {
	return len(n.iterators)
}

// ReleaseHandle implements abi.Interface.
func (n *Native) ReleaseHandle(obj abi.Handle) bool {
	n.count(CallReleaseHandle)
	n.Released = append(n.Released, obj)
	if _, ok := n.iterators[obj]; ok {
		delete(n.iterators, obj)
		return true
	}
	_, ok := n.objects[obj]
	return ok
}

// RegisterCB implements abi.Interface.
func (n *Native) RegisterCB(data *abi.CbData) abi.Handle {
	n.count(CallRegisterCB)
	if n.RefuseRegister {
		n.Err = &abi.ErrorInfo{
			State:   abi.StatePLI,
			Level:   abi.LevelError,
			Message: []byte("callback registration refused"),
			Product: []byte("vpitest"),
			Code:    []byte("CB001"),
		}
		return 0
	}
	reg := &registration{data: *data, order: n.order}
	n.order++
	if data.Time != nil {
		t := *data.Time
		reg.data.Time = &t
	}
	if data.Value != nil {
		v := abi.Value{Format: data.Value.Format}
		reg.data.Value = &v
	}
	h := n.alloc()
	n.callbacks[h] = reg
	return h
}

// RemoveCB implements abi.Interface.
func (n *Native) RemoveCB(cb abi.Handle) bool {
	n.count(CallRemoveCB)
	n.Removed = append(n.Removed, cb)
	if n.RefuseRemove {
		return false
	}
	if _, ok := n.callbacks[cb]; !ok {
		return false
	}
	delete(n.callbacks, cb)
	return true
}

// ChkError implements abi.Interface.
func (n *Native) ChkError(info *abi.ErrorInfo) int32 {
	n.count(CallChkError)
	if n.Err == nil {
		return 0
	}
	*info = *n.Err
	if info.Level == 0 {
		return abi.LevelError
	}
	return info.Level
}

// GetVlogInfo implements abi.Interface.
func (n *Native) GetVlogInfo(info *abi.VlogInfo) bool {
	n.count(CallGetVlogInfo)
	*info = n.Info
	return true
}

// Control implements abi.Interface.
func (n *Native) Control(op, arg int32) bool {
	n.count(CallControl)
	n.Controls = append(n.Controls, op)
	return true
}

// Printf implements abi.Interface.
func (n *Native) Printf(msg []byte) int32 {
	n.count(CallPrintf)
	if n.RefusePrint {
		return -1
	}
	n.Output.Write(msg)
	return int32(len(msg))
}
