package wasmsim

import (
	"math"

	"github.com/wippyai/go-vpi/abi"
	"github.com/wippyai/go-vpi/errors"
)

// wasm32 layouts of the vpi_user.h structures.
const (
	timeSize  = 24 // s_vpi_time: type@0 high@4 low@8 real@16
	timeType  = 0
	timeHigh  = 4
	timeLow   = 8
	timeReal  = 16
	vecvalSz  = 8  // s_vpi_vecval: aval@0 bval@4
	strengthS = 12 // s_vpi_strengthval: logic@0 s0@4 s1@8

	valueSize   = 16 // s_vpi_value: format@0 union@8
	valueFormat = 0
	valueUnion  = 8

	cbDataSize     = 28 // s_cb_data
	cbDataReason   = 0
	cbDataRoutine  = 4
	cbDataObj      = 8
	cbDataTime     = 12
	cbDataValue    = 16
	cbDataIndex    = 20
	cbDataUserData = 24

	errorInfoSize    = 28 // s_vpi_error_info
	errorInfoState   = 0
	errorInfoLevel   = 4
	errorInfoMessage = 8
	errorInfoProduct = 12
	errorInfoCode    = 16
	errorInfoFile    = 20
	errorInfoLine    = 24

	vlogInfoSize    = 16 // s_vpi_vlog_info
	vlogInfoArgc    = 0
	vlogInfoArgv    = 4
	vlogInfoProduct = 8
	vlogInfoVersion = 12

	ptrSize = 4
)

// readCString copies a NUL-terminated string out of guest memory. A zero
// pointer yields nil. A string running to the end of memory is cut there.
func readCString(mem Memory, ptr uint32) ([]byte, error) {
	if ptr == 0 {
		return nil, nil
	}
	size := mem.Size()
	if ptr >= size {
		return nil, errors.OutOfBounds(errors.PhaseDecode, "guest string", ptr, 1)
	}
	data, err := mem.Read(ptr, size-ptr)
	if err != nil {
		return nil, err
	}
	for i, b := range data {
		if b == 0 {
			return append([]byte{}, data[:i]...), nil
		}
	}
	return append([]byte{}, data...), nil
}

func readI32(mem Memory, offset uint32) (int32, error) {
	v, err := mem.ReadU32(offset)
	return int32(v), err
}

// readTime decodes an s_vpi_time.
func readTime(mem Memory, ptr uint32) (abi.Time, error) {
	var t abi.Time
	typ, err := mem.ReadU32(ptr + timeType)
	if err != nil {
		return t, err
	}
	high, err := mem.ReadU32(ptr + timeHigh)
	if err != nil {
		return t, err
	}
	low, err := mem.ReadU32(ptr + timeLow)
	if err != nil {
		return t, err
	}
	bits, err := mem.ReadU64(ptr + timeReal)
	if err != nil {
		return t, err
	}
	t.Type = int32(typ)
	t.High = high
	t.Low = low
	t.Real = math.Float64frombits(bits)
	return t, nil
}

// writeTime encodes an s_vpi_time.
func writeTime(mem Memory, ptr uint32, t *abi.Time) error {
	if err := mem.WriteU32(ptr+timeType, uint32(t.Type)); err != nil {
		return err
	}
	if err := mem.WriteU32(ptr+timeHigh, t.High); err != nil {
		return err
	}
	if err := mem.WriteU32(ptr+timeLow, t.Low); err != nil {
		return err
	}
	return mem.WriteU64(ptr+timeReal, math.Float64bits(t.Real))
}

// fitting returns how many elements of width bytes starting at ptr lie
// inside memory, capped at n.
func fitting(mem Memory, ptr uint32, n int, width uint32) int {
	size := mem.Size()
	if n <= 0 || ptr >= size {
		return 0
	}
	avail := int((size - ptr) / width)
	return min(n, avail)
}

// readVecvals reads up to n words. Words past the end of memory are
// dropped, so the result may be shorter than n.
func readVecvals(mem Memory, ptr uint32, n int) ([]abi.Vecval, error) {
	n = fitting(mem, ptr, n, vecvalSz)
	words := make([]abi.Vecval, n)
	for i := range words {
		off := ptr + uint32(i)*vecvalSz
		a, err := mem.ReadU32(off)
		if err != nil {
			return nil, err
		}
		b, err := mem.ReadU32(off + 4)
		if err != nil {
			return nil, err
		}
		words[i] = abi.Vecval{Aval: a, Bval: b}
	}
	return words, nil
}

func readStrengths(mem Memory, ptr uint32, n int) ([]abi.Strengthval, error) {
	n = fitting(mem, ptr, n, strengthS)
	out := make([]abi.Strengthval, n)
	for i := range out {
		off := ptr + uint32(i)*strengthS
		logic, err := readI32(mem, off)
		if err != nil {
			return nil, err
		}
		s0, err := readI32(mem, off+4)
		if err != nil {
			return nil, err
		}
		s1, err := readI32(mem, off+8)
		if err != nil {
			return nil, err
		}
		out[i] = abi.Strengthval{Logic: logic, S0: s0, S1: s1}
	}
	return out, nil
}

// readValue decodes an s_vpi_value into v. size reports the object's bit
// width and is consulted only for vector and strength payloads.
func readValue(mem Memory, ptr uint32, size func() int, v *abi.Value) error {
	format, err := readI32(mem, ptr+valueFormat)
	if err != nil {
		return err
	}
	*v = abi.Value{Format: format}
	union := ptr + valueUnion

	switch format {
	case abi.BinStrVal, abi.OctStrVal, abi.DecStrVal, abi.HexStrVal, abi.StringVal:
		p, err := mem.ReadU32(union)
		if err != nil {
			return err
		}
		v.Str, err = readCString(mem, p)
		return err
	case abi.ScalarVal:
		v.Scalar, err = readI32(mem, union)
		return err
	case abi.IntVal:
		v.Integer, err = readI32(mem, union)
		return err
	case abi.RealVal:
		bits, err := mem.ReadU64(union)
		if err != nil {
			return err
		}
		v.Real = math.Float64frombits(bits)
	case abi.TimeVal:
		p, err := mem.ReadU32(union)
		if err != nil || p == 0 {
			return err
		}
		t, err := readTime(mem, p)
		if err != nil {
			return err
		}
		v.Time = &t
	case abi.VectorVal:
		p, err := mem.ReadU32(union)
		if err != nil || p == 0 {
			return err
		}
		v.Vector, err = readVecvals(mem, p, abi.WordsFor(size()))
		return err
	case abi.StrengthVal:
		p, err := mem.ReadU32(union)
		if err != nil || p == 0 {
			return err
		}
		v.Strength, err = readStrengths(mem, p, max(size(), 1))
		return err
	}
	return nil
}

// scratch tracks guest allocations made for one native call and frees
// them together.
type scratch struct {
	mem   Memory
	alloc Allocator
	ptrs  []uint32
	sizes []uint32
}

func newScratch(mem Memory, alloc Allocator) *scratch {
	return &scratch{mem: mem, alloc: alloc}
}

// zeroed allocates size bytes and clears them.
func (s *scratch) zeroed(size uint32) (uint32, error) {
	ptr, err := s.alloc.Alloc(size, 8)
	if err != nil {
		return 0, err
	}
	s.ptrs = append(s.ptrs, ptr)
	s.sizes = append(s.sizes, size)
	if err := s.mem.Write(ptr, make([]byte, size)); err != nil {
		return 0, err
	}
	return ptr, nil
}

// cstring copies b into the guest with a trailing NUL.
func (s *scratch) cstring(b []byte) (uint32, error) {
	ptr, err := s.zeroed(uint32(len(b)) + 1)
	if err != nil {
		return 0, err
	}
	return ptr, s.mem.Write(ptr, b)
}

func (s *scratch) time(t *abi.Time) (uint32, error) {
	if t == nil {
		return 0, nil
	}
	ptr, err := s.zeroed(timeSize)
	if err != nil {
		return 0, err
	}
	return ptr, writeTime(s.mem, ptr, t)
}

// value encodes v as an s_vpi_value with its payload.
func (s *scratch) value(v *abi.Value) (uint32, error) {
	if v == nil {
		return 0, nil
	}
	ptr, err := s.zeroed(valueSize)
	if err != nil {
		return 0, err
	}
	if err := s.mem.WriteU32(ptr+valueFormat, uint32(v.Format)); err != nil {
		return 0, err
	}
	union := ptr + valueUnion

	switch v.Format {
	case abi.BinStrVal, abi.OctStrVal, abi.DecStrVal, abi.HexStrVal, abi.StringVal:
		if v.Str == nil {
			break
		}
		p, err := s.cstring(v.Str)
		if err != nil {
			return 0, err
		}
		err = s.mem.WriteU32(union, p)
		return ptr, err
	case abi.ScalarVal:
		return ptr, s.mem.WriteU32(union, uint32(v.Scalar))
	case abi.IntVal:
		return ptr, s.mem.WriteU32(union, uint32(v.Integer))
	case abi.RealVal:
		return ptr, s.mem.WriteU64(union, math.Float64bits(v.Real))
	case abi.TimeVal:
		p, err := s.time(v.Time)
		if err != nil {
			return 0, err
		}
		return ptr, s.mem.WriteU32(union, p)
	case abi.VectorVal:
		if len(v.Vector) == 0 {
			break
		}
		p, err := s.zeroed(uint32(len(v.Vector)) * vecvalSz)
		if err != nil {
			return 0, err
		}
		for i, w := range v.Vector {
			off := p + uint32(i)*vecvalSz
			if err := s.mem.WriteU32(off, w.Aval); err != nil {
				return 0, err
			}
			if err := s.mem.WriteU32(off+4, w.Bval); err != nil {
				return 0, err
			}
		}
		return ptr, s.mem.WriteU32(union, p)
	case abi.StrengthVal:
		if len(v.Strength) == 0 {
			break
		}
		p, err := s.zeroed(uint32(len(v.Strength)) * strengthS)
		if err != nil {
			return 0, err
		}
		for i, st := range v.Strength {
			off := p + uint32(i)*strengthS
			for j, f := range []int32{st.Logic, st.S0, st.S1} {
				if err := s.mem.WriteU32(off+uint32(j)*4, uint32(f)); err != nil {
					return 0, err
				}
			}
		}
		return ptr, s.mem.WriteU32(union, p)
	}
	return ptr, nil
}

// cbData encodes an s_cb_data with routine as cb_rtn.
func (s *scratch) cbData(data *abi.CbData, routine uint32) (uint32, error) {
	ptr, err := s.zeroed(cbDataSize)
	if err != nil {
		return 0, err
	}
	tp, err := s.time(data.Time)
	if err != nil {
		return 0, err
	}
	vp, err := s.value(data.Value)
	if err != nil {
		return 0, err
	}
	fields := [...]struct {
		off uint32
		val uint32
	}{
		{cbDataReason, uint32(data.Reason)},
		{cbDataRoutine, routine},
		{cbDataObj, uint32(data.Obj)},
		{cbDataTime, tp},
		{cbDataValue, vp},
		{cbDataIndex, uint32(data.Index)},
		{cbDataUserData, uint32(data.UserData)},
	}
	for _, f := range fields {
		if err := s.mem.WriteU32(ptr+f.off, f.val); err != nil {
			return 0, err
		}
	}
	return ptr, nil
}

// release frees every allocation in reverse order.
func (s *scratch) release() {
	for i := len(s.ptrs) - 1; i >= 0; i-- {
		s.alloc.Free(s.ptrs[i], s.sizes[i], 8)
	}
	s.ptrs = s.ptrs[:0]
	s.sizes = s.sizes[:0]
}

// readCbData decodes an s_cb_data delivered to the trampoline. size
// reports the bit width of the payload object.
func readCbData(mem Memory, ptr uint32, size func(abi.Handle) int) (*abi.CbData, error) {
	var raw [cbDataSize / 4]uint32
	for i := range raw {
		v, err := mem.ReadU32(ptr + uint32(i)*4)
		if err != nil {
			return nil, err
		}
		raw[i] = v
	}

	data := &abi.CbData{
		Reason:   int32(raw[cbDataReason/4]),
		Obj:      abi.Handle(raw[cbDataObj/4]),
		Index:    int32(raw[cbDataIndex/4]),
		UserData: uintptr(raw[cbDataUserData/4]),
	}
	if tp := raw[cbDataTime/4]; tp != 0 {
		t, err := readTime(mem, tp)
		if err != nil {
			return nil, err
		}
		data.Time = &t
	}
	if vp := raw[cbDataValue/4]; vp != 0 {
		v := &abi.Value{}
		if err := readValue(mem, vp, func() int { return size(data.Obj) }, v); err != nil {
			return nil, err
		}
		data.Value = v
	}
	return data, nil
}

// readErrorInfo decodes an s_vpi_error_info.
func readErrorInfo(mem Memory, ptr uint32, info *abi.ErrorInfo) error {
	var err error
	if info.State, err = readI32(mem, ptr+errorInfoState); err != nil {
		return err
	}
	if info.Level, err = readI32(mem, ptr+errorInfoLevel); err != nil {
		return err
	}
	strs := [...]struct {
		off uint32
		dst *[]byte
	}{
		{errorInfoMessage, &info.Message},
		{errorInfoProduct, &info.Product},
		{errorInfoCode, &info.Code},
		{errorInfoFile, &info.File},
	}
	for _, f := range strs {
		p, err := mem.ReadU32(ptr + f.off)
		if err != nil {
			return err
		}
		if *f.dst, err = readCString(mem, p); err != nil {
			return err
		}
	}
	info.Line, err = readI32(mem, ptr+errorInfoLine)
	return err
}

// readVlogInfo decodes an s_vpi_vlog_info including its argv array.
func readVlogInfo(mem Memory, ptr uint32, info *abi.VlogInfo) error {
	argc, err := readI32(mem, ptr+vlogInfoArgc)
	if err != nil {
		return err
	}
	argv, err := mem.ReadU32(ptr + vlogInfoArgv)
	if err != nil {
		return err
	}
	info.Argv = nil
	if argv != 0 {
		n := fitting(mem, argv, int(argc), ptrSize)
		for i := range n {
			p, err := mem.ReadU32(argv + uint32(i)*ptrSize)
			if err != nil {
				return err
			}
			arg, err := readCString(mem, p)
			if err != nil {
				return err
			}
			info.Argv = append(info.Argv, arg)
		}
	}
	for _, f := range [...]struct {
		off uint32
		dst *[]byte
	}{
		{vlogInfoProduct, &info.Product},
		{vlogInfoVersion, &info.Version},
	} {
		p, err := mem.ReadU32(ptr + f.off)
		if err != nil {
			return err
		}
		if *f.dst, err = readCString(mem, p); err != nil {
			return err
		}
	}
	return nil
}
