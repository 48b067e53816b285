package vpitest

import (
	"math"
	"math/big"
	"slices"
	"strings"

	"github.com/wippyai/go-vpi/abi"
)

// bit returns the native scalar code of bit i (LSB first).
func bit(words []abi.Vecval, i int) int32 {
	w := i / 32
	if w >= len(words) {
		return abi.Logic0
	}
	pos := uint(i % 32)
	a := (words[w].Aval >> pos) & 1
	b := (words[w].Bval >> pos) & 1
	switch a<<1 | b {
	case 1:
		return abi.LogicZ
	case 2:
		return abi.Logic1
	case 3:
		return abi.LogicX
	}
	return abi.Logic0
}

func hasUnknown(words []abi.Vecval) bool {
	for _, w := range words {
		if w.Bval != 0 {
			return true
		}
	}
	return false
}

func binString(o *object) string {
	size := int(o.size)
	if size <= 0 {
		size = len(o.words) * 32
	}
	var b strings.Builder
	for i := size - 1; i >= 0; i-- {
		b.WriteByte("01zx"[bit(o.words, i)])
	}
	return b.String()
}

func bigValue(words []abi.Vecval) *big.Int {
	v := new(big.Int)
	for i := len(words) - 1; i >= 0; i-- {
		v.Lsh(v, 32)
		v.Or(v, big.NewInt(int64(words[i].Aval)))
	}
	return v
}

func radixString(o *object, base int) string {
	if hasUnknown(o.words) {
		return "x"
	}
	return bigValue(o.words).Text(base)
}

// GetValue implements abi.Interface. Vector requests receive the object's
// stored words, which may be fewer than its size.
func (n *Native) GetValue(obj abi.Handle, v *abi.Value) {
	n.count(CallGetValue)
	o := n.objects[obj]
	if o == nil {
		return
	}
	n.fill(o, v)
}

func (n *Native) fill(o *object, v *abi.Value) {
	format := v.Format
	if o.forceFormat != 0 {
		format = o.forceFormat
	}
	if format == abi.ObjTypeVal {
		switch {
		case o.typ == abi.ObjRealVar:
			format = abi.RealVal
		case o.typ == abi.ObjTimeVar:
			format = abi.TimeVal
		case o.size == 1:
			format = abi.ScalarVal
		default:
			format = abi.VectorVal
		}
	}

	*v = abi.Value{Format: format}
	switch format {
	case abi.BinStrVal:
		v.Str = []byte(binString(o))
	case abi.OctStrVal:
		v.Str = []byte(radixString(o, 8))
	case abi.DecStrVal:
		v.Str = []byte(radixString(o, 10))
	case abi.HexStrVal:
		v.Str = []byte(radixString(o, 16))
	case abi.ScalarVal:
		v.Scalar = bit(o.words, 0)
	case abi.IntVal:
		if len(o.words) > 0 {
			v.Integer = int32(o.words[0].Aval)
		}
	case abi.RealVal:
		v.Real = o.real
	case abi.StringVal:
		v.Str = []byte(o.str)
	case abi.VectorVal:
		v.Vector = slices.Clone(o.words)
	case abi.StrengthVal:
		v.Strength = []abi.Strengthval{{Logic: bit(o.words, 0), S0: abi.StrongDrive, S1: abi.StrongDrive}}
	case abi.TimeVal:
		t := abi.Time{Type: abi.SimTime}
		if len(o.words) > 0 {
			t.Low = o.words[0].Aval
		}
		if len(o.words) > 1 {
			t.High = o.words[1].Aval
		}
		v.Time = &t
	case abi.SuppressVal:
	default:
		v.Format = 0
	}
}

// store writes a put value into o.
func store(o *object, v *abi.Value) {
	n := max(abi.WordsFor(int(o.size)), 1)
	switch v.Format {
	case abi.IntVal:
		o.words = make([]abi.Vecval, n)
		o.words[0].Aval = uint32(v.Integer)
	case abi.ScalarVal:
		o.words = make([]abi.Vecval, n)
		switch v.Scalar {
		case abi.Logic1, abi.LogicH:
			o.words[0].Aval = 1
		case abi.LogicZ:
			o.words[0].Bval = 1
		case abi.LogicX, abi.LogicDontCare:
			o.words[0] = abi.Vecval{Aval: 1, Bval: 1}
		}
	case abi.VectorVal:
		o.words = slices.Clone(v.Vector)
	case abi.RealVal:
		o.real = v.Real
	case abi.StringVal:
		o.str = string(v.Str)
	case abi.BinStrVal:
		o.words = make([]abi.Vecval, n)
		s := string(v.Str)
		for i := 0; i < len(s) && i < n*32; i++ {
			pos := uint(i % 32)
			w := &o.words[i/32]
			switch s[len(s)-1-i] {
			case '1':
				w.Aval |= 1 << pos
			case 'z', 'Z':
				w.Bval |= 1 << pos
			case 'x', 'X':
				w.Aval |= 1 << pos
				w.Bval |= 1 << pos
			}
		}
	case abi.DecStrVal, abi.HexStrVal, abi.OctStrVal:
		base := map[int32]int{abi.DecStrVal: 10, abi.HexStrVal: 16, abi.OctStrVal: 8}[v.Format]
		b, ok := new(big.Int).SetString(string(v.Str), base)
		o.words = make([]abi.Vecval, n)
		if !ok {
			for i := range o.words {
				o.words[i] = abi.Vecval{Aval: math.MaxUint32, Bval: math.MaxUint32}
			}
			return
		}
		mask := new(big.Int).SetUint64(math.MaxUint32)
		for i := range o.words {
			o.words[i].Aval = uint32(new(big.Int).And(b, mask).Uint64())
			b.Rsh(b, 32)
		}
	case abi.TimeVal:
		if v.Time != nil {
			o.words = []abi.Vecval{{Aval: v.Time.Low}, {Aval: v.Time.High}}
		}
	}
}

// PutValue implements abi.Interface. The value is applied immediately and
// value-change callbacks on obj fire before PutValue returns.
func (n *Native) PutValue(obj abi.Handle, v *abi.Value, t *abi.Time, flags int32) abi.Handle {
	n.count(CallPutValue)
	put := Put{Obj: obj, Value: *v, Flags: flags}
	if t != nil {
		tc := *t
		put.Time = &tc
	}
	n.Puts = append(n.Puts, put)

	o := n.objects[obj]
	if o == nil {
		return 0
	}
	store(o, v)
	n.Fire(abi.CbValueChange, obj)

	if flags&abi.ReturnEvent != 0 {
		return n.alloc()
	}
	return 0
}

// Change sets h to an integer value and fires its value-change callbacks.
func (n *Native) Change(h abi.Handle, v uint64) int {
	n.SetInt(h, v)
	return n.Fire(abi.CbValueChange, h)
}

// Advance moves simulation time forward by dt ticks.
func (n *Native) Advance(dt uint64) {
	n.Now += dt
}

// Fire delivers reason to every matching registration in registration
// order and returns how many were dispatched. A non-zero obj restricts
// delivery to registrations watching that object. Registrations removed
// while firing are skipped.
func (n *Native) Fire(reason int32, obj abi.Handle) int {
	if n.dispatch == nil {
		return 0
	}

	type pending struct {
		handle abi.Handle
		order  int
	}
	var todo []pending
	for h, reg := range n.callbacks {
		if reg.data.Reason != reason {
			continue
		}
		if obj != 0 && !n.sameObject(reg.data.Obj, obj) {
			continue
		}
		todo = append(todo, pending{h, reg.order})
	}
	slices.SortFunc(todo, func(a, b pending) int { return a.order - b.order })

	fired := 0
	for _, p := range todo {
		reg, ok := n.callbacks[p.handle]
		if !ok {
			continue
		}
		payload := abi.CbData{
			Reason:   reason,
			Obj:      reg.data.Obj,
			Index:    reg.data.Index,
			UserData: reg.data.UserData,
		}
		if payload.Obj == 0 {
			payload.Obj = obj
		}
		if reg.data.Time != nil {
			t := n.timeAs(reg.data.Time.Type)
			payload.Time = &t
		}
		if reg.data.Value != nil {
			v := abi.Value{Format: reg.data.Value.Format}
			if o := n.objects[payload.Obj]; o != nil {
				n.fill(o, &v)
			}
			payload.Value = &v
		}
		n.dispatch(&payload)
		fired++
	}
	return fired
}

func (n *Native) sameObject(a, b abi.Handle) bool {
	oa := n.objects[a]
	return oa != nil && oa == n.objects[b]
}
