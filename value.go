package vpi

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/go-vpi/abi"
	"github.com/wippyai/go-vpi/errors"
)

// ValueFormat selects the representation vpi_get_value returns.
type ValueFormat int32

const (
	FormatBinStr       = ValueFormat(abi.BinStrVal)
	FormatOctStr       = ValueFormat(abi.OctStrVal)
	FormatDecStr       = ValueFormat(abi.DecStrVal)
	FormatHexStr       = ValueFormat(abi.HexStrVal)
	FormatScalar       = ValueFormat(abi.ScalarVal)
	FormatInt          = ValueFormat(abi.IntVal)
	FormatReal         = ValueFormat(abi.RealVal)
	FormatString       = ValueFormat(abi.StringVal)
	FormatVector       = ValueFormat(abi.VectorVal)
	FormatStrength     = ValueFormat(abi.StrengthVal)
	FormatTime         = ValueFormat(abi.TimeVal)
	FormatObjType      = ValueFormat(abi.ObjTypeVal)
	FormatSuppress     = ValueFormat(abi.SuppressVal)
	FormatShortInt     = ValueFormat(abi.ShortIntVal)
	FormatLongInt      = ValueFormat(abi.LongIntVal)
	FormatShortReal    = ValueFormat(abi.ShortRealVal)
	FormatRawTwoState  = ValueFormat(abi.RawTwoStateVal)
	FormatRawFourState = ValueFormat(abi.RawFourStateVal)
)

var formatNames = map[ValueFormat]string{
	FormatBinStr:       "binstr",
	FormatOctStr:       "octstr",
	FormatDecStr:       "decstr",
	FormatHexStr:       "hexstr",
	FormatScalar:       "scalar",
	FormatInt:          "int",
	FormatReal:         "real",
	FormatString:       "string",
	FormatVector:       "vector",
	FormatStrength:     "strength",
	FormatTime:         "time",
	FormatObjType:      "objtype",
	FormatSuppress:     "suppress",
	FormatShortInt:     "shortint",
	FormatLongInt:      "longint",
	FormatShortReal:    "shortreal",
	FormatRawTwoState:  "raw2state",
	FormatRawFourState: "raw4state",
}

func (f ValueFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "format(" + strconv.Itoa(int(f)) + ")"
}

// Supported reports whether values of this format can be decoded.
func (f ValueFormat) Supported() bool {
	return f >= FormatBinStr && f <= FormatSuppress
}

// ParseValueFormat returns the format with the given name.
func ParseValueFormat(name string) (ValueFormat, bool) {
	for f, n := range formatNames {
		if n == name {
			return f, true
		}
	}
	return 0, false
}

// Value is a decoded simulator value. The concrete types are BinStr,
// OctStr, DecStr, HexStr, Scalar, Int, Real, String, Vector, Strength,
// TimeValue, ObjType and Suppressed.
type Value interface {
	Format() ValueFormat
	String() string
	isValue()
}

type (
	// BinStr is a value as a binary digit string.
	BinStr string
	// OctStr is a value as an octal digit string.
	OctStr string
	// DecStr is a value as a decimal digit string.
	DecStr string
	// HexStr is a value as a hexadecimal digit string.
	HexStr string
	// Int is a 32-bit signed value.
	Int int32
	// Real is a double precision value.
	Real float64
	// String is a value interpreted as text.
	String string
	// ObjType is the object type code reported for a vpiObjTypeVal request.
	ObjType int32
	// Suppressed means the simulator delivered no value.
	Suppressed struct{}
)

// TimeValue is a value of a time variable.
type TimeValue struct {
	Time Time
}

func (BinStr) Format() ValueFormat     { return FormatBinStr }
func (OctStr) Format() ValueFormat     { return FormatOctStr }
func (DecStr) Format() ValueFormat     { return FormatDecStr }
func (HexStr) Format() ValueFormat     { return FormatHexStr }
func (Scalar) Format() ValueFormat     { return FormatScalar }
func (Int) Format() ValueFormat        { return FormatInt }
func (Real) Format() ValueFormat       { return FormatReal }
func (String) Format() ValueFormat     { return FormatString }
func (Vector) Format() ValueFormat     { return FormatVector }
func (Strength) Format() ValueFormat   { return FormatStrength }
func (TimeValue) Format() ValueFormat  { return FormatTime }
func (ObjType) Format() ValueFormat    { return FormatObjType }
func (Suppressed) Format() ValueFormat { return FormatSuppress }

func (v BinStr) String() string    { return string(v) }
func (v OctStr) String() string    { return string(v) }
func (v DecStr) String() string    { return string(v) }
func (v HexStr) String() string    { return string(v) }
func (v Int) String() string       { return strconv.FormatInt(int64(v), 10) }
func (v Real) String() string      { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v String) String() string    { return string(v) }
func (v TimeValue) String() string { return v.Time.String() }
func (v ObjType) String() string   { return ObjectType(v).String() }
func (Suppressed) String() string  { return "suppressed" }

func (BinStr) isValue()     {}
func (OctStr) isValue()     {}
func (DecStr) isValue()     {}
func (HexStr) isValue()     {}
func (Scalar) isValue()     {}
func (Int) isValue()        {}
func (Real) isValue()       {}
func (String) isValue()     {}
func (Vector) isValue()     {}
func (Strength) isValue()   {}
func (TimeValue) isValue()  {}
func (ObjType) isValue()    {}
func (Suppressed) isValue() {}

// Scalar is a four-state logic level with strength-reduced extras.
type Scalar int32

const (
	ScalarZero     = Scalar(abi.Logic0)
	ScalarOne      = Scalar(abi.Logic1)
	ScalarZ        = Scalar(abi.LogicZ)
	ScalarX        = Scalar(abi.LogicX)
	ScalarH        = Scalar(abi.LogicH)
	ScalarL        = Scalar(abi.LogicL)
	ScalarDontCare = Scalar(abi.LogicDontCare)
)

// scalarFromCode maps a native scalar code. Unknown codes become DontCare.
func scalarFromCode(code int32) Scalar {
	if code < abi.Logic0 || code > abi.LogicDontCare {
		return ScalarDontCare
	}
	return Scalar(code)
}

func (s Scalar) String() string {
	switch s {
	case ScalarZero:
		return "0"
	case ScalarOne:
		return "1"
	case ScalarZ:
		return "z"
	case ScalarX:
		return "x"
	case ScalarH:
		return "h"
	case ScalarL:
		return "l"
	default:
		return "-"
	}
}

// Vector is a four-state bit vector. Index 0 is the most significant bit.
type Vector []Scalar

func (v Vector) String() string {
	var b strings.Builder
	b.Grow(len(v))
	for _, s := range v {
		b.WriteString(s.String())
	}
	return b.String()
}

// StrengthFlags is a set of drive and charge strength bits.
type StrengthFlags uint32

const (
	SupplyDrive  = StrengthFlags(abi.SupplyDrive)
	StrongDrive  = StrengthFlags(abi.StrongDrive)
	PullDrive    = StrengthFlags(abi.PullDrive)
	LargeCharge  = StrengthFlags(abi.LargeCharge)
	WeakDrive    = StrengthFlags(abi.WeakDrive)
	MediumCharge = StrengthFlags(abi.MediumCharge)
	SmallCharge  = StrengthFlags(abi.SmallCharge)
	HiZ          = StrengthFlags(abi.HiZ)
)

var strengthNames = []struct {
	flag StrengthFlags
	name string
}{
	{SupplyDrive, "supply"},
	{StrongDrive, "strong"},
	{PullDrive, "pull"},
	{LargeCharge, "large"},
	{WeakDrive, "weak"},
	{MediumCharge, "medium"},
	{SmallCharge, "small"},
	{HiZ, "highz"},
}

func (f StrengthFlags) String() string {
	var parts []string
	for _, n := range strengthNames {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Strength is a logic level with its 0 and 1 strengths.
type Strength struct {
	Logic Scalar
	S0    StrengthFlags
	S1    StrengthFlags
}

func (s Strength) String() string {
	return s.Logic.String() + "(" + s.S0.String() + "," + s.S1.String() + ")"
}

// nativeText converts native text, returning "" for invalid UTF-8.
func nativeText(b []byte) string {
	if !utf8.Valid(b) {
		return ""
	}
	return string(b)
}

// Value reads the object's value in the requested format. The result is
// decoded by the format the simulator actually returned. It reports false
// for a null handle or a format this package does not decode; neither
// case calls into the simulator.
func (h Handle) Value(format ValueFormat) (Value, bool) {
	if h.IsNull() || !format.Supported() {
		return nil, false
	}
	v := abi.Value{Format: int32(format)}
	if format == FormatTime {
		v.Time = &abi.Time{Type: abi.SimTime}
	}
	h.sim.native.GetValue(h.raw, &v)
	return h.sim.decodeValue(h.raw, &v)
}

func (s *Simulator) decodeValue(obj abi.Handle, v *abi.Value) (Value, bool) {
	switch v.Format {
	case abi.BinStrVal:
		return BinStr(nativeText(v.Str)), true
	case abi.OctStrVal:
		return OctStr(nativeText(v.Str)), true
	case abi.DecStrVal:
		return DecStr(nativeText(v.Str)), true
	case abi.HexStrVal:
		return HexStr(nativeText(v.Str)), true
	case abi.StringVal:
		return String(nativeText(v.Str)), true
	case abi.ScalarVal:
		return scalarFromCode(v.Scalar), true
	case abi.IntVal:
		return Int(v.Integer), true
	case abi.RealVal:
		return Real(v.Real), true
	case abi.ObjTypeVal:
		return ObjType(v.Integer), true
	case abi.SuppressVal:
		return Suppressed{}, true
	case abi.VectorVal:
		return DecodeVector(v.Vector, s.vectorSize(obj, len(v.Vector))), true
	case abi.StrengthVal:
		if len(v.Strength) == 0 {
			return nil, false
		}
		sv := v.Strength[0]
		return Strength{
			Logic: scalarFromCode(sv.Logic),
			S0:    StrengthFlags(sv.S0),
			S1:    StrengthFlags(sv.S1),
		}, true
	case abi.TimeVal:
		if v.Time == nil {
			return nil, false
		}
		return TimeValue{Time: DecodeTime(*v.Time)}, true
	default:
		return nil, false
	}
}

// vectorSize returns the object's width, falling back to the number of
// words delivered when the object is unknown.
func (s *Simulator) vectorSize(obj abi.Handle, words int) int {
	if obj != 0 {
		if size := s.native.Get(abi.PropSize, obj); size > 0 {
			return int(size)
		}
	}
	return words * 32
}

// fourState maps e = (aval<<1)|bval to a logic level.
var fourState = [4]Scalar{ScalarZero, ScalarZ, ScalarOne, ScalarX}

// DecodeVector decodes size bits from native words. Exactly
// abi.WordsFor(size) words are consumed; words that are missing decode as
// zero bits. Index 0 of the result is the most significant bit.
func DecodeVector(words []abi.Vecval, size int) Vector {
	if size <= 0 {
		return Vector{}
	}
	out := make(Vector, size)
	for i := 0; i < size; i++ {
		var e uint32
		if w := i / 32; w < len(words) {
			pos := uint(i % 32)
			a := (words[w].Aval >> pos) & 1
			b := (words[w].Bval >> pos) & 1
			e = a<<1 | b
		}
		out[size-1-i] = fourState[e]
	}
	return out
}

// EncodeVector is the inverse of DecodeVector. H and L encode as 1 and 0;
// DontCare encodes as X.
func EncodeVector(v Vector) []abi.Vecval {
	words := make([]abi.Vecval, abi.WordsFor(len(v)))
	for i := range v {
		var a, b uint32
		switch v[len(v)-1-i] {
		case ScalarOne, ScalarH:
			a = 1
		case ScalarZ:
			b = 1
		case ScalarX, ScalarDontCare:
			a, b = 1, 1
		}
		pos := uint(i % 32)
		words[i/32].Aval |= a << pos
		words[i/32].Bval |= b << pos
	}
	return words
}

// encodeValue converts v for vpi_put_value.
func encodeValue(v Value) (*abi.Value, error) {
	out := &abi.Value{}
	switch x := v.(type) {
	case BinStr:
		out.Format, out.Str = abi.BinStrVal, []byte(x)
	case OctStr:
		out.Format, out.Str = abi.OctStrVal, []byte(x)
	case DecStr:
		out.Format, out.Str = abi.DecStrVal, []byte(x)
	case HexStr:
		out.Format, out.Str = abi.HexStrVal, []byte(x)
	case String:
		out.Format, out.Str = abi.StringVal, []byte(x)
	case Scalar:
		out.Format, out.Scalar = abi.ScalarVal, int32(x)
	case Int:
		out.Format, out.Integer = abi.IntVal, int32(x)
	case Real:
		out.Format, out.Real = abi.RealVal, float64(x)
	case Vector:
		out.Format, out.Vector = abi.VectorVal, EncodeVector(x)
	case Strength:
		out.Format = abi.StrengthVal
		out.Strength = []abi.Strengthval{{Logic: int32(x.Logic), S0: int32(x.S0), S1: int32(x.S1)}}
	case TimeValue:
		t := EncodeTime(x.Time)
		out.Format, out.Time = abi.TimeVal, &t
	case Suppressed:
		out.Format = abi.SuppressVal
	default:
		return nil, errors.Unsupported(errors.PhaseEncode, "value "+describe(v))
	}
	return out, nil
}

func describe(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.Format().String()
}
