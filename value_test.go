package vpi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/wippyai/go-vpi/abi"
	"github.com/wippyai/go-vpi/errors"
	"github.com/wippyai/go-vpi/vpitest"
)

func TestDecodeVector(t *testing.T) {
	tests := []struct {
		name  string
		words []abi.Vecval
		size  int
		want  Vector
	}{
		{
			name:  "one x zero",
			words: []abi.Vecval{{Aval: 0b110, Bval: 0b010}},
			size:  3,
			want:  Vector{ScalarOne, ScalarX, ScalarZero},
		},
		{
			name:  "z",
			words: []abi.Vecval{{Aval: 0, Bval: 1}},
			size:  1,
			want:  Vector{ScalarZ},
		},
		{
			name:  "extra words ignored",
			words: []abi.Vecval{{Aval: 1}, {Aval: 0xFFFFFFFF, Bval: 0xFFFFFFFF}},
			size:  2,
			want:  Vector{ScalarZero, ScalarOne},
		},
		{
			name: "zero size",
			size: 0,
			want: Vector{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeVector(tt.words, tt.size)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeVector mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeVectorTruncated(t *testing.T) {
	got := DecodeVector([]abi.Vecval{{Aval: 0xFFFFFFFF, Bval: 0xFFFFFFFF}}, 40)
	if len(got) != 40 {
		t.Fatalf("len = %d, want 40", len(got))
	}
	// Bits 32..39 are the first eight entries in MSB-first order.
	for i := 0; i < 8; i++ {
		if got[i] != ScalarZero {
			t.Errorf("bit %d = %v, want 0", 39-i, got[i])
		}
	}
	for i := 8; i < 40; i++ {
		if got[i] != ScalarX {
			t.Errorf("bit %d = %v, want x", 39-i, got[i])
		}
	}
}

func TestVectorRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := Vector(rapid.SliceOfN(
			rapid.SampledFrom([]Scalar{ScalarZero, ScalarOne, ScalarX, ScalarZ}), 1, 130,
		).Draw(t, "vector"))

		words := EncodeVector(v)
		if len(words) != abi.WordsFor(len(v)) {
			t.Fatalf("encoded %d bits into %d words", len(v), len(words))
		}
		got := DecodeVector(words, len(v))
		if diff := cmp.Diff(v, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestVectorString(t *testing.T) {
	v := Vector{ScalarOne, ScalarX, ScalarZ, ScalarZero, ScalarH, ScalarL, ScalarDontCare}
	if got := v.String(); got != "1xz0hl-" {
		t.Errorf("String = %q", got)
	}
}

func TestScalarFromCode(t *testing.T) {
	tests := []struct {
		code int32
		want Scalar
	}{
		{abi.Logic0, ScalarZero},
		{abi.Logic1, ScalarOne},
		{abi.LogicZ, ScalarZ},
		{abi.LogicX, ScalarX},
		{abi.LogicH, ScalarH},
		{abi.LogicL, ScalarL},
		{abi.LogicDontCare, ScalarDontCare},
		{42, ScalarDontCare},
		{-1, ScalarDontCare},
	}
	for _, tt := range tests {
		if got := scalarFromCode(tt.code); got != tt.want {
			t.Errorf("scalarFromCode(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestHandleValue(t *testing.T) {
	sim, native := newTestSim(t)
	top := native.AddModule(0, "top")
	bus := native.AddNet(top, "bus", 8)
	native.SetWords(bus, abi.Vecval{Aval: 0xA5})
	bit := native.AddReg(top, "bit", 1)
	native.SetWords(bit, abi.Vecval{Aval: 1, Bval: 1})
	r := native.AddRealVar(top, "r")
	native.SetReal(r, 2.5)
	tv := native.AddTimeVar(top, "t")
	native.SetWords(tv, abi.Vecval{Aval: 7}, abi.Vecval{Aval: 1})
	s := native.AddReg(top, "s", 32)
	native.SetString(s, "hi")

	tests := []struct {
		name   string
		obj    abi.Handle
		format ValueFormat
		want   Value
	}{
		{"binstr", bus, FormatBinStr, BinStr("10100101")},
		{"hexstr", bus, FormatHexStr, HexStr("a5")},
		{"octstr", bus, FormatOctStr, OctStr("245")},
		{"decstr", bus, FormatDecStr, DecStr("165")},
		{"int", bus, FormatInt, Int(0xA5)},
		{"vector", bus, FormatVector, Vector{ScalarOne, ScalarZero, ScalarOne, ScalarZero, ScalarZero, ScalarOne, ScalarZero, ScalarOne}},
		{"scalar", bit, FormatScalar, ScalarX},
		{"real", r, FormatReal, Real(2.5)},
		{"string", s, FormatString, String("hi")},
		{"time", tv, FormatTime, TimeValue{Time: SimTime(1<<32 | 7)}},
		{"strength", bit, FormatStrength, Strength{Logic: ScalarX, S0: StrongDrive, S1: StrongDrive}},
		{"objtype vector", bus, FormatObjType, Vector{ScalarOne, ScalarZero, ScalarOne, ScalarZero, ScalarZero, ScalarOne, ScalarZero, ScalarOne}},
		{"objtype real", r, FormatObjType, Real(2.5)},
		{"suppress", bus, FormatSuppress, Suppressed{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			native.ResetCalls()
			got, ok := sim.Wrap(tt.obj).Value(tt.format)
			if !ok {
				t.Fatalf("Value(%v) reported no value", tt.format)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Value mismatch (-want +got):\n%s", diff)
			}
			if n := native.Calls(vpitest.CallGetValue); n != 1 {
				t.Errorf("get_value calls = %d, want 1", n)
			}
		})
	}
}

func TestHandleValueTruncatedVector(t *testing.T) {
	sim, native := newTestSim(t)
	wide := native.AddNet(0, "wide", 40)
	native.SetWords(wide, abi.Vecval{Aval: 0xFFFFFFFF})

	v, ok := sim.Wrap(wide).Value(FormatVector)
	if !ok {
		t.Fatal("no value")
	}
	got := v.(Vector)
	if len(got) != 40 {
		t.Fatalf("len = %d, want 40", len(got))
	}
	if got.String() != "00000000"+"11111111111111111111111111111111" {
		t.Errorf("got %s", got)
	}
}

func TestHandleValueDecodesReturnedFormat(t *testing.T) {
	sim, native := newTestSim(t)
	n := native.AddNet(0, "n", 4)
	native.SetWords(n, abi.Vecval{Aval: 0b0011})
	native.ForceFormat(n, abi.IntVal)

	v, ok := sim.Wrap(n).Value(FormatBinStr)
	if !ok {
		t.Fatal("no value")
	}
	if v != Int(3) {
		t.Errorf("got %#v, want Int(3)", v)
	}
}

func TestHandleValueUnsupportedFormat(t *testing.T) {
	sim, native := newTestSim(t)
	n := sim.Wrap(native.AddNet(0, "n", 4))
	native.ResetCalls()

	for _, f := range []ValueFormat{FormatShortInt, FormatLongInt, FormatShortReal, FormatRawTwoState, FormatRawFourState, 0, 99} {
		if v, ok := n.Value(f); ok || v != nil {
			t.Errorf("Value(%v) = %v, %v", f, v, ok)
		}
	}
	if native.TotalCalls() != 0 {
		t.Errorf("unsupported formats issued %d native calls", native.TotalCalls())
	}
}

func TestHandleValueInvalidText(t *testing.T) {
	sim, native := newTestSim(t)
	n := native.AddReg(0, "s", 8)
	native.SetString(n, "\xff\xfe")

	v, ok := sim.Wrap(n).Value(FormatString)
	if !ok {
		t.Fatal("no value")
	}
	if v != String("") {
		t.Errorf("got %q, want empty string", v)
	}
}

func TestPutValue(t *testing.T) {
	sim, native := newTestSim(t)
	bus := native.AddNet(0, "bus", 8)
	h := sim.Wrap(bus)

	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"int", Int(0x3C), "00111100"},
		{"vector", Vector{ScalarOne, ScalarX, ScalarZ, ScalarZero, ScalarOne, ScalarOne, ScalarZero, ScalarZero}, "1xz01100"},
		{"binstr", BinStr("1010"), "00001010"},
		{"hexstr", HexStr("ff"), "11111111"},
		{"scalar", ScalarOne, "00000001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.PutValue(tt.in); err != nil {
				t.Fatalf("PutValue: %v", err)
			}
			v, _ := h.Value(FormatBinStr)
			if v != BinStr(tt.want) {
				t.Errorf("after put got %v, want %s", v, tt.want)
			}
		})
	}
}

func TestPutValueOptions(t *testing.T) {
	sim, native := newTestSim(t)
	h := sim.Wrap(native.AddReg(0, "r", 4))

	ev, err := h.PutValue(Int(5), WithDelay(TransportDelay, SimTime(10)), WithReturnEvent())
	if err != nil {
		t.Fatalf("PutValue: %v", err)
	}
	if ev.IsNull() {
		t.Error("expected event handle")
	}
	put := native.Puts[len(native.Puts)-1]
	if put.Flags != abi.TransportDelay|abi.ReturnEvent {
		t.Errorf("flags = %#x", put.Flags)
	}
	if put.Time == nil || put.Time.Low != 10 || put.Time.Type != abi.SimTime {
		t.Errorf("time = %+v", put.Time)
	}

	ev, err = h.PutValue(Int(1), WithMode(ForceFlag))
	if err != nil {
		t.Fatalf("PutValue: %v", err)
	}
	if !ev.IsNull() {
		t.Error("unexpected event handle")
	}
	if put := native.Puts[len(native.Puts)-1]; put.Flags != abi.ForceFlag || put.Time != nil {
		t.Errorf("force put = %+v", put)
	}
}

func TestPutValueUnsupported(t *testing.T) {
	sim, native := newTestSim(t)
	h := sim.Wrap(native.AddReg(0, "r", 4))

	_, err := h.PutValue(ObjType(1))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindUnsupported}) {
		t.Errorf("unexpected error: %v", err)
	}
	if native.Calls(vpitest.CallPutValue) != 0 {
		t.Error("unsupported value reached the simulator")
	}
}

func TestValueFormatNames(t *testing.T) {
	for f := FormatBinStr; f <= FormatRawFourState; f++ {
		got, ok := ParseValueFormat(f.String())
		if !ok || got != f {
			t.Errorf("ParseValueFormat(%q) = %v, %v", f.String(), got, ok)
		}
	}
	if _, ok := ParseValueFormat("bogus"); ok {
		t.Error("parsed unknown format")
	}
}

func TestStrengthString(t *testing.T) {
	s := Strength{Logic: ScalarOne, S0: StrongDrive | PullDrive, S1: 0}
	if got := s.String(); got != "1(strong|pull,none)" {
		t.Errorf("String = %q", got)
	}
}
