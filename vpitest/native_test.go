package vpitest

import (
	"testing"

	"github.com/wippyai/go-vpi/abi"
	"github.com/wippyai/go-vpi/resource"
)

func TestNativeValueFormats(t *testing.T) {
	n := New()
	h := n.AddNet(0, "n", 4)
	n.SetWords(h, abi.Vecval{Aval: 0b1010, Bval: 0b0010})

	tests := []struct {
		format int32
		check  func(v abi.Value) bool
	}{
		{abi.BinStrVal, func(v abi.Value) bool { return string(v.Str) == "10x0" }},
		{abi.HexStrVal, func(v abi.Value) bool { return string(v.Str) == "x" }},
		{abi.ScalarVal, func(v abi.Value) bool { return v.Scalar == abi.Logic0 }},
		{abi.VectorVal, func(v abi.Value) bool { return len(v.Vector) == 1 && v.Vector[0].Bval == 0b0010 }},
		{abi.ObjTypeVal, func(v abi.Value) bool { return v.Format == abi.VectorVal }},
		{abi.ShortRealVal, func(v abi.Value) bool { return v.Format == 0 }},
	}
	for _, tt := range tests {
		v := abi.Value{Format: tt.format}
		n.GetValue(h, &v)
		if !tt.check(v) {
			t.Errorf("format %d: got %+v", tt.format, v)
		}
	}
}

func TestNativeFireOrderAndFilter(t *testing.T) {
	n := New()
	a := n.AddNet(0, "a", 1)
	b := n.AddNet(0, "b", 1)

	var got []uintptr
	n.Attach(func(d *abi.CbData) int32 {
		got = append(got, d.UserData)
		return 0
	})

	n.RegisterCB(&abi.CbData{Reason: abi.CbValueChange, Obj: a, UserData: 1})
	n.RegisterCB(&abi.CbData{Reason: abi.CbValueChange, Obj: b, UserData: 2})
	n.RegisterCB(&abi.CbData{Reason: abi.CbValueChange, Obj: a, UserData: 3})

	if fired := n.Change(a, 1); fired != 2 {
		t.Fatalf("fired = %d, want 2", fired)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("dispatch order = %v", got)
	}
}

func TestNativeIteratorFreedOnEnd(t *testing.T) {
	n := New()
	top := n.AddModule(0, "top")
	n.AddNet(top, "x", 1)

	it := n.Iterate(abi.ObjNet, top)
	if n.Scan(it) == 0 {
		t.Fatal("expected one net")
	}
	if n.Scan(it) != 0 {
		t.Fatal("expected end of iteration")
	}
	if n.LiveIterators() != 0 {
		t.Error("iterator not freed at end")
	}
	if n.Scan(it) != 0 {
		t.Error("scan of freed iterator returned a handle")
	}
}

func TestDemoRun(t *testing.T) {
	d := NewDemo()
	changes := 0
	d.Attach(func(*abi.CbData) int32 {
		changes++
		return 0
	})
	d.RegisterCB(&abi.CbData{Reason: abi.CbValueChange, Obj: d.Count, UserData: 1})

	d.Run(5)

	if changes != 3 {
		t.Errorf("count changes = %d, want 3", changes)
	}
	if d.Now != 50 {
		t.Errorf("Now = %d, want 50", d.Now)
	}
}

func TestCapsuleCounter(t *testing.T) {
	c := &CapsuleCounter{}
	table := resource.NewTable()
	table.Subscribe(c)

	k := table.Insert(1, "a")
	table.Insert(1, "b")
	table.Remove(k)

	if c.Created != 2 || c.Dropped != 1 || c.Live() != 1 {
		t.Errorf("created=%d dropped=%d live=%d", c.Created, c.Dropped, c.Live())
	}
}
