package vpi

import (
	"testing"

	"github.com/wippyai/go-vpi/abi"
	"github.com/wippyai/go-vpi/errors"
	"github.com/wippyai/go-vpi/vpitest"
)

func newCountingSim(t *testing.T) (*Simulator, *vpitest.Native, *vpitest.CapsuleCounter) {
	t.Helper()
	native := vpitest.New()
	counter := &vpitest.CapsuleCounter{}
	sim := NewWithConfig(native, Config{CapsuleObserver: counter})
	native.Attach(sim.Dispatch)
	return sim, native, counter
}

func TestRegisterRemoveAllocatesOnce(t *testing.T) {
	sim, native, counter := newCountingSim(t)

	cb, err := sim.RegisterCallback(CbStartOfSimulation, func(*CbData) {})
	if err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	if counter.Created != 1 || counter.Dropped != 0 {
		t.Fatalf("after register: created=%d dropped=%d", counter.Created, counter.Dropped)
	}
	if sim.Callbacks() != 1 || native.Registered() != 1 {
		t.Fatalf("live registrations: core=%d native=%d", sim.Callbacks(), native.Registered())
	}

	if err := cb.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if counter.Created != 1 || counter.Dropped != 1 {
		t.Fatalf("after remove: created=%d dropped=%d", counter.Created, counter.Dropped)
	}
	if sim.Callbacks() != 0 || native.Registered() != 0 {
		t.Fatalf("registrations remain: core=%d native=%d", sim.Callbacks(), native.Registered())
	}
}

func TestRemoveTwiceIsMisuse(t *testing.T) {
	sim, native, counter := newCountingSim(t)

	cb, err := sim.RegisterCallback(CbEndOfSimulation, func(*CbData) {})
	if err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	if err := cb.Remove(); err != nil {
		t.Fatalf("first Remove: %v", err)
	}

	native.ResetCalls()
	err = cb.Remove()
	if err == nil {
		t.Fatal("second Remove should fail")
	}
	if !errors.Is(err, &errors.Error{Phase: errors.PhaseCallback, Kind: errors.KindCapsuleMisuse}) {
		t.Errorf("unexpected error: %v", err)
	}
	if native.TotalCalls() != 0 {
		t.Errorf("second Remove issued %d native calls", native.TotalCalls())
	}
	if counter.Dropped != 1 {
		t.Errorf("capsule dropped %d times", counter.Dropped)
	}
}

func TestRemoveAfterKeyReuse(t *testing.T) {
	sim, native, counter := newCountingSim(t)

	stale, err := sim.RegisterCallback(CbEndOfSimulation, func(*CbData) {})
	if err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	if err := stale.Remove(); err != nil {
		t.Fatalf("first Remove: %v", err)
	}

	// Cycle the same slot until its generation wraps back to the stale key.
	var live *Callback
	for i := 0; i < 1<<13; i++ {
		cb, err := sim.RegisterCallback(CbEndOfSimulation, func(*CbData) {})
		if err != nil {
			t.Fatalf("RegisterCallback cycle %d: %v", i, err)
		}
		if cb.Key() == stale.Key() {
			live = cb
			break
		}
		if err := cb.Remove(); err != nil {
			t.Fatalf("Remove cycle %d: %v", i, err)
		}
	}
	if live == nil {
		t.Fatalf("key 0x%x never reused", stale.Key())
	}

	native.ResetCalls()
	dropped := counter.Dropped
	err = stale.Remove()
	if !errors.Is(err, &errors.Error{Phase: errors.PhaseCallback, Kind: errors.KindCapsuleMisuse}) {
		t.Errorf("expected misuse from stale Remove, got %v", err)
	}
	if native.TotalCalls() != 0 {
		t.Errorf("stale Remove issued %d native calls", native.TotalCalls())
	}
	if counter.Dropped != dropped || sim.Callbacks() != 1 || native.Registered() != 1 {
		t.Fatalf("stale Remove touched the live registration: dropped=%d core=%d native=%d",
			counter.Dropped-dropped, sim.Callbacks(), native.Registered())
	}

	if err := live.Remove(); err != nil {
		t.Errorf("live Remove: %v", err)
	}
	if sim.Callbacks() != 0 || native.Registered() != 0 {
		t.Errorf("registrations remain: core=%d native=%d", sim.Callbacks(), native.Registered())
	}
}

func TestDispatchInvokesClosure(t *testing.T) {
	sim, native := newTestSim(t)
	top := native.AddModule(0, "top")
	clk := native.AddReg(top, "clk", 1)

	var got []string
	_, err := sim.Wrap(clk).RegisterCallback(CbValueChange, func(d *CbData) {
		if d.Reason != CbValueChange {
			t.Errorf("reason = %v", d.Reason)
		}
		name, _ := d.Object.Str(PropFullName)
		got = append(got, name+"="+d.Value.String())
		if _, ok := d.Time.(SimTime); !ok {
			t.Errorf("time = %#v", d.Time)
		}
	}, WithTime(SimTime(0)), WithValueFormat(FormatBinStr))
	if err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}

	native.Change(clk, 1)
	native.Change(clk, 0)

	if len(got) != 2 || got[0] != "top.clk=1" || got[1] != "top.clk=0" {
		t.Errorf("got %v", got)
	}
}

func TestDispatchIgnoresMalformedPayloads(t *testing.T) {
	sim, _ := newTestSim(t)
	calls := 0
	if _, err := sim.RegisterCallback(CbEndOfSimulation, func(*CbData) { calls++ }); err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}

	payloads := []struct {
		name string
		data *abi.CbData
	}{
		{"nil payload", nil},
		{"zero key", &abi.CbData{Reason: abi.CbEndOfSimulation}},
		{"unknown key", &abi.CbData{Reason: abi.CbEndOfSimulation, UserData: 0xFFFFF}},
		{"all bits set", &abi.CbData{Reason: abi.CbEndOfSimulation, UserData: ^uintptr(0)}},
	}
	for _, p := range payloads {
		t.Run(p.name, func(t *testing.T) {
			if rc := sim.Dispatch(p.data); rc != 0 {
				t.Errorf("Dispatch = %d, want 0", rc)
			}
		})
	}
	if calls != 0 {
		t.Errorf("closure invoked %d times", calls)
	}
}

func TestDispatchAfterRemoveIsNoop(t *testing.T) {
	sim, _ := newTestSim(t)
	calls := 0
	cb, err := sim.RegisterCallback(CbNextSimTime, func(*CbData) { calls++ })
	if err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	stale := &abi.CbData{Reason: abi.CbNextSimTime, UserData: uintptr(cb.Key())}

	sim.Dispatch(stale)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if err := cb.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	// A new registration reuses the slot with a new generation.
	next, err := sim.RegisterCallback(CbNextSimTime, func(*CbData) { t.Error("stale key reached new capsule") })
	if err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	if next.Key() == cb.Key() {
		t.Fatal("reused key")
	}

	sim.Dispatch(stale)
	if calls != 1 {
		t.Errorf("removed closure invoked again")
	}
}

func TestDispatchClearsObject(t *testing.T) {
	sim, native := newTestSim(t)
	n := native.AddNet(0, "n", 1)

	var seen *CbData
	if _, err := sim.Wrap(n).RegisterCallback(CbValueChange, func(d *CbData) {
		if d.Object.IsNull() {
			t.Error("object null during callback")
		}
		seen = d
	}); err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	native.Change(n, 1)

	if seen == nil {
		t.Fatal("callback not invoked")
	}
	if !seen.Object.IsNull() {
		t.Error("object still set after dispatch")
	}
	if len(native.Released) != 0 {
		t.Error("dispatch released the event object")
	}
}

func TestReentrantRegistration(t *testing.T) {
	sim, native := newTestSim(t)
	var inner []string

	_, err := sim.RegisterCallback(CbStartOfSimulation, func(*CbData) {
		// Register and remove from inside a callback.
		cb, err := sim.RegisterCallback(CbEndOfSimulation, func(*CbData) {
			inner = append(inner, "end")
		})
		if err != nil {
			t.Errorf("nested register: %v", err)
			return
		}
		tmp, err := sim.RegisterCallback(CbAtStartOfSimTime, func(*CbData) {})
		if err != nil {
			t.Errorf("nested register: %v", err)
			return
		}
		if err := tmp.Remove(); err != nil {
			t.Errorf("nested remove: %v", err)
		}
		_ = cb
	})
	if err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}

	native.Fire(abi.CbStartOfSimulation, 0)
	native.Fire(abi.CbEndOfSimulation, 0)

	if len(inner) != 1 {
		t.Errorf("nested callback fired %d times", len(inner))
	}
	if sim.Callbacks() != 2 {
		t.Errorf("live callbacks = %d, want 2", sim.Callbacks())
	}
}

func TestRemoveFromOwnCallback(t *testing.T) {
	sim, native := newTestSim(t)
	n := native.AddNet(0, "n", 1)

	calls := 0
	var cb *Callback
	cb, err := sim.Wrap(n).RegisterCallback(CbValueChange, func(*CbData) {
		calls++
		if err := cb.Remove(); err != nil {
			t.Errorf("Remove: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}

	native.Change(n, 1)
	native.Change(n, 0)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRegisterRefused(t *testing.T) {
	sim, native, counter := newCountingSim(t)
	native.RefuseRegister = true

	cb, err := sim.RegisterCallback(CbValueChange, func(*CbData) {})
	if err == nil || cb != nil {
		t.Fatal("expected registration failure")
	}
	if !errors.Is(err, &errors.Error{Phase: errors.PhaseCallback, Kind: errors.KindRegistration}) {
		t.Errorf("unexpected error: %v", err)
	}
	var info *ErrorInfo
	if !errors.As(err, &info) || info.Code != "CB001" {
		t.Errorf("cause = %v", info)
	}
	if counter.Live() != 0 {
		t.Errorf("capsule leaked: %d live", counter.Live())
	}
}

func TestRegisterValidation(t *testing.T) {
	sim, _ := newTestSim(t)

	if _, err := sim.RegisterCallback(CbValueChange, nil); err == nil {
		t.Error("nil function accepted")
	}
	if _, err := Null.RegisterCallback(CbValueChange, func(*CbData) {}); err == nil {
		t.Error("registration on null handle accepted")
	}
}

func TestRemoveRefusedStillReclaims(t *testing.T) {
	sim, native, counter := newCountingSim(t)
	cb, err := sim.RegisterCallback(CbEndOfSimulation, func(*CbData) {})
	if err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	native.RefuseRemove = true

	if err := cb.Remove(); err == nil {
		t.Error("expected error from refused removal")
	}
	if counter.Live() != 0 {
		t.Errorf("capsule not reclaimed")
	}
}

func TestSimulatorCloseRemovesOutstanding(t *testing.T) {
	sim, native, counter := newCountingSim(t)
	for i := 0; i < 3; i++ {
		if _, err := sim.RegisterCallback(CbEndOfSimulation, func(*CbData) {}); err != nil {
			t.Fatalf("RegisterCallback: %v", err)
		}
	}
	kept, err := sim.RegisterCallback(CbStartOfSimulation, func(*CbData) {})
	if err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	if err := kept.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if err := sim.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if counter.Created != 4 || counter.Dropped != 4 {
		t.Errorf("created=%d dropped=%d", counter.Created, counter.Dropped)
	}
	if native.Registered() != 0 {
		t.Errorf("native registrations remain: %d", native.Registered())
	}
	if _, err := sim.RegisterCallback(CbEndOfSimulation, func(*CbData) {}); err == nil {
		t.Error("registration after Close accepted")
	}
}

func TestReasonString(t *testing.T) {
	if got := CbValueChange.String(); got != "cbValueChange" {
		t.Errorf("got %q", got)
	}
	if got := Reason(77).String(); got != "cbReason(77)" {
		t.Errorf("got %q", got)
	}
}
