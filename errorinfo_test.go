package vpi

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/go-vpi/abi"
)

func TestCheckError(t *testing.T) {
	tests := []struct {
		name string
		raw  *abi.ErrorInfo
		want *ErrorInfo
	}{
		{
			name: "no error",
			raw:  nil,
			want: nil,
		},
		{
			name: "complete",
			raw: &abi.ErrorInfo{
				State:   abi.StateRun,
				Level:   abi.LevelWarning,
				Message: []byte("bad value"),
				Product: []byte("sim"),
				Code:    []byte("W12"),
				File:    []byte("top.v"),
				Line:    7,
			},
			want: &ErrorInfo{
				Code:     "W12",
				Message:  "bad value",
				Product:  "sim",
				File:     "top.v",
				Line:     7,
				Severity: SeverityWarning,
				State:    StateRun,
			},
		},
		{
			name: "null and invalid strings",
			raw: &abi.ErrorInfo{
				State:   9,
				Level:   42,
				Message: []byte{0xff, 0xfe},
			},
			want: &ErrorInfo{
				Code:     "Unknown",
				Message:  "Unknown",
				Product:  "Unknown",
				File:     "",
				Severity: SeverityUnknown,
				State:    StateUnknown,
			},
		},
		{
			name: "invalid file",
			raw: &abi.ErrorInfo{
				Level: abi.LevelError,
				File:  []byte{0xc0},
			},
			want: &ErrorInfo{
				Code:     "Unknown",
				Message:  "Unknown",
				Product:  "Unknown",
				File:     "Unknown",
				Severity: SeverityError,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, native := newTestSim(t)
			native.Err = tt.raw

			got, ok := sim.CheckError()
			if ok != (tt.want != nil) {
				t.Fatalf("ok = %v", ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CheckError mismatch (-want +got):\n%s", diff)
			}
			if n := native.TotalCalls(); n != 1 {
				t.Errorf("native calls = %d, want 1", n)
			}
		})
	}
}

func TestErrorInfoError(t *testing.T) {
	e := &ErrorInfo{Code: "E1", Message: "boom", Product: "sim", File: "a.v", Line: 3, Severity: SeverityError}
	msg := e.Error()
	for _, want := range []string{"sim", "error", "E1", "boom", "a.v:3"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	e.File = ""
	if strings.Contains(e.Error(), "(") {
		t.Errorf("Error() without file = %q", e.Error())
	}
}

func TestSeverityAndStateNames(t *testing.T) {
	if SeverityInternal.String() != "internal" || Severity(0).String() != "unknown" {
		t.Error("unexpected severity names")
	}
	if StatePLI.String() != "pli" || ErrorState(7).String() != "unknown" {
		t.Error("unexpected state names")
	}
}
