package vpi

import (
	"fmt"
	"unicode/utf8"

	"github.com/wippyai/go-vpi/abi"
)

// Severity is the level of a simulator error.
type Severity int32

const (
	SeverityUnknown  Severity = 0
	SeverityNotice            = Severity(abi.LevelNotice)
	SeverityWarning           = Severity(abi.LevelWarning)
	SeverityError             = Severity(abi.LevelError)
	SeveritySystem            = Severity(abi.LevelSystem)
	SeverityInternal          = Severity(abi.LevelInternal)
)

func (s Severity) String() string {
	switch s {
	case SeverityNotice:
		return "notice"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeveritySystem:
		return "system"
	case SeverityInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// ErrorState is the simulation phase an error occurred in.
type ErrorState int32

const (
	StateUnknown ErrorState = 0
	StateCompile            = ErrorState(abi.StateCompile)
	StatePLI                = ErrorState(abi.StatePLI)
	StateRun                = ErrorState(abi.StateRun)
)

func (s ErrorState) String() string {
	switch s {
	case StateCompile:
		return "compile"
	case StatePLI:
		return "pli"
	case StateRun:
		return "run"
	default:
		return "unknown"
	}
}

// unknownText replaces native strings that are NULL or not valid UTF-8.
const unknownText = "Unknown"

// ErrorInfo is a copy of the simulator's pending error.
type ErrorInfo struct {
	Code     string
	Message  string
	Product  string
	File     string // empty when the simulator reported no file
	Line     int32
	Severity Severity
	State    ErrorState
}

func (e *ErrorInfo) Error() string {
	msg := fmt.Sprintf("%s %s %s: %s", e.Product, e.Severity, e.Code, e.Message)
	if e.File != "" {
		msg += fmt.Sprintf(" (%s:%d)", e.File, e.Line)
	}
	return msg
}

// CheckError returns the simulator's pending error, if any.
func (s *Simulator) CheckError() (*ErrorInfo, bool) {
	var raw abi.ErrorInfo
	if s.native.ChkError(&raw) == 0 {
		return nil, false
	}

	info := &ErrorInfo{
		Code:     textOrUnknown(raw.Code),
		Message:  textOrUnknown(raw.Message),
		Product:  textOrUnknown(raw.Product),
		Line:     raw.Line,
		Severity: severityFromCode(raw.Level),
		State:    stateFromCode(raw.State),
	}
	if raw.File != nil {
		info.File = textOrUnknown(raw.File)
	}
	return info, true
}

func textOrUnknown(b []byte) string {
	if b == nil || !utf8.Valid(b) {
		return unknownText
	}
	return string(b)
}

func severityFromCode(code int32) Severity {
	if code < abi.LevelNotice || code > abi.LevelInternal {
		return SeverityUnknown
	}
	return Severity(code)
}

func stateFromCode(code int32) ErrorState {
	if code < abi.StateCompile || code > abi.StateRun {
		return StateUnknown
	}
	return ErrorState(code)
}
