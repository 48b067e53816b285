package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode   Phase = "decode"   // native to Go
	PhaseEncode   Phase = "encode"   // Go to native
	PhaseHandle   Phase = "handle"   // object handle operations
	PhaseCallback Phase = "callback" // callback registration and dispatch
	PhaseControl  Phase = "control"  // simulator control and output
	PhaseStartup  Phase = "startup"  // startup routine registry
	PhaseLoad     Phase = "load"     // backend loading
	PhaseHost     Phase = "host"     // host function wiring
)

// Kind categorizes the error
type Kind string

const (
	KindNullHandle        Kind = "null_handle"
	KindUnsupported       Kind = "unsupported"
	KindInvalidUTF8       Kind = "invalid_utf8"
	KindContractViolation Kind = "contract_violation"
	KindCapsuleMisuse     Kind = "capsule_misuse"
	KindRegistration      Kind = "registration"
	KindNativeRefused     Kind = "native_refused"
	KindOutOfBounds       Kind = "out_of_bounds"
	KindNotFound          Kind = "not_found"
	KindNotInitialized    Kind = "not_initialized"
	KindInvalidInput      Kind = "invalid_input"
	KindInvalidData       Kind = "invalid_data"
	KindSealed            Kind = "sealed"
)

// Error is the structured error type used throughout go-vpi
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Object string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Object != "" {
		b.WriteString(" on ")
		b.WriteString(e.Object)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the native entry point involved
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Object sets a description of the object operated on
func (b *Builder) Object(obj string) *Builder {
	b.err.Object = obj
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NullHandle creates an error for a state-changing operation on a null handle
func NullHandle(phase Phase, op string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNullHandle,
		Op:     op,
		Detail: "handle is null",
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, field string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Object: field,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// ContractViolation creates an error for native data outside the documented
// protocol. Callers treat it as fatal.
func ContractViolation(phase Phase, field string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindContractViolation,
		Object: field,
		Detail: fmt.Sprintf("unexpected value %v", value),
		Value:  value,
	}
}

// CapsuleMisuse creates an error for reuse of a reclaimed callback capsule
func CapsuleMisuse(key uint32, detail string) *Error {
	return &Error{
		Phase:  PhaseCallback,
		Kind:   KindCapsuleMisuse,
		Object: fmt.Sprintf("capsule %#x", key),
		Detail: detail,
		Value:  key,
	}
}

// Registration creates a callback registration error
func Registration(reason string, cause error) *Error {
	return &Error{
		Phase:  PhaseCallback,
		Kind:   KindRegistration,
		Op:     "vpi_register_cb",
		Detail: fmt.Sprintf("register %s", reason),
		Cause:  cause,
	}
}

// NativeRefused creates an error for a native call that reported failure
func NativeRefused(phase Phase, op string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNativeRefused,
		Op:     op,
		Detail: "simulator reported failure",
		Cause:  cause,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, what string, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Object: what,
		Detail: fmt.Sprintf("offset %d length %d out of bounds", offset, length),
		Value:  offset,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Sealed creates an error for registration into a frozen registry
func Sealed(what string) *Error {
	return &Error{
		Phase:  PhaseStartup,
		Kind:   KindSealed,
		Detail: fmt.Sprintf("%s already sealed", what),
	}
}

// Load creates a backend loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
