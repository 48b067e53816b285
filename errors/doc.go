// Package errors provides structured error types for go-vpi.
//
// Errors are categorized by Phase (which side of the boundary was being
// crossed) and Kind (what went wrong). The Error type carries the native
// entry point involved, the object it was applied to, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCallback, errors.KindRegistration).
//		Op("vpi_register_cb").
//		Object("top.clk").
//		Detail("simulator returned NULL").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.CapsuleMisuse(key, "callback already removed")
//	err := errors.ContractViolation(errors.PhaseDecode, "s_vpi_time.type", 9)
//
// Most recoverable conditions in go-vpi never become errors: null handles,
// unsupported properties, truncated vectors and undecodable text yield
// empty results. Errors are reserved for operations that change simulator
// state and for protocol violations.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
