package abi

// Handle is an opaque native object reference (vpiHandle). Zero is NULL.
// The value is only meaningful to the backend that produced it.
type Handle uintptr

// Time mirrors s_vpi_time. Only the fields relevant to Type are meaningful.
type Time struct {
	Type int32
	High uint32
	Low  uint32
	Real float64
}

// Vecval mirrors s_vpi_vecval: one 32-bit word of a four-state vector,
// split into the aval and bval bit-planes.
type Vecval struct {
	Aval uint32
	Bval uint32
}

// WordsFor returns how many Vecval words hold a vector of size bits.
func WordsFor(size int) int {
	if size <= 0 {
		return 0
	}
	return (size + 31) / 32
}

// Strengthval mirrors s_vpi_strengthval.
type Strengthval struct {
	Logic int32
	S0    int32
	S1    int32
}

// Value mirrors s_vpi_value. The C union is flattened; Format selects the
// populated field. Str is also used for the text formats (bin/oct/dec/hex)
// and is nil when the native pointer was NULL. Vector holds as many words
// as the backend could read, which may be fewer than the object size.
type Value struct {
	Format   int32
	Str      []byte
	Scalar   int32
	Integer  int32
	Real     float64
	Time     *Time
	Vector   []Vecval
	Strength []Strengthval
}

// CbData mirrors s_cb_data. The routine pointer is not represented: every
// backend installs its own single trampoline. UserData carries the capsule
// key chosen by the core and is returned verbatim on every firing.
type CbData struct {
	Reason   int32
	Obj      Handle
	Time     *Time
	Value    *Value
	Index    int32
	UserData uintptr
}

// ErrorInfo mirrors s_vpi_error_info. String fields are copies of
// simulator-owned memory, nil for NULL.
type ErrorInfo struct {
	State   int32
	Level   int32
	Message []byte
	Product []byte
	Code    []byte
	File    []byte
	Line    int32
}

// VlogInfo mirrors s_vpi_vlog_info.
type VlogInfo struct {
	Argv    [][]byte
	Product []byte
	Version []byte
}
