package vpi

import (
	"fmt"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/wippyai/go-vpi/errors"
)

func toASCII(r rune) rune {
	if r > 0x7F {
		return '?'
	}
	return r
}

// SanitizeASCII replaces every character above 0x7F with '?'. Invalid
// UTF-8 bytes are replaced as well.
func SanitizeASCII(s string) string {
	out, _, err := transform.String(runes.Map(toASCII), s)
	if err != nil {
		return ""
	}
	return out
}

// Print writes text to the simulator's output. Non-ASCII characters are
// replaced with '?'.
func (s *Simulator) Print(text string) int {
	return int(s.native.Printf([]byte(SanitizeASCII(text))))
}

// Printf formats and writes text to the simulator's output.
func (s *Simulator) Printf(format string, args ...any) int {
	return s.Print(fmt.Sprintf(format, args...))
}

// Write implements io.Writer over Print. A simulator that reports no
// characters written for non-empty p fails the whole write.
func (s *Simulator) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.Print(string(p)) <= 0 {
		return 0, errors.NativeRefused(errors.PhaseControl, "vpi_printf", nil)
	}
	return len(p), nil
}
