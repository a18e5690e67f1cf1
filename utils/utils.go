package utils

import "os"

///////////////////////////////////////////////////////////////////////////////
// Integer Formatting — Cold-Path Diagnostics
///////////////////////////////////////////////////////////////////////////////

// Itoa formats a signed integer in base 10.
// Cheaper than strconv for the short values used in diagnostics
// (unit counts, block sizes, cycle numbers).
//
//go:nosplit
//go:inline
func Itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	u := uint64(n)
	if neg {
		u = uint64(-n)
	}
	for u > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Utoa formats an unsigned 64-bit integer in base 10.
//
//go:nosplit
//go:inline
func Utoa(u uint64) string {
	if u == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	return string(buf[i:])
}

///////////////////////////////////////////////////////////////////////////////
// Raw Output — Unbuffered stderr Writer
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes msg to stderr without formatting.
// Write errors are ignored: there is nowhere left to report them.
//
//go:nosplit
//go:inline
func PrintWarning(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}
