package scanner

import "bytes"

const (
	trapOpcode = 0xcc
	nopOpcode  = 0x90

	// maxFillerBytes is the number of trap, no-op or null bytes a window may
	// hold, per byte value, before it is treated as padding.
	maxFillerBytes = 4
)

// isFill reports whether every byte of patt equals b.
func isFill(patt Pattern, b byte) bool {
	for _, c := range patt {
		if c != b {
			return false
		}
	}
	return true
}

// IsDegenerate reports whether patt is padding or filler rather than code
// worth testing. A window is degenerate when it is shorter than n, when it is
// made only of 0x00, only of 0xFF or only of 0xCC bytes, or when it holds
// more than four 0xCC, four 0x90 or four 0x00 bytes.
//
// A window made only of 0x90 bytes is not rejected by the fill rule, so for
// n <= 4 it survives.
func IsDegenerate(patt Pattern, n int) bool {
	if len(patt) == 0 || len(patt) < n {
		return true
	}
	if isFill(patt, 0x00) || isFill(patt, 0xff) || isFill(patt, trapOpcode) {
		return true
	}
	return bytes.Count(patt, []byte{trapOpcode}) > maxFillerBytes ||
		bytes.Count(patt, []byte{nopOpcode}) > maxFillerBytes ||
		bytes.Count(patt, []byte{0x00}) > maxFillerBytes
}
