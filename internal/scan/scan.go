// Package scan provides byte-search primitives used by the literal-set
// prefilter (package prefilter) to skip ahead to a candidate match
// start without running the NFA simulator or backtracker over bytes
// that cannot possibly begin a match.
//
// The SWAR (SIMD Within A Register) technique below needs no assembly
// or build tags: it is the classic uint64 zero-byte-detection trick,
// portable to any architecture, letting the prefilter skip ahead
// cheaply without pulling in an actual SIMD dependency.
package scan

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// IndexByte returns the index of the first occurrence of needle in
// haystack, or -1 if absent.
func IndexByte(haystack []byte, needle byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if haystack[i] == needle {
				return i
			}
		}
		return -1
	}

	mask := uint64(needle) * lo8
	i := 0
	for i+8 <= n {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		xor := chunk ^ mask
		if hasZero := (xor - lo8) &^ xor & hi8; hasZero != 0 {
			return i + bits.TrailingZeros64(hasZero)/8
		}
		i += 8
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// IndexAny2 returns the index of the first occurrence of either a or
// b in haystack, or -1 if neither appears.
func IndexAny2(haystack []byte, a, b byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if haystack[i] == a || haystack[i] == b {
				return i
			}
		}
		return -1
	}

	maskA := uint64(a) * lo8
	maskB := uint64(b) * lo8
	i := 0
	for i+8 <= n {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		xorA := chunk ^ maskA
		xorB := chunk ^ maskB
		hasA := (xorA - lo8) &^ xorA & hi8
		hasB := (xorB - lo8) &^ xorB & hi8
		if has := hasA | hasB; has != 0 {
			return i + bits.TrailingZeros64(has)/8
		}
		i += 8
	}
	for ; i < n; i++ {
		if haystack[i] == a || haystack[i] == b {
			return i
		}
	}
	return -1
}
