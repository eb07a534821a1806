package spintax

import "unicode/utf16"

// Hash returns a non-negative DJB2 hash of s.
//
// The hash runs over UTF-16 code units with 32-bit signed wraparound, and
// the final value is widened before taking the absolute value (so even a
// MinInt32 result stays exact). These overflow semantics are part of the
// contract: seeds derived from templates must agree bit-for-bit across
// platforms.
func Hash(s string) int64 {
	return HashUnits(utf16.Encode([]rune(s)))
}

// HashUnits hashes a raw UTF-16 unit sequence. Callers that hash a bounded
// prefix of a string slice the units, not the runes, so a boundary landing
// inside a surrogate pair hashes the lone half exactly as the unit-level
// contract requires.
func HashUnits(units []uint16) int64 {
	h := int32(5381)
	for _, u := range units {
		h = h<<5 + h + int32(u)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
