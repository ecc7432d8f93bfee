//go:build piecetree_utf16

package piecetree

import "unicode/utf16"

// CodeUnit is the element type of all buffer text in this build: UTF-16
// code units. Surrogate halves are ordinary units; a supplementary-plane
// rune occupies two of them.
type CodeUnit = uint16

// DecodeString converts a Go string to code units for this build.
func DecodeString(s string) []CodeUnit {
	return utf16.Encode([]rune(s))
}

// EncodeString converts code units back to a Go string.
func EncodeString(units []CodeUnit) string {
	return string(utf16.Decode(units))
}
