//go:build !piecetree_utf16 && !piecetree_utf32

package piecetree

// CodeUnit is the element type of all buffer text in this build: UTF-8
// bytes. Select UTF-16 or UTF-32 units with the piecetree_utf16 or
// piecetree_utf32 build tags instead. Offsets, lengths, and columns are
// always measured in these units.
type CodeUnit = byte

// DecodeString converts a Go string to code units for this build.
func DecodeString(s string) []CodeUnit {
	return []CodeUnit(s)
}

// EncodeString converts code units back to a Go string.
func EncodeString(units []CodeUnit) string {
	return string(units)
}
