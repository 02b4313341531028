package payload

import "strings"

const hexDigits = "0123456789ABCDEF"

// HexDump renders b as uppercase hex pairs, each followed by a space.
func HexDump(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for _, c := range b {
		sb.WriteByte(hexDigits[c>>4])
		sb.WriteByte(hexDigits[c&0x0f])
		sb.WriteByte(' ')
	}
	return sb.String()
}
