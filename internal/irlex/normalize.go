package irlex

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize strips a UTF-8 BOM and applies Unicode NFC normalization, so
// IR assembly text produces identical token streams regardless of how its
// source file was encoded.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}
