package irlex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripsBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("function f():")...)
	got := Normalize(src)
	assert.Equal(t, "function f():", string(got))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	src := []byte("function f():\n  x = const 1\n")
	once := Normalize(src)
	twice := Normalize(once)
	assert.Equal(t, once, twice)
}

func TestNormalizeComposesDecomposedAccents(t *testing.T) {
	// "e" (U+0065) followed by a combining acute accent (U+0301).
	decomposed := "é"
	// The single precomposed code point U+00E9.
	precomposed := "é"

	got := Normalize([]byte(decomposed))
	assert.Equal(t, precomposed, string(got))
}
