package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownIsNotKnown(t *testing.T) {
	assert.False(t, Unknown.IsKnown())
	assert.Equal(t, "<unknown>", Unknown.String())
}

func TestKnownLocationFormatsFileAndLine(t *testing.T) {
	l := Location{Filename: "f.ir", Line: 12}
	assert.True(t, l.IsKnown())
	assert.Equal(t, "f.ir:12", l.String())
}
