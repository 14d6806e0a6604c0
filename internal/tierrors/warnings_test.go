package tierrors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashrielbrian/numba-typeinfer/internal/location"
)

func TestWarningCollectorFiltersByFileAndLine(t *testing.T) {
	c := NewWarningCollector()
	c.Add("a", location.Location{Filename: "f.ir", Line: 1})
	c.Add("b", location.Location{Filename: "f.ir", Line: 2})
	c.Add("c", location.Location{Filename: "g.ir", Line: 1})

	assert.Len(t, c.All(), 3)
	assert.Len(t, c.Filter("f.ir", 0), 2)
	assert.Len(t, c.Filter("f.ir", 1), 1)
	assert.Len(t, c.Filter("g.ir", 1), 1)
	assert.Empty(t, c.Filter("h.ir", 0))
}
