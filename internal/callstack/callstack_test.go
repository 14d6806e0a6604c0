package callstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFrame struct {
	funcID  string
	argsKey string
	rets    []interface{}
}

func (f *fakeFrame) FuncID() string                 { return f.funcID }
func (f *fakeFrame) ArgsKey() string                { return f.argsKey }
func (f *fakeFrame) ReturnCandidates() []interface{} { return f.rets }

func TestStackPushMatchPop(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.Depth())

	outer := &fakeFrame{funcID: "f", argsKey: "int64"}
	s.Push(outer)
	assert.Equal(t, 1, s.Depth())

	got, ok := s.Match("f", "int64")
	require.True(t, ok)
	assert.Same(t, outer, got)

	_, ok = s.Match("f", "float64")
	assert.False(t, ok, "a different argsKey must not match")

	s.Pop()
	assert.Equal(t, 0, s.Depth())
}

func TestStackMatchPrefersMostRecentFrame(t *testing.T) {
	s := New()
	outer := &fakeFrame{funcID: "f", argsKey: "int64"}
	inner := &fakeFrame{funcID: "f", argsKey: "int64"}
	s.Push(outer)
	s.Push(inner)

	got, ok := s.Match("f", "int64")
	require.True(t, ok)
	assert.Same(t, inner, got)
}

func TestStackFindFirstIgnoresArgsKey(t *testing.T) {
	s := New()
	outer := &fakeFrame{funcID: "f", argsKey: "int64"}
	inner := &fakeFrame{funcID: "f", argsKey: "float64"}
	s.Push(outer)
	s.Push(inner)

	got, ok := s.FindFirst("f")
	require.True(t, ok)
	assert.Same(t, outer, got, "FindFirst returns the outermost frame")
}

func TestStackPopOnEmptyPanics(t *testing.T) {
	s := New()
	assert.Panics(t, func() { s.Pop() })
}

func TestRegistryRegisterLookupRelease(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup("f")
	assert.False(t, ok)

	require.NoError(t, r.Register("f", "dispatcher-f"))

	got, ok := r.Lookup("f")
	require.True(t, ok)
	assert.Equal(t, "dispatcher-f", got)

	err := r.Register("f", "dispatcher-f-again")
	assert.Error(t, err, "double registration under the same name is a bug")

	r.Release("f")
	_, ok = r.Lookup("f")
	assert.False(t, ok)

	r.Release("never-registered")
}
