package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coveytown/townserver/internal/domain/geometry"
)

func TestArea_OccupantLifecycle(t *testing.T) {
	a := New("A", "general chat", geometry.Box{X: 0, Y: 0, Width: 10, Height: 10})
	assert.True(t, a.Empty())

	a.AddOccupant("p1")
	assert.True(t, a.HasOccupant("p1"))
	assert.False(t, a.Empty())

	a.AddOccupant("p2")
	a.RemoveOccupant("p1")
	assert.False(t, a.HasOccupant("p1"))
	assert.True(t, a.HasOccupant("p2"))
	assert.False(t, a.Empty())

	a.RemoveOccupant("p2")
	assert.True(t, a.Empty())
}

func TestArea_RemoveOccupant_UnknownIsNoOp(t *testing.T) {
	a := New("A", "topic", geometry.Box{})
	a.AddOccupant("p1")
	a.RemoveOccupant("does-not-exist")
	assert.Equal(t, []string{"p1"}, a.Occupants)
}
