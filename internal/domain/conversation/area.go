// Package conversation provides the rectangular, topic-labeled zones that
// town controllers create and tear down as players enter and leave them.
package conversation

import "github.com/coveytown/townserver/internal/domain/geometry"

// Area is a conversation area. Label is unique within its town; Occupants
// holds player ids in join order, not player handles, so the area owns its
// membership without holding a reference cycle back to the players.
type Area struct {
	Label       string
	Topic       string
	BoundingBox geometry.Box
	Occupants   []string
}

// New constructs an empty conversation area.
func New(label, topic string, box geometry.Box) *Area {
	return &Area{
		Label:       label,
		Topic:       topic,
		BoundingBox: box,
		Occupants:   make([]string, 0),
	}
}

// HasOccupant reports whether playerID is currently in the area.
func (a *Area) HasOccupant(playerID string) bool {
	for _, id := range a.Occupants {
		if id == playerID {
			return true
		}
	}
	return false
}

// AddOccupant appends playerID to the occupant list. Callers are expected
// to have already checked HasOccupant; it is not re-checked here.
func (a *Area) AddOccupant(playerID string) {
	a.Occupants = append(a.Occupants, playerID)
}

// RemoveOccupant removes playerID from the occupant list, if present.
func (a *Area) RemoveOccupant(playerID string) {
	for i, id := range a.Occupants {
		if id == playerID {
			a.Occupants = append(a.Occupants[:i], a.Occupants[i+1:]...)
			return
		}
	}
}

// Empty reports whether the area has no occupants left.
func (a *Area) Empty() bool {
	return len(a.Occupants) == 0
}
