// Package player provides the avatar identity and location value types
// tracked by a town controller. A Player is a value object: the controller
// is the sole mutator of its Location and ActiveConversationArea fields.
package player

// Rotation is the facing direction of an avatar.
type Rotation string

const (
	RotationFront Rotation = "front"
	RotationBack  Rotation = "back"
	RotationLeft  Rotation = "left"
	RotationRight Rotation = "right"
)

// Location is the client-reported position and facing of an avatar.
// ConversationLabel is the client-asserted membership hint described in
// §4.6 of the spec: the controller trusts it over pure geometry unless the
// named area does not exist.
type Location struct {
	X                 float64
	Y                 float64
	Rotation          Rotation
	Moving            bool
	ConversationLabel string // empty means "none"
}

// Player is an avatar in a town. ActiveConversationArea is a back-reference
// by label into the town's area list, not an owning pointer: the area owns
// the occupant id list, the player only remembers which one it is in.
type Player struct {
	ID                     string
	UserName               string
	Location               Location
	ActiveConversationArea string // area label, empty means "none"
}

// New constructs a player at the origin, facing front, with no active area.
func New(id, userName string) *Player {
	return &Player{
		ID:       id,
		UserName: userName,
		Location: Location{Rotation: RotationFront},
	}
}
