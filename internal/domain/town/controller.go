// Package town implements the authoritative per-town state machine: the
// player set, session set, conversation area list, their non-overlap and
// occupancy invariants, and the synchronous fan-out of mutation events to
// subscribed listeners. This is the hard part of the system (see §2).
package town

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coveytown/townserver/internal/domain/broker"
	"github.com/coveytown/townserver/internal/domain/conversation"
	"github.com/coveytown/townserver/internal/domain/events"
	"github.com/coveytown/townserver/internal/domain/geometry"
	"github.com/coveytown/townserver/internal/domain/player"
	"github.com/coveytown/townserver/internal/domain/session"
)

// ErrTownClosed is returned by AddPlayer when the controller was torn down
// (by DisconnectAllPlayers) while the broker call for this player was in
// flight; see the suspension-point rule in §5.
var ErrTownClosed = errors.New("town: controller has been torn down")

// MaxOccupancy bounds the occupancy figure the registry listing reports
// (§4.7); the spec does not require enforcing it as an admission cap.
const MaxOccupancy = 100

// Info is the read-only snapshot of a town used for registry listings.
type Info struct {
	TownID           string
	FriendlyName     string
	CurrentOccupancy int
	MaxOccupancy     int
	IsPubliclyListed bool
}

// Controller is the per-town authoritative state machine described in §4.5
// and §4.6. The zero value is not usable; construct with NewController.
type Controller struct {
	mu sync.Mutex

	townID           string
	friendlyName     string
	isPubliclyListed bool
	passwordHash     string

	broker broker.TokenBroker

	players  map[string]*player.Player
	sessions map[string]*session.Session
	areas    map[string]*conversation.Area

	listeners *listenerSet
	destroyed bool
}

// NewController constructs a town controller. passwordHash is the bcrypt
// hash of the town's update password (see internal/infrastructure/security).
func NewController(townID, friendlyName string, isPubliclyListed bool, passwordHash string, tokenBroker broker.TokenBroker) *Controller {
	return &Controller{
		townID:           townID,
		friendlyName:     friendlyName,
		isPubliclyListed: isPubliclyListed,
		passwordHash:     passwordHash,
		broker:           tokenBroker,
		players:          make(map[string]*player.Player),
		sessions:         make(map[string]*session.Session),
		areas:            make(map[string]*conversation.Area),
		listeners:        newListenerSet(),
	}
}

// TownID returns the controller's immutable town id.
func (c *Controller) TownID() string { return c.townID }

// PasswordHash returns the bcrypt hash of the town's update password, for
// the registry to authenticate updateTown/deleteTown calls against.
func (c *Controller) PasswordHash() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.passwordHash
}

// Info returns a snapshot of the controller's public attributes.
func (c *Controller) Info() Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Info{
		TownID:           c.townID,
		FriendlyName:     c.friendlyName,
		CurrentOccupancy: len(c.players),
		MaxOccupancy:     MaxOccupancy,
		IsPubliclyListed: c.isPubliclyListed,
	}
}

// UpdateInfo changes the mutable friendly name and/or public-listing flag.
// Either pointer may be nil to leave that field untouched.
func (c *Controller) UpdateInfo(friendlyName *string, isPubliclyListed *bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if friendlyName != nil {
		c.friendlyName = *friendlyName
	}
	if isPubliclyListed != nil {
		c.isPubliclyListed = *isPubliclyListed
	}
}

// AddListener subscribes l to this town's events. Idempotent by identity.
func (c *Controller) AddListener(l events.Listener) {
	c.listeners.add(l)
}

// RemoveListener unsubscribes l. Takes effect before the next mutation's
// fan-out begins.
func (c *Controller) RemoveListener(l events.Listener) {
	c.listeners.remove(l)
}

// GetSessionByToken looks up a session by its opaque token.
func (c *Controller) GetSessionByToken(token string) (*session.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[token]
	return s, ok
}

// GetPlayerByID looks up a player currently in the town.
func (c *Controller) GetPlayerByID(id string) (*player.Player, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.players[id]
	return p, ok
}

// ListPlayers returns a snapshot of every player currently in the town.
func (c *Controller) ListPlayers() []*player.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*player.Player, 0, len(c.players))
	for _, p := range c.players {
		out = append(out, p)
	}
	return out
}

// ListAreas returns a snapshot of every conversation area currently in
// the town.
func (c *Controller) ListAreas() []*conversation.Area {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*conversation.Area, 0, len(c.areas))
	for _, a := range c.areas {
		out = append(out, a)
	}
	return out
}

// AddPlayer requests a media token for p from the broker, then admits p
// into the town under sessionToken and returns the new session. The
// broker call is the only suspension point: the controller lock is
// released while it is in flight (§5), then re-acquired and held through
// commit and fan-out of playerJoined, so fan-out of this mutation
// completes before any other mutation on this controller can begin.
func (c *Controller) AddPlayer(ctx context.Context, p *player.Player, sessionToken string) (*session.Session, error) {
	mediaToken, err := c.broker.GetTokenForTown(ctx, c.townID, p.ID)
	if err != nil {
		return nil, fmt.Errorf("town %s: broker rejected player %s: %w", c.townID, p.ID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return nil, ErrTownClosed
	}

	sess := session.New(sessionToken, c.townID, p, mediaToken)
	c.players[p.ID] = p
	c.sessions[sessionToken] = sess

	c.listeners.fanOutPlayerJoined(p)
	return sess, nil
}

// DestroySession removes session and its player from the town, evicting
// the player from any active conversation area first. Unknown tokens are
// a silent no-op. The lock is held through every fan-out this mutation
// triggers (§5).
func (c *Controller) DestroySession(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions[token]
	if !ok {
		return
	}
	p := sess.Player

	c.reconcileAndEmitLocked(p, "")

	delete(c.sessions, token)
	delete(c.players, p.ID)

	c.listeners.fanOutPlayerDisconnected(p)
}

// DisconnectAllPlayers tears the town down: it emits townDestroyed exactly
// once, then drops every player, session, and area. No further events are
// emitted for any mutation ordered after this call.
func (c *Controller) DisconnectAllPlayers() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}
	c.destroyed = true
	c.listeners.fanOutTownDestroyed()

	c.players = make(map[string]*player.Player)
	c.sessions = make(map[string]*session.Session)
	c.areas = make(map[string]*conversation.Area)
}

// AddConversationArea validates and, on success, inserts area into the
// town's area list, auto-admitting any strictly-inside, area-less player,
// then emits exactly one conversationAreaUpdated. See §4.6.
func (c *Controller) AddConversationArea(area *conversation.Area) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return false
	}
	if area.Label == "" || area.Topic == "" {
		return false
	}
	if _, exists := c.areas[area.Label]; exists {
		return false
	}
	for _, existing := range c.areas {
		if geometry.Overlap(area.BoundingBox, existing.BoundingBox) {
			return false
		}
	}

	c.areas[area.Label] = area
	for _, p := range c.players {
		if p.ActiveConversationArea != "" {
			continue
		}
		if geometry.Contains(area.BoundingBox, p.Location.X, p.Location.Y) {
			area.AddOccupant(p.ID)
			p.ActiveConversationArea = area.Label
		}
	}

	c.listeners.fanOutConversationAreaUpdated(area)
	return true
}

// UpdatePlayerLocation is the center of the state machine (§4.6). It
// overwrites the player's location unconditionally, reconciles
// conversation-area membership against the location's asserted label
// (trusting the label over geometry unless the named area does not
// exist), and always emits playerMoved last.
func (c *Controller) UpdatePlayerLocation(playerID string, newLocation player.Location) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.players[playerID]
	if !ok {
		return false
	}

	p.Location = newLocation
	c.reconcileAndEmitLocked(p, newLocation.ConversationLabel)

	c.listeners.fanOutPlayerMoved(p)
	return true
}

// areaEvent is a pending fan-out emission collected by
// reconcileMembershipLocked for its caller to emit while still holding
// c.mu (see reconcileAndEmitLocked).
type areaEvent struct {
	area      *conversation.Area
	destroyed bool
}

// reconcileMembershipLocked implements the §4.6 Step 3 transition table.
// It must be called with c.mu held, and mutates c.areas and the player's
// ActiveConversationArea field; it returns the area events for the
// caller to fan out while still holding the lock.
func (c *Controller) reconcileMembershipLocked(p *player.Player, requestedLabel string) []areaEvent {
	prevLabel := p.ActiveConversationArea

	var next *conversation.Area
	if requestedLabel != "" {
		if area, ok := c.areas[requestedLabel]; ok {
			next = area
		}
	}
	nextLabel := ""
	if next != nil {
		nextLabel = next.Label
	}

	if prevLabel == nextLabel {
		return nil
	}

	var out []areaEvent

	if prevLabel != "" {
		if prev, ok := c.areas[prevLabel]; ok {
			prev.RemoveOccupant(p.ID)
			if prev.Empty() {
				delete(c.areas, prevLabel)
				out = append(out, areaEvent{area: prev, destroyed: true})
			} else {
				out = append(out, areaEvent{area: prev, destroyed: false})
			}
		}
	}

	p.ActiveConversationArea = nextLabel
	if next != nil {
		next.AddOccupant(p.ID)
		// The destination area update is always emitted before the
		// source area's, per the A→B ordering guarantee in §4.6.
		out = append([]areaEvent{{area: next, destroyed: false}}, out...)
	}

	return out
}

// reconcileAndEmitLocked reconciles p's conversation-area membership
// against requestedLabel and immediately fans out the resulting area
// events. Must be called with c.mu held; the fan-out therefore completes
// before the lock is released, satisfying the §5 serialization guarantee.
func (c *Controller) reconcileAndEmitLocked(p *player.Player, requestedLabel string) {
	for _, e := range c.reconcileMembershipLocked(p, requestedLabel) {
		if e.destroyed {
			c.listeners.fanOutConversationAreaDestroyed(e.area)
		} else {
			c.listeners.fanOutConversationAreaUpdated(e.area)
		}
	}
}
