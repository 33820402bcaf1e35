// Package events defines the listener contract a town controller fans its
// mutation events out to. All six callbacks are invoked synchronously, by
// the goroutine executing the mutation, under the controller's lock; a
// listener must never call back into the controller that invoked it.
package events

import (
	"github.com/coveytown/townserver/internal/domain/conversation"
	"github.com/coveytown/townserver/internal/domain/player"
)

// Listener receives lifecycle events for a single town. Implementations
// are typically a transport adapter's per-connection socket handler.
type Listener interface {
	OnPlayerJoined(p *player.Player)
	OnPlayerMoved(p *player.Player)
	OnPlayerDisconnected(p *player.Player)
	OnConversationAreaUpdated(a *conversation.Area)
	OnConversationAreaDestroyed(a *conversation.Area)
	OnTownDestroyed()
}
