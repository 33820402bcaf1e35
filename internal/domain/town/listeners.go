package town

import (
	"sync"

	"github.com/coveytown/townserver/internal/domain/conversation"
	"github.com/coveytown/townserver/internal/domain/events"
	"github.com/coveytown/townserver/internal/domain/player"
)

// listenerSet is a set of subscribers keyed by identity, not insertion
// order, so Add/Remove are idempotent against the same listener value.
type listenerSet struct {
	mu        sync.Mutex
	listeners []events.Listener
}

func newListenerSet() *listenerSet {
	return &listenerSet{listeners: make([]events.Listener, 0)}
}

func (s *listenerSet) add(l events.Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.listeners {
		if existing == l {
			return
		}
	}
	s.listeners = append(s.listeners, l)
}

func (s *listenerSet) remove(l events.Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.listeners {
		if existing == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// snapshot returns the current listeners. Callers invoke callbacks against
// the snapshot, not the live slice, so a listener removed mid-callback by
// another goroutine cannot shrink the slice out from under the loop.
func (s *listenerSet) snapshot() []events.Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

func (s *listenerSet) fanOutPlayerJoined(p *player.Player) {
	for _, l := range s.snapshot() {
		l.OnPlayerJoined(p)
	}
}

func (s *listenerSet) fanOutPlayerMoved(p *player.Player) {
	for _, l := range s.snapshot() {
		l.OnPlayerMoved(p)
	}
}

func (s *listenerSet) fanOutPlayerDisconnected(p *player.Player) {
	for _, l := range s.snapshot() {
		l.OnPlayerDisconnected(p)
	}
}

func (s *listenerSet) fanOutConversationAreaUpdated(a *conversation.Area) {
	for _, l := range s.snapshot() {
		l.OnConversationAreaUpdated(a)
	}
}

func (s *listenerSet) fanOutConversationAreaDestroyed(a *conversation.Area) {
	for _, l := range s.snapshot() {
		l.OnConversationAreaDestroyed(a)
	}
}

func (s *listenerSet) fanOutTownDestroyed() {
	for _, l := range s.snapshot() {
		l.OnTownDestroyed()
	}
}
