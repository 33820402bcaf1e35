// Package session provides the opaque per-(player, town) ticket issued by
// addPlayer. A session binds one player to one town and carries whatever
// media token the broker returned for it.
package session

import "github.com/coveytown/townserver/internal/domain/player"

// Session is the lifecycle handle a transport adapter resolves a socket
// connection to. Tokens are compared by exact equality; the core never
// inspects their contents.
type Session struct {
	Token      string
	TownID     string
	Player     *player.Player
	MediaToken string
}

// New constructs a session for p in town townID, carrying the media token
// the broker issued for the pairing.
func New(token, townID string, p *player.Player, mediaToken string) *Session {
	return &Session{
		Token:      token,
		TownID:     townID,
		Player:     p,
		MediaToken: mediaToken,
	}
}
