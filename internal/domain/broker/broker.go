// Package broker declares the token broker contract the town controller
// consumes. Implementations live in internal/infrastructure/broker; the
// core only ever treats the returned token as an opaque string.
package broker

import "context"

// TokenBroker issues a media-session token for a (town, player) pairing.
// The call may be synchronous or asynchronous but must respect ctx's
// deadline; the controller releases its lock while this is in flight.
type TokenBroker interface {
	GetTokenForTown(ctx context.Context, townID, playerID string) (string, error)
}
