// Package broker provides the reference implementation of the domain's
// TokenBroker contract (internal/domain/broker). It mints a signed JWT as
// the opaque media-session token, the way the original platform's Twilio
// Video adapter issued signed access-token grants; the core never
// inspects the token's shape (§6), only this package does.
package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TTL is how long a minted media token remains valid.
const TTL = 4 * time.Hour

// JWTBroker signs media tokens with HS256 under a shared secret. It
// implements internal/domain/broker.TokenBroker.
type JWTBroker struct {
	secret  []byte
	timeout time.Duration
}

// NewJWTBroker constructs a broker signing with secret, bounding every
// GetTokenForTown call to timeout (§5's "bounded time" requirement).
func NewJWTBroker(secret string, timeout time.Duration) *JWTBroker {
	return &JWTBroker{secret: []byte(secret), timeout: timeout}
}

// GetTokenForTown mints a signed media-session token for the (town,
// player) pairing. It respects ctx's deadline in addition to its own
// configured timeout, whichever is shorter.
func (b *JWTBroker) GetTokenForTown(ctx context.Context, townID, playerID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	type result struct {
		token string
		err   error
	}
	done := make(chan result, 1)

	go func() {
		now := time.Now().UTC()
		claims := jwt.MapClaims{
			"townId":   townID,
			"playerId": playerID,
			"iat":      now.Unix(),
			"exp":      now.Add(TTL).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString(b.secret)
		done <- result{token: signed, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("broker: token request for town %s timed out: %w", townID, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("broker: failed to sign media token: %w", r.err)
		}
		return r.token, nil
	}
}
