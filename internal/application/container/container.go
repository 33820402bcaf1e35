// Package container wires the process's singleton services: the town
// registry, the media-token broker, and the channeled logger, the way
// the teacher's container assembles its own singletons for handlers to
// share.
package container

import (
	"github.com/coveytown/townserver/internal/domain/broker"
	"github.com/coveytown/townserver/internal/domain/registry"
	"github.com/coveytown/townserver/internal/infrastructure/observability/logging"
	"github.com/coveytown/townserver/internal/infrastructure/security"
)

// Container holds the process's singleton dependencies.
type Container struct {
	Registry *registry.Registry
	Broker   broker.TokenBroker
	Logger   *logging.ChanneledLogger
}

// New wires the registry over a nanoid generator and a bcrypt hasher,
// around tokenBroker, logging through logger.
func New(tokenBroker broker.TokenBroker, logger *logging.ChanneledLogger) *Container {
	reg := registry.New(security.NanoidGenerator{}, security.BcryptHasher{}, tokenBroker)
	return &Container{
		Registry: reg,
		Broker:   tokenBroker,
		Logger:   logger,
	}
}
