// Package registry implements the process-wide directory multiplexing
// town controllers by town id (§4.7). It is the one piece of shared
// mutable state across controllers; each controller otherwise owns its
// own state exclusively.
package registry

import (
	"sync"

	"github.com/coveytown/townserver/internal/domain/broker"
	"github.com/coveytown/townserver/internal/domain/town"
)

// IDGenerator mints opaque, unguessable identifiers for town ids and
// update passwords. See internal/infrastructure/security for the
// concrete nanoid-style generator.
type IDGenerator interface {
	NewID() string
}

// PasswordHasher hashes and compares town update passwords, so the
// registry never stores or compares them in plaintext.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// Registry is the process-wide town directory. Town ids are unique for
// the registry's lifetime; deleted ids are never reused.
type Registry struct {
	mu          sync.RWMutex
	controllers map[string]*town.Controller

	ids      IDGenerator
	password PasswordHasher
	broker   broker.TokenBroker
}

// New constructs an empty registry. Prefer wiring a single instance per
// process through the application container rather than a package-level
// singleton (§9).
func New(ids IDGenerator, password PasswordHasher, tokenBroker broker.TokenBroker) *Registry {
	return &Registry{
		controllers: make(map[string]*town.Controller),
		ids:         ids,
		password:    password,
		broker:      tokenBroker,
	}
}

// CreateTown generates a fresh town id and update password, instantiates
// a controller, registers it, and returns both the controller and the
// plaintext password (returned to the caller exactly once, at creation).
func (r *Registry) CreateTown(friendlyName string, isPubliclyListed bool) (*town.Controller, string, error) {
	plaintextPassword := r.ids.NewID()
	hash, err := r.password.Hash(plaintextPassword)
	if err != nil {
		return nil, "", err
	}

	townID := r.ids.NewID()
	ctrl := town.NewController(townID, friendlyName, isPubliclyListed, hash, r.broker)

	r.mu.Lock()
	r.controllers[townID] = ctrl
	r.mu.Unlock()

	return ctrl, plaintextPassword, nil
}

// GetControllerForTown looks up a controller by town id.
func (r *Registry) GetControllerForTown(townID string) (*town.Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctrl, ok := r.controllers[townID]
	return ctrl, ok
}

// ListTowns returns a snapshot of every publicly listed town.
func (r *Registry) ListTowns() []town.Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]town.Info, 0, len(r.controllers))
	for _, ctrl := range r.controllers {
		info := ctrl.Info()
		if info.IsPubliclyListed {
			out = append(out, info)
		}
	}
	return out
}

// UpdateTown authenticates townID's update password and, if it matches,
// applies newFriendlyName and/or newIsPublic (either may be nil to leave
// that field untouched).
func (r *Registry) UpdateTown(townID, password string, newFriendlyName *string, newIsPublic *bool) bool {
	ctrl, ok := r.GetControllerForTown(townID)
	if !ok {
		return false
	}
	if !r.password.Compare(ctrl.PasswordHash(), password) {
		return false
	}
	ctrl.UpdateInfo(newFriendlyName, newIsPublic)
	return true
}

// DeleteTown authenticates townID's update password and, if it matches,
// disconnects every player in the town and removes it from the registry.
func (r *Registry) DeleteTown(townID, password string) bool {
	ctrl, ok := r.GetControllerForTown(townID)
	if !ok {
		return false
	}
	if !r.password.Compare(ctrl.PasswordHash(), password) {
		return false
	}

	ctrl.DisconnectAllPlayers()

	r.mu.Lock()
	delete(r.controllers, townID)
	r.mu.Unlock()

	return true
}
