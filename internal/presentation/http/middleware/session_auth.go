package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coveytown/townserver/internal/domain/registry"
	"github.com/coveytown/townserver/internal/domain/town"
)

const (
	controllerContextKey = "town.controller"
	sessionHeaderName    = "X-Session-Token"
	townHeaderName       = "X-Town-ID"
)

// SessionAuth resolves the town named by the X-Town-ID header, then
// checks that X-Session-Token names a live session in it, mirroring the
// socket transport's handshake resolution order (§6: town lookup, then
// session lookup). On success it stashes the resolved controller in the
// gin context for downstream handlers.
func SessionAuth(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		townID := c.GetHeader(townHeaderName)
		token := c.GetHeader(sessionHeaderName)
		if townID == "" || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"isOK": false, "message": "Missing session credentials"})
			return
		}

		ctrl, ok := reg.GetControllerForTown(townID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"isOK": false, "message": "Invalid session token"})
			return
		}
		if _, ok := ctrl.GetSessionByToken(token); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"isOK": false, "message": "Invalid session token"})
			return
		}

		c.Set(controllerContextKey, ctrl)
		c.Next()
	}
}

// ControllerFromContext retrieves the controller resolved by SessionAuth.
func ControllerFromContext(c *gin.Context) (*town.Controller, bool) {
	v, exists := c.Get(controllerContextKey)
	if !exists {
		return nil, false
	}
	ctrl, ok := v.(*town.Controller)
	return ctrl, ok
}
