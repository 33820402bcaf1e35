// Package socket implements the transport adapter described in §6: per
// client socket it resolves the town and session from handshake
// metadata, registers a listener translating core events into outbound
// messages, and relays inbound player-movement messages back into the
// core. Grounded on the gorilla/websocket upgrade pattern of the
// netrek-web server in other_examples (the teacher has no websocket
// transport).
package socket

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/coveytown/townserver/internal/domain/registry"
	"github.com/coveytown/townserver/internal/infrastructure/observability/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 54 * time.Second
	maxMessageSize = 16 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub upgrades incoming HTTP requests to websocket connections and
// resolves them against reg. It holds no per-connection state itself:
// each connection owns its own read/write pumps and listener
// registration.
type Hub struct {
	registry *registry.Registry
	logger   *logging.ChanneledLogger
}

// NewHub constructs a Hub over reg, logging through logger.
func NewHub(reg *registry.Registry, logger *logging.ChanneledLogger) *Hub {
	return &Hub{registry: reg, logger: logger}
}

// ServeWS implements the handshake steps of §6: read the town id and
// session token from the query string, resolve the controller, resolve
// the session, and on success hand off to a per-connection pump. Any
// resolution failure aborts the upgrade instead of disconnecting after
// the fact, since gorilla/websocket cannot reject a handshake once
// upgraded without a close frame round trip.
func (h *Hub) ServeWS(c *gin.Context) {
	townID := c.Query("townID")
	token := c.Query("sessionToken")
	if townID == "" || token == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"isOK": false, "message": "Missing town id or session token"})
		return
	}

	ctrl, ok := h.registry.GetControllerForTown(townID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"isOK": false, "message": "Unknown town " + townID})
		return
	}

	sess, ok := ctrl.GetSessionByToken(token)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"isOK": false, "message": "Invalid session token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Socket().Error("websocket upgrade failed", "error", err)
		return
	}

	pump := newConnection(conn, ctrl, sess, h.logger)
	pump.run()
}
