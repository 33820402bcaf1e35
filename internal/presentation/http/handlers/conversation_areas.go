package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coveytown/townserver/internal/domain/conversation"
	"github.com/coveytown/townserver/internal/domain/geometry"
	"github.com/coveytown/townserver/internal/infrastructure/observability/logging"
	"github.com/coveytown/townserver/internal/presentation/http/middleware"
)

// areaSnapshot is the wire shape of a conversation area.
type areaSnapshot struct {
	Label       string       `json:"label"`
	Topic       string       `json:"topic"`
	BoundingBox geometry.Box `json:"boundingBox"`
	Occupants   []string     `json:"occupantsByID"`
}

func toAreaSnapshot(a *conversation.Area) areaSnapshot {
	return areaSnapshot{
		Label:       a.Label,
		Topic:       a.Topic,
		BoundingBox: a.BoundingBox,
		Occupants:   append([]string(nil), a.Occupants...),
	}
}

// ConversationAreaHandlers implements POST /conversationAreas.
type ConversationAreaHandlers struct {
	logger *logging.ChanneledLogger
}

// NewConversationAreaHandlers constructs ConversationAreaHandlers, logging through logger.
func NewConversationAreaHandlers(logger *logging.ChanneledLogger) *ConversationAreaHandlers {
	return &ConversationAreaHandlers{logger: logger}
}

type createConversationAreaRequest struct {
	Label       string       `json:"label" binding:"required"`
	Topic       string       `json:"topic" binding:"required"`
	BoundingBox geometry.Box `json:"boundingBox"`
}

// PostConversationArea delegates to the session-authenticated
// controller's addConversationArea (§4.6). The session-auth middleware
// stashes the resolved controller in the gin context.
func (h *ConversationAreaHandlers) PostConversationArea(c *gin.Context) {
	var req createConversationAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctrl, found := middleware.ControllerFromContext(c)
	if !found {
		fail(c, http.StatusUnauthorized, "Invalid session token")
		return
	}

	area := conversation.New(req.Label, req.Topic, req.BoundingBox)
	if !ctrl.AddConversationArea(area) {
		fail(c, http.StatusBadRequest, "Unable to create conversation area "+req.Label+" with topic "+req.Topic)
		return
	}

	h.logger.Conversation().Info("conversation area created", "townID", ctrl.TownID(), "label", req.Label)
	ok(c, http.StatusOK, toAreaSnapshot(area))
}
