package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coveytown/townserver/internal/domain/player"
	"github.com/coveytown/townserver/internal/domain/registry"
	"github.com/coveytown/townserver/internal/infrastructure/observability/logging"
	"github.com/coveytown/townserver/internal/infrastructure/security"
)

// SessionHandlers implements POST /sessions: joining a town.
type SessionHandlers struct {
	registry *registry.Registry
	ids      security.NanoidGenerator
	logger   *logging.ChanneledLogger
}

// NewSessionHandlers constructs SessionHandlers over reg, logging through logger.
func NewSessionHandlers(reg *registry.Registry, logger *logging.ChanneledLogger) *SessionHandlers {
	return &SessionHandlers{registry: reg, logger: logger}
}

type createSessionRequest struct {
	UserName string `json:"userName" binding:"required"`
	TownID   string `json:"coveyTownID" binding:"required"`
}

type createSessionResponse struct {
	SessionToken      string           `json:"sessionToken"`
	MediaToken        string           `json:"mediaToken"`
	TownID            string           `json:"coveyTownID"`
	TownFriendlyName  string           `json:"coveyTownFriendlyName"`
	IsPubliclyListed  bool             `json:"isPubliclyListed"`
	CurrentPlayers    []*player.Player `json:"currentPlayers"`
	ConversationAreas []areaSnapshot   `json:"conversationAreas"`
}

// PostSession admits a new player into a town and returns the session
// and media tokens, plus a snapshot of the town's current players and
// conversation areas so the client can render its initial state.
func (h *SessionHandlers) PostSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctrl, found := h.registry.GetControllerForTown(req.TownID)
	if !found {
		fail(c, http.StatusNotFound, "Unable to join town "+req.TownID)
		return
	}

	p := player.New(h.ids.NewID(), req.UserName)
	sessionToken := h.ids.NewID()

	sess, err := ctrl.AddPlayer(c.Request.Context(), p, sessionToken)
	if err != nil {
		h.logger.Session().Error("broker rejected player", "townID", req.TownID, "error", err)
		fail(c, http.StatusInternalServerError, "Unable to join town "+req.TownID)
		return
	}

	info := ctrl.Info()
	areas := ctrl.ListAreas()
	snapshots := make([]areaSnapshot, 0, len(areas))
	for _, a := range areas {
		snapshots = append(snapshots, toAreaSnapshot(a))
	}

	h.logger.Session().Info("player joined town", "townID", req.TownID, "playerID", p.ID)
	resp := createSessionResponse{
		SessionToken:      sess.Token,
		MediaToken:        sess.MediaToken,
		TownID:            info.TownID,
		TownFriendlyName:  info.FriendlyName,
		IsPubliclyListed:  info.IsPubliclyListed,
		CurrentPlayers:    ctrl.ListPlayers(),
		ConversationAreas: snapshots,
	}
	ok(c, http.StatusOK, resp)
}
