package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coveytown/townserver/internal/domain/registry"
	"github.com/coveytown/townserver/internal/infrastructure/observability/logging"
)

// TownHandlers implements POST/GET/PATCH/DELETE /towns.
type TownHandlers struct {
	registry *registry.Registry
	logger   *logging.ChanneledLogger
}

// NewTownHandlers constructs TownHandlers over reg, logging through logger.
func NewTownHandlers(reg *registry.Registry, logger *logging.ChanneledLogger) *TownHandlers {
	return &TownHandlers{registry: reg, logger: logger}
}

type createTownRequest struct {
	FriendlyName     string `json:"friendlyName" binding:"required"`
	IsPubliclyListed bool   `json:"isPubliclyListed"`
}

type createTownResponse struct {
	TownID             string `json:"townID"`
	TownUpdatePassword string `json:"townUpdatePassword"`
}

// PostTown creates a town and returns its id and one-time update password.
func (h *TownHandlers) PostTown(c *gin.Context) {
	var req createTownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctrl, password, err := h.registry.CreateTown(req.FriendlyName, req.IsPubliclyListed)
	if err != nil {
		h.logger.Registry().Error("failed to create town", "error", err)
		fail(c, http.StatusInternalServerError, "Unable to create town")
		return
	}

	h.logger.Registry().Info("town created", "townID", ctrl.TownID(), "friendlyName", req.FriendlyName)
	ok(c, http.StatusOK, createTownResponse{
		TownID:             ctrl.TownID(),
		TownUpdatePassword: password,
	})
}

// GetTowns lists every publicly listed town.
func (h *TownHandlers) GetTowns(c *gin.Context) {
	towns := h.registry.ListTowns()
	ok(c, http.StatusOK, gin.H{"towns": towns})
}

type updateTownRequest struct {
	TownPassword     string  `json:"townPassword" binding:"required"`
	FriendlyName     *string `json:"friendlyName"`
	IsPubliclyListed *bool   `json:"isPubliclyListed"`
}

// PatchTown authenticates with the town's update password and applies
// the requested changes.
func (h *TownHandlers) PatchTown(c *gin.Context) {
	townID := c.Param("id")
	var req updateTownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !h.registry.UpdateTown(townID, req.TownPassword, req.FriendlyName, req.IsPubliclyListed) {
		fail(c, http.StatusForbidden, "Unable to update town "+townID)
		return
	}

	ok(c, http.StatusOK, gin.H{})
}

type deleteTownRequest struct {
	TownPassword string `json:"townPassword" binding:"required"`
}

// DeleteTown authenticates with the town's update password, disconnects
// every player, and removes the town.
func (h *TownHandlers) DeleteTown(c *gin.Context) {
	townID := c.Param("id")
	var req deleteTownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !h.registry.DeleteTown(townID, req.TownPassword) {
		fail(c, http.StatusForbidden, "Unable to delete town "+townID)
		return
	}

	h.logger.Registry().Info("town deleted", "townID", townID)
	ok(c, http.StatusOK, gin.H{})
}
