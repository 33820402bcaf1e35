// Package routes wires the REST surface from §6 onto gin, with
// session-token authentication applied only where the spec requires it.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coveytown/townserver/internal/application/container"
	"github.com/coveytown/townserver/internal/presentation/http/handlers"
	"github.com/coveytown/townserver/internal/presentation/http/middleware"
	"github.com/coveytown/townserver/internal/presentation/socket"
)

// SetupRoutes configures the REST surface and the websocket upgrade
// endpoint with dependency injection from c.
func SetupRoutes(c *container.Container) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	townHandlers := handlers.NewTownHandlers(c.Registry, c.Logger)
	sessionHandlers := handlers.NewSessionHandlers(c.Registry, c.Logger)
	areaHandlers := handlers.NewConversationAreaHandlers(c.Logger)
	hub := socket.NewHub(c.Registry, c.Logger)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"isOK": true, "response": gin.H{"status": "up"}})
	})

	api := r.Group("/")
	{
		api.POST("/towns", townHandlers.PostTown)
		api.GET("/towns", townHandlers.GetTowns)
		api.PATCH("/towns/:id", townHandlers.PatchTown)
		api.DELETE("/towns/:id", townHandlers.DeleteTown)

		api.POST("/sessions", sessionHandlers.PostSession)

		authed := api.Group("/")
		authed.Use(middleware.SessionAuth(c.Registry))
		authed.POST("/conversationAreas", areaHandlers.PostConversationArea)
	}

	r.GET("/socket", hub.ServeWS)

	return r
}
