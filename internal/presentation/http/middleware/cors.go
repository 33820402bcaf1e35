package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/coveytown/townserver/pkg/config"
)

// CORSMiddleware allows the configured origins to reach the REST and
// session-join surface from a browser client.
func CORSMiddleware() gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Session-Token", "X-Town-ID"},
		ExposeHeaders: []string{"Content-Type"},
	}

	if len(config.CORSAllowOrigins) == 1 && config.CORSAllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = config.CORSAllowOrigins
		corsConfig.AllowCredentials = true
	}

	return cors.New(corsConfig)
}
