// Package handlers implements the REST surface described in §6: town
// lifecycle, session join, and conversation-area creation, all
// responding through the same envelope.
package handlers

import "github.com/gin-gonic/gin"

// envelope is the uniform REST response shape from §6:
// {isOK, message?, response}.
type envelope struct {
	IsOK     bool        `json:"isOK"`
	Message  string      `json:"message,omitempty"`
	Response interface{} `json:"response"`
}

func ok(c *gin.Context, status int, response interface{}) {
	c.JSON(status, envelope{IsOK: true, Response: response})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{IsOK: false, Message: message, Response: gin.H{}})
}
