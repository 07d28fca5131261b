// ABOUTME: Person endpoints whose changes fan out to every task naming the person
// ABOUTME: Renames and notification-method toggles go through the app state
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleRenamePerson(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	updated, err := s.state(c).RenamePerson(c.Request.Context(), c.Param("id"), body.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if updated == nil {
		notFound(c, "Person")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleSetPersonMethod(c *gin.Context) {
	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Enabled == nil {
		badRequest(c, "enabled is required")
		return
	}

	updated, err := s.state(c).SetPersonMethod(c.Request.Context(), c.Param("id"), c.Param("method"), *body.Enabled)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if updated == nil {
		notFound(c, "Person")
		return
	}
	c.JSON(http.StatusOK, updated)
}
