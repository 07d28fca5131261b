// ABOUTME: Error responses shared by the API handlers
// ABOUTME: Maps sentinel errors to HTTP status codes
package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fomo/app"
	"github.com/harperreed/fomo/contacts"
	"github.com/harperreed/fomo/data"
)

// respondError maps caller mistakes to 400 and everything else to 500.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, data.ErrUnknownCollection),
		errors.Is(err, app.ErrEmptyName),
		errors.Is(err, app.ErrUnknownMethod),
		errors.Is(err, contacts.ErrNameRequired),
		errors.Is(err, contacts.ErrInvalidInviteToken),
		errors.Is(err, contacts.ErrInvalidStatus),
		errors.Is(err, contacts.ErrFieldNotPatchable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Errorw("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
