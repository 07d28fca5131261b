// ABOUTME: /api/storage, the whole-document endpoint used by remote clients
// ABOUTME: GET returns the dataset, POST replaces it, DELETE clears it
package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fomo/config"
	"github.com/harperreed/fomo/models"
)

const storageAllow = "GET, POST, DELETE"

// storageNamespace returns the namespace a request may address. With auth
// disabled the userId parameter is trusted as-is.
func (s *Server) storageNamespace(c *gin.Context) (string, bool) {
	userID := c.Query("userId")
	if s.cfg.Auth.Mode == config.AuthNone || s.cfg.Auth.Mode == "" {
		return userID, true
	}

	session, err := s.auth.Authenticate(c.Request)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	if userID == "" {
		return session.UserID, true
	}
	if userID != session.UserID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return "", false
	}
	return userID, true
}

func (s *Server) handleStorage(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet, http.MethodPost, http.MethodDelete:
	default:
		c.Header("Allow", storageAllow)
		c.String(http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed", c.Request.Method))
		return
	}

	ns, ok := s.storageNamespace(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	switch c.Request.Method {
	case http.MethodGet:
		c.JSON(http.StatusOK, s.store.LoadData(ctx, ns))

	case http.MethodPost:
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		var body struct {
			Data json.RawMessage `json:"data"`
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
				return
			}
		}
		ds, err := models.DecodeDataset(body.Data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset"})
			return
		}
		s.store.SaveData(ctx, ds, ns)
		c.Status(http.StatusOK)

	case http.MethodDelete:
		s.store.ClearData(ctx, ns)
		c.Status(http.StatusOK)
	}
}
