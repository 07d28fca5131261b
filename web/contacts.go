// ABOUTME: Contact directory handlers, including invite links and invite acceptance
// ABOUTME: PATCH and DELETE take the contact id in the JSON body
package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fomo/contacts"
	"github.com/harperreed/fomo/models"
)

func (s *Server) handleListContacts(c *gin.Context) {
	list, err := s.contacts.List(c.Request.Context(), currentSession(c).UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": list})
}

func (s *Server) handleCreateContact(c *gin.Context) {
	var body struct {
		Name        string `json:"name"`
		Login       string `json:"login"`
		InviteToken string `json:"inviteToken"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	created, err := s.contacts.Create(c.Request.Context(), currentSession(c).UserID, body.Name, body.Login, body.InviteToken)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateContact(c *gin.Context) {
	var body struct {
		ID    string        `json:"id"`
		Patch models.Record `json:"patch"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ID == "" || body.Patch == nil {
		badRequest(c, "id and patch are required")
		return
	}

	updated, err := s.contacts.Update(c.Request.Context(), currentSession(c).UserID, body.ID, body.Patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if updated == nil {
		notFound(c, "Contact")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteContact(c *gin.Context) {
	var body struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ID == "" {
		badRequest(c, "id is required")
		return
	}

	removed, err := s.contacts.Delete(c.Request.Context(), currentSession(c).UserID, body.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !removed {
		notFound(c, "Contact")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// requestOrigin picks the origin invite links point at.
func requestOrigin(c *gin.Context) string {
	if origin := c.GetHeader("Origin"); origin != "" {
		return origin
	}
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func (s *Server) handleInviteContact(c *gin.Context) {
	link, contact, err := s.contacts.Invite(c.Request.Context(), currentSession(c).UserID, c.Param("id"), requestOrigin(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if contact == nil {
		notFound(c, "Contact")
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": link, "contact": contact})
}

// handleAcceptInvite accepts an invite issued by owner on behalf of the
// signed-in user.
func (s *Server) handleAcceptInvite(c *gin.Context) {
	var body struct {
		Owner string `json:"owner"`
		Token string `json:"token"`
		Link  string `json:"link"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	session := currentSession(c)
	owner := body.Owner
	if owner == "" {
		owner = session.UserID
	}
	token := body.Token
	if token == "" && body.Link != "" {
		token = contacts.ParseInviteToken(body.Link)
	}

	accepted, err := s.contacts.Accept(c.Request.Context(), owner, token, session.UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if accepted == nil {
		notFound(c, "Invite")
		return
	}
	c.JSON(http.StatusOK, accepted)
}
