// ABOUTME: REST handlers for generic record CRUD on any collection
// ABOUTME: Task listing supports filters and text search; deletes can be deferred for undo
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fomo/app"
	"github.com/harperreed/fomo/models"
)

// maxUndoWindow bounds ?undo= so a client cannot park deletes indefinitely.
const maxUndoWindow = 5 * time.Minute

func (s *Server) collectionParam(c *gin.Context) (models.Collection, bool) {
	coll, err := models.ParseCollection(c.Param("collection"))
	if err != nil {
		badRequest(c, err.Error())
		return "", false
	}
	return coll, true
}

// state loads the dataset of the request's user.
func (s *Server) state(c *gin.Context) *app.State {
	st := app.NewState(s.data, currentSession(c).UserID, s.log)
	st.Load(c.Request.Context())
	return st
}

func (s *Server) handleListRecords(c *gin.Context) {
	coll, ok := s.collectionParam(c)
	if !ok {
		return
	}
	records, err := s.data.GetAll(c.Request.Context(), coll, currentSession(c).UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if coll == models.CollectionTasks {
		filters, err := app.ParseFilters(c.QueryArray("filter"))
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		if len(filters) > 0 || c.Query("q") != "" {
			records = app.FilterTasks(records, filters, c.Query("q"), s.now())
		}
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleGetRecord(c *gin.Context) {
	coll, ok := s.collectionParam(c)
	if !ok {
		return
	}
	record, err := s.data.GetByID(c.Request.Context(), coll, c.Param("id"), currentSession(c).UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if record == nil {
		notFound(c, "Record")
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleCreateRecord(c *gin.Context) {
	coll, ok := s.collectionParam(c)
	if !ok {
		return
	}
	var item models.Record
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	created, err := s.state(c).Add(c.Request.Context(), coll, item)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateRecord(c *gin.Context) {
	coll, ok := s.collectionParam(c)
	if !ok {
		return
	}
	var changes models.Record
	if err := c.ShouldBindJSON(&changes); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	updated, err := s.state(c).Edit(c.Request.Context(), coll, c.Param("id"), changes)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if updated == nil {
		notFound(c, "Record")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteRecord(c *gin.Context) {
	coll, ok := s.collectionParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	userID := currentSession(c).UserID
	id := c.Param("id")

	if undo := c.Query("undo"); undo != "" {
		delay, err := time.ParseDuration(undo)
		if err != nil || delay <= 0 || delay > maxUndoWindow {
			badRequest(c, "undo must be a duration up to 5m")
			return
		}
		existing, err := s.data.GetByID(ctx, coll, id, userID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		if existing == nil {
			notFound(c, "Record")
			return
		}
		token := s.deferrer.Schedule(coll, id, userID, delay)
		c.JSON(http.StatusAccepted, gin.H{"token": token})
		return
	}

	removed, err := s.state(c).Delete(ctx, coll, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !removed {
		notFound(c, "Record")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleUndo(c *gin.Context) {
	if !s.deferrer.Undo(c.Param("token"), currentSession(c).UserID) {
		notFound(c, "Pending delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
