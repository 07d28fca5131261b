// ABOUTME: HTTP server exposing the dataset store and the record, people, and contact APIs
// ABOUTME: Built on gin with CORS, recovery, request logging, and an auth gate
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fomo/app"
	"github.com/harperreed/fomo/config"
	"github.com/harperreed/fomo/contacts"
	"github.com/harperreed/fomo/data"
	"github.com/harperreed/fomo/storage"
	"go.uber.org/zap"
)

type Server struct {
	cfg      *config.Config
	store    *storage.Store
	data     *data.Service
	contacts *contacts.Service
	deferrer *app.Deferrer
	auth     *Authenticator
	log      *zap.SugaredLogger
	engine   *gin.Engine
	now      func() time.Time
}

func NewServer(cfg *config.Config, store *storage.Store, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	svc := data.NewService(store, log)
	s := &Server{
		cfg:      cfg,
		store:    store,
		data:     svc,
		contacts: contacts.NewService(svc, log),
		deferrer: app.NewDeferrer(app.CascadingRemove(svc, log), log),
		auth:     NewAuthenticator(cfg.Auth),
		log:      log,
		now:      time.Now,
	}

	s.engine = gin.New()
	s.setupMiddleware()
	s.registerRoutes()
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// HTTPServer wraps the router in an http.Server listening on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Shutdown runs every pending undo-window delete.
func (s *Server) Shutdown(ctx context.Context) {
	if n := s.deferrer.Pending(); n > 0 {
		s.log.Infow("flushing pending deletes", "count", n)
	}
	s.deferrer.Flush(ctx)
}

func (s *Server) registerRoutes() {
	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	s.engine.Any(storage.StoragePath, s.handleStorage)

	auth := s.engine.Group("/api/auth")
	{
		auth.POST("/login", s.handleLogin)
		auth.POST("/logout", s.handleLogout)
	}

	v1 := s.engine.Group("/api/v1")
	v1.Use(s.requireSession())
	{
		v1.GET("/session", s.handleSession)

		v1.GET("/records/:collection", s.handleListRecords)
		v1.POST("/records/:collection", s.handleCreateRecord)
		v1.GET("/records/:collection/:id", s.handleGetRecord)
		v1.PATCH("/records/:collection/:id", s.handleUpdateRecord)
		v1.DELETE("/records/:collection/:id", s.handleDeleteRecord)
		v1.POST("/undo/:token", s.handleUndo)

		v1.PUT("/people/:id/name", s.handleRenamePerson)
		v1.PUT("/people/:id/methods/:method", s.handleSetPersonMethod)

		v1.GET("/contacts", s.handleListContacts)
		v1.POST("/contacts", s.handleCreateContact)
		v1.PATCH("/contacts", s.handleUpdateContact)
		v1.DELETE("/contacts", s.handleDeleteContact)
		v1.POST("/contacts/:id/invite", s.handleInviteContact)
		v1.POST("/invites/accept", s.handleAcceptInvite)
	}
}
