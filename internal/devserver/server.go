// Package devserver is a minimal stand-in for the project-management
// backend. It serves the two timesheet endpoints over a file store so the
// CLI can be exercised without the real service.
package devserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tiliavir/timesheet-grid/internal/model"
	"github.com/Tiliavir/timesheet-grid/internal/storage"
)

// Messages returned in {message} bodies.
const (
	MsgUpdated      = "Time data updated successfully"
	MsgBadRequest   = "Invalid time data"
	MsgUnauthorized = "Unauthorized"
	MsgStoreFailed  = "Error saving time data"
	MsgLoadFailed   = "Error fetching time data"
)

// Options configures the server.
type Options struct {
	// Token, when set, must be presented as a bearer credential.
	Token  string
	Logger *zap.Logger
}

// Server serves timesheet documents from a storage.Store.
type Server struct {
	store *storage.Store
	token string
	log   *zap.Logger
}

// New creates a Server over store.
func New(store *storage.Store, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{store: store, token: opts.Token, log: log}
}

// Router builds the gin engine with the timesheet routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", s.auth())
	api.GET("/fetch-times/:id", s.fetchTimes)
	api.PUT("/times/:id", s.updateTimes)
	return r
}

func (s *Server) fetchTimes(c *gin.Context) {
	id := c.Param("id")
	rec, err := s.store.Load(id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusOK, model.FetchResponse{TimeData: model.Document{Time: []model.TimeEntry{}}})
		return
	}
	if err != nil {
		s.log.Error("loading timesheet", zap.String("subject", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.MessageResponse{Message: MsgLoadFailed})
		return
	}
	c.JSON(http.StatusOK, model.FetchResponse{TimeData: rec.Document})
}

func (s *Server) updateTimes(c *gin.Context) {
	id := c.Param("id")
	var req model.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.MessageResponse{Message: MsgBadRequest})
		return
	}
	if err := s.store.Save(id, model.Document{Time: req.TimeData, Comment: req.Comment}); err != nil {
		s.log.Error("saving timesheet", zap.String("subject", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.MessageResponse{Message: MsgStoreFailed})
		return
	}
	s.log.Info("timesheet updated", zap.String("subject", id), zap.Int("entries", len(req.TimeData)))
	c.JSON(http.StatusOK, model.MessageResponse{Message: MsgUpdated})
}

// auth enforces the bearer token when one is configured.
func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.token == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") || strings.TrimPrefix(header, "Bearer ") != s.token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.MessageResponse{Message: MsgUnauthorized})
			return
		}
		c.Next()
	}
}

// requestLogger logs one line per request and echoes or assigns X-Request-ID.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestID),
		)
	}
}
