// Package web serves a password-protected page that runs the order jobs.
package web

import (
	"context"
	"crypto/subtle"
	_ "embed"
	"errors"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/zalepa/orderdesk/jobs"
)

//go:embed index.html
var indexHTML []byte

const sessionCookie = "orderdesk_session"

// Jobs is the job surface the server exposes. *jobs.Runner implements it.
type Jobs interface {
	Organize(ctx context.Context) (*jobs.Result, error)
	Report(ctx context.Context) (*jobs.Result, error)
	Forms(ctx context.Context, req jobs.FormsRequest) (*jobs.Result, error)
	Schools(ctx context.Context) ([]string, error)
}

type Server struct {
	jobs     Jobs
	password string
	logger   *zap.Logger

	// sessions maps session tokens to their login time.
	sessions *cache.Cache
	// files maps download names to generated PDF paths.
	files *cache.Cache
	// busy allows one job at a time.
	busy sync.Mutex
}

// NewServer returns a server guarding j with password. Sessions and download
// links expire after ttl.
func NewServer(j Jobs, password string, ttl time.Duration, logger *zap.Logger) (*Server, error) {
	if password == "" {
		return nil, errors.New("web password is not set")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		jobs:     j,
		password: password,
		logger:   logger,
		sessions: cache.New(ttl, 10*time.Minute),
		files:    cache.New(ttl, 10*time.Minute),
	}, nil
}

// Handler wires the routes.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/", s.index)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/login", s.login)
	router.POST("/logout", s.logout)

	api := router.Group("/api")
	api.Use(s.auth())
	{
		api.POST("/organize", s.organize)
		api.POST("/report", s.report)
		api.GET("/schools", s.schools)
		api.POST("/forms", s.forms)
	}
	router.GET("/files/:name", s.auth(), s.download)
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}

func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		if _, found := s.sessions.Get(token); !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		c.Next()
	}
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password required"})
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.password)) != 1 {
		s.logger.Warn("failed login", zap.String("remote", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong password"})
		return
	}
	token := uuid.NewString()
	s.sessions.Set(token, time.Now(), cache.DefaultExpiration)
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		s.sessions.Delete(token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// publish registers a generated file for download and returns its URL.
func (s *Server) publish(path string) string {
	if path == "" {
		return ""
	}
	name := filepath.Base(path)
	s.files.Set(name, path, cache.DefaultExpiration)
	return "/files/" + name
}

func (s *Server) download(c *gin.Context) {
	name := c.Param("name")
	v, found := s.files.Get(name)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	c.FileAttachment(v.(string), name)
}
