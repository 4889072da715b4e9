package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/ankivn/internal/interaction"
	"codeberg.org/snonux/ankivn/internal/processor"
)

// HealthChecker reports whether the flashcard backend is reachable.
type HealthChecker interface {
	Version(ctx context.Context) (int, error)
}

// Server is the HTTP API.
type Server struct {
	pipeline *processor.Pipeline
	health   HealthChecker
	router   *gin.Engine
	log      logrus.FieldLogger
}

type cardRequest struct {
	Word    string `json:"word" binding:"required"`
	Meaning string `json:"meaning"`
	Custom  bool   `json:"custom"`
}

type cardResponse struct {
	Success     bool                 `json:"success"`
	Word        string               `json:"word"`
	Translation string               `json:"translation"`
	Notices     []interaction.Notice `json:"notices"`
	Error       string               `json:"error,omitempty"`
}

// New creates the server. health may be nil when notes are written offline.
func New(pipeline *processor.Pipeline, health HealthChecker, log logrus.FieldLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	s := &Server{
		pipeline: pipeline,
		health:   health,
		router:   router,
		log:      log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.healthHandler)

	api := s.router.Group("/api")
	{
		api.POST("/cards", s.createCardHandler)
	}
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done. Only loopback addresses are
// accepted.
func (s *Server) Run(ctx context.Context, addr string) error {
	if err := checkLoopback(addr); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func checkLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	if host == "localhost" {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("refusing to listen on non-loopback address %q", addr)
}

func (s *Server) healthHandler(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	version, err := s.health.Version(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "ankiconnect": version})
}

func (s *Server) createCardHandler(c *gin.Context) {
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, cardResponse{Notices: []interaction.Notice{}, Error: err.Error()})
		return
	}

	// A given meaning is answered to the prompt of the custom flow.
	custom := req.Custom || req.Meaning != ""
	answer := interaction.Answer{Meaning: req.Meaning}
	if req.Meaning == interaction.AutoSentinel {
		answer = interaction.Answer{Auto: true}
	}
	ui := interaction.NewRecorder(answer)

	result := s.pipeline.Session(ui).HandleSelection(c.Request.Context(),
		processor.Selection{Text: req.Word, Custom: custom})

	resp := cardResponse{
		Success:     result.Success,
		Word:        result.Word,
		Translation: result.Translation,
		Notices:     ui.Notices(),
	}
	if resp.Notices == nil {
		resp.Notices = []interaction.Notice{}
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	c.JSON(statusFor(result), resp)
}

func statusFor(r processor.Result) int {
	switch {
	case r.Success:
		return http.StatusOK
	case errors.Is(r.Err, processor.ErrMissingCredential):
		return http.StatusPreconditionFailed
	case errors.Is(r.Err, processor.ErrNoMeaning),
		errors.Is(r.Err, processor.ErrEmptySelection),
		errors.Is(r.Err, processor.ErrCancelled):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("Request completed")
	}
}
