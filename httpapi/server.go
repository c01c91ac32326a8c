// Package httpapi exposes the research workflow over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobseekr/companyscout"
)

// Runner executes one research request. *companyscout.Workflow satisfies it.
type Runner interface {
	Run(ctx context.Context, req companyscout.Request) (string, error)
}

// Server serves the research API.
type Server struct {
	engine *gin.Engine
	runner Runner
	logger *zap.Logger
}

// NewServer builds the server and registers its routes.
func NewServer(runner Runner, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{engine: gin.New(), runner: runner, logger: logger}
	s.engine.Use(gin.Recovery())

	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/api/research", s.handleResearch)
	return s
}

// Handler exposes the underlying handler, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// Start runs the server on addr until it fails.
func (s *Server) Start(addr string) error {
	if addr == "" {
		addr = ":8080"
	}
	s.logger.Info("http server starting", zap.String("addr", addr))
	return s.engine.Run(addr)
}

type researchRequest struct {
	CompanyName    string `json:"company_name" binding:"required,min=2,max=200"`
	JobTitle       string `json:"job_title" binding:"omitempty,max=200"`
	JobDescription string `json:"job_description" binding:"omitempty,max=10000"`
}

type researchResponse struct {
	RequestID   string    `json:"request_id"`
	CompanyName string    `json:"company_name"`
	Report      string    `json:"report"`
	GeneratedAt time.Time `json:"generated_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleResearch(c *gin.Context) {
	var req researchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	requestID := uuid.NewString()
	logger := s.logger.With(zap.String("request_id", requestID), zap.String("company", req.CompanyName))
	logger.Info("research request accepted")

	started := time.Now()
	report, err := s.runner.Run(c.Request.Context(), companyscout.Request{
		CompanyName:    req.CompanyName,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		logger.Error("research request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	logger.Info("research request complete", zap.Duration("elapsed", time.Since(started)))
	c.JSON(http.StatusOK, researchResponse{
		RequestID:   requestID,
		CompanyName: req.CompanyName,
		Report:      report,
		GeneratedAt: time.Now().UTC(),
	})
}
