// internal/api/server.go
package api

import (
	"context"
	"net/http"

	"recruitment-core/internal/common/logger"
	"recruitment-core/internal/intake"
	"recruitment-core/internal/models"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ApplicationReader covers the read projections the HTTP surface serves.
type ApplicationReader interface {
	FindByID(ctx context.Context, id string) (*models.Application, error)
	FindByJob(ctx context.Context, jobID string) ([]*models.Application, error)
	FindByApplicant(ctx context.Context, applicantID string) ([]*models.Application, error)
}

// JobReader covers the read-only job listings.
type JobReader interface {
	FindByID(ctx context.Context, id string) (*models.JobPosting, error)
	ListActive(ctx context.Context) ([]*models.JobPosting, error)
}

// IntakeService runs one submission through the intake chain.
type IntakeService interface {
	Submit(ctx context.Context, req intake.SubmitRequest) (*models.Application, error)
}

// PipelineService applies status transitions.
type PipelineService interface {
	SetStatus(ctx context.Context, applicationID, rawStatus string) (models.Status, error)
	RejectBelowThreshold(ctx context.Context, jobID string, threshold *float64) (int64, error)
}

// HealthChecker probes the analyzer's liveness.
type HealthChecker interface {
	Health(ctx context.Context) bool
}

// Server is the HTTP surface over the intake and pipeline services.
// Authentication happens upstream; identity arrives in gateway headers.
type Server struct {
	intake   IntakeService
	pipeline PipelineService
	apps     ApplicationReader
	jobs     JobReader
	health   HealthChecker
	logger   logger.Logger
}

func NewServer(in IntakeService, pl PipelineService, apps ApplicationReader, jobs JobReader, health HealthChecker, log logger.Logger) *Server {
	return &Server{
		intake:   in,
		pipeline: pl,
		apps:     apps,
		jobs:     jobs,
		health:   health,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Routes builds the request mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/resumes/upload", s.withIdentity(s.handleUpload))
	mux.HandleFunc("GET /api/resumes/job/{jobId}", s.withIdentity(s.requireAdmin(s.handleListByJob)))
	mux.HandleFunc("GET /api/resumes/my", s.withIdentity(s.handleMyResumes))
	mux.HandleFunc("GET /api/resumes/{id}", s.withIdentity(s.handleGetResume))
	mux.HandleFunc("PUT /api/resumes/{id}/status", s.withIdentity(s.requireAdmin(s.handleSetStatus)))
	mux.HandleFunc("POST /api/resumes/job/{jobId}/reject-threshold", s.withIdentity(s.requireAdmin(s.handleRejectThreshold)))

	mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
