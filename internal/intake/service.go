// internal/intake/service.go
package intake

import (
	"context"
	"io"
	"os"
	"time"

	"recruitment-core/internal/analyzer"
	"recruitment-core/internal/common/errors"
	"recruitment-core/internal/common/logger"
	"recruitment-core/internal/common/metrics"
	"recruitment-core/internal/models"
	"recruitment-core/internal/upload"

	"github.com/google/uuid"
)

// ApplicationStore is what the chain needs from the application repository.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	ExistsByApplicantAndJob(ctx context.Context, applicantID, jobID string) (bool, error)
}

// JobResolver supplies the job's analysis text or a not-found error.
type JobResolver interface {
	AnalysisText(ctx context.Context, jobID string) (string, error)
}

// ResumeAnalyzer is the external scoring function. It never fails: degraded
// calls come back as zero-score results.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, filePath, fileName, jobDescription string) *analyzer.Result
}

// FileReceiver stores one validated upload.
type FileReceiver interface {
	Save(originalName string, declaredSize int64, src io.Reader) (*upload.StoredFile, error)
}

// SubmitRequest carries one resume submission. Applicant identity is supplied
// by the upstream auth collaborator.
type SubmitRequest struct {
	ApplicantID    string
	ApplicantName  string
	ApplicantEmail string
	JobID          string
	FileName       string
	FileSize       int64
	File           io.Reader
}

// Service runs the intake chain: receiver, resolver, duplicate guard,
// analyzer, repository create. Each step can abort the chain; any abort after
// the file write removes the stored file before the error returns.
type Service struct {
	receiver FileReceiver
	resolver JobResolver
	analyzer ResumeAnalyzer
	apps     ApplicationStore
	logger   logger.Logger
}

func NewService(receiver FileReceiver, resolver JobResolver, an ResumeAnalyzer, apps ApplicationStore, log logger.Logger) *Service {
	return &Service{
		receiver: receiver,
		resolver: resolver,
		analyzer: an,
		apps:     apps,
		logger:   log.WithFields(map[string]interface{}{"component": "intake"}),
	}
}

// Submit executes one intake run and returns the created application.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.Application, error) {
	start := time.Now()
	app, err := s.submit(ctx, req)
	metrics.IntakeDuration.Observe(time.Since(start).Seconds())
	metrics.IntakeSubmissions.WithLabelValues(outcomeLabel(err)).Inc()
	return app, err
}

func (s *Service) submit(ctx context.Context, req SubmitRequest) (*models.Application, error) {
	if req.JobID == "" {
		return nil, errors.NewMissingJobIDError()
	}
	if req.File == nil || req.FileName == "" {
		return nil, errors.NewMissingFileError()
	}

	stored, err := s.receiver.Save(req.FileName, req.FileSize, req.File)
	if err != nil {
		return nil, err
	}

	// Scoped release: the file written above survives only a durable commit.
	committed := false
	defer func() {
		if committed {
			return
		}
		if rmErr := stored.Remove(); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.WithError(rmErr).Warn("cleanup of stored file failed", map[string]interface{}{
				"path": stored.Path,
			})
		}
	}()

	jobText, err := s.resolver.AnalysisText(ctx, req.JobID)
	if err != nil {
		return nil, err
	}

	// Fast-path duplicate check; the storage unique constraint is the real
	// guarantee under concurrent submissions.
	exists, err := s.apps.ExistsByApplicantAndJob(ctx, req.ApplicantID, req.JobID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.NewDuplicateApplicationError(req.ApplicantID, req.JobID)
	}

	// Analyzer degradation is not a failure path: the submission is recorded
	// with a zero score rather than bounced.
	result := s.analyzer.Analyze(ctx, stored.Path, stored.OriginalName, jobText)

	app := &models.Application{
		ID:             uuid.New().String(),
		ApplicantID:    req.ApplicantID,
		JobID:          req.JobID,
		ApplicantName:  req.ApplicantName,
		ApplicantEmail: req.ApplicantEmail,
		FileName:       stored.OriginalName,
		FilePath:       stored.Path,
		ExtractedText:  result.ExtractedText,
		MatchScore:     result.MatchScore,
		Status:         models.StatusApplied,
		UploadedAt:     time.Now().UTC(),
	}

	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	committed = true

	s.logger.Info("application submitted", map[string]interface{}{
		"applicationId": app.ID,
		"jobId":         app.JobID,
		"matchScore":    app.MatchScore,
		"degraded":      result.Degraded,
	})
	return app, nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.IsConflict(err):
		return "conflict"
	case errors.IsNotFound(err):
		return "not_found"
	default:
		switch errors.CodeOf(err) {
		case errors.ErrCodeMissingJobID, errors.ErrCodeMissingFile,
			errors.ErrCodeInvalidFileType, errors.ErrCodeFileTooLarge:
			return "validation"
		}
		return "error"
	}
}
