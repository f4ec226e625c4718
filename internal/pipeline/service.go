// internal/pipeline/service.go
package pipeline

import (
	"context"

	"recruitment-core/internal/common/errors"
	"recruitment-core/internal/common/logger"
	"recruitment-core/internal/common/metrics"
	"recruitment-core/internal/models"
)

// StatusStore is what the pipeline needs from the application repository.
type StatusStore interface {
	UpdateStatus(ctx context.Context, id string, status models.Status) error
	RejectBelowThreshold(ctx context.Context, jobID string, threshold float64) (int64, error)
}

// Service applies status transitions against the repository: single-record
// moves and the bulk threshold pass. Both are single transactional mutations.
type Service struct {
	apps   StatusStore
	logger logger.Logger
}

func NewService(apps StatusStore, log logger.Logger) *Service {
	return &Service{
		apps:   apps,
		logger: log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}
}

// SetStatus validates the new status against the enumeration and persists it.
// Transitions between any two valid states are allowed; value-set membership
// is the only rule.
func (s *Service) SetStatus(ctx context.Context, applicationID, rawStatus string) (models.Status, error) {
	status, ok := models.ParseStatus(rawStatus)
	if !ok {
		return "", errors.NewInvalidStatusError(rawStatus, models.ValidStatuses)
	}

	if err := s.apps.UpdateStatus(ctx, applicationID, status); err != nil {
		return "", err
	}

	metrics.StatusTransitions.WithLabelValues(string(status)).Inc()
	s.logger.Info("status updated", map[string]interface{}{
		"applicationId": applicationID,
		"status":        string(status),
	})
	return status, nil
}

// RejectBelowThreshold mass-rejects the job's still-applied applications
// scoring strictly below threshold and returns the count changed. A nil
// threshold is a validation error; zero or negative thresholds are legal and
// match nothing, since scores are non-negative.
func (s *Service) RejectBelowThreshold(ctx context.Context, jobID string, threshold *float64) (int64, error) {
	if threshold == nil {
		return 0, errors.NewMissingThresholdError()
	}

	count, err := s.apps.RejectBelowThreshold(ctx, jobID, *threshold)
	if err != nil {
		return 0, err
	}

	metrics.BulkRejections.Add(float64(count))
	return count, nil
}
