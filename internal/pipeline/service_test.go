// internal/pipeline/service_test.go
package pipeline

import (
	"context"
	"testing"

	"recruitment-core/internal/common/errors"
	"recruitment-core/internal/common/logger"
	"recruitment-core/internal/models"

	"github.com/stretchr/testify/assert"
)

type fakeStatusStore struct {
	updateErr   error
	rejectErr   error
	rejectCount int64

	lastID        string
	lastStatus    models.Status
	lastJobID     string
	lastThreshold float64
	updateCalls   int
}

func (f *fakeStatusStore) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	f.updateCalls++
	f.lastID = id
	f.lastStatus = status
	return f.updateErr
}

func (f *fakeStatusStore) RejectBelowThreshold(ctx context.Context, jobID string, threshold float64) (int64, error) {
	f.lastJobID = jobID
	f.lastThreshold = threshold
	return f.rejectCount, f.rejectErr
}

func newPipelineHarness(t *testing.T) (*Service, *fakeStatusStore) {
	store := &fakeStatusStore{}
	return NewService(store, logger.NewTestLogger(t)), store
}

func floatPtr(v float64) *float64 { return &v }

// ==========================
// SetStatus Tests
// ==========================

func TestService_SetStatus_Success(t *testing.T) {
	service, store := newPipelineHarness(t)

	status, err := service.SetStatus(context.Background(), "app-001", "interviewing")

	assert.NoError(t, err)
	assert.Equal(t, models.StatusInterviewing, status)
	assert.Equal(t, "app-001", store.lastID)
	assert.Equal(t, models.StatusInterviewing, store.lastStatus)
}

func TestService_SetStatus_AnyDirectionAllowed(t *testing.T) {
	service, store := newPipelineHarness(t)

	// a hired candidate can be moved back to applied
	status, err := service.SetStatus(context.Background(), "app-001", "applied")

	assert.NoError(t, err)
	assert.Equal(t, models.StatusApplied, status)
	assert.Equal(t, 1, store.updateCalls)
}

func TestService_SetStatus_UnknownValue(t *testing.T) {
	service, store := newPipelineHarness(t)

	status, err := service.SetStatus(context.Background(), "app-001", "archived")

	assert.Empty(t, status)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidStatus))
	assert.Equal(t, 0, store.updateCalls)
}

func TestService_SetStatus_NotFoundPropagates(t *testing.T) {
	service, store := newPipelineHarness(t)
	store.updateErr = errors.NewApplicationNotFoundError("missing")

	status, err := service.SetStatus(context.Background(), "missing", "hired")

	assert.Empty(t, status)
	assert.True(t, errors.IsCode(err, errors.ErrCodeApplicationNotFound))
}

// ==========================
// Bulk Rejection Tests
// ==========================

func TestService_RejectBelowThreshold_Success(t *testing.T) {
	service, store := newPipelineHarness(t)
	store.rejectCount = 3

	count, err := service.RejectBelowThreshold(context.Background(), "job-001", floatPtr(60))

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, "job-001", store.lastJobID)
	assert.Equal(t, 60.0, store.lastThreshold)
}

func TestService_RejectBelowThreshold_MissingThreshold(t *testing.T) {
	service, store := newPipelineHarness(t)

	count, err := service.RejectBelowThreshold(context.Background(), "job-001", nil)

	assert.Zero(t, count)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingThreshold))
	assert.Empty(t, store.lastJobID)
}

func TestService_RejectBelowThreshold_ZeroIsLegal(t *testing.T) {
	service, store := newPipelineHarness(t)

	count, err := service.RejectBelowThreshold(context.Background(), "job-001", floatPtr(0))

	assert.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, 0.0, store.lastThreshold)
}

func TestService_RejectBelowThreshold_StorageErrorPropagates(t *testing.T) {
	service, store := newPipelineHarness(t)
	store.rejectErr = errors.NewStorageError("bulk reject", assert.AnError)

	count, err := service.RejectBelowThreshold(context.Background(), "job-001", floatPtr(50))

	assert.Zero(t, count)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStorageFailed))
}
