// internal/api/handlers_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recruitment-core/internal/common/errors"
	"recruitment-core/internal/common/logger"
	"recruitment-core/internal/intake"
	"recruitment-core/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Fakes
// ==========================

type fakeIntake struct {
	app     *models.Application
	err     error
	lastReq intake.SubmitRequest
}

func (f *fakeIntake) Submit(ctx context.Context, req intake.SubmitRequest) (*models.Application, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.app, nil
}

type fakePipeline struct {
	setErr        error
	rejectErr     error
	rejectCount   int64
	lastStatus    string
	lastThreshold *float64
}

func (f *fakePipeline) SetStatus(ctx context.Context, applicationID, rawStatus string) (models.Status, error) {
	f.lastStatus = rawStatus
	if f.setErr != nil {
		return "", f.setErr
	}
	status, _ := models.ParseStatus(rawStatus)
	return status, nil
}

func (f *fakePipeline) RejectBelowThreshold(ctx context.Context, jobID string, threshold *float64) (int64, error) {
	f.lastThreshold = threshold
	if threshold == nil {
		return 0, errors.NewMissingThresholdError()
	}
	return f.rejectCount, f.rejectErr
}

type fakeAppReader struct {
	app  *models.Application
	apps []*models.Application
	err  error
}

func (f *fakeAppReader) FindByID(ctx context.Context, id string) (*models.Application, error) {
	return f.app, f.err
}

func (f *fakeAppReader) FindByJob(ctx context.Context, jobID string) ([]*models.Application, error) {
	return f.apps, f.err
}

func (f *fakeAppReader) FindByApplicant(ctx context.Context, applicantID string) ([]*models.Application, error) {
	return f.apps, f.err
}

type fakeJobReader struct {
	job  *models.JobPosting
	jobs []*models.JobPosting
	err  error
}

func (f *fakeJobReader) FindByID(ctx context.Context, id string) (*models.JobPosting, error) {
	return f.job, f.err
}

func (f *fakeJobReader) ListActive(ctx context.Context) ([]*models.JobPosting, error) {
	return f.jobs, f.err
}

type fakeHealth struct{ up bool }

func (f *fakeHealth) Health(ctx context.Context) bool { return f.up }

type apiHarness struct {
	server   *Server
	intake   *fakeIntake
	pipeline *fakePipeline
	apps     *fakeAppReader
	jobs     *fakeJobReader
	health   *fakeHealth
}

func newAPIHarness(t *testing.T) *apiHarness {
	h := &apiHarness{
		intake:   &fakeIntake{app: sampleApplication()},
		pipeline: &fakePipeline{},
		apps:     &fakeAppReader{app: sampleApplication()},
		jobs:     &fakeJobReader{},
		health:   &fakeHealth{up: true},
	}
	h.server = NewServer(h.intake, h.pipeline, h.apps, h.jobs, h.health, logger.NewTestLogger(t))
	return h
}

func sampleApplication() *models.Application {
	return &models.Application{
		ID:             "app-001",
		ApplicantID:    "user-001",
		JobID:          "job-001",
		ApplicantName:  "Jane Doe",
		ApplicantEmail: "jane@example.com",
		FileName:       "resume.pdf",
		MatchScore:     72.5,
		Status:         models.StatusApplied,
		UploadedAt:     time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
	}
}

func asUser(req *http.Request) *http.Request {
	req.Header.Set("X-User-Id", "user-001")
	req.Header.Set("X-User-Name", "Jane Doe")
	req.Header.Set("X-User-Email", "jane@example.com")
	req.Header.Set("X-User-Role", "applicant")
	return req
}

func asAdmin(req *http.Request) *http.Request {
	req.Header.Set("X-User-Id", "admin-001")
	req.Header.Set("X-User-Role", "admin")
	return req
}

func doRequest(h *apiHarness, req *http.Request) (*httptest.ResponseRecorder, response) {
	rec := httptest.NewRecorder()
	h.server.Routes().ServeHTTP(rec, req)

	var body response
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func multipartUpload(t *testing.T, jobID, fileName string) (io.Reader, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	assert.NoError(t, writer.WriteField("jobId", jobID))
	part, err := writer.CreateFormFile("resume", fileName)
	assert.NoError(t, err)
	_, err = part.Write([]byte("resume bytes"))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

// ==========================
// Upload Tests
// ==========================

func TestHandleUpload_Success(t *testing.T) {
	h := newAPIHarness(t)

	body, contentType := multipartUpload(t, "job-001", "resume.pdf")
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/resumes/upload", body))
	req.Header.Set("Content-Type", contentType)

	rec, resp := doRequest(h, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "Resume uploaded and analyzed successfully", resp.Message)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "app-001", data["id"])
	assert.Equal(t, "resume.pdf", data["fileName"])
	assert.Equal(t, 72.5, data["matchScore"])
	assert.Equal(t, "applied", data["status"])

	// gateway identity flowed into the submission
	assert.Equal(t, "user-001", h.intake.lastReq.ApplicantID)
	assert.Equal(t, "jane@example.com", h.intake.lastReq.ApplicantEmail)
	assert.Equal(t, "job-001", h.intake.lastReq.JobID)
	assert.Equal(t, "resume.pdf", h.intake.lastReq.FileName)
}

func TestHandleUpload_Anonymous(t *testing.T) {
	h := newAPIHarness(t)

	body, contentType := multipartUpload(t, "job-001", "resume.pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/resumes/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec, resp := doRequest(h, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)
}

func TestHandleUpload_DuplicateIsBadRequest(t *testing.T) {
	h := newAPIHarness(t)
	h.intake.err = errors.NewDuplicateApplicationError("user-001", "job-001")

	body, contentType := multipartUpload(t, "job-001", "resume.pdf")
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/resumes/upload", body))
	req.Header.Set("Content-Type", contentType)

	rec, resp := doRequest(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "already applied")
}

func TestHandleUpload_JobNotFound(t *testing.T) {
	h := newAPIHarness(t)
	h.intake.err = errors.NewJobNotFoundError("job-404")

	body, contentType := multipartUpload(t, "job-404", "resume.pdf")
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/resumes/upload", body))
	req.Header.Set("Content-Type", contentType)

	rec, _ := doRequest(h, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ==========================
// Read Projection Tests
// ==========================

func TestHandleListByJob_AdminOnly(t *testing.T) {
	h := newAPIHarness(t)
	h.apps.apps = []*models.Application{sampleApplication()}

	rec, resp := doRequest(h, asAdmin(httptest.NewRequest(http.MethodGet, "/api/resumes/job/job-001", nil)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, resp.Count)
	assert.Equal(t, 1, *resp.Count)
}

func TestHandleListByJob_ForbiddenForApplicant(t *testing.T) {
	h := newAPIHarness(t)

	rec, resp := doRequest(h, asUser(httptest.NewRequest(http.MethodGet, "/api/resumes/job/job-001", nil)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, resp.Success)
}

func TestHandleMyResumes(t *testing.T) {
	h := newAPIHarness(t)
	h.apps.apps = []*models.Application{sampleApplication(), sampleApplication()}

	rec, resp := doRequest(h, asUser(httptest.NewRequest(http.MethodGet, "/api/resumes/my", nil)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, *resp.Count)
}

func TestHandleGetResume_Owner(t *testing.T) {
	h := newAPIHarness(t)

	rec, resp := doRequest(h, asUser(httptest.NewRequest(http.MethodGet, "/api/resumes/app-001", nil)))

	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "app-001", data["id"])
}

func TestHandleGetResume_StrangerForbidden(t *testing.T) {
	h := newAPIHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/api/resumes/app-001", nil)
	req.Header.Set("X-User-Id", "user-999")
	req.Header.Set("X-User-Role", "applicant")

	rec, _ := doRequest(h, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleGetResume_AdminSeesAny(t *testing.T) {
	h := newAPIHarness(t)

	rec, _ := doRequest(h, asAdmin(httptest.NewRequest(http.MethodGet, "/api/resumes/app-001", nil)))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleGetResume_NotFound(t *testing.T) {
	h := newAPIHarness(t)
	h.apps.app = nil
	h.apps.err = errors.NewApplicationNotFoundError("missing")

	rec, _ := doRequest(h, asAdmin(httptest.NewRequest(http.MethodGet, "/api/resumes/missing", nil)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ==========================
// Status Transition Tests
// ==========================

func TestHandleSetStatus_Success(t *testing.T) {
	h := newAPIHarness(t)

	req := asAdmin(httptest.NewRequest(http.MethodPut, "/api/resumes/app-001/status",
		strings.NewReader(`{"status": "interviewing"}`)))

	rec, resp := doRequest(h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Resume status updated successfully", resp.Message)
	assert.Equal(t, "interviewing", h.pipeline.lastStatus)
}

func TestHandleSetStatus_InvalidValue(t *testing.T) {
	h := newAPIHarness(t)
	h.pipeline.setErr = errors.NewInvalidStatusError("archived", models.ValidStatuses)

	req := asAdmin(httptest.NewRequest(http.MethodPut, "/api/resumes/app-001/status",
		strings.NewReader(`{"status": "archived"}`)))

	rec, resp := doRequest(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

func TestHandleSetStatus_ForbiddenForApplicant(t *testing.T) {
	h := newAPIHarness(t)

	req := asUser(httptest.NewRequest(http.MethodPut, "/api/resumes/app-001/status",
		strings.NewReader(`{"status": "hired"}`)))

	rec, _ := doRequest(h, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, h.pipeline.lastStatus)
}

// ==========================
// Bulk Rejection Tests
// ==========================

func TestHandleRejectThreshold_Success(t *testing.T) {
	h := newAPIHarness(t)
	h.pipeline.rejectCount = 3

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/resumes/job/job-001/reject-threshold",
		strings.NewReader(`{"threshold": 60}`)))

	rec, resp := doRequest(h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully rejected 3 candidates below score 60", resp.Message)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["modifiedCount"])
}

func TestHandleRejectThreshold_MissingThreshold(t *testing.T) {
	h := newAPIHarness(t)

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/resumes/job/job-001/reject-threshold",
		strings.NewReader(`{}`)))

	rec, resp := doRequest(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

func TestHandleRejectThreshold_ZeroThreshold(t *testing.T) {
	h := newAPIHarness(t)

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/resumes/job/job-001/reject-threshold",
		strings.NewReader(`{"threshold": 0}`)))

	rec, resp := doRequest(h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, h.pipeline.lastThreshold)
	assert.Equal(t, 0.0, *h.pipeline.lastThreshold)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(0), data["modifiedCount"])
}

// ==========================
// Job Listing Tests
// ==========================

func TestHandleListJobs(t *testing.T) {
	h := newAPIHarness(t)
	h.jobs.jobs = []*models.JobPosting{{ID: "job-001", Title: "Backend Engineer", Status: models.JobStatusActive}}

	rec, resp := doRequest(h, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *resp.Count)
}

func TestHandleGetJob(t *testing.T) {
	h := newAPIHarness(t)
	h.jobs.job = &models.JobPosting{ID: "job-001", Title: "Backend Engineer"}

	rec, resp := doRequest(h, httptest.NewRequest(http.MethodGet, "/api/jobs/job-001", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Backend Engineer", data["title"])
}

// ==========================
// Health Tests
// ==========================

func TestHandleHealth(t *testing.T) {
	h := newAPIHarness(t)
	h.health.up = false

	rec, resp := doRequest(h, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, false, data["analyzer"])
}
