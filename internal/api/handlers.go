// internal/api/handlers.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"recruitment-core/internal/common/errors"
	"recruitment-core/internal/intake"
	"recruitment-core/internal/upload"
)

// handleUpload accepts a multipart submission (resume file + jobId) and runs
// the intake chain.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		writeStandardError(w, errors.NewMissingFileError())
		return
	}

	req := intake.SubmitRequest{
		ApplicantID:    id.UserID,
		ApplicantName:  id.Name,
		ApplicantEmail: id.Email,
		JobID:          r.FormValue("jobId"),
	}

	file, header, err := r.FormFile("resume")
	if err == nil {
		defer file.Close()
		req.File = file
		req.FileName = header.Filename
		req.FileSize = header.Size
	}

	app, err := s.intake.Submit(r.Context(), req)
	if err != nil {
		s.logger.WithError(err).Warn("submission rejected", map[string]interface{}{
			"jobId":       req.JobID,
			"applicantId": id.UserID,
		})
		writeStandardError(w, err)
		return
	}

	writeData(w, http.StatusCreated, "Resume uploaded and analyzed successfully", map[string]interface{}{
		"id":         app.ID,
		"fileName":   app.FileName,
		"matchScore": app.MatchScore,
		"status":     app.Status,
	})
}

// handleListByJob lists a job's applications, best match first. Admin only.
func (s *Server) handleListByJob(w http.ResponseWriter, r *http.Request) {
	apps, err := s.apps.FindByJob(r.Context(), r.PathValue("jobId"))
	if err != nil {
		writeStandardError(w, err)
		return
	}
	writeList(w, apps, len(apps))
}

// handleMyResumes lists the caller's own applications, newest upload first.
func (s *Server) handleMyResumes(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	apps, err := s.apps.FindByApplicant(r.Context(), id.UserID)
	if err != nil {
		writeStandardError(w, err)
		return
	}
	writeList(w, apps, len(apps))
}

// handleGetResume serves one application, visible to an admin or its owner.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	app, err := s.apps.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStandardError(w, err)
		return
	}

	if !id.IsAdmin() && app.ApplicantID != id.UserID {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	writeData(w, http.StatusOK, "", app)
}

// handleSetStatus applies a single-record pipeline transition.
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	appID := r.PathValue("id")
	if _, err := s.pipeline.SetStatus(r.Context(), appID, body.Status); err != nil {
		writeStandardError(w, err)
		return
	}

	app, err := s.apps.FindByID(r.Context(), appID)
	if err != nil {
		writeStandardError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Resume status updated successfully", app)
}

// handleRejectThreshold runs the bulk threshold pass for a job.
func (s *Server) handleRejectThreshold(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Threshold *float64 `json:"threshold"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeStandardError(w, errors.NewMissingThresholdError())
		return
	}

	count, err := s.pipeline.RejectBelowThreshold(r.Context(), r.PathValue("jobId"), body.Threshold)
	if err != nil {
		writeStandardError(w, err)
		return
	}

	msg := fmt.Sprintf("Successfully rejected %d candidates below score %v", count, *body.Threshold)
	writeData(w, http.StatusOK, msg, map[string]interface{}{
		"modifiedCount": count,
	})
}

// handleListJobs lists open postings.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobs.ListActive(r.Context())
	if err != nil {
		writeStandardError(w, err)
		return
	}
	writeList(w, jobs, len(jobs))
}

// handleGetJob serves one posting.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStandardError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", job)
}

// handleHealth reports service and analyzer liveness. Analyzer trouble is
// informational; it never gates intake.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, "", map[string]interface{}{
		"status":   "ok",
		"analyzer": s.health.Health(r.Context()),
	})
}
