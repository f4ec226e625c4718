// internal/storage/applications.go
package storage

import (
	"context"
	"database/sql"
	"time"

	stderrors "errors"

	"recruitment-core/internal/common/errors"
	"recruitment-core/internal/common/logger"
	"recruitment-core/internal/models"

	"github.com/lib/pq"
)

// pq error code for unique_violation
const uniqueViolation = "23505"

// ApplicationRepository is the durable store of application records and the
// source of truth for status.
type ApplicationRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewApplicationRepository(db *sql.DB, log logger.Logger) *ApplicationRepository {
	return &ApplicationRepository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "application-repository"}),
	}
}

// Create persists a new application record. The unique index on
// (applicant_id, job_id) is the duplicate guard's guarantee: a concurrent
// loser gets the same conflict error the pre-check would have produced.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, applicant_id, job_id, applicant_name, applicant_email,
			file_name, file_path, extracted_text, match_score, status, uploaded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		app.ID,
		app.ApplicantID,
		app.JobID,
		app.ApplicantName,
		app.ApplicantEmail,
		app.FileName,
		app.FilePath,
		app.ExtractedText,
		app.MatchScore,
		string(app.Status),
		app.UploadedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return errors.NewDuplicateApplicationError(app.ApplicantID, app.JobID)
		}
		return errors.NewStorageError("create application", err)
	}

	r.logger.Info("application record created", map[string]interface{}{
		"applicationId": app.ID,
		"applicantId":   app.ApplicantID,
		"jobId":         app.JobID,
		"matchScore":    app.MatchScore,
	})
	return nil
}

// ExistsByApplicantAndJob is the fast-path duplicate pre-check.
func (r *ApplicationRepository) ExistsByApplicantAndJob(ctx context.Context, applicantID, jobID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE applicant_id = $1 AND job_id = $2
		)`, applicantID, jobID).Scan(&exists)
	if err != nil {
		return false, errors.NewStorageError("duplicate check", err)
	}
	return exists, nil
}

const applicationColumns = `
	id, applicant_id, job_id, applicant_name, applicant_email,
	file_name, file_path, extracted_text, match_score, status, uploaded_at`

func scanApplication(row interface{ Scan(...interface{}) error }) (*models.Application, error) {
	var app models.Application
	var status string
	var uploadedAt time.Time
	err := row.Scan(
		&app.ID,
		&app.ApplicantID,
		&app.JobID,
		&app.ApplicantName,
		&app.ApplicantEmail,
		&app.FileName,
		&app.FilePath,
		&app.ExtractedText,
		&app.MatchScore,
		&status,
		&uploadedAt,
	)
	if err != nil {
		return nil, err
	}
	app.Status = models.Status(status)
	app.UploadedAt = uploadedAt
	return &app, nil
}

// FindByID loads a single application.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)

	app, err := scanApplication(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewApplicationNotFoundError(id)
		}
		return nil, errors.NewStorageError("find application", err)
	}
	return app, nil
}

// FindByJob lists a job's applications sorted by descending match score.
func (r *ApplicationRepository) FindByJob(ctx context.Context, jobID string) ([]*models.Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE job_id = $1 ORDER BY match_score DESC`, jobID)
	if err != nil {
		return nil, errors.NewStorageError("list applications by job", err)
	}
	defer rows.Close()

	return collectApplications(rows)
}

// FindByApplicant lists an applicant's applications sorted by descending upload time.
func (r *ApplicationRepository) FindByApplicant(ctx context.Context, applicantID string) ([]*models.Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE applicant_id = $1 ORDER BY uploaded_at DESC`, applicantID)
	if err != nil {
		return nil, errors.NewStorageError("list applications by applicant", err)
	}
	defer rows.Close()

	return collectApplications(rows)
}

func collectApplications(rows *sql.Rows) ([]*models.Application, error) {
	apps := []*models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, errors.NewStorageError("scan application", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("iterate applications", err)
	}
	return apps, nil
}

// UpdateStatus overwrites the status of one application.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return errors.NewStorageError("update status", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewStorageError("update status", err)
	}
	if affected == 0 {
		return errors.NewApplicationNotFoundError(id)
	}
	return nil
}

// RejectBelowThreshold transitions every still-applied application of the job
// with a score strictly below threshold to rejected, in one statement, and
// returns the number of rows changed. Manual decisions (interviewing,
// rejected, hired) are never touched.
func (r *ApplicationRepository) RejectBelowThreshold(ctx context.Context, jobID string, threshold float64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE applications
		SET status = $1
		WHERE job_id = $2 AND status = $3 AND match_score < $4`,
		string(models.StatusRejected), jobID, string(models.StatusApplied), threshold)
	if err != nil {
		return 0, errors.NewStorageError("bulk reject", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewStorageError("bulk reject", err)
	}

	r.logger.Info("bulk rejection applied", map[string]interface{}{
		"jobId":     jobID,
		"threshold": threshold,
		"modified":  affected,
	})
	return affected, nil
}
