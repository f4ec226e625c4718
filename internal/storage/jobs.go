// internal/storage/jobs.go
package storage

import (
	"context"
	"database/sql"

	stderrors "errors"

	"recruitment-core/internal/common/errors"
	"recruitment-core/internal/models"
)

// JobRepository reads job postings. Posting CRUD belongs to the posting
// workflow; the pipeline only needs lookups.
type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `
	id, title, description, requirements, posted_by, status, location, job_type, created_at`

// FindByID loads a posting regardless of its status; a closed job is still a
// valid analysis target.
func (r *JobRepository) FindByID(ctx context.Context, id string) (*models.JobPosting, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)

	var job models.JobPosting
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Requirements,
		&job.PostedBy,
		&job.Status,
		&job.Location,
		&job.JobType,
		&job.CreatedAt,
	)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewJobNotFoundError(id)
		}
		return nil, errors.NewStorageError("find job", err)
	}
	return &job, nil
}

// ListActive lists open postings, newest first.
func (r *JobRepository) ListActive(ctx context.Context) ([]*models.JobPosting, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE status = $1 ORDER BY created_at DESC`, models.JobStatusActive)
	if err != nil {
		return nil, errors.NewStorageError("list jobs", err)
	}
	defer rows.Close()

	jobs := []*models.JobPosting{}
	for rows.Next() {
		var job models.JobPosting
		err := rows.Scan(
			&job.ID,
			&job.Title,
			&job.Description,
			&job.Requirements,
			&job.PostedBy,
			&job.Status,
			&job.Location,
			&job.JobType,
			&job.CreatedAt,
		)
		if err != nil {
			return nil, errors.NewStorageError("scan job", err)
		}
		jobs = append(jobs, &job)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("iterate jobs", err)
	}
	return jobs, nil
}
