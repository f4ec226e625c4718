// internal/intake/resolver.go
package intake

import (
	"context"
	"time"

	"recruitment-core/internal/common/logger"
	"recruitment-core/internal/models"

	"github.com/redis/go-redis/v9"
)

// JobFinder is the job lookup the resolver needs from storage.
type JobFinder interface {
	FindByID(ctx context.Context, id string) (*models.JobPosting, error)
}

// Resolver confirms a referenced job posting exists and supplies its
// descriptive text for analysis. No status filter: a closed job is still a
// valid analysis target, intake is keyed on existence only.
type Resolver struct {
	jobs   JobFinder
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewResolver(jobs JobFinder, rdb *redis.Client, ttl time.Duration, log logger.Logger) *Resolver {
	return &Resolver{
		jobs:   jobs,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "job-resolver"}),
	}
}

// AnalysisText returns the concatenated title, description and requirements
// of the job, read-through cached in Redis. Cache failures fall through to
// storage; a not-found job propagates as such.
func (r *Resolver) AnalysisText(ctx context.Context, jobID string) (string, error) {
	cacheKey := "job:text:" + jobID
	if r.redis != nil {
		if val, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			return val, nil
		}
	}

	job, err := r.jobs.FindByID(ctx, jobID)
	if err != nil {
		return "", err
	}

	text := job.AnalysisText()
	if r.redis != nil {
		if err := r.redis.Set(ctx, cacheKey, text, r.ttl).Err(); err != nil {
			r.logger.Warn("job text cache write failed", map[string]interface{}{
				"jobId": jobID,
				"error": err,
			})
		}
	}
	return text, nil
}
