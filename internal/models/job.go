// internal/models/job.go
package models

import (
	"fmt"
	"time"
)

const (
	JobStatusActive = "active"
	JobStatusClosed = "closed"
)

// JobPosting is owned by the posting workflow; the pipeline only reads it.
type JobPosting struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	PostedBy     string    `json:"postedBy"`
	Status       string    `json:"status"`
	Location     string    `json:"location"`
	JobType      string    `json:"jobType"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AnalysisText is the job text handed to the analyzer.
func (j *JobPosting) AnalysisText() string {
	return fmt.Sprintf("%s. %s. %s", j.Title, j.Description, j.Requirements)
}
