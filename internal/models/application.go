// internal/models/application.go
package models

import "time"

// Status is the pipeline stage of an application. Transitions between any two
// valid values are allowed; intake is the only writer of StatusApplied.
type Status string

const (
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusRejected     Status = "rejected"
	StatusHired        Status = "hired"
)

// ValidStatuses lists the accepted pipeline stages in display order.
var ValidStatuses = []string{
	string(StatusApplied),
	string(StatusInterviewing),
	string(StatusRejected),
	string(StatusHired),
}

// ParseStatus validates a raw status string against the enumeration.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusApplied, StatusInterviewing, StatusRejected, StatusHired:
		return Status(s), true
	}
	return "", false
}

func (s Status) String() string {
	return string(s)
}

// Application is one candidate's submission of a resume against one job.
// Applicant name and email are denormalized at creation time so historical
// records display correctly even if the applicant record changes later.
type Application struct {
	ID             string    `json:"id"`
	ApplicantID    string    `json:"applicantId"`
	JobID          string    `json:"jobId"`
	ApplicantName  string    `json:"applicantName"`
	ApplicantEmail string    `json:"applicantEmail"`
	FileName       string    `json:"fileName"`
	FilePath       string    `json:"filePath"`
	ExtractedText  string    `json:"extractedText"`
	MatchScore     float64   `json:"matchScore"`
	Status         Status    `json:"status"`
	UploadedAt     time.Time `json:"uploadedAt"`
}
