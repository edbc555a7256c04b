package types

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the lifecycle state of an application.
type ApplicationStatus string

// Application status values
const (
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationCompleted ApplicationStatus = "COMPLETED"
)

// Valid reports whether s is one of the known statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected, ApplicationCompleted:
		return true
	}
	return false
}

// Application binds a student to an internship. MatchScore is captured at creation.
type Application struct {
	ID           uuid.UUID         `json:"id"`
	StudentID    uuid.UUID         `json:"student_id"`
	InternshipID uuid.UUID         `json:"internship_id"`
	Status       ApplicationStatus `json:"status"`
	MatchScore   int               `json:"match_score"`
	Notes        string            `json:"notes,omitempty"`
	AppliedAt    time.Time         `json:"applied_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
