package types

import (
	"time"

	"github.com/google/uuid"
)

// OJTStatus is a student's progress state in the OJT program.
type OJTStatus string

// OJT status values
const (
	OJTStatusLooking   OJTStatus = "LOOKING"
	OJTStatusWaiting   OJTStatus = "WAITING"
	OJTStatusOngoing   OJTStatus = "ONGOING"
	OJTStatusRejected  OJTStatus = "REJECTED"
	OJTStatusCompleted OJTStatus = "COMPLETED"
)

// Valid reports whether s is one of the known statuses.
func (s OJTStatus) Valid() bool {
	switch s {
	case OJTStatusLooking, OJTStatusWaiting, OJTStatusOngoing, OJTStatusRejected, OJTStatusCompleted:
		return true
	}
	return false
}

// Label returns the display label for the status.
func (s OJTStatus) Label() string {
	switch s {
	case OJTStatusLooking:
		return "Still Looking"
	case OJTStatusWaiting:
		return "Waiting for Response"
	case OJTStatusOngoing:
		return "Currently Undergoing OJT"
	case OJTStatusRejected:
		return "All Applications Rejected"
	case OJTStatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// Address holds the postal address parts of a profile or company.
type Address struct {
	Street   string `json:"street,omitempty"`
	Barangay string `json:"barangay,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
}

// String joins the address parts the way they are printed on documents.
func (a Address) String() string {
	return a.Street + ", " + a.Barangay + ", " + a.City + ", " + a.Province
}

// StudentProfile is the OJT-relevant profile of a student account.
type StudentProfile struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	StudentNumber string    `json:"student_number,omitempty"`
	FirstName     string    `json:"first_name,omitempty"`
	LastName      string    `json:"last_name,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	YearLevel     string    `json:"year_level,omitempty"`
	Section       string    `json:"section,omitempty"`
	ProfileImage  string    `json:"profile_image,omitempty"`

	Course  *Course `json:"course,omitempty"`
	Skills  []Skill `json:"skills,omitempty"`
	Address Address `json:"address"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	OJTStatus         OJTStatus `json:"ojt_status"`
	OJTHoursCompleted int       `json:"ojt_hours_completed"`
	CV                string    `json:"cv,omitempty"` // file storage reference

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns "First Last".
func (p *StudentProfile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// HasLocation reports whether both coordinates are pinned.
func (p *StudentProfile) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// HasCV reports whether a CV file reference is recorded.
func (p *StudentProfile) HasCV() bool {
	return p.CV != ""
}

// IsCompleteForMatching reports whether the profile has a course, at least one
// skill and a pinned location. Matching and applying are gated on it.
func (p *StudentProfile) IsCompleteForMatching() bool {
	return p.Course != nil && len(p.Skills) > 0 && p.HasLocation()
}

// RequiredOJTHours returns the course requirement, or the default if no course is assigned.
func (p *StudentProfile) RequiredOJTHours() int {
	if p.Course != nil {
		return p.Course.RequiredOJTHours
	}
	return DefaultRequiredOJTHours
}

// Adviser is an OJT adviser and the course/section assignments they handle.
type Adviser struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"user_id"`
	Name       string      `json:"name,omitempty"`
	Email      string      `json:"email,omitempty"`
	Department string      `json:"department,omitempty"`
	CourseIDs  []uuid.UUID `json:"course_ids"`
	Sections   []string    `json:"sections"`
}

// Handles reports whether the adviser is assigned to the student's course and section.
func (a *Adviser) Handles(p *StudentProfile) bool {
	if p.Course == nil {
		return false
	}
	courseOK := false
	for _, id := range a.CourseIDs {
		if id == p.Course.ID {
			courseOK = true
			break
		}
	}
	if !courseOK {
		return false
	}
	for _, s := range a.Sections {
		if s == p.Section {
			return true
		}
	}
	return false
}
