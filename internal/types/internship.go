package types

import (
	"time"

	"github.com/google/uuid"
)

// Company hosts internships.
type Company struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name" validate:"required,max=200"`
	CompanyEmail string    `json:"company_email,omitempty" validate:"omitempty,email"`
	HREmail      string    `json:"hr_email,omitempty" validate:"omitempty,email"`
	Address      Address   `json:"address"`
	Latitude     *float64  `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64  `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Active       bool      `json:"active"`
}

// HasLocation reports whether both coordinates are set.
func (c *Company) HasLocation() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// ContactEmail returns the HR email, falling back to the company email.
func (c *Company) ContactEmail() string {
	if c.HREmail != "" {
		return c.HREmail
	}
	return c.CompanyEmail
}

// Internship is a company's internship posting.
type Internship struct {
	ID                 uuid.UUID `json:"id"`
	Company            Company   `json:"company"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	RecommendedCourses []Course  `json:"recommended_courses"`
	RequiredSkills     []Skill   `json:"required_skills"`
	IsActive           bool      `json:"is_active"`
	SlotsAvailable     int       `json:"slots_available"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// RecommendsCourse reports whether the course is among the recommended courses.
func (i *Internship) RecommendsCourse(c *Course) bool {
	if c == nil {
		return false
	}
	for _, rc := range i.RecommendedCourses {
		if rc.ID == c.ID {
			return true
		}
	}
	return false
}
