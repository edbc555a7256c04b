package types

import "github.com/google/uuid"

// CreateInternshipRequest posts a new listing. Skills is free text such as
// "Go, SQL, docker" and is resolved against the skill catalog.
type CreateInternshipRequest struct {
	Company        *Company    `json:"company" validate:"required"`
	Title          string      `json:"title" validate:"required,max=200"`
	Description    string      `json:"description,omitempty"`
	CourseIDs      []uuid.UUID `json:"course_ids"`
	Skills         string      `json:"skills"`
	SlotsAvailable int         `json:"slots_available" validate:"gte=0"`
	// IsActive defaults to true.
	IsActive *bool `json:"is_active,omitempty"`
}

// SetListingActiveRequest opens or closes a listing.
type SetListingActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// RequiredDocumentRequest adds or edits a checklist entry.
type RequiredDocumentRequest struct {
	ID           uuid.UUID `json:"id,omitempty"`
	Name         string    `json:"name" validate:"required,max=100"`
	Description  string    `json:"description,omitempty"`
	IsRequired   *bool     `json:"is_required,omitempty"`
	TemplateFile string    `json:"template_file,omitempty"`
}

// UploadDocumentRequest records the stored file for one checklist entry.
type UploadDocumentRequest struct {
	File string `json:"file" validate:"required"`
}

// Validate validates the CreateInternshipRequest using the validator.
func (r *CreateInternshipRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SetListingActiveRequest using the validator.
func (r *SetListingActiveRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the RequiredDocumentRequest using the validator.
func (r *RequiredDocumentRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UploadDocumentRequest using the validator.
func (r *UploadDocumentRequest) Validate() error {
	return validate.Struct(r)
}

// Seed is a bulk import of reference data and profiles. Listings, students
// and advisers refer to courses by code; skills are matched by name.
type Seed struct {
	Courses     []Course           `json:"courses"`
	Documents   []RequiredDocument `json:"documents"`
	Advisers    []SeedAdviser      `json:"advisers"`
	Internships []Internship       `json:"internships"`
	Students    []StudentProfile   `json:"students"`
}

// SeedAdviser is an adviser whose course assignments are given by code.
type SeedAdviser struct {
	Adviser
	CourseCodes []string `json:"course_codes"`
}
