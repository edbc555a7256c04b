package types

import (
	"time"

	"github.com/google/uuid"
)

// RequiredDocument is an entry in the OJT document checklist.
type RequiredDocument struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	IsRequired   bool      `json:"is_required"`
	TemplateFile string    `json:"template_file,omitempty"`
}

// StudentDocument is a student's upload for one required document.
type StudentDocument struct {
	ID             uuid.UUID `json:"id"`
	StudentID      uuid.UUID `json:"student_id"`
	DocumentTypeID uuid.UUID `json:"document_type_id"`
	File           string    `json:"file"`
	UploadedAt     time.Time `json:"uploaded_at"`
	Approved       bool      `json:"approved"`
}
