package types

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Role is the kind of account acting on the system.
type Role string

// Roles
const (
	RoleStudent     Role = "STUDENT"
	RoleAdviser     Role = "ADVISER"
	RoleCoordinator Role = "COORDINATOR"
	RoleAdmin       Role = "ADMIN"
)

// IsStaff reports whether the role is an adviser, coordinator or admin.
func (r Role) IsStaff() bool {
	return r == RoleAdviser || r == RoleCoordinator || r == RoleAdmin
}

// Actor is the authenticated identity performing an operation. ProfileID is the
// student or adviser profile of the user for that role.
type Actor struct {
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	ProfileID uuid.UUID `json:"profile_id"`
}

// DTRFileExtensions is the allow-list for DTR attachments.
var DTRFileExtensions = []string{"pdf", "jpg", "jpeg", "png"}

// SubmitDTRRequest is a student's weekly time record submission.
type SubmitDTRRequest struct {
	WeekStart     time.Time `json:"week_start" validate:"required"`
	WeekEnd       time.Time `json:"week_end" validate:"required,gtefield=WeekStart"`
	File          string    `json:"file" validate:"required,dtrfile"`
	HoursRendered int       `json:"hours_rendered" validate:"gte=0"`
}

// ReviewDTRRequest is an adviser's decision on a DTR.
type ReviewDTRRequest struct {
	Action  ReviewDecision `json:"action" validate:"required,oneof=approve reject"`
	Remarks string         `json:"remarks,omitempty"`
}

// UpdateApplicationStatusRequest moves an application to a new status.
type UpdateApplicationStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required,oneof=PENDING ACCEPTED REJECTED COMPLETED"`
}

// SetHoursRequest overrides a student's completed hours.
type SetHoursRequest struct {
	Hours int `json:"hours" validate:"gte=0"`
}

// SetStatusRequest changes a student's OJT status.
type SetStatusRequest struct {
	Status OJTStatus `json:"status" validate:"required,oneof=LOOKING WAITING ONGOING REJECTED COMPLETED"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("dtrfile", func(fl validator.FieldLevel) bool {
		return HasAllowedExtension(fl.Field().String(), DTRFileExtensions)
	})
	return v
}

// HasAllowedExtension reports whether name ends in one of the allowed extensions (case-insensitive).
func HasAllowedExtension(name string, allowed []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// Validate validates the SubmitDTRRequest using the validator.
func (r *SubmitDTRRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ReviewDTRRequest using the validator.
func (r *ReviewDTRRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UpdateApplicationStatusRequest using the validator.
func (r *UpdateApplicationStatusRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SetHoursRequest using the validator.
func (r *SetHoursRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SetStatusRequest using the validator.
func (r *SetStatusRequest) Validate() error {
	return validate.Struct(r)
}
