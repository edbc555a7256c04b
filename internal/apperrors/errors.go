// Package apperrors defines the recoverable failures of the matching and lifecycle engine.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinels matched with errors.Is.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrEligibilityDenied = errors.New("eligibility denied")
	ErrDuplicateWeek     = errors.New("dtr already submitted for this week")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConflict          = errors.New("conflict")
	ErrNoAdviser         = errors.New("no adviser assigned to student's course and section")

	// ErrDoubleCredit means a DTR's hours were about to be credited a second time.
	// It signals a broken invariant and is logged, never shown to a user.
	ErrDoubleCredit = errors.New("dtr hours already credited")
)

// DenialReason says why a student may not apply to a listing.
type DenialReason string

// Denial reasons, in the order the eligibility gate checks them.
const (
	ReasonProfileIncomplete DenialReason = "profile_incomplete"
	ReasonInactiveListing   DenialReason = "internship_inactive"
	ReasonDuplicate         DenialReason = "already_applied"
	ReasonMissingCV         DenialReason = "cv_missing"
)

// Message returns the user-facing explanation of the reason.
func (r DenialReason) Message() string {
	switch r {
	case ReasonProfileIncomplete:
		return "Please complete your profile (course, skills and pinned location) before applying."
	case ReasonInactiveListing:
		return "This internship is no longer accepting applications."
	case ReasonDuplicate:
		return "You have already applied to this internship."
	case ReasonMissingCV:
		return "Please upload your CV before applying."
	default:
		return string(r)
	}
}

// EligibilityDeniedError is returned by the eligibility gate and by apply.
type EligibilityDeniedError struct {
	Reason DenialReason
}

func (e *EligibilityDeniedError) Error() string {
	return fmt.Sprintf("eligibility denied: %s", e.Reason)
}

func (e *EligibilityDeniedError) Unwrap() error {
	return ErrEligibilityDenied
}

// Denied builds an EligibilityDeniedError.
func Denied(reason DenialReason) error {
	return &EligibilityDeniedError{Reason: reason}
}

// DuplicateWeekError is returned when a student submits a second DTR for the same week.
type DuplicateWeekError struct {
	StudentID uuid.UUID
	WeekStart string
}

func (e *DuplicateWeekError) Error() string {
	return fmt.Sprintf("dtr for week starting %s already exists for student %s", e.WeekStart, e.StudentID)
}

func (e *DuplicateWeekError) Unwrap() error {
	return ErrDuplicateWeek
}

// InvalidTransitionError covers illegal state moves and actors lacking the right to make them.
type InvalidTransitionError struct {
	Entity  string
	From    string
	To      string
	Message string
	// Forbidden is set when the actor, not the state, is the problem.
	Forbidden bool
}

func (e *InvalidTransitionError) Error() string {
	if e.From != "" || e.To != "" {
		return fmt.Sprintf("invalid %s transition %s -> %s: %s", e.Entity, e.From, e.To, e.Message)
	}
	return fmt.Sprintf("invalid %s transition: %s", e.Entity, e.Message)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Forbidden builds an InvalidTransitionError for an actor that may not act.
func Forbidden(entity, message string) error {
	return &InvalidTransitionError{Entity: entity, Message: message, Forbidden: true}
}

// NotFoundError is returned when a referenced record does not exist.
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NotFound builds a NotFoundError.
func NotFound(entity string, id uuid.UUID) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// DenialReasonOf extracts the denial reason from err, if any.
func DenialReasonOf(err error) (DenialReason, bool) {
	var denied *EligibilityDeniedError
	if errors.As(err, &denied) {
		return denied.Reason, true
	}
	return "", false
}
