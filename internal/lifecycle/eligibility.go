// Package lifecycle gates and records student applications to internship
// listings and moves them through their status lifecycle.
package lifecycle

import (
	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/types"
)

// CanApply runs the eligibility checks in order and returns the first denial,
// or nil when the student may apply. It has no side effects.
func CanApply(student *types.StudentProfile, internship *types.Internship, alreadyApplied bool) error {
	if !student.IsCompleteForMatching() {
		return apperrors.Denied(apperrors.ReasonProfileIncomplete)
	}
	if !internship.IsActive {
		return apperrors.Denied(apperrors.ReasonInactiveListing)
	}
	if alreadyApplied {
		return apperrors.Denied(apperrors.ReasonDuplicate)
	}
	if !student.HasCV() {
		return apperrors.Denied(apperrors.ReasonMissingCV)
	}
	return nil
}
