// Package progress derives a student's OJT status and completion percentages
// from credited hours, uploaded documents and profile fields.
package progress

import (
	"github.com/jonathan/ojt-matcher/internal/types"
)

// StudentSelectableStatuses are the statuses a student may pick for themselves.
// COMPLETED is only ever reached through credited hours or an adviser.
var StudentSelectableStatuses = []types.OJTStatus{
	types.OJTStatusLooking,
	types.OJTStatusWaiting,
	types.OJTStatusOngoing,
	types.OJTStatusRejected,
}

// IsStudentSelectable reports whether a student may assign the status to themselves.
func IsStudentSelectable(s types.OJTStatus) bool {
	for _, v := range StudentSelectableStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// RecomputeOnSave promotes the student to COMPLETED once credited hours reach the
// course requirement. It never demotes and never moves between the other
// statuses. Every code path that persists a profile runs it first.
// It reports whether the status changed.
func RecomputeOnSave(student *types.StudentProfile) bool {
	if student == nil || student.Course == nil || student.Course.RequiredOJTHours <= 0 {
		return false
	}
	if student.OJTStatus == types.OJTStatusCompleted {
		return false
	}
	if student.OJTHoursCompleted < student.Course.RequiredOJTHours {
		return false
	}
	student.OJTStatus = types.OJTStatusCompleted
	return true
}

// ProgressPercentage returns floor(hours/required*100), clamped to 100.
// Students without a course have no progress.
func ProgressPercentage(student *types.StudentProfile) int {
	if student == nil || student.Course == nil || student.Course.RequiredOJTHours <= 0 {
		return 0
	}
	if student.OJTHoursCompleted <= 0 {
		return 0
	}
	pct := student.OJTHoursCompleted * 100 / student.Course.RequiredOJTHours
	return min(pct, 100)
}

// RemainingHours returns how many hours are still needed, never negative.
func RemainingHours(student *types.StudentProfile) int {
	if student == nil {
		return 0
	}
	return max(student.RequiredOJTHours()-student.OJTHoursCompleted, 0)
}
