package progress

import "github.com/jonathan/ojt-matcher/internal/types"

// ProfileCompletionPercentage measures how many personal and contact fields are
// filled in. It is unrelated to OJT hours.
func ProfileCompletionPercentage(student *types.StudentProfile) int {
	if student == nil {
		return 0
	}
	fields := []bool{
		student.FirstName != "",
		student.LastName != "",
		student.Email != "",
		student.StudentNumber != "",
		student.Course != nil,
		student.YearLevel != "",
		student.Section != "",
		student.Phone != "",
		student.Address.Street != "",
		student.Address.Barangay != "",
		student.Address.City != "",
		student.Address.Province != "",
		student.ProfileImage != "",
	}

	filled := 0
	for _, ok := range fields {
		if ok {
			filled++
		}
	}
	return filled * 100 / len(fields)
}

// Summary collects the percentages shown on a student's dashboard.
type Summary struct {
	StudentID          string           `json:"student_id"`
	Status             types.OJTStatus  `json:"ojt_status"`
	HoursCompleted     int              `json:"hours_completed"`
	HoursRequired      int              `json:"hours_required"`
	HoursRemaining     int              `json:"hours_remaining"`
	Progress           int              `json:"progress_percent"`
	DocumentCompletion int              `json:"document_completion_percent"`
	ProfileCompletion  int              `json:"profile_completion_percent"`
	Documents          []DocumentStatus `json:"documents"`
	CompleteForMatch   bool             `json:"profile_complete_for_matching"`
}

// Summarize builds the dashboard summary for a student.
func Summarize(student *types.StudentProfile, required []types.RequiredDocument, uploaded []types.StudentDocument) Summary {
	checklist := DocumentChecklist(student, required, uploaded)
	return Summary{
		StudentID:          student.ID.String(),
		Status:             student.OJTStatus,
		HoursCompleted:     student.OJTHoursCompleted,
		HoursRequired:      student.RequiredOJTHours(),
		HoursRemaining:     RemainingHours(student),
		Progress:           ProgressPercentage(student),
		DocumentCompletion: ChecklistPercent(checklist),
		ProfileCompletion:  ProfileCompletionPercentage(student),
		Documents:          checklist,
		CompleteForMatch:   student.IsCompleteForMatching(),
	}
}
