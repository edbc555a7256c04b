package progress

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestProfileCompletionPercentage(t *testing.T) {
	assert.Equal(t, 0, ProfileCompletionPercentage(nil))
	assert.Equal(t, 0, ProfileCompletionPercentage(&types.StudentProfile{}))

	full := &types.StudentProfile{
		FirstName:     "Maria",
		LastName:      "Santos",
		Email:         "maria@example.edu",
		StudentNumber: "2021-00123",
		Course:        &types.Course{Code: "BSIT"},
		YearLevel:     "4",
		Section:       "4A",
		Phone:         "09171234567",
		Address:       types.Address{Street: "1 Rizal St", Barangay: "Poblacion", City: "Indang", Province: "Cavite"},
		ProfileImage:  "img/maria.png",
	}
	assert.Equal(t, 100, ProfileCompletionPercentage(full))

	full.ProfileImage = ""
	// 12 of 13
	assert.Equal(t, 92, ProfileCompletionPercentage(full))

	partial := &types.StudentProfile{FirstName: "A", LastName: "B", Email: "c@d.e"}
	assert.Equal(t, 23, ProfileCompletionPercentage(partial))
}

func TestSummarize(t *testing.T) {
	s := studentWithHours(300, 150, types.OJTStatusOngoing)
	s.ID = uuid.New()
	s.CV = "cv.pdf"

	summary := Summarize(s, nil, nil)
	assert.Equal(t, s.ID.String(), summary.StudentID)
	assert.Equal(t, 50, summary.Progress)
	assert.Equal(t, 150, summary.HoursRemaining)
	assert.Equal(t, 300, summary.HoursRequired)
	assert.Equal(t, 100, summary.DocumentCompletion)
	assert.Len(t, summary.Documents, 1)
	assert.False(t, summary.CompleteForMatch)
}
