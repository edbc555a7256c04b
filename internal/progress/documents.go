package progress

import (
	"github.com/jonathan/ojt-matcher/internal/types"
)

// CVDocumentKey identifies the CV pseudo-entry in a checklist.
const CVDocumentKey = "cv"

// DocumentStatus is one line of a student's document checklist.
type DocumentStatus struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Uploaded bool   `json:"uploaded"`
	File     string `json:"file,omitempty"`
}

// DocumentChecklist lists every required document followed by the CV, marking
// which ones the student has uploaded.
func DocumentChecklist(student *types.StudentProfile, required []types.RequiredDocument, uploaded []types.StudentDocument) []DocumentStatus {
	byType := make(map[string]types.StudentDocument, len(uploaded))
	for _, d := range uploaded {
		if d.File == "" {
			continue
		}
		byType[d.DocumentTypeID.String()] = d
	}

	out := make([]DocumentStatus, 0, len(required)+1)
	for _, req := range required {
		key := req.ID.String()
		doc, ok := byType[key]
		out = append(out, DocumentStatus{
			Key:      key,
			Name:     req.Name,
			Uploaded: ok,
			File:     doc.File,
		})
	}

	cv := DocumentStatus{Key: CVDocumentKey, Name: "CV/Resume"}
	if student != nil && student.HasCV() {
		cv.Uploaded = true
		cv.File = student.CV
	}
	return append(out, cv)
}

// DocumentCompletionPercent returns floor(completed/total*100) over the
// checklist, where the CV counts as one extra entry. An empty checklist is 0%.
func DocumentCompletionPercent(student *types.StudentProfile, required []types.RequiredDocument, uploaded []types.StudentDocument) int {
	return ChecklistPercent(DocumentChecklist(student, required, uploaded))
}

// ChecklistPercent returns the floored share of uploaded entries.
func ChecklistPercent(checklist []DocumentStatus) int {
	if len(checklist) == 0 {
		return 0
	}
	done := 0
	for _, d := range checklist {
		if d.Uploaded {
			done++
		}
	}
	return done * 100 / len(checklist)
}
