package matching

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/types"
)

// Candidate is one entry of a student's ranked browse list.
type Candidate struct {
	Internship    *types.Internship `json:"internship"`
	Score         int               `json:"score"`
	DistanceKm    *float64          `json:"distance_km,omitempty"`
	SkillPct      int               `json:"skill_pct"`
	CoursePct     int               `json:"course_pct"`
	MapPct        int               `json:"map_pct"`
	MatchedSkills []string          `json:"matched_skills,omitempty"`
	Notes         string            `json:"notes"`
}

// Rank returns the student's candidate list: active listings recommending the
// student's course, minus those already applied to and those scoring zero,
// ordered by candidate score descending. Equal scores keep input order.
//
// The sequence is evaluated on each iteration, so it always reflects the
// inputs as they are when ranged over.
func Rank(student *types.StudentProfile, listings []*types.Internship, applied map[uuid.UUID]bool) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for _, c := range rankAll(student, listings, applied) {
			if !yield(c) {
				return
			}
		}
	}
}

func rankAll(student *types.StudentProfile, listings []*types.Internship, applied map[uuid.UUID]bool) []Candidate {
	if student == nil || student.Course == nil {
		return nil
	}

	candidates := make([]Candidate, 0, len(listings))
	for _, internship := range listings {
		if internship == nil || !internship.IsActive {
			continue
		}
		if !internship.RecommendsCourse(student.Course) {
			continue
		}
		if applied[internship.ID] {
			continue
		}

		b := CandidateScore.Score(student, internship)
		if b.Score == 0 {
			continue
		}

		c := Candidate{
			Internship:    internship,
			Score:         b.Score,
			SkillPct:      b.SkillPct(),
			CoursePct:     b.CoursePct(),
			MapPct:        b.MapPct(),
			MatchedSkills: b.MatchedSkills,
			Notes:         generateNotes(b),
		}
		// Distance is only shown when it earned proximity credit
		if b.Proximity > 0 {
			c.DistanceKm = b.DistanceKm
		}
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// generateNotes creates a brief explanation of the candidate score.
func generateNotes(b Breakdown) string {
	var parts []string

	switch {
	case len(b.MatchedSkills) == 0 && b.SkillRatio >= 1.0:
		parts = append(parts, "No specific skills required")
	case b.SkillRatio >= 0.7:
		parts = append(parts, fmt.Sprintf("Strong skill match (%s)", strings.Join(b.MatchedSkills, ", ")))
	case b.SkillRatio >= 0.4:
		parts = append(parts, fmt.Sprintf("Moderate skill match (%s)", strings.Join(b.MatchedSkills, ", ")))
	case b.SkillRatio > 0:
		parts = append(parts, fmt.Sprintf("Weak skill match (%s)", strings.Join(b.MatchedSkills, ", ")))
	default:
		parts = append(parts, "No skill matches")
	}

	if b.CourseMatch > 0 {
		parts = append(parts, "Recommended for your course")
	}

	switch {
	case b.Proximity >= 1.0:
		parts = append(parts, fmt.Sprintf("Within %.0f km", NearDistanceKm))
	case b.Proximity > 0:
		parts = append(parts, fmt.Sprintf("Within %.0f km", FarDistanceKm))
	}

	return strings.Join(parts, ". ")
}
