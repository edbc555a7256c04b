// Package matching scores students against internship listings and builds ranked candidate lists.
package matching

import (
	"math"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/catalog"
	"github.com/jonathan/ojt-matcher/internal/types"
)

// Strategy names
const (
	StrategyListing   = "listing"
	StrategyCandidate = "candidate"
)

// Listing strategy weights (points out of 100)
const (
	listingCourseWeight = 40
	listingSkillWeight  = 60
)

// Candidate strategy weights
const (
	candidateSkillWeight     = 40.0
	candidateCourseWeight    = 30.0
	candidateProximityWeight = 30.0
)

// Breakdown is a score together with the components it was built from.
type Breakdown struct {
	Strategy      string   `json:"strategy"`
	Score         int      `json:"score"`
	SkillRatio    float64  `json:"skill_ratio"`
	CourseMatch   float64  `json:"course_match"`
	Proximity     float64  `json:"proximity"`
	DistanceKm    *float64 `json:"distance_km,omitempty"`
	MatchedSkills []string `json:"matched_skills,omitempty"`
}

// SkillPct returns the skill ratio as a rounded percentage.
func (b Breakdown) SkillPct() int { return int(math.Round(b.SkillRatio * 100)) }

// CoursePct returns the course match as a rounded percentage.
func (b Breakdown) CoursePct() int { return int(math.Round(b.CourseMatch * 100)) }

// MapPct returns the proximity credit as a rounded percentage.
func (b Breakdown) MapPct() int { return int(math.Round(b.Proximity * 100)) }

// Strategy computes a 0-100 compatibility score between a student and a listing.
// The listing and candidate strategies are deliberately kept separate.
type Strategy interface {
	Name() string
	Score(student *types.StudentProfile, internship *types.Internship) Breakdown
}

// ListingScore is persisted on an Application when it is created:
// 40 points for a recommended course plus up to 60 for required-skill coverage.
var ListingScore Strategy = listingStrategy{}

// CandidateScore orders a student's browse list:
// 40% skill coverage, 30% course match, 30% proximity.
var CandidateScore Strategy = candidateStrategy{}

// StrategyByName returns the named strategy, defaulting to ListingScore.
func StrategyByName(name string) (Strategy, bool) {
	switch name {
	case StrategyListing, "":
		return ListingScore, true
	case StrategyCandidate:
		return CandidateScore, true
	default:
		return nil, false
	}
}

// Score is the listing-score variant, the value captured on applications.
func Score(student *types.StudentProfile, internship *types.Internship) int {
	return ListingScore.Score(student, internship).Score
}

type listingStrategy struct{}

func (listingStrategy) Name() string { return StrategyListing }

func (listingStrategy) Score(student *types.StudentProfile, internship *types.Internship) Breakdown {
	b := Breakdown{Strategy: StrategyListing}
	if student == nil || internship == nil {
		return b
	}

	b.SkillRatio, b.MatchedSkills = computeSkillOverlap(student.Skills, internship.RequiredSkills)
	if internship.RecommendsCourse(student.Course) {
		b.CourseMatch = 1.0
	}

	skillPoints := int(math.Round(b.SkillRatio * listingSkillWeight))
	coursePoints := 0
	if b.CourseMatch > 0 {
		coursePoints = listingCourseWeight
	}
	b.Score = clampScore(coursePoints + skillPoints)
	return b
}

type candidateStrategy struct{}

func (candidateStrategy) Name() string { return StrategyCandidate }

func (candidateStrategy) Score(student *types.StudentProfile, internship *types.Internship) Breakdown {
	b := Breakdown{Strategy: StrategyCandidate}
	if student == nil || internship == nil {
		return b
	}

	b.SkillRatio, b.MatchedSkills = computeSkillOverlap(student.Skills, internship.RequiredSkills)
	if internship.RecommendsCourse(student.Course) {
		b.CourseMatch = 1.0
	}
	if d := DistanceKm(student, &internship.Company); d != nil {
		b.Proximity = proximityCredit(d)
		rounded := roundTo(*d, 1)
		b.DistanceKm = &rounded
	}

	total := b.SkillRatio*candidateSkillWeight +
		b.CourseMatch*candidateCourseWeight +
		b.Proximity*candidateProximityWeight
	b.Score = clampScore(int(math.Round(total)))
	return b
}

// computeSkillOverlap returns the fraction of required skills the student has
// and the names of the matched skills. No required skills means full coverage.
func computeSkillOverlap(have, required []types.Skill) (float64, []string) {
	if len(required) == 0 {
		return 1.0, nil
	}

	owned := make(map[string]bool, len(have))
	for _, s := range have {
		owned[skillKey(s)] = true
	}

	matched := make([]string, 0)
	seen := make(map[string]bool, len(required))
	for _, s := range required {
		key := skillKey(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		if owned[key] {
			matched = append(matched, s.Name)
		}
	}

	return float64(len(matched)) / float64(len(seen)), matched
}

// skillKey identifies a skill by ID, falling back to its normalized name for
// records that were never persisted.
func skillKey(s types.Skill) string {
	if s.ID != uuid.Nil {
		return s.ID.String()
	}
	return "name:" + catalog.SkillKey(s.Name)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
