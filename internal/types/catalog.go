// Package types provides type definitions for structured data used throughout the OJT matching system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/google/uuid"

// DefaultRequiredOJTHours is used when a student has no course assigned.
const DefaultRequiredOJTHours = 300

// Course is an academic program offered by the school.
type Course struct {
	ID               uuid.UUID `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	RequiredOJTHours int       `json:"required_ojt_hours"`
	Description      string    `json:"description,omitempty"`
}

// Skill is a catalog skill, optionally scoped to a course.
type Skill struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	CourseID *uuid.UUID `json:"course_id,omitempty"`
}

// SkillIDSet returns the IDs of the given skills as a set.
func SkillIDSet(skills []Skill) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(skills))
	for _, s := range skills {
		set[s.ID] = true
	}
	return set
}
