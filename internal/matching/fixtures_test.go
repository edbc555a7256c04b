package matching

import (
	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/types"
)

// Manila city hall; offsets below move due north.
const (
	baseLat = 14.5896
	baseLon = 120.9811
)

// kmNorth returns the latitude roughly km kilometres north of baseLat.
func kmNorth(km float64) float64 {
	return baseLat + km/(EarthRadiusKm*3.141592653589793/180)
}

func ptr(f float64) *float64 { return &f }

var (
	bsit = types.Course{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Code: "BSIT", Name: "BS Information Technology", RequiredOJTHours: 300}
	bscs = types.Course{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Code: "BSCS", Name: "BS Computer Science", RequiredOJTHours: 300}

	python = types.Skill{ID: uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001"), Name: "Python"}
	sql    = types.Skill{ID: uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002"), Name: "SQL"}
	django = types.Skill{ID: uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000003"), Name: "Django"}
	golang = types.Skill{ID: uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000004"), Name: "Go"}
)

func newStudent(course *types.Course, skills ...types.Skill) *types.StudentProfile {
	return &types.StudentProfile{
		ID:        uuid.New(),
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Course:    course,
		Skills:    skills,
		Latitude:  ptr(baseLat),
		Longitude: ptr(baseLon),
		OJTStatus: types.OJTStatusLooking,
	}
}

func newListing(title string, distanceKm float64, courses []types.Course, skills ...types.Skill) *types.Internship {
	return &types.Internship{
		ID:    uuid.New(),
		Title: title,
		Company: types.Company{
			ID:        uuid.New(),
			Name:      title + " Inc.",
			Latitude:  ptr(kmNorth(distanceKm)),
			Longitude: ptr(baseLon),
			Active:    true,
		},
		RecommendedCourses: courses,
		RequiredSkills:     skills,
		IsActive:           true,
		SlotsAvailable:     2,
	}
}
