package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/catalog"
	"github.com/jonathan/ojt-matcher/internal/types"
)

// SeedResult counts the records Import wrote.
type SeedResult struct {
	Courses     int `json:"courses"`
	Documents   int `json:"documents"`
	Advisers    int `json:"advisers"`
	Internships int `json:"internships"`
	Students    int `json:"students"`
}

// Import loads a seed into the store. It can be rerun: courses are matched by
// code, checklist entries by name, listings already present by ID are
// skipped, and advisers and students are upserted by ID.
func (s *Service) Import(ctx context.Context, seed *types.Seed) (*SeedResult, error) {
	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	res := &SeedResult{}

	for i := range seed.Courses {
		c := seed.Courses[i]
		if _, ok := cat.CourseByCode(c.Code); ok {
			continue
		}
		if err := s.store.CreateCourse(ctx, &c); err != nil {
			return res, err
		}
		res.Courses++
	}
	if res.Courses > 0 {
		if err := cat.Refresh(ctx, s.store); err != nil {
			return res, err
		}
	}

	if err := s.importDocuments(ctx, seed.Documents, res); err != nil {
		return res, err
	}

	for _, sa := range seed.Advisers {
		adviser := sa.Adviser
		courses, err := coursesByCode(cat, sa.CourseCodes)
		if err != nil {
			return res, fmt.Errorf("adviser %s: %w", adviser.Name, err)
		}
		adviser.CourseIDs = make([]uuid.UUID, 0, len(courses))
		for _, c := range courses {
			adviser.CourseIDs = append(adviser.CourseIDs, c.ID)
		}
		if err := s.store.SaveAdviser(ctx, &adviser); err != nil {
			return res, err
		}
		res.Advisers++
	}

	for i := range seed.Internships {
		created, err := s.importListing(ctx, cat, seed.Internships[i])
		if err != nil {
			return res, fmt.Errorf("internship %q: %w", seed.Internships[i].Title, err)
		}
		if created {
			res.Internships++
		}
	}

	for i := range seed.Students {
		student := seed.Students[i]
		if err := s.importStudent(ctx, cat, &student); err != nil {
			return res, fmt.Errorf("student %s: %w", student.ID, err)
		}
		res.Students++
	}

	s.logger.Info().
		Int("courses", res.Courses).
		Int("documents", res.Documents).
		Int("advisers", res.Advisers).
		Int("internships", res.Internships).
		Int("students", res.Students).
		Msg("seed imported")
	return res, nil
}

func (s *Service) importDocuments(ctx context.Context, docs []types.RequiredDocument, res *SeedResult) error {
	if len(docs) == 0 {
		return nil
	}
	existing, err := s.store.ListRequiredDocuments(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]uuid.UUID, len(existing))
	for _, d := range existing {
		byName[strings.ToLower(d.Name)] = d.ID
	}
	for i := range docs {
		d := docs[i]
		if id, ok := byName[strings.ToLower(d.Name)]; ok {
			d.ID = id
		}
		if err := s.store.SaveRequiredDocument(ctx, &d); err != nil {
			return err
		}
		res.Documents++
	}
	return nil
}

func (s *Service) importListing(ctx context.Context, cat *catalog.Catalog, listing types.Internship) (bool, error) {
	if listing.ID != uuid.Nil {
		existing, err := s.store.GetInternship(ctx, listing.ID)
		if err != nil {
			return false, err
		}
		if existing != nil {
			return false, nil
		}
	}

	codes := make([]string, 0, len(listing.RecommendedCourses))
	for _, c := range listing.RecommendedCourses {
		codes = append(codes, c.Code)
	}
	courses, err := coursesByCode(cat, codes)
	if err != nil {
		return false, err
	}
	skills, err := s.store.EnsureSkills(ctx, cat, skillNames(listing.RequiredSkills), skillScope(courses))
	if err != nil {
		return false, err
	}
	if err := s.store.SaveCompany(ctx, &listing.Company); err != nil {
		return false, err
	}

	listing.RecommendedCourses = courses
	listing.RequiredSkills = skills
	if err := s.store.CreateInternship(ctx, &listing); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) importStudent(ctx context.Context, cat *catalog.Catalog, student *types.StudentProfile) error {
	if student.Course != nil {
		courses, err := coursesByCode(cat, []string{student.Course.Code})
		if err != nil {
			return err
		}
		student.Course = &courses[0]
	}
	var scope *uuid.UUID
	if student.Course != nil {
		scope = &student.Course.ID
	}
	skills, err := s.store.EnsureSkills(ctx, cat, skillNames(student.Skills), scope)
	if err != nil {
		return err
	}
	student.Skills = skills
	return s.store.SaveStudentProfile(ctx, student)
}

// coursesByCode resolves course codes against cat, dropping duplicates.
func coursesByCode(cat *catalog.Catalog, codes []string) ([]types.Course, error) {
	out := make([]types.Course, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true
		c, ok := cat.CourseByCode(code)
		if !ok {
			return nil, fmt.Errorf("%w: course code %q", apperrors.ErrNotFound, code)
		}
		out = append(out, c)
	}
	return out, nil
}

func skillNames(skills []types.Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}
