package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/ojt-matcher/internal/catalog"
	"github.com/jonathan/ojt-matcher/internal/types"
)

// ListCourses returns all courses ordered by code.
func (db *DB) ListCourses(ctx context.Context) ([]types.Course, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, code, name, required_ojt_hours, description FROM courses ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []types.Course
	for rows.Next() {
		var c types.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.RequiredOJTHours, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// ListSkills returns all skills ordered by name.
func (db *DB) ListSkills(ctx context.Context) ([]types.Skill, error) {
	rows, err := db.pool.Query(ctx, `SELECT id, name, course_id FROM skills ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()
	return scanSkills(rows)
}

func scanSkills(rows pgx.Rows) ([]types.Skill, error) {
	var skills []types.Skill
	for rows.Next() {
		var s types.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.CourseID); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// CreateCourse inserts a course and sets its ID.
func (db *DB) CreateCourse(ctx context.Context, c *types.Course) error {
	if c.RequiredOJTHours <= 0 {
		c.RequiredOJTHours = types.DefaultRequiredOJTHours
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO courses (code, name, required_ojt_hours, description)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Code, c.Name, c.RequiredOJTHours, c.Description,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create course %s: %w", c.Code, err)
	}
	return nil
}

// EnsureSkills resolves free-text skill names against the catalog, creating the
// ones that do not exist yet. Matching is case-insensitive after normalization.
// The catalog is refreshed when new skills were created.
func (db *DB) EnsureSkills(ctx context.Context, cat *catalog.Catalog, names []string, courseID *uuid.UUID) ([]types.Skill, error) {
	existing, missing := cat.ResolveSkillNames(names)
	if len(missing) == 0 {
		return existing, nil
	}

	for _, name := range missing {
		var s types.Skill
		err := db.pool.QueryRow(ctx,
			`INSERT INTO skills (name, course_id) VALUES ($1, $2)
			 ON CONFLICT ((LOWER(name))) DO UPDATE SET name = skills.name
			 RETURNING id, name, course_id`,
			name, courseID,
		).Scan(&s.ID, &s.Name, &s.CourseID)
		if err != nil {
			return nil, fmt.Errorf("failed to create skill %q: %w", name, err)
		}
		existing = append(existing, s)
	}

	if err := cat.Refresh(ctx, db); err != nil {
		return nil, err
	}
	return existing, nil
}
