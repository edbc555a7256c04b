package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/ojt-matcher/internal/types"
)

var internshipColumns = []string{
	"i.id", "i.title", "i.description", "i.is_active", "i.slots_available", "i.created_at", "i.updated_at",
	"co.id", "co.name", "co.company_email", "co.hr_email",
	"co.street", "co.barangay", "co.city", "co.province",
	"co.latitude", "co.longitude", "co.active",
}

// InternshipFilter narrows ListInternships.
type InternshipFilter struct {
	ActiveOnly bool
	CourseID   *uuid.UUID
	CompanyID  *uuid.UUID
	Limit      int
}

func scanInternship(row pgx.Row) (*types.Internship, error) {
	var i types.Internship
	c := &i.Company
	err := row.Scan(
		&i.ID, &i.Title, &i.Description, &i.IsActive, &i.SlotsAvailable, &i.CreatedAt, &i.UpdatedAt,
		&c.ID, &c.Name, &c.CompanyEmail, &c.HREmail,
		&c.Address.Street, &c.Address.Barangay, &c.Address.City, &c.Address.Province,
		&c.Latitude, &c.Longitude, &c.Active,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// ListInternships returns listings matching the filter, oldest first, with their
// recommended courses and required skills loaded.
func (db *DB) ListInternships(ctx context.Context, f InternshipFilter) ([]*types.Internship, error) {
	q := db.sb.Select(internshipColumns...).
		From("internships i").
		Join("companies co ON co.id = i.company_id")
	if f.ActiveOnly {
		q = q.Where(squirrel.Eq{"i.is_active": true})
	}
	if f.CourseID != nil {
		q = q.Where("EXISTS (SELECT 1 FROM internship_courses ic WHERE ic.internship_id = i.id AND ic.course_id = ?)", *f.CourseID)
	}
	if f.CompanyID != nil {
		q = q.Where(squirrel.Eq{"i.company_id": *f.CompanyID})
	}
	q = q.OrderBy("i.created_at ASC", "i.id ASC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list internships query: %w", err)
	}

	rows, err := db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list internships: %w", err)
	}
	defer rows.Close()

	var out []*types.Internship
	for rows.Next() {
		i, err := scanInternship(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan internship: %w", err)
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate internships: %w", err)
	}

	if err := db.loadListingRelations(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveInternships returns every active listing.
func (db *DB) ListActiveInternships(ctx context.Context) ([]*types.Internship, error) {
	return db.ListInternships(ctx, InternshipFilter{ActiveOnly: true})
}

// GetInternship returns one listing with its relations, or nil if not found.
func (db *DB) GetInternship(ctx context.Context, id uuid.UUID) (*types.Internship, error) {
	sql, args, err := db.sb.Select(internshipColumns...).
		From("internships i").
		Join("companies co ON co.id = i.company_id").
		Where(squirrel.Eq{"i.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get internship query: %w", err)
	}

	i, err := scanInternship(db.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get internship: %w", err)
	}
	if err := db.loadListingRelations(ctx, []*types.Internship{i}); err != nil {
		return nil, err
	}
	return i, nil
}

// loadListingRelations fills RecommendedCourses and RequiredSkills in two batch queries.
func (db *DB) loadListingRelations(ctx context.Context, listings []*types.Internship) error {
	if len(listings) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*types.Internship, len(listings))
	ids := make([]string, 0, len(listings))
	for _, i := range listings {
		byID[i.ID] = i
		ids = append(ids, i.ID.String())
	}

	rows, err := db.pool.Query(ctx,
		`SELECT ic.internship_id, c.id, c.code, c.name, c.required_ojt_hours, c.description
		 FROM internship_courses ic JOIN courses c ON c.id = ic.course_id
		 WHERE ic.internship_id = ANY($1::uuid[])
		 ORDER BY c.code`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to load internship courses: %w", err)
	}
	for rows.Next() {
		var owner uuid.UUID
		var c types.Course
		if err := rows.Scan(&owner, &c.ID, &c.Code, &c.Name, &c.RequiredOJTHours, &c.Description); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan internship course: %w", err)
		}
		byID[owner].RecommendedCourses = append(byID[owner].RecommendedCourses, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate internship courses: %w", err)
	}

	rows, err = db.pool.Query(ctx,
		`SELECT isk.internship_id, s.id, s.name, s.course_id
		 FROM internship_skills isk JOIN skills s ON s.id = isk.skill_id
		 WHERE isk.internship_id = ANY($1::uuid[])
		 ORDER BY s.name`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to load internship skills: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var owner uuid.UUID
		var s types.Skill
		if err := rows.Scan(&owner, &s.ID, &s.Name, &s.CourseID); err != nil {
			return fmt.Errorf("failed to scan internship skill: %w", err)
		}
		byID[owner].RequiredSkills = append(byID[owner].RequiredSkills, s)
	}
	return rows.Err()
}

// SaveCompany inserts or updates a company.
func (db *DB) SaveCompany(ctx context.Context, c *types.Company) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO companies (id, name, company_email, hr_email, street, barangay, city, province, latitude, longitude, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, company_email = EXCLUDED.company_email, hr_email = EXCLUDED.hr_email,
			street = EXCLUDED.street, barangay = EXCLUDED.barangay, city = EXCLUDED.city,
			province = EXCLUDED.province, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
			active = EXCLUDED.active`,
		c.ID, c.Name, c.CompanyEmail, c.HREmail,
		c.Address.Street, c.Address.Barangay, c.Address.City, c.Address.Province,
		c.Latitude, c.Longitude, c.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to save company: %w", err)
	}
	return nil
}

// CreateInternship inserts a listing with its recommended courses and required
// skills. The company must already exist.
func (db *DB) CreateInternship(ctx context.Context, i *types.Internship) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return db.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO internships (id, company_id, title, description, is_active, slots_available)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING created_at, updated_at`,
			i.ID, i.Company.ID, i.Title, i.Description, i.IsActive, i.SlotsAvailable,
		).Scan(&i.CreatedAt, &i.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create internship: %w", err)
		}
		for _, c := range i.RecommendedCourses {
			if _, err := tx.Exec(ctx,
				`INSERT INTO internship_courses (internship_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				i.ID, c.ID,
			); err != nil {
				return fmt.Errorf("failed to link course %s: %w", c.Code, err)
			}
		}
		for _, s := range i.RequiredSkills {
			if _, err := tx.Exec(ctx,
				`INSERT INTO internship_skills (internship_id, skill_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				i.ID, s.ID,
			); err != nil {
				return fmt.Errorf("failed to link skill %s: %w", s.Name, err)
			}
		}
		return nil
	})
}

// SetInternshipActive opens or closes a listing.
func (db *DB) SetInternshipActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE internships SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update internship: %w", err)
	}
	return nil
}
