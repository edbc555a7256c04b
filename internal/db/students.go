package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/ojt-matcher/internal/progress"
	"github.com/jonathan/ojt-matcher/internal/types"
)

const studentColumns = `sp.id, sp.user_id, sp.student_number, sp.first_name, sp.last_name, sp.email,
	sp.phone, sp.year_level, sp.section, sp.profile_image,
	sp.street, sp.barangay, sp.city, sp.province, sp.latitude, sp.longitude,
	sp.ojt_status, sp.ojt_hours_completed, sp.cv, sp.created_at, sp.updated_at,
	c.id, c.code, c.name, c.required_ojt_hours, c.description`

const studentFrom = `student_profiles sp LEFT JOIN courses c ON c.id = sp.course_id`

func scanStudent(row pgx.Row) (*types.StudentProfile, error) {
	var (
		p          types.StudentProfile
		status     string
		courseID   *uuid.UUID
		courseCode *string
		courseName *string
		required   *int
		courseDesc *string
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.StudentNumber, &p.FirstName, &p.LastName, &p.Email,
		&p.Phone, &p.YearLevel, &p.Section, &p.ProfileImage,
		&p.Address.Street, &p.Address.Barangay, &p.Address.City, &p.Address.Province,
		&p.Latitude, &p.Longitude,
		&status, &p.OJTHoursCompleted, &p.CV, &p.CreatedAt, &p.UpdatedAt,
		&courseID, &courseCode, &courseName, &required, &courseDesc,
	)
	if err != nil {
		return nil, err
	}
	p.OJTStatus = types.OJTStatus(status)
	if courseID != nil {
		p.Course = &types.Course{
			ID:               *courseID,
			Code:             deref(courseCode),
			Name:             deref(courseName),
			RequiredOJTHours: derefInt(required),
			Description:      deref(courseDesc),
		}
	}
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func getStudentProfile(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*types.StudentProfile, error) {
	sql := `SELECT ` + studentColumns + ` FROM ` + studentFrom + ` WHERE sp.id = $1`
	if forUpdate {
		sql += ` FOR UPDATE OF sp`
	}
	p, err := scanStudent(q.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	rows, err := q.Query(ctx,
		`SELECT s.id, s.name, s.course_id
		 FROM student_skills ss JOIN skills s ON s.id = ss.skill_id
		 WHERE ss.student_id = $1 ORDER BY s.name`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get student skills: %w", err)
	}
	defer rows.Close()
	if p.Skills, err = scanSkills(rows); err != nil {
		return nil, err
	}
	return p, nil
}

// GetStudentProfile returns the profile with its course and skills, or nil if not found.
func (db *DB) GetStudentProfile(ctx context.Context, id uuid.UUID) (*types.StudentProfile, error) {
	return getStudentProfile(ctx, db.pool, id, false)
}

// SaveStudentProfile inserts or updates a profile and replaces its skills. The
// completion ratchet runs before the row is written.
func (db *DB) SaveStudentProfile(ctx context.Context, p *types.StudentProfile) error {
	progress.RecomputeOnSave(p)
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.OJTStatus == "" {
		p.OJTStatus = types.OJTStatusLooking
	}
	var courseID *uuid.UUID
	if p.Course != nil {
		courseID = &p.Course.ID
	}

	return db.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO student_profiles (id, user_id, student_number, first_name, last_name, email,
				phone, year_level, section, profile_image, course_id,
				street, barangay, city, province, latitude, longitude,
				ojt_status, ojt_hours_completed, cv)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
			 ON CONFLICT (id) DO UPDATE SET
				student_number = EXCLUDED.student_number, first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name, email = EXCLUDED.email, phone = EXCLUDED.phone,
				year_level = EXCLUDED.year_level, section = EXCLUDED.section,
				profile_image = EXCLUDED.profile_image, course_id = EXCLUDED.course_id,
				street = EXCLUDED.street, barangay = EXCLUDED.barangay, city = EXCLUDED.city,
				province = EXCLUDED.province, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
				ojt_status = EXCLUDED.ojt_status, ojt_hours_completed = EXCLUDED.ojt_hours_completed,
				cv = EXCLUDED.cv, updated_at = NOW()
			 RETURNING created_at, updated_at`,
			p.ID, p.UserID, p.StudentNumber, p.FirstName, p.LastName, p.Email,
			p.Phone, p.YearLevel, p.Section, p.ProfileImage, courseID,
			p.Address.Street, p.Address.Barangay, p.Address.City, p.Address.Province, p.Latitude, p.Longitude,
			string(p.OJTStatus), p.OJTHoursCompleted, p.CV,
		).Scan(&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to save student profile: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM student_skills WHERE student_id = $1`, p.ID); err != nil {
			return fmt.Errorf("failed to clear student skills: %w", err)
		}
		for _, s := range p.Skills {
			if _, err := tx.Exec(ctx,
				`INSERT INTO student_skills (student_id, skill_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				p.ID, s.ID,
			); err != nil {
				return fmt.Errorf("failed to save student skill %s: %w", s.Name, err)
			}
		}
		return nil
	})
}

// UpdateStudentProgress locks the student row, applies fn and saves hours and
// status in the same transaction, so it serializes with ApproveDTR. Nothing is
// written when fn returns an error. A missing student yields nil, nil.
func (db *DB) UpdateStudentProgress(ctx context.Context, id uuid.UUID, fn func(*types.StudentProfile) error) (*types.StudentProfile, error) {
	var out *types.StudentProfile
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		p, err := getStudentProfile(ctx, tx, id, true)
		if err != nil || p == nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		if err := saveStudentProgress(ctx, tx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func saveStudentProgress(ctx context.Context, q querier, p *types.StudentProfile) error {
	progress.RecomputeOnSave(p)
	tag, err := q.Exec(ctx,
		`UPDATE student_profiles
		 SET ojt_hours_completed = $2, ojt_status = $3, updated_at = NOW()
		 WHERE id = $1`,
		p.ID, p.OJTHoursCompleted, string(p.OJTStatus),
	)
	if err != nil {
		return fmt.Errorf("failed to save student progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to save student progress: student %s not found", p.ID)
	}
	return nil
}
