package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/ojt-matcher/internal/types"
)

// GetAdviser returns an adviser with their course and section assignments, or nil.
func (db *DB) GetAdviser(ctx context.Context, id uuid.UUID) (*types.Adviser, error) {
	var a types.Adviser
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, name, email, department FROM advisers WHERE id = $1`, id,
	).Scan(&a.ID, &a.UserID, &a.Name, &a.Email, &a.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get adviser: %w", err)
	}
	if err := db.loadAssignments(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *DB) loadAssignments(ctx context.Context, a *types.Adviser) error {
	rows, err := db.pool.Query(ctx, `SELECT course_id FROM adviser_courses WHERE adviser_id = $1`, a.ID)
	if err != nil {
		return fmt.Errorf("failed to get adviser courses: %w", err)
	}
	a.CourseIDs, err = pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return fmt.Errorf("failed to scan adviser courses: %w", err)
	}

	rows, err = db.pool.Query(ctx, `SELECT section FROM adviser_sections WHERE adviser_id = $1 ORDER BY section`, a.ID)
	if err != nil {
		return fmt.Errorf("failed to get adviser sections: %w", err)
	}
	a.Sections, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("failed to scan adviser sections: %w", err)
	}
	return nil
}

// FindFor returns the adviser assigned to the student's course and section, or
// nil when none is. When several match, the lowest ID wins.
func (db *DB) FindFor(ctx context.Context, student *types.StudentProfile) (*types.Adviser, error) {
	if student == nil || student.Course == nil || student.Section == "" {
		return nil, nil
	}
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`SELECT a.id FROM advisers a
		 JOIN adviser_courses ac ON ac.adviser_id = a.id
		 JOIN adviser_sections s ON s.adviser_id = a.id
		 WHERE ac.course_id = $1 AND s.section = $2
		 ORDER BY a.id LIMIT 1`,
		student.Course.ID, student.Section,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find adviser: %w", err)
	}
	return db.GetAdviser(ctx, id)
}

// SaveAdviser inserts or updates an adviser and replaces their assignments.
func (db *DB) SaveAdviser(ctx context.Context, a *types.Adviser) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return db.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO advisers (id, user_id, name, email, department) VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, department = EXCLUDED.department`,
			a.ID, a.UserID, a.Name, a.Email, a.Department,
		)
		if err != nil {
			return fmt.Errorf("failed to save adviser: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM adviser_courses WHERE adviser_id = $1`, a.ID); err != nil {
			return fmt.Errorf("failed to clear adviser courses: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM adviser_sections WHERE adviser_id = $1`, a.ID); err != nil {
			return fmt.Errorf("failed to clear adviser sections: %w", err)
		}
		for _, c := range a.CourseIDs {
			if _, err := tx.Exec(ctx, `INSERT INTO adviser_courses (adviser_id, course_id) VALUES ($1, $2)`, a.ID, c); err != nil {
				return fmt.Errorf("failed to save adviser course: %w", err)
			}
		}
		for _, s := range a.Sections {
			if _, err := tx.Exec(ctx, `INSERT INTO adviser_sections (adviser_id, section) VALUES ($1, $2)`, a.ID, s); err != nil {
				return fmt.Errorf("failed to save adviser section: %w", err)
			}
		}
		return nil
	})
}
