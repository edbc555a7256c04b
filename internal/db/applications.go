package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/types"
)

var applicationColumns = []string{
	"id", "student_id", "internship_id", "status", "match_score", "notes", "applied_at", "updated_at",
}

// ApplicationFilter narrows ListApplications.
type ApplicationFilter struct {
	StudentID    *uuid.UUID
	InternshipID *uuid.UUID
	Status       types.ApplicationStatus
}

func scanApplication(row pgx.Row) (*types.Application, error) {
	var a types.Application
	var status string
	if err := row.Scan(&a.ID, &a.StudentID, &a.InternshipID, &status, &a.MatchScore, &a.Notes, &a.AppliedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = types.ApplicationStatus(status)
	return &a, nil
}

// CreateApplication inserts an application. A second application for the same
// student and listing returns apperrors.ErrConflict.
func (db *DB) CreateApplication(ctx context.Context, app *types.Application) error {
	sql, args, err := db.sb.Insert("applications").
		Columns(applicationColumns...).
		Values(app.ID, app.StudentID, app.InternshipID, string(app.Status), app.MatchScore, app.Notes, app.AppliedAt, app.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create application query: %w", err)
	}

	if _, err := db.pool.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err, constraintApplicationPair) {
			return fmt.Errorf("application for student %s and internship %s: %w", app.StudentID, app.InternshipID, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetApplication returns an application, or nil if not found.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	sql, args, err := db.sb.Select(applicationColumns...).
		From("applications").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get application query: %w", err)
	}

	a, err := scanApplication(db.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// HasApplied reports whether the student already applied to the listing.
func (db *DB) HasApplied(ctx context.Context, studentID, internshipID uuid.UUID) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE student_id = $1 AND internship_id = $2)`,
		studentID, internshipID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}
	return exists, nil
}

// AppliedInternshipIDs returns the set of listings the student has applied to.
func (db *DB) AppliedInternshipIDs(ctx context.Context, studentID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := db.pool.Query(ctx, `SELECT internship_id FROM applications WHERE student_id = $1`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied internships: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to scan applied internships: %w", err)
	}

	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// UpdateApplicationStatus sets the status only if it still equals from.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, from, to types.ApplicationStatus) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE applications SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		id, string(from), string(to),
	)
	if err != nil {
		return false, fmt.Errorf("failed to update application status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListApplications returns applications matching the filter, newest first.
func (db *DB) ListApplications(ctx context.Context, f ApplicationFilter) ([]*types.Application, error) {
	q := db.sb.Select(applicationColumns...).From("applications")
	if f.StudentID != nil {
		q = q.Where(squirrel.Eq{"student_id": *f.StudentID})
	}
	if f.InternshipID != nil {
		q = q.Where(squirrel.Eq{"internship_id": *f.InternshipID})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": string(f.Status)})
	}
	sql, args, err := q.OrderBy("applied_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var out []*types.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
