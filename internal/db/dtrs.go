package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/progress"
	"github.com/jonathan/ojt-matcher/internal/timesheet"
	"github.com/jonathan/ojt-matcher/internal/types"
)

var dtrColumns = []string{
	"id", "student_id", "adviser_id", "week_start", "week_end", "file", "hours_rendered",
	"submitted_at", "approved", "hours_credited", "remarks", "reviewed_at",
}

func scanDTR(row pgx.Row) (*types.DTR, error) {
	var d types.DTR
	err := row.Scan(&d.ID, &d.StudentID, &d.AdviserID, &d.WeekStart, &d.WeekEnd, &d.File, &d.HoursRendered,
		&d.SubmittedAt, &d.Approved, &d.HoursCredited, &d.Remarks, &d.ReviewedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDTR inserts a DTR. A second DTR for the same student and week returns
// apperrors.ErrConflict.
func (db *DB) CreateDTR(ctx context.Context, d *types.DTR) error {
	sql, args, err := db.sb.Insert("dtrs").
		Columns("id", "student_id", "adviser_id", "week_start", "week_end", "file", "hours_rendered", "submitted_at").
		Values(d.ID, d.StudentID, d.AdviserID, d.WeekStart, d.WeekEnd, d.File, d.HoursRendered, d.SubmittedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create dtr query: %w", err)
	}

	if _, err := db.pool.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err, constraintDTRWeek) {
			return fmt.Errorf("dtr for week %s: %w", d.WeekStart.Format(time.DateOnly), apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create dtr: %w", err)
	}
	return nil
}

func getDTR(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*types.DTR, error) {
	b := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(dtrColumns...).
		From("dtrs").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get dtr query: %w", err)
	}

	d, err := scanDTR(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dtr: %w", err)
	}
	return d, nil
}

// GetDTR returns a DTR, or nil if not found.
func (db *DB) GetDTR(ctx context.Context, id uuid.UUID) (*types.DTR, error) {
	return getDTR(ctx, db.pool, id, false)
}

func (db *DB) listDTRs(ctx context.Context, where squirrel.Eq) ([]*types.DTR, error) {
	sql, args, err := db.sb.Select(dtrColumns...).
		From("dtrs").
		Where(where).
		OrderBy("week_start DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list dtrs query: %w", err)
	}

	rows, err := db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dtrs: %w", err)
	}
	defer rows.Close()

	var out []*types.DTR
	for rows.Next() {
		d, err := scanDTR(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dtr: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListDTRsForAdviser returns the DTRs addressed to an adviser, newest week first.
func (db *DB) ListDTRsForAdviser(ctx context.Context, adviserID uuid.UUID) ([]*types.DTR, error) {
	return db.listDTRs(ctx, squirrel.Eq{"adviser_id": adviserID})
}

// ListDTRsForStudent returns a student's DTRs, newest week first.
func (db *DB) ListDTRsForStudent(ctx context.Context, studentID uuid.UUID) ([]*types.DTR, error) {
	return db.listDTRs(ctx, squirrel.Eq{"student_id": studentID})
}

// ApproveDTR marks a DTR approved and credits its hours to the student at most
// once. The DTR and student rows are locked for the whole transaction and the
// hours_credited flag is flipped by compare-and-set before any hours move.
func (db *DB) ApproveDTR(ctx context.Context, id uuid.UUID, remarks string, reviewedAt time.Time) (*timesheet.CreditResult, error) {
	res := &timesheet.CreditResult{}

	err := db.inTx(ctx, func(tx pgx.Tx) error {
		d, err := getDTR(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if d == nil {
			return apperrors.NotFound("dtr", id)
		}

		student, err := getStudentProfile(ctx, tx, d.StudentID, true)
		if err != nil {
			return err
		}
		if student == nil {
			return apperrors.NotFound("student", d.StudentID)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE dtrs SET approved = TRUE, remarks = $2, reviewed_at = $3 WHERE id = $1`,
			id, remarks, reviewedAt,
		); err != nil {
			return fmt.Errorf("failed to approve dtr: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`UPDATE dtrs SET hours_credited = TRUE WHERE id = $1 AND hours_credited = FALSE`, id)
		if err != nil {
			return fmt.Errorf("failed to mark dtr credited: %w", err)
		}

		switch tag.RowsAffected() {
		case 0:
			// already credited
		case 1:
			student.OJTHoursCompleted += d.HoursRendered
			before := student.OJTStatus
			progress.RecomputeOnSave(student)
			res.StatusChanged = before != student.OJTStatus
			if err := saveStudentProgress(ctx, tx, student); err != nil {
				return err
			}
			res.Credited = true
		default:
			return fmt.Errorf("dtr %s: %w", id, apperrors.ErrDoubleCredit)
		}

		d.Approved = true
		d.HoursCredited = true
		d.Remarks = remarks
		d.ReviewedAt = &reviewedAt
		res.DTR = d
		res.Student = student
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RejectDTR marks a DTR not approved. Previously credited hours stay credited.
func (db *DB) RejectDTR(ctx context.Context, id uuid.UUID, remarks string, reviewedAt time.Time) (*types.DTR, error) {
	sql, args, err := db.sb.Update("dtrs").
		Set("approved", false).
		Set("remarks", remarks).
		Set("reviewed_at", reviewedAt).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(dtrColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build reject dtr query: %w", err)
	}

	d, err := scanDTR(db.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("dtr", id)
		}
		return nil, fmt.Errorf("failed to reject dtr: %w", err)
	}
	return d, nil
}
