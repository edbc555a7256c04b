package db

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Statistics holds the dashboard counts.
type Statistics struct {
	StudentsByStatus     map[string]int `json:"students_by_status"`
	TotalStudents        int            `json:"total_students"`
	ActiveInternships    int            `json:"active_internships"`
	ApplicationsByStatus map[string]int `json:"applications_by_status"`
	TotalApplications    int            `json:"total_applications"`
	PendingDTRs          int            `json:"pending_dtrs"`
}

func (db *DB) countBy(ctx context.Context, sql string) (map[string]int, int, error) {
	rows, err := db.pool.Query(ctx, sql)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make(map[string]int)
	total := 0
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, 0, err
		}
		out[key] = n
		total += n
	}
	return out, total, rows.Err()
}

// Statistics gathers the dashboard counts concurrently.
func (db *DB) Statistics(ctx context.Context) (*Statistics, error) {
	s := &Statistics{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		s.StudentsByStatus, s.TotalStudents, err = db.countBy(ctx,
			`SELECT ojt_status, COUNT(*) FROM student_profiles GROUP BY ojt_status`)
		if err != nil {
			return fmt.Errorf("failed to count students: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		s.ApplicationsByStatus, s.TotalApplications, err = db.countBy(ctx,
			`SELECT status, COUNT(*) FROM applications GROUP BY status`)
		if err != nil {
			return fmt.Errorf("failed to count applications: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := db.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM internships WHERE is_active`).Scan(&s.ActiveInternships); err != nil {
			return fmt.Errorf("failed to count internships: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := db.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM dtrs WHERE reviewed_at IS NULL`).Scan(&s.PendingDTRs); err != nil {
			return fmt.Errorf("failed to count dtrs: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}
