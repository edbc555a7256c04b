// Package timesheet handles weekly time records (DTRs): submission, adviser
// review and the crediting of approved hours to a student's OJT total.
package timesheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/notify"
	"github.com/jonathan/ojt-matcher/internal/types"
	"github.com/rs/zerolog"
)

// AdviserDirectory resolves advisers. The store decides how a student maps to
// an adviser.
type AdviserDirectory interface {
	// FindFor returns the adviser handling the student, or nil if none is assigned.
	FindFor(ctx context.Context, student *types.StudentProfile) (*types.Adviser, error)
	// GetAdviser returns the adviser profile, or nil if it does not exist.
	GetAdviser(ctx context.Context, id uuid.UUID) (*types.Adviser, error)
}

// CreditResult reports the outcome of an approval.
type CreditResult struct {
	DTR     *types.DTR
	Student *types.StudentProfile
	// Credited is true only for the approval that added the hours.
	Credited bool
	// StatusChanged is true when the credit promoted the student to COMPLETED.
	StatusChanged bool
}

// Store is the persistence the timesheet service needs.
// Getters return nil, nil when the record does not exist.
type Store interface {
	GetStudentProfile(ctx context.Context, id uuid.UUID) (*types.StudentProfile, error)
	// UpdateStudentProgress locks the student, applies fn and saves hours and
	// status through the completion ratchet in one transaction. Nothing is
	// written when fn fails. It returns nil, nil when the student does not exist.
	UpdateStudentProgress(ctx context.Context, id uuid.UUID, fn func(*types.StudentProfile) error) (*types.StudentProfile, error)
	// CreateDTR inserts dtr and returns apperrors.ErrConflict when the student
	// already has a DTR for that week.
	CreateDTR(ctx context.Context, dtr *types.DTR) error
	GetDTR(ctx context.Context, id uuid.UUID) (*types.DTR, error)
	ListDTRsForAdviser(ctx context.Context, adviserID uuid.UUID) ([]*types.DTR, error)
	ListDTRsForStudent(ctx context.Context, studentID uuid.UUID) ([]*types.DTR, error)
	// ApproveDTR marks the DTR approved and, in the same transaction, credits its
	// hours to the student only if they were not credited before. The student
	// is saved through the status ratchet.
	ApproveDTR(ctx context.Context, id uuid.UUID, remarks string, reviewedAt time.Time) (*CreditResult, error)
	// RejectDTR marks the DTR not approved. Credited hours are left alone.
	RejectDTR(ctx context.Context, id uuid.UUID, remarks string, reviewedAt time.Time) (*types.DTR, error)
}

// Service implements the DTR workflow and adviser overrides.
type Service struct {
	store     Store
	directory AdviserDirectory
	notifier  *notify.Dispatcher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService creates a timesheet service. notifier may be nil.
func NewService(store Store, directory AdviserDirectory, notifier *notify.Dispatcher, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		directory: directory,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) loadStudent(ctx context.Context, id uuid.UUID) (*types.StudentProfile, error) {
	student, err := s.store.GetStudentProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return nil, apperrors.NotFound("student", id)
	}
	return student, nil
}

// Submit records a student's DTR for a week and addresses it to the student's adviser.
func (s *Service) Submit(ctx context.Context, studentID uuid.UUID, req types.SubmitDTRRequest) (*types.DTR, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	student, err := s.loadStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	adviser, err := s.directory.FindFor(ctx, student)
	if err != nil {
		return nil, fmt.Errorf("failed to find adviser: %w", err)
	}
	if adviser == nil {
		return nil, apperrors.ErrNoAdviser
	}

	dtr := &types.DTR{
		ID:            uuid.New(),
		StudentID:     student.ID,
		AdviserID:     adviser.ID,
		WeekStart:     truncateDay(req.WeekStart),
		WeekEnd:       truncateDay(req.WeekEnd),
		File:          req.File,
		HoursRendered: req.HoursRendered,
		SubmittedAt:   s.now().UTC(),
	}
	if err := s.store.CreateDTR(ctx, dtr); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, &apperrors.DuplicateWeekError{StudentID: student.ID, WeekStart: dtr.WeekStart.Format(time.DateOnly)}
		}
		return nil, fmt.Errorf("failed to create dtr: %w", err)
	}

	s.logger.Info().
		Str("dtr_id", dtr.ID.String()).
		Str("student_id", student.ID.String()).
		Str("adviser_id", adviser.ID.String()).
		Str("week_start", dtr.WeekStart.Format(time.DateOnly)).
		Int("hours", dtr.HoursRendered).
		Msg("dtr submitted")
	return dtr, nil
}

// Review applies an adviser's decision to a DTR addressed to them.
func (s *Service) Review(ctx context.Context, dtrID uuid.UUID, req types.ReviewDTRRequest, actor types.Actor) (*types.DTR, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if actor.Role != types.RoleAdviser {
		return nil, apperrors.Forbidden("dtr", "only advisers may review DTRs")
	}

	dtr, err := s.store.GetDTR(ctx, dtrID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dtr: %w", err)
	}
	if dtr == nil {
		return nil, apperrors.NotFound("dtr", dtrID)
	}
	if dtr.AdviserID != actor.ProfileID {
		return nil, apperrors.Forbidden("dtr", "DTR is addressed to another adviser")
	}

	now := s.now().UTC()
	switch req.Action {
	case types.DecisionApprove:
		return s.approve(ctx, dtr, req.Remarks, now)
	default:
		return s.reject(ctx, dtr, req.Remarks, now)
	}
}

func (s *Service) approve(ctx context.Context, prior *types.DTR, remarks string, at time.Time) (*types.DTR, error) {
	res, err := s.store.ApproveDTR(ctx, prior.ID, remarks, at)
	if err != nil {
		return nil, fmt.Errorf("failed to approve dtr: %w", err)
	}

	log := s.logger.With().
		Str("dtr_id", prior.ID.String()).
		Str("student_id", prior.StudentID.String()).
		Logger()

	switch {
	case res.Credited && prior.HoursCredited:
		log.Error().Err(apperrors.ErrDoubleCredit).Msg("dtr credited although it was already marked as credited")
	case res.Credited:
		log.Info().
			Int("hours", res.DTR.HoursRendered).
			Int("total_hours", res.Student.OJTHoursCompleted).
			Bool("completed", res.StatusChanged).
			Msg("dtr approved and hours credited")
	default:
		log.Debug().Msg("dtr hours already credited, credit skipped")
	}

	if res.Student != nil {
		s.notifier.Send(notify.DTRReviewed(res.Student, res.DTR))
	}
	return res.DTR, nil
}

func (s *Service) reject(ctx context.Context, prior *types.DTR, remarks string, at time.Time) (*types.DTR, error) {
	if remarks == "" {
		remarks = types.DefaultRejectRemarks
	}
	dtr, err := s.store.RejectDTR(ctx, prior.ID, remarks, at)
	if err != nil {
		return nil, fmt.Errorf("failed to reject dtr: %w", err)
	}

	s.logger.Info().
		Str("dtr_id", dtr.ID.String()).
		Str("student_id", dtr.StudentID.String()).
		Bool("hours_kept", dtr.HoursCredited).
		Msg("dtr rejected")

	if student, err := s.store.GetStudentProfile(ctx, dtr.StudentID); err == nil && student != nil {
		s.notifier.Send(notify.DTRReviewed(student, dtr))
	}
	return dtr, nil
}

// Inbox lists the DTRs addressed to the acting adviser, newest week first.
func (s *Service) Inbox(ctx context.Context, actor types.Actor) ([]*types.DTR, error) {
	if actor.Role != types.RoleAdviser {
		return nil, apperrors.Forbidden("dtr", "only advisers have a DTR inbox")
	}
	dtrs, err := s.store.ListDTRsForAdviser(ctx, actor.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dtrs: %w", err)
	}
	return dtrs, nil
}

// History lists a student's own DTRs. Students see only theirs; staff see any.
func (s *Service) History(ctx context.Context, studentID uuid.UUID, actor types.Actor) ([]*types.DTR, error) {
	if !actor.Role.IsStaff() && actor.ProfileID != studentID {
		return nil, apperrors.Forbidden("dtr", "students may only list their own DTRs")
	}
	dtrs, err := s.store.ListDTRsForStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dtrs: %w", err)
	}
	return dtrs, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
