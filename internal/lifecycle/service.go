package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/matching"
	"github.com/jonathan/ojt-matcher/internal/notify"
	"github.com/jonathan/ojt-matcher/internal/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Store is the persistence the lifecycle service needs.
// Getters return nil, nil when the record does not exist.
type Store interface {
	GetStudentProfile(ctx context.Context, id uuid.UUID) (*types.StudentProfile, error)
	GetInternship(ctx context.Context, id uuid.UUID) (*types.Internship, error)
	ListActiveInternships(ctx context.Context) ([]*types.Internship, error)
	HasApplied(ctx context.Context, studentID, internshipID uuid.UUID) (bool, error)
	AppliedInternshipIDs(ctx context.Context, studentID uuid.UUID) (map[uuid.UUID]bool, error)
	// CreateApplication inserts app and returns apperrors.ErrConflict when the
	// (student, internship) pair already exists.
	CreateApplication(ctx context.Context, app *types.Application) error
	GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error)
	// UpdateApplicationStatus moves the status only if it still equals from,
	// reporting whether a row changed.
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, from, to types.ApplicationStatus) (bool, error)
}

// Service implements apply, status updates and the candidate list.
type Service struct {
	store    Store
	notifier *notify.Dispatcher
	logger   zerolog.Logger
	policy   Policy
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy replaces DefaultPolicy.
func WithPolicy(p Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a lifecycle service. notifier may be nil.
func NewService(store Store, notifier *notify.Dispatcher, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
		policy:   DefaultPolicy,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) loadPair(ctx context.Context, studentID, internshipID uuid.UUID) (*types.StudentProfile, *types.Internship, error) {
	student, err := s.store.GetStudentProfile(ctx, studentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return nil, nil, apperrors.NotFound("student", studentID)
	}
	internship, err := s.store.GetInternship(ctx, internshipID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load internship: %w", err)
	}
	if internship == nil {
		return nil, nil, apperrors.NotFound("internship", internshipID)
	}
	return student, internship, nil
}

// CanApply loads the student and listing and runs the eligibility gate.
func (s *Service) CanApply(ctx context.Context, studentID, internshipID uuid.UUID) error {
	student, internship, err := s.loadPair(ctx, studentID, internshipID)
	if err != nil {
		return err
	}
	applied, err := s.store.HasApplied(ctx, studentID, internshipID)
	if err != nil {
		return fmt.Errorf("failed to check existing application: %w", err)
	}
	return CanApply(student, internship, applied)
}

// Apply creates a PENDING application carrying the listing score at this moment.
// A second application for the same pair fails with a duplicate denial, including
// when two requests race past the eligibility check.
func (s *Service) Apply(ctx context.Context, studentID, internshipID uuid.UUID) (*types.Application, error) {
	student, internship, err := s.loadPair(ctx, studentID, internshipID)
	if err != nil {
		return nil, err
	}
	applied, err := s.store.HasApplied(ctx, studentID, internshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if err := CanApply(student, internship, applied); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	app := &types.Application{
		ID:           uuid.New(),
		StudentID:    student.ID,
		InternshipID: internship.ID,
		Status:       types.ApplicationPending,
		MatchScore:   matching.Score(student, internship),
		AppliedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.Denied(apperrors.ReasonDuplicate)
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.logger.Info().
		Str("application_id", app.ID.String()).
		Str("student_id", student.ID.String()).
		Str("internship_id", internship.ID.String()).
		Int("match_score", app.MatchScore).
		Msg("application created")

	s.notifier.Send(notify.ApplicationSubmitted(student, internship, app))
	return app, nil
}

// UpdateStatus moves an application along an allowed edge on behalf of actor.
func (s *Service) UpdateStatus(ctx context.Context, applicationID uuid.UUID, to types.ApplicationStatus, actor types.Actor) (*types.Application, error) {
	app, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, apperrors.NotFound("application", applicationID)
	}
	if !s.policy(actor, app, to) {
		return nil, apperrors.Forbidden("application", "actor may not change this application")
	}
	if err := checkTransition(app.Status, to); err != nil {
		return nil, err
	}

	ok, err := s.store.UpdateApplicationStatus(ctx, app.ID, app.Status, to)
	if err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	if !ok {
		return nil, &apperrors.InvalidTransitionError{
			Entity:  "application",
			From:    string(app.Status),
			To:      string(to),
			Message: "status changed concurrently",
		}
	}

	s.logger.Info().
		Str("application_id", app.ID.String()).
		Str("from", string(app.Status)).
		Str("to", string(to)).
		Str("actor_role", string(actor.Role)).
		Msg("application status updated")

	app.Status = to
	app.UpdatedAt = s.now().UTC()
	return app, nil
}

// Score computes one strategy's breakdown for a student and listing.
func (s *Service) Score(ctx context.Context, studentID, internshipID uuid.UUID, strategy matching.Strategy) (matching.Breakdown, error) {
	student, internship, err := s.loadPair(ctx, studentID, internshipID)
	if err != nil {
		return matching.Breakdown{}, err
	}
	return strategy.Score(student, internship), nil
}

// Candidates loads the student, the active listings and the student's existing
// applications concurrently and returns the ranked candidate sequence.
// Students whose profile is incomplete get a profile denial instead.
func (s *Service) Candidates(ctx context.Context, studentID uuid.UUID) (iter.Seq[matching.Candidate], error) {
	g, gCtx := errgroup.WithContext(ctx)

	var (
		mu       sync.Mutex
		student  *types.StudentProfile
		listings []*types.Internship
		applied  map[uuid.UUID]bool
	)

	g.Go(func() error {
		p, err := s.store.GetStudentProfile(gCtx, studentID)
		if err != nil {
			return fmt.Errorf("failed to load student: %w", err)
		}
		mu.Lock()
		student = p
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		l, err := s.store.ListActiveInternships(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list internships: %w", err)
		}
		mu.Lock()
		listings = l
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		a, err := s.store.AppliedInternshipIDs(gCtx, studentID)
		if err != nil {
			return fmt.Errorf("failed to list applications: %w", err)
		}
		mu.Lock()
		applied = a
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperrors.NotFound("student", studentID)
	}
	if !student.IsCompleteForMatching() {
		return nil, apperrors.Denied(apperrors.ReasonProfileIncomplete)
	}
	return matching.Rank(student, listings, applied), nil
}
