package timesheet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/notify"
	"github.com/jonathan/ojt-matcher/internal/progress"
	"github.com/jonathan/ojt-matcher/internal/types"
)

// adviserFor loads the acting adviser and checks they handle the student.
func (s *Service) adviserFor(ctx context.Context, actor types.Actor, student *types.StudentProfile) (*types.Adviser, error) {
	if actor.Role != types.RoleAdviser {
		return nil, apperrors.Forbidden("student", "only advisers may change OJT records")
	}
	adviser, err := s.directory.GetAdviser(ctx, actor.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load adviser: %w", err)
	}
	if adviser == nil || !adviser.Handles(student) {
		return nil, apperrors.Forbidden("student", "adviser is not assigned to the student's course and section")
	}
	return adviser, nil
}

// updateStudent runs fn against the locked student row and saves the result.
func (s *Service) updateStudent(ctx context.Context, id uuid.UUID, fn func(*types.StudentProfile) error) (*types.StudentProfile, error) {
	student, err := s.store.UpdateStudentProgress(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperrors.NotFound("student", id)
	}
	return student, nil
}

// SetHours overwrites a student's completed hours. Only the student's adviser
// may do so, and only while the student is ONGOING.
func (s *Service) SetHours(ctx context.Context, studentID uuid.UUID, req types.SetHoursRequest, actor types.Actor) (*types.StudentProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var changed bool
	student, err := s.updateStudent(ctx, studentID, func(student *types.StudentProfile) error {
		if _, err := s.adviserFor(ctx, actor, student); err != nil {
			return err
		}
		if student.OJTStatus != types.OJTStatusOngoing {
			return &apperrors.InvalidTransitionError{
				Entity:  "student",
				From:    string(student.OJTStatus),
				Message: "hours can only be updated while the student is ONGOING",
			}
		}
		student.OJTHoursCompleted = req.Hours
		changed = progress.RecomputeOnSave(student)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("student_id", student.ID.String()).
		Int("hours", student.OJTHoursCompleted).
		Bool("completed", changed).
		Msg("ojt hours overridden by adviser")

	s.notifier.Send(notify.HoursUpdated(student))
	return student, nil
}

// SetStatus changes a student's OJT status. Students may pick any
// student-selectable status for themselves and the student's adviser may move
// between the same statuses. COMPLETED is final. Only an adviser may set it,
// and only once the student's hours meet the course requirement.
func (s *Service) SetStatus(ctx context.Context, studentID uuid.UUID, req types.SetStatusRequest, actor types.Actor) (*types.StudentProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var from types.OJTStatus
	student, err := s.updateStudent(ctx, studentID, func(student *types.StudentProfile) error {
		switch actor.Role {
		case types.RoleStudent:
			if actor.ProfileID != student.ID {
				return apperrors.Forbidden("student", "students may only change their own status")
			}
			if !progress.IsStudentSelectable(req.Status) {
				return apperrors.Forbidden("student", "students may not select this status")
			}
		default:
			if _, err := s.adviserFor(ctx, actor, student); err != nil {
				return err
			}
		}
		if err := checkStatusMove(student, req.Status); err != nil {
			return err
		}
		from = student.OJTStatus
		student.OJTStatus = req.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("student_id", student.ID.String()).
		Str("from", string(from)).
		Str("requested", string(req.Status)).
		Str("status", string(student.OJTStatus)).
		Str("actor_role", string(actor.Role)).
		Msg("ojt status updated")
	return student, nil
}

func checkStatusMove(student *types.StudentProfile, to types.OJTStatus) error {
	from := student.OJTStatus
	switch {
	case from == types.OJTStatusCompleted && to != types.OJTStatusCompleted:
		return &apperrors.InvalidTransitionError{
			Entity:  "student",
			From:    string(from),
			To:      string(to),
			Message: "COMPLETED is final",
		}
	case to == types.OJTStatusCompleted && student.OJTHoursCompleted < student.RequiredOJTHours():
		return &apperrors.InvalidTransitionError{
			Entity:  "student",
			From:    string(from),
			To:      string(to),
			Message: fmt.Sprintf("%d of %d required hours completed", student.OJTHoursCompleted, student.RequiredOJTHours()),
		}
	}
	return nil
}
