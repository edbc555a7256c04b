package lifecycle

import (
	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/types"
)

// transitions lists the allowed status moves. REJECTED and COMPLETED are terminal.
var transitions = map[types.ApplicationStatus][]types.ApplicationStatus{
	types.ApplicationPending:  {types.ApplicationAccepted, types.ApplicationRejected},
	types.ApplicationAccepted: {types.ApplicationCompleted},
}

// CanTransition reports whether an application may move from one status to another.
func CanTransition(from, to types.ApplicationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s in one step.
func NextStatuses(s types.ApplicationStatus) []types.ApplicationStatus {
	return append([]types.ApplicationStatus(nil), transitions[s]...)
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s types.ApplicationStatus) bool {
	return s.Valid() && len(transitions[s]) == 0
}

// Policy decides whether an actor may move an application to status to.
type Policy func(actor types.Actor, app *types.Application, to types.ApplicationStatus) bool

// DefaultPolicy lets staff make any move. A student may only withdraw their
// own pending application.
func DefaultPolicy(actor types.Actor, app *types.Application, to types.ApplicationStatus) bool {
	if actor.Role.IsStaff() {
		return true
	}
	return actor.Role == types.RoleStudent &&
		actor.ProfileID == app.StudentID &&
		app.Status == types.ApplicationPending &&
		to == types.ApplicationRejected
}

func checkTransition(from, to types.ApplicationStatus) error {
	if !to.Valid() {
		return &apperrors.InvalidTransitionError{
			Entity:  "application",
			From:    string(from),
			To:      string(to),
			Message: "unknown status",
		}
	}
	if !CanTransition(from, to) {
		return &apperrors.InvalidTransitionError{
			Entity:  "application",
			From:    string(from),
			To:      string(to),
			Message: "not an allowed transition",
		}
	}
	return nil
}
