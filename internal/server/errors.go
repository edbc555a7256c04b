package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/ojt-matcher/internal/apperrors"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		denied     *apperrors.EligibilityDeniedError
		dupWeek    *apperrors.DuplicateWeekError
		transition *apperrors.InvalidTransitionError
		notFound   *apperrors.NotFoundError
		invalid    *ErrValidation
		fields     validator.ValidationErrors
	)

	switch {
	case errors.As(err, &denied):
		switch denied.Reason {
		case apperrors.ReasonProfileIncomplete, apperrors.ReasonMissingCV:
			return http.StatusUnprocessableEntity
		default:
			return http.StatusConflict
		}
	case errors.As(err, &dupWeek):
		return http.StatusConflict
	case errors.As(err, &transition):
		if transition.Forbidden {
			return http.StatusForbidden
		}
		return http.StatusConflict
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrNoAdviser):
		return http.StatusUnprocessableEntity
	case errors.As(err, &invalid), errors.As(err, &fields):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and writes it. Internal errors are logged
// and replaced with a generic message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
		s.errorResponse(w, status, "Internal server error")
		return
	}

	if reason, ok := apperrors.DenialReasonOf(err); ok {
		s.jsonResponse(w, status, map[string]string{
			"error":  reason.Message(),
			"reason": string(reason),
		})
		return
	}
	s.errorResponse(w, status, err.Error())
}
