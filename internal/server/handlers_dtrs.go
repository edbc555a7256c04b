package server

import (
	"net/http"

	"github.com/jonathan/ojt-matcher/internal/types"
)

// handleSubmitDTR records the acting student's weekly time record.
func (s *Server) handleSubmitDTR(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	if actor.Role != types.RoleStudent {
		s.errorResponse(w, http.StatusForbidden, "Only students can submit DTRs")
		return
	}

	var req types.SubmitDTRRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	dtr, err := s.timesheet.Submit(r.Context(), actor.ProfileID, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, dtr)
}

// handleReviewDTR approves or rejects a DTR.
func (s *Server) handleReviewDTR(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	dtrID, ok := s.parsePathID(w, r, "id", "DTR")
	if !ok {
		return
	}

	var req types.ReviewDTRRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	dtr, err := s.timesheet.Review(r.Context(), dtrID, req, actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, dtr)
}

// handleAdviserInbox lists the DTRs addressed to the acting adviser.
func (s *Server) handleAdviserInbox(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	dtrs, err := s.timesheet.Inbox(r.Context(), actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"dtrs":  nonNil(dtrs),
		"total": len(dtrs),
	})
}

// handleStudentDTRs lists a student's DTRs.
func (s *Server) handleStudentDTRs(w http.ResponseWriter, r *http.Request) {
	actor, studentID, ok := s.studentScope(w, r)
	if !ok {
		return
	}

	dtrs, err := s.timesheet.History(r.Context(), studentID, actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"dtrs":  nonNil(dtrs),
		"total": len(dtrs),
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
