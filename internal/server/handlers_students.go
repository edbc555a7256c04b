package server

import (
	"net/http"

	"github.com/jonathan/ojt-matcher/internal/types"
)

// handleSetHours lets the student's adviser override completed hours.
func (s *Server) handleSetHours(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	studentID, ok := s.parsePathID(w, r, "id", "student")
	if !ok {
		return
	}

	var req types.SetHoursRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	student, err := s.timesheet.SetHours(r.Context(), studentID, req, actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, student)
}

// handleSetStatus changes a student's OJT status.
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	studentID, ok := s.parsePathID(w, r, "id", "student")
	if !ok {
		return
	}

	var req types.SetStatusRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	student, err := s.timesheet.SetStatus(r.Context(), studentID, req, actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, student)
}

// handleStatistics returns dashboard counts. Staff only.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	if !actor.Role.IsStaff() {
		s.errorResponse(w, http.StatusForbidden, "Statistics are available to staff only")
		return
	}

	stats, err := s.store.Statistics(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}
