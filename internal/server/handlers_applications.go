package server

import (
	"net/http"

	"github.com/jonathan/ojt-matcher/internal/types"
)

// handleApply submits the acting student's application to a listing.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	if actor.Role != types.RoleStudent {
		s.errorResponse(w, http.StatusForbidden, "Only students can apply")
		return
	}
	internshipID, ok := s.parsePathID(w, r, "id", "internship")
	if !ok {
		return
	}

	app, err := s.lifecycle.Apply(r.Context(), actor.ProfileID, internshipID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, app)
}

// handleUpdateApplicationStatus moves an application to a new status.
func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	appID, ok := s.parsePathID(w, r, "id", "application")
	if !ok {
		return
	}

	var req types.UpdateApplicationStatusRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	app, err := s.lifecycle.UpdateStatus(r.Context(), appID, req.Status, actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}
