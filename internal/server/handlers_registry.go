package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/db"
	"github.com/jonathan/ojt-matcher/internal/types"
)

// handleCreateInternship posts a listing. Coordinators and admins only.
func (s *Server) handleCreateInternship(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	var req types.CreateInternshipRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	listing, err := s.registry.CreateListing(r.Context(), req, actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, listing)
}

// handleSetInternshipActive opens or closes a listing.
func (s *Server) handleSetInternshipActive(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	id, ok := s.parsePathID(w, r, "id", "internship")
	if !ok {
		return
	}

	var req types.SetListingActiveRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	listing, err := s.registry.SetListingActive(r.Context(), id, req, actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, listing)
}

// handleCourseSkills lists the skills offered for a course, for profile forms.
func (s *Server) handleCourseSkills(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.actor(w, r); !ok {
		return
	}
	courseID, ok := s.parsePathID(w, r, "id", "course")
	if !ok {
		return
	}

	skills, err := s.registry.CourseSkills(r.Context(), courseID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, skills)
}

// handleListApplications lists applications, newest first. Students only see
// their own; staff may filter by student, listing and status.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	filter, err := parseApplicationFilter(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if actor.Role == types.RoleStudent {
		if filter.StudentID != nil && *filter.StudentID != actor.ProfileID {
			s.errorResponse(w, http.StatusForbidden, "Students may only access their own records")
			return
		}
		filter.StudentID = &actor.ProfileID
	}

	apps, err := s.store.ListApplications(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if apps == nil {
		apps = []*types.Application{}
	}
	s.jsonResponse(w, http.StatusOK, apps)
}

func parseApplicationFilter(r *http.Request) (db.ApplicationFilter, error) {
	var f db.ApplicationFilter
	q := r.URL.Query()

	for _, p := range []struct {
		key string
		dst **uuid.UUID
	}{
		{"student_id", &f.StudentID},
		{"internship_id", &f.InternshipID},
	} {
		raw := q.Get(p.key)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, &ErrValidation{Field: p.key, Message: "must be a UUID"}
		}
		*p.dst = &id
	}

	if raw := q.Get("status"); raw != "" {
		status := types.ApplicationStatus(strings.ToUpper(raw))
		if !status.Valid() {
			return f, &ErrValidation{Field: "status", Message: "unknown status " + strconv.Quote(raw)}
		}
		f.Status = status
	}
	return f, nil
}

// handleSaveRequiredDocument adds or edits a checklist entry.
func (s *Server) handleSaveRequiredDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	var req types.RequiredDocumentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	doc, err := s.registry.SaveRequiredDocument(r.Context(), req, actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handleUploadDocument records the acting student's file for a checklist entry.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	actor, studentID, ok := s.studentScope(w, r)
	if !ok {
		return
	}
	documentID, ok := s.parsePathID(w, r, "document_id", "document")
	if !ok {
		return
	}

	var req types.UploadDocumentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	upload, err := s.registry.UploadDocument(r.Context(), studentID, documentID, req, actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, upload)
}
