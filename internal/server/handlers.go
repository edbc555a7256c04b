package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/server/middleware"
	"github.com/jonathan/ojt-matcher/internal/types"
)

// parsePathID parses a UUID path value, writing a 400 on failure.
func (s *Server) parsePathID(w http.ResponseWriter, r *http.Request, key, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(key))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+entity+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseQueryInt parses an integer query parameter, falling back to defaultValue.
func parseQueryInt(r *http.Request, key string, defaultValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultValue
	}
	return val
}

// actor returns the authenticated actor, writing a 401 when there is none.
func (s *Server) actor(w http.ResponseWriter, r *http.Request) (types.Actor, bool) {
	actor, err := middleware.GetActor(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return types.Actor{}, false
	}
	return actor, true
}

// studentScope resolves the {id} student and checks the actor may see it:
// students only themselves, staff anyone.
func (s *Server) studentScope(w http.ResponseWriter, r *http.Request) (types.Actor, uuid.UUID, bool) {
	actor, ok := s.actor(w, r)
	if !ok {
		return actor, uuid.Nil, false
	}
	studentID, ok := s.parsePathID(w, r, "id", "student")
	if !ok {
		return actor, uuid.Nil, false
	}
	if !actor.Role.IsStaff() && actor.ProfileID != studentID {
		s.errorResponse(w, http.StatusForbidden, "Students may only access their own records")
		return actor, uuid.Nil, false
	}
	return actor, studentID, true
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
