package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/matching"
	"github.com/jonathan/ojt-matcher/internal/progress"
	"github.com/jonathan/ojt-matcher/internal/types"
	"golang.org/x/sync/errgroup"
)

// EligibilityResponse is the result of an apply pre-check.
type EligibilityResponse struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ScoreResponse is a score breakdown in API form.
type ScoreResponse struct {
	matching.Breakdown
	SkillPct  int `json:"skill_pct"`
	CoursePct int `json:"course_pct"`
	MapPct    int `json:"map_pct"`
}

// handleMatches returns one page of the student's ranked candidates.
func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	_, studentID, ok := s.studentScope(w, r)
	if !ok {
		return
	}

	seq, err := s.lifecycle.Candidates(r.Context(), studentID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	page := parseQueryInt(r, "page", 1)
	s.jsonResponse(w, http.StatusOK, matching.Paginate(seq, page, s.pageSize))
}

// handleScore scores one listing for the student with the requested strategy.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	_, studentID, ok := s.studentScope(w, r)
	if !ok {
		return
	}
	internshipID, ok := s.parsePathID(w, r, "internship_id", "internship")
	if !ok {
		return
	}
	name := r.URL.Query().Get("strategy")
	strategy, ok := matching.StrategyByName(name)
	if !ok {
		s.writeError(w, &ErrValidation{Field: "strategy", Message: "unknown strategy " + strconv.Quote(name)})
		return
	}

	b, err := s.lifecycle.Score(r.Context(), studentID, internshipID, strategy)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ScoreResponse{
		Breakdown: b,
		SkillPct:  b.SkillPct(),
		CoursePct: b.CoursePct(),
		MapPct:    b.MapPct(),
	})
}

// handleEligibility reports whether the student may apply to the listing.
func (s *Server) handleEligibility(w http.ResponseWriter, r *http.Request) {
	_, studentID, ok := s.studentScope(w, r)
	if !ok {
		return
	}
	internshipID, ok := s.parsePathID(w, r, "internship_id", "internship")
	if !ok {
		return
	}

	err := s.lifecycle.CanApply(r.Context(), studentID, internshipID)
	if err == nil {
		s.jsonResponse(w, http.StatusOK, EligibilityResponse{Eligible: true})
		return
	}
	if reason, denied := apperrors.DenialReasonOf(err); denied {
		s.jsonResponse(w, http.StatusOK, EligibilityResponse{
			Reason:  string(reason),
			Message: reason.Message(),
		})
		return
	}
	s.writeError(w, err)
}

// handleProgress returns hours, document and profile completion for the student.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	_, studentID, ok := s.studentScope(w, r)
	if !ok {
		return
	}

	var (
		student  *types.StudentProfile
		required []types.RequiredDocument
		uploaded []types.StudentDocument
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		student, err = s.store.GetStudentProfile(ctx, studentID)
		return err
	})
	g.Go(func() (err error) {
		required, err = s.store.ListRequiredDocuments(ctx)
		return err
	})
	g.Go(func() (err error) {
		uploaded, err = s.store.ListStudentDocuments(ctx, studentID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.writeError(w, err)
		return
	}
	if student == nil {
		s.writeError(w, apperrors.NotFound("student", studentID))
		return
	}

	s.jsonResponse(w, http.StatusOK, progress.Summarize(student, required, uploaded))
}
