// Package registry maintains the reference data the matcher ranks against:
// listings and their companies, the course and skill catalog, the document
// checklist and student uploads.
package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/catalog"
	"github.com/jonathan/ojt-matcher/internal/types"
	"github.com/rs/zerolog"
)

// Store is the persistence the registry needs. Getters return nil, nil when
// the record does not exist.
type Store interface {
	catalog.Source
	CreateCourse(ctx context.Context, c *types.Course) error
	// EnsureSkills resolves names against cat, creating missing skills scoped
	// to courseID, and refreshes cat when it created any.
	EnsureSkills(ctx context.Context, cat *catalog.Catalog, names []string, courseID *uuid.UUID) ([]types.Skill, error)
	SaveCompany(ctx context.Context, c *types.Company) error
	CreateInternship(ctx context.Context, i *types.Internship) error
	GetInternship(ctx context.Context, id uuid.UUID) (*types.Internship, error)
	SetInternshipActive(ctx context.Context, id uuid.UUID, active bool) error
	GetStudentProfile(ctx context.Context, id uuid.UUID) (*types.StudentProfile, error)
	SaveStudentProfile(ctx context.Context, p *types.StudentProfile) error
	SaveAdviser(ctx context.Context, a *types.Adviser) error
	ListRequiredDocuments(ctx context.Context) ([]types.RequiredDocument, error)
	SaveRequiredDocument(ctx context.Context, d *types.RequiredDocument) error
	UploadStudentDocument(ctx context.Context, d *types.StudentDocument) error
}

// Service implements listing management, catalog lookups and the document checklist.
type Service struct {
	store  Store
	logger zerolog.Logger

	mu  sync.Mutex
	cat *catalog.Catalog
}

// NewService creates a registry service. A nil cat is loaded from store on first use.
func NewService(store Store, cat *catalog.Catalog, logger zerolog.Logger) *Service {
	return &Service{store: store, cat: cat, logger: logger}
}

func (s *Service) catalog(ctx context.Context) (*catalog.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cat == nil {
		cat, err := catalog.Load(ctx, s.store)
		if err != nil {
			return nil, err
		}
		s.cat = cat
	}
	return s.cat, nil
}

// course looks id up, refreshing the snapshot once on a miss so courses
// created by another process are found.
func (s *Service) course(ctx context.Context, cat *catalog.Catalog, id uuid.UUID) (types.Course, error) {
	if c, ok := cat.Course(id); ok {
		return c, nil
	}
	if err := cat.Refresh(ctx, s.store); err != nil {
		return types.Course{}, err
	}
	if c, ok := cat.Course(id); ok {
		return c, nil
	}
	return types.Course{}, apperrors.NotFound("course", id)
}

func canManage(actor types.Actor) bool {
	return actor.Role == types.RoleCoordinator || actor.Role == types.RoleAdmin
}

// skillScope returns the course new skills are scoped to: the only course
// when there is exactly one, otherwise none.
func skillScope(courses []types.Course) *uuid.UUID {
	if len(courses) != 1 {
		return nil
	}
	id := courses[0].ID
	return &id
}

// CreateListing saves the company and posts a listing. Course IDs must exist;
// skill names missing from the catalog are created.
func (s *Service) CreateListing(ctx context.Context, req types.CreateInternshipRequest, actor types.Actor) (*types.Internship, error) {
	if !canManage(actor) {
		return nil, apperrors.Forbidden("internship", "only coordinators and admins manage listings")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	courses := make([]types.Course, 0, len(req.CourseIDs))
	seen := make(map[uuid.UUID]bool, len(req.CourseIDs))
	for _, id := range req.CourseIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		c, err := s.course(ctx, cat, id)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	skills, err := s.store.EnsureSkills(ctx, cat, catalog.ParseSkillList(req.Skills), skillScope(courses))
	if err != nil {
		return nil, err
	}

	company := *req.Company
	company.Name = strings.TrimSpace(company.Name)
	if err := s.store.SaveCompany(ctx, &company); err != nil {
		return nil, err
	}

	listing := &types.Internship{
		Company:            company,
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		RecommendedCourses: courses,
		RequiredSkills:     skills,
		IsActive:           req.IsActive == nil || *req.IsActive,
		SlotsAvailable:     req.SlotsAvailable,
	}
	if err := s.store.CreateInternship(ctx, listing); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("internship_id", listing.ID.String()).
		Str("company", company.Name).
		Int("skills", len(skills)).
		Msg("listing created")
	return listing, nil
}

// SetListingActive opens or closes a listing. Closed listings drop out of
// matching and refuse new applications.
func (s *Service) SetListingActive(ctx context.Context, id uuid.UUID, req types.SetListingActiveRequest, actor types.Actor) (*types.Internship, error) {
	if !canManage(actor) {
		return nil, apperrors.Forbidden("internship", "only coordinators and admins manage listings")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	listing, err := s.store.GetInternship(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load internship: %w", err)
	}
	if listing == nil {
		return nil, apperrors.NotFound("internship", id)
	}
	if err := s.store.SetInternshipActive(ctx, id, *req.Active); err != nil {
		return nil, err
	}
	listing.IsActive = *req.Active

	s.logger.Info().Str("internship_id", id.String()).Bool("active", listing.IsActive).Msg("listing updated")
	return listing, nil
}

// CourseSkills returns the skills scoped to a course, sorted by name.
func (s *Service) CourseSkills(ctx context.Context, courseID uuid.UUID) ([]types.Skill, error) {
	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.course(ctx, cat, courseID); err != nil {
		return nil, err
	}
	skills := cat.SkillsForCourse(courseID)
	if skills == nil {
		skills = []types.Skill{}
	}
	return skills, nil
}

// SaveRequiredDocument adds or edits a checklist entry. Entries are required
// unless IsRequired is false.
func (s *Service) SaveRequiredDocument(ctx context.Context, req types.RequiredDocumentRequest, actor types.Actor) (*types.RequiredDocument, error) {
	if !canManage(actor) {
		return nil, apperrors.Forbidden("document", "only coordinators and admins edit the checklist")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	doc := &types.RequiredDocument{
		ID:           req.ID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		IsRequired:   req.IsRequired == nil || *req.IsRequired,
		TemplateFile: req.TemplateFile,
	}
	if err := s.store.SaveRequiredDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// UploadDocument records a student's file for a checklist entry, replacing an
// earlier upload and clearing its approval. Only the student may upload.
func (s *Service) UploadDocument(ctx context.Context, studentID, documentID uuid.UUID, req types.UploadDocumentRequest, actor types.Actor) (*types.StudentDocument, error) {
	if actor.Role != types.RoleStudent || actor.ProfileID != studentID {
		return nil, apperrors.Forbidden("document", "students upload their own documents")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	student, err := s.store.GetStudentProfile(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return nil, apperrors.NotFound("student", studentID)
	}
	docs, err := s.store.ListRequiredDocuments(ctx)
	if err != nil {
		return nil, err
	}
	if !hasDocument(docs, documentID) {
		return nil, apperrors.NotFound("document", documentID)
	}

	upload := &types.StudentDocument{StudentID: studentID, DocumentTypeID: documentID, File: req.File}
	if err := s.store.UploadStudentDocument(ctx, upload); err != nil {
		return nil, err
	}
	return upload, nil
}

func hasDocument(docs []types.RequiredDocument, id uuid.UUID) bool {
	for _, d := range docs {
		if d.ID == id {
			return true
		}
	}
	return false
}
