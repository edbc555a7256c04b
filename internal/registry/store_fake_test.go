package registry

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/catalog"
	"github.com/jonathan/ojt-matcher/internal/types"
)

// fakeStore is an in-memory Store. Courses are unique by code and skills by
// normalized name, as in the database.
type fakeStore struct {
	mu          sync.Mutex
	courses     []types.Course
	skills      []types.Skill
	companies   map[uuid.UUID]types.Company
	internships map[uuid.UUID]*types.Internship
	students    map[uuid.UUID]*types.StudentProfile
	advisers    map[uuid.UUID]*types.Adviser
	documents   []types.RequiredDocument
	uploads     map[[2]uuid.UUID]*types.StudentDocument

	courseLoads int
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		companies:   make(map[uuid.UUID]types.Company),
		internships: make(map[uuid.UUID]*types.Internship),
		students:    make(map[uuid.UUID]*types.StudentProfile),
		advisers:    make(map[uuid.UUID]*types.Adviser),
		uploads:     make(map[[2]uuid.UUID]*types.StudentDocument),
	}
}

func (f *fakeStore) ListCourses(context.Context) ([]types.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courseLoads++
	return append([]types.Course(nil), f.courses...), nil
}

func (f *fakeStore) ListSkills(context.Context) ([]types.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Skill(nil), f.skills...), nil
}

func (f *fakeStore) CreateCourse(_ context.Context, c *types.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = uuid.New()
	if c.RequiredOJTHours <= 0 {
		c.RequiredOJTHours = types.DefaultRequiredOJTHours
	}
	f.courses = append(f.courses, *c)
	return nil
}

func (f *fakeStore) EnsureSkills(ctx context.Context, cat *catalog.Catalog, names []string, courseID *uuid.UUID) ([]types.Skill, error) {
	existing, missing := cat.ResolveSkillNames(names)
	if len(missing) == 0 {
		return existing, nil
	}
	f.mu.Lock()
	for _, name := range missing {
		s := types.Skill{ID: uuid.New(), Name: name, CourseID: courseID}
		f.skills = append(f.skills, s)
		existing = append(existing, s)
	}
	f.mu.Unlock()
	if err := cat.Refresh(ctx, f); err != nil {
		return nil, err
	}
	return existing, nil
}

func (f *fakeStore) SaveCompany(_ context.Context, c *types.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.companies[c.ID] = *c
	return nil
}

func (f *fakeStore) CreateInternship(_ context.Context, i *types.Internship) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	cp := *i
	f.internships[i.ID] = &cp
	return nil
}

func (f *fakeStore) GetInternship(_ context.Context, id uuid.UUID) (*types.Internship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.internships[id]
	if !ok {
		return nil, nil
	}
	cp := *i
	return &cp, nil
}

func (f *fakeStore) SetInternshipActive(_ context.Context, id uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.internships[id]; ok {
		i.IsActive = active
	}
	return nil
}

func (f *fakeStore) GetStudentProfile(_ context.Context, id uuid.UUID) (*types.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.students[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) SaveStudentProfile(_ context.Context, p *types.StudentProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.OJTStatus == "" {
		p.OJTStatus = types.OJTStatusLooking
	}
	cp := *p
	f.students[p.ID] = &cp
	return nil
}

func (f *fakeStore) SaveAdviser(_ context.Context, a *types.Adviser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	f.advisers[a.ID] = &cp
	return nil
}

func (f *fakeStore) ListRequiredDocuments(context.Context) ([]types.RequiredDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.RequiredDocument(nil), f.documents...), nil
}

func (f *fakeStore) SaveRequiredDocument(_ context.Context, d *types.RequiredDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	for i := range f.documents {
		if f.documents[i].ID == d.ID {
			f.documents[i] = *d
			return nil
		}
	}
	f.documents = append(f.documents, *d)
	return nil
}

func (f *fakeStore) UploadStudentDocument(_ context.Context, d *types.StudentDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uuid.UUID{d.StudentID, d.DocumentTypeID}
	if prev, ok := f.uploads[key]; ok {
		d.ID = prev.ID
	} else if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.Approved = false
	cp := *d
	f.uploads[key] = &cp
	return nil
}
