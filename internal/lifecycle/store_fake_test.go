package lifecycle

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/types"
)

type appKey struct {
	student    uuid.UUID
	internship uuid.UUID
}

// fakeStore is an in-memory Store with a unique (student, internship) index.
type fakeStore struct {
	mu           sync.Mutex
	students     map[uuid.UUID]*types.StudentProfile
	internships  []*types.Internship
	applications map[uuid.UUID]*types.Application
	byPair       map[appKey]uuid.UUID

	// hideApplied makes HasApplied report false, simulating a racing request.
	hideApplied bool
	failList    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		students:     make(map[uuid.UUID]*types.StudentProfile),
		applications: make(map[uuid.UUID]*types.Application),
		byPair:       make(map[appKey]uuid.UUID),
	}
}

func (f *fakeStore) addStudent(p *types.StudentProfile) { f.students[p.ID] = p }

func (f *fakeStore) addInternship(i *types.Internship) { f.internships = append(f.internships, i) }

func (f *fakeStore) GetStudentProfile(_ context.Context, id uuid.UUID) (*types.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.students[id], nil
}

func (f *fakeStore) GetInternship(_ context.Context, id uuid.UUID) (*types.Internship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range f.internships {
		if i.ID == id {
			return i, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListActiveInternships(_ context.Context) ([]*types.Internship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	var out []*types.Internship
	for _, i := range f.internships {
		if i.IsActive {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeStore) HasApplied(_ context.Context, studentID, internshipID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hideApplied {
		return false, nil
	}
	_, ok := f.byPair[appKey{studentID, internshipID}]
	return ok, nil
}

func (f *fakeStore) AppliedInternshipIDs(_ context.Context, studentID uuid.UUID) (map[uuid.UUID]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uuid.UUID]bool)
	for k := range f.byPair {
		if k.student == studentID {
			out[k.internship] = true
		}
	}
	return out, nil
}

func (f *fakeStore) CreateApplication(_ context.Context, app *types.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := appKey{app.StudentID, app.InternshipID}
	if _, ok := f.byPair[key]; ok {
		return apperrors.ErrConflict
	}
	cp := *app
	f.applications[app.ID] = &cp
	f.byPair[key] = app.ID
	return nil
}

func (f *fakeStore) GetApplication(_ context.Context, id uuid.UUID) (*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.applications[id]
	if !ok {
		return nil, nil
	}
	cp := *app
	return &cp, nil
}

func (f *fakeStore) UpdateApplicationStatus(_ context.Context, id uuid.UUID, from, to types.ApplicationStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.applications[id]
	if !ok {
		return false, errors.New("no such application")
	}
	if app.Status != from {
		return false, nil
	}
	app.Status = to
	return true, nil
}

func (f *fakeStore) applicationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.applications)
}
