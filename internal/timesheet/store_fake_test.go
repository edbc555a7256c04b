package timesheet

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/progress"
	"github.com/jonathan/ojt-matcher/internal/types"
)

type weekKey struct {
	student uuid.UUID
	week    string
}

type fakeStore struct {
	mu       sync.Mutex
	students map[uuid.UUID]*types.StudentProfile
	dtrs     map[uuid.UUID]*types.DTR
	weeks    map[weekKey]bool
	saves    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		students: make(map[uuid.UUID]*types.StudentProfile),
		dtrs:     make(map[uuid.UUID]*types.DTR),
		weeks:    make(map[weekKey]bool),
	}
}

func (f *fakeStore) addStudent(p *types.StudentProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.students[p.ID] = &cp
}

func (f *fakeStore) student(id uuid.UUID) types.StudentProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.students[id]
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

func (f *fakeStore) UpdateStudentProgress(_ context.Context, id uuid.UUID, fn func(*types.StudentProfile) error) (*types.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.students[id]
	if !ok {
		return nil, nil
	}
	cp := *stored
	if err := fn(&cp); err != nil {
		return nil, err
	}
	progress.RecomputeOnSave(&cp)
	stored.OJTHoursCompleted = cp.OJTHoursCompleted
	stored.OJTStatus = cp.OJTStatus
	f.saves++
	out := *stored
	return &out, nil
}

func (f *fakeStore) CreateDTR(_ context.Context, dtr *types.DTR) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := weekKey{dtr.StudentID, dtr.WeekStart.Format(time.DateOnly)}
	if f.weeks[key] {
		return apperrors.ErrConflict
	}
	f.weeks[key] = true
	cp := *dtr
	f.dtrs[dtr.ID] = &cp
	return nil
}

func (f *fakeStore) GetDTR(_ context.Context, id uuid.UUID) (*types.DTR, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.dtrs[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeStore) list(match func(*types.DTR) bool) []*types.DTR {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.DTR
	for _, d := range f.dtrs {
		if match(d) {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.After(out[j].WeekStart) })
	return out
}

func (f *fakeStore) ListDTRsForAdviser(_ context.Context, adviserID uuid.UUID) ([]*types.DTR, error) {
	return f.list(func(d *types.DTR) bool { return d.AdviserID == adviserID }), nil
}

func (f *fakeStore) ListDTRsForStudent(_ context.Context, studentID uuid.UUID) ([]*types.DTR, error) {
	return f.list(func(d *types.DTR) bool { return d.StudentID == studentID }), nil
}

func (f *fakeStore) ApproveDTR(_ context.Context, id uuid.UUID, remarks string, at time.Time) (*CreditResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.dtrs[id]
	d.Approved = true
	d.Remarks = remarks
	d.ReviewedAt = &at

	student := f.students[d.StudentID]
	res := &CreditResult{}
	if !d.HoursCredited {
		d.HoursCredited = true
		student.OJTHoursCompleted += d.HoursRendered
		res.StatusChanged = progress.RecomputeOnSave(student)
		res.Credited = true
	}

	dcp, scp := *d, *student
	res.DTR, res.Student = &dcp, &scp
	return res, nil
}

func (f *fakeStore) RejectDTR(_ context.Context, id uuid.UUID, remarks string, at time.Time) (*types.DTR, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.dtrs[id]
	d.Approved = false
	d.Remarks = remarks
	d.ReviewedAt = &at
	cp := *d
	return &cp, nil
}

type fakeDirectory struct {
	advisers []*types.Adviser
}

func (f *fakeDirectory) FindFor(_ context.Context, student *types.StudentProfile) (*types.Adviser, error) {
	for _, a := range f.advisers {
		if a.Handles(student) {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) GetAdviser(_ context.Context, id uuid.UUID) (*types.Adviser, error) {
	for _, a := range f.advisers {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}
