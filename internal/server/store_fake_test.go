package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/catalog"
	"github.com/jonathan/ojt-matcher/internal/db"
	"github.com/jonathan/ojt-matcher/internal/progress"
	"github.com/jonathan/ojt-matcher/internal/timesheet"
	"github.com/jonathan/ojt-matcher/internal/types"
)

type pairKey struct {
	a, b uuid.UUID
}

// fakeStore is an in-memory Store covering both services plus the read-only
// queries the handlers make directly.
type fakeStore struct {
	mu           sync.Mutex
	students     map[uuid.UUID]*types.StudentProfile
	advisers     []*types.Adviser
	internships  []*types.Internship
	applications map[uuid.UUID]*types.Application
	appPairs     map[pairKey]bool
	dtrs         map[uuid.UUID]*types.DTR
	dtrWeeks     map[pairKey]bool
	required     []types.RequiredDocument
	uploaded     []types.StudentDocument
	courses      []types.Course
	skills       []types.Skill
	pingErr      error
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		students:     make(map[uuid.UUID]*types.StudentProfile),
		applications: make(map[uuid.UUID]*types.Application),
		appPairs:     make(map[pairKey]bool),
		dtrs:         make(map[uuid.UUID]*types.DTR),
		dtrWeeks:     make(map[pairKey]bool),
	}
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
	out := *stored
	return &out, nil
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
	return f.appPairs[pairKey{studentID, internshipID}], nil
}

func (f *fakeStore) AppliedInternshipIDs(_ context.Context, studentID uuid.UUID) (map[uuid.UUID]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uuid.UUID]bool)
	for k := range f.appPairs {
		if k.a == studentID {
			out[k.b] = true
		}
	}
	return out, nil
}

func (f *fakeStore) CreateApplication(_ context.Context, app *types.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey{app.StudentID, app.InternshipID}
	if f.appPairs[key] {
		return apperrors.ErrConflict
	}
	cp := *app
	f.applications[app.ID] = &cp
	f.appPairs[key] = true
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
	if !ok || app.Status != from {
		return false, nil
	}
	app.Status = to
	return true, nil
}

func (f *fakeStore) CreateDTR(_ context.Context, dtr *types.DTR) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey{dtr.StudentID, uuid.NewSHA1(uuid.Nil, []byte(dtr.WeekStart.Format(time.DateOnly)))}
	if f.dtrWeeks[key] {
		return apperrors.ErrConflict
	}
	f.dtrWeeks[key] = true
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

func (f *fakeStore) listDTRs(match func(*types.DTR) bool) []*types.DTR {
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
	return f.listDTRs(func(d *types.DTR) bool { return d.AdviserID == adviserID }), nil
}

func (f *fakeStore) ListDTRsForStudent(_ context.Context, studentID uuid.UUID) ([]*types.DTR, error) {
	return f.listDTRs(func(d *types.DTR) bool { return d.StudentID == studentID }), nil
}

func (f *fakeStore) ApproveDTR(_ context.Context, id uuid.UUID, remarks string, at time.Time) (*timesheet.CreditResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.dtrs[id]
	if !ok {
		return nil, apperrors.NotFound("dtr", id)
	}
	d.Approved = true
	d.Remarks = remarks
	d.ReviewedAt = &at

	student := f.students[d.StudentID]
	res := &timesheet.CreditResult{}
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
	d, ok := f.dtrs[id]
	if !ok {
		return nil, apperrors.NotFound("dtr", id)
	}
	d.Approved = false
	d.Remarks = remarks
	d.ReviewedAt = &at
	cp := *d
	return &cp, nil
}

func (f *fakeStore) FindFor(_ context.Context, student *types.StudentProfile) (*types.Adviser, error) {
	for _, a := range f.advisers {
		if a.Handles(student) {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetAdviser(_ context.Context, id uuid.UUID) (*types.Adviser, error) {
	for _, a := range f.advisers {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListRequiredDocuments(context.Context) ([]types.RequiredDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.RequiredDocument(nil), f.required...), nil
}

func (f *fakeStore) ListStudentDocuments(_ context.Context, studentID uuid.UUID) ([]types.StudentDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.StudentDocument
	for _, d := range f.uploaded {
		if d.StudentID == studentID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) Statistics(context.Context) (*db.Statistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &db.Statistics{
		StudentsByStatus:     make(map[string]int),
		ApplicationsByStatus: make(map[string]int),
	}
	for _, s := range f.students {
		stats.StudentsByStatus[string(s.OJTStatus)]++
		stats.TotalStudents++
	}
	for _, a := range f.applications {
		stats.ApplicationsByStatus[string(a.Status)]++
		stats.TotalApplications++
	}
	for _, i := range f.internships {
		if i.IsActive {
			stats.ActiveInternships++
		}
	}
	for _, d := range f.dtrs {
		if d.ReviewedAt == nil {
			stats.PendingDTRs++
		}
	}
	return stats, nil
}

func (f *fakeStore) ListApplications(_ context.Context, filter db.ApplicationFilter) ([]*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Application
	for _, a := range f.applications {
		if filter.StudentID != nil && a.StudentID != *filter.StudentID {
			continue
		}
		if filter.InternshipID != nil && a.InternshipID != *filter.InternshipID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out, nil
}

func (f *fakeStore) ListCourses(context.Context) ([]types.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
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
	return existing, cat.Refresh(ctx, f)
}

func (f *fakeStore) SaveCompany(_ context.Context, c *types.Company) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (f *fakeStore) CreateInternship(_ context.Context, i *types.Internship) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	cp := *i
	f.internships = append(f.internships, &cp)
	return nil
}

func (f *fakeStore) SetInternshipActive(_ context.Context, id uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range f.internships {
		if i.ID == id {
			i.IsActive = active
		}
	}
	return nil
}

func (f *fakeStore) SaveStudentProfile(_ context.Context, p *types.StudentProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.students[p.ID] = &cp
	return nil
}

func (f *fakeStore) SaveAdviser(_ context.Context, a *types.Adviser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advisers = append(f.advisers, a)
	return nil
}

func (f *fakeStore) SaveRequiredDocument(_ context.Context, d *types.RequiredDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	f.required = append(f.required, *d)
	return nil
}

func (f *fakeStore) UploadStudentDocument(_ context.Context, d *types.StudentDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	f.uploaded = append(f.uploaded, *d)
	return nil
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) Close() {}
