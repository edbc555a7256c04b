package timesheet

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetHours(t *testing.T) {
	f := newFixture(t, 100, types.OJTStatusOngoing)

	got, err := f.svc.SetHours(context.Background(), f.student.ID, types.SetHoursRequest{Hours: 180}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, 180, got.OJTHoursCompleted)
	assert.Equal(t, types.OJTStatusOngoing, got.OJTStatus)
	assert.Equal(t, 180, f.store.student(f.student.ID).OJTHoursCompleted)
}

func TestSetHours_Completes(t *testing.T) {
	f := newFixture(t, 100, types.OJTStatusOngoing)

	got, err := f.svc.SetHours(context.Background(), f.student.ID, types.SetHoursRequest{Hours: 320}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, types.OJTStatusCompleted, got.OJTStatus)
	assert.Equal(t, types.OJTStatusCompleted, f.store.student(f.student.ID).OJTStatus)
}

func TestSetHours_Rules(t *testing.T) {
	f := newFixture(t, 100, types.OJTStatusOngoing)

	_, err := f.svc.SetHours(context.Background(), f.student.ID, types.SetHoursRequest{Hours: -5}, f.actor)
	assert.Error(t, err)

	_, err = f.svc.SetHours(context.Background(), f.student.ID, types.SetHoursRequest{Hours: 5}, types.Actor{Role: types.RoleStudent, ProfileID: f.student.ID})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	// Adviser for another section
	other := &types.Adviser{ID: uuid.New(), CourseIDs: []uuid.UUID{bsit.ID}, Sections: []string{"3C"}}
	f.svc.directory.(*fakeDirectory).advisers = append(f.svc.directory.(*fakeDirectory).advisers, other)
	_, err = f.svc.SetHours(context.Background(), f.student.ID, types.SetHoursRequest{Hours: 5}, types.Actor{Role: types.RoleAdviser, ProfileID: other.ID})
	var ite *apperrors.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.True(t, ite.Forbidden)

	assert.Equal(t, 100, f.store.student(f.student.ID).OJTHoursCompleted)
}

func TestSetHours_NotOngoing(t *testing.T) {
	f := newFixture(t, 0, types.OJTStatusLooking)

	_, err := f.svc.SetHours(context.Background(), f.student.ID, types.SetHoursRequest{Hours: 40}, f.actor)
	var ite *apperrors.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.False(t, ite.Forbidden)
	assert.Equal(t, "LOOKING", ite.From)
}

func TestSetStatus_Student(t *testing.T) {
	f := newFixture(t, 0, types.OJTStatusLooking)
	self := types.Actor{Role: types.RoleStudent, ProfileID: f.student.ID}

	got, err := f.svc.SetStatus(context.Background(), f.student.ID, types.SetStatusRequest{Status: types.OJTStatusWaiting}, self)
	require.NoError(t, err)
	assert.Equal(t, types.OJTStatusWaiting, got.OJTStatus)

	_, err = f.svc.SetStatus(context.Background(), f.student.ID, types.SetStatusRequest{Status: types.OJTStatusCompleted}, self)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = f.svc.SetStatus(context.Background(), f.student.ID, types.SetStatusRequest{Status: types.OJTStatusOngoing}, types.Actor{Role: types.RoleStudent, ProfileID: uuid.New()})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	assert.Equal(t, types.OJTStatusWaiting, f.store.student(f.student.ID).OJTStatus)
}

func TestSetStatus_Adviser(t *testing.T) {
	f := newFixture(t, 0, types.OJTStatusOngoing)

	got, err := f.svc.SetStatus(context.Background(), f.student.ID, types.SetStatusRequest{Status: types.OJTStatusWaiting}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, types.OJTStatusWaiting, got.OJTStatus)

	got, err = f.svc.SetStatus(context.Background(), f.student.ID, types.SetStatusRequest{Status: types.OJTStatusOngoing}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, types.OJTStatusOngoing, got.OJTStatus)
}

func TestSetStatus_CompletedNeedsHours(t *testing.T) {
	f := newFixture(t, 0, types.OJTStatusOngoing)

	_, err := f.svc.SetStatus(context.Background(), f.student.ID, types.SetStatusRequest{Status: types.OJTStatusCompleted}, f.actor)
	var ite *apperrors.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.False(t, ite.Forbidden)
	assert.Equal(t, "COMPLETED", ite.To)

	stored := f.store.student(f.student.ID)
	assert.Equal(t, types.OJTStatusOngoing, stored.OJTStatus)
	assert.Equal(t, 0, stored.OJTHoursCompleted)
	assert.Zero(t, f.store.saves)
}

func TestSetStatus_CompletedWithHours(t *testing.T) {
	f := newFixture(t, 320, types.OJTStatusOngoing)

	got, err := f.svc.SetStatus(context.Background(), f.student.ID, types.SetStatusRequest{Status: types.OJTStatusCompleted}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, types.OJTStatusCompleted, got.OJTStatus)
}

func TestSetStatus_CompletedIsFinal(t *testing.T) {
	f := newFixture(t, 300, types.OJTStatusCompleted)
	self := types.Actor{Role: types.RoleStudent, ProfileID: f.student.ID}

	for _, actor := range []types.Actor{self, f.actor} {
		_, err := f.svc.SetStatus(context.Background(), f.student.ID, types.SetStatusRequest{Status: types.OJTStatusOngoing}, actor)
		var ite *apperrors.InvalidTransitionError
		require.ErrorAs(t, err, &ite)
		assert.Equal(t, "COMPLETED", ite.From)
	}
	assert.Equal(t, types.OJTStatusCompleted, f.store.student(f.student.ID).OJTStatus)
}

func TestSetStatus_NotFound(t *testing.T) {
	f := newFixture(t, 0, types.OJTStatusOngoing)

	_, err := f.svc.SetStatus(context.Background(), uuid.New(), types.SetStatusRequest{Status: types.OJTStatusWaiting}, f.actor)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOverrides_KeepConcurrentCredits(t *testing.T) {
	f := newFixture(t, 100, types.OJTStatusOngoing)

	var dtrs []*types.DTR
	for day := 1; day <= 5; day++ {
		dtrs = append(dtrs, f.submit(t, day, 20))
	}

	var wg sync.WaitGroup
	for i, d := range dtrs {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.svc.Review(context.Background(), d.ID, approve(), f.actor)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			status := types.OJTStatusOngoing
			if i%2 == 0 {
				status = types.OJTStatusWaiting
			}
			_, err := f.svc.SetStatus(context.Background(), f.student.ID, types.SetStatusRequest{Status: status}, f.actor)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 200, f.store.student(f.student.ID).OJTHoursCompleted)
}
