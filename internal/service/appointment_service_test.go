package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	"github.com/HackGhosT04/sccs-library-db/internal/repository"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
)

type mockAppointmentRepo struct {
	appointments map[int64]*models.Appointment
	nextID       int64
	createErr    error
	lastFilter   models.AppointmentFilter
}

func (m *mockAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.appointments == nil {
		m.appointments = map[int64]*models.Appointment{}
	}
	m.nextID++
	appt.AppointmentID = m.nextID
	stored := *appt
	m.appointments[appt.AppointmentID] = &stored
	return nil
}

func (m *mockAppointmentRepo) Find(ctx context.Context, id int64) (*models.Appointment, error) {
	appt, ok := m.appointments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *appt
	return &copied, nil
}

func (m *mockAppointmentRepo) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	m.lastFilter = filter
	var out []models.Appointment
	for _, appt := range m.appointments {
		if filter.UserID != nil && appt.UserID != *filter.UserID {
			continue
		}
		if filter.LibrarianID != nil && appt.LibrarianUserID != *filter.LibrarianID {
			continue
		}
		out = append(out, *appt)
	}
	return out, nil
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status models.AppointmentStatus) error {
	appt, ok := m.appointments[id]
	if !ok {
		return sql.ErrNoRows
	}
	appt.Status = status
	return nil
}

type mockStaffFinder struct {
	staff map[int64]*models.User
}

func (m *mockStaffFinder) FindStaffByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := m.staff[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func newAppointmentService(repo *mockAppointmentRepo) *AppointmentService {
	return NewAppointmentService(
		repo,
		&mockStaffFinder{staff: map[int64]*models.User{100: staffUser()}},
		&mockLibraryExists{known: map[int64]bool{1: true}},
		nil,
		zap.NewNop(),
	)
}

func bookRequest() BookAppointmentRequest {
	return BookAppointmentRequest{
		LibrarianUserID: 100,
		LibraryID:       1,
		StartDatetime:   time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC),
		EndDatetime:     time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC),
		Notes:           "thesis sources",
	}
}

func TestAppointmentServiceBook(t *testing.T) {
	repo := &mockAppointmentRepo{}
	svc := newAppointmentService(repo)

	appt, err := svc.Book(context.Background(), student(9), bookRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(9), appt.UserID)
	assert.Equal(t, int64(100), appt.LibrarianUserID)
	assert.Equal(t, models.AppointmentPending, appt.Status)
	assert.NotZero(t, appt.AppointmentID)
}

func TestAppointmentServiceBookRejectsBadWindow(t *testing.T) {
	svc := newAppointmentService(&mockAppointmentRepo{})

	req := bookRequest()
	req.EndDatetime = req.StartDatetime

	var apiErr *appErrors.Error
	_, err := svc.Book(context.Background(), student(9), req)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrValidation.Code, apiErr.Code)
}

func TestAppointmentServiceBookUnknownLibrarian(t *testing.T) {
	svc := newAppointmentService(&mockAppointmentRepo{})

	req := bookRequest()
	req.LibrarianUserID = 55

	var apiErr *appErrors.Error
	_, err := svc.Book(context.Background(), student(9), req)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, apiErr.Code)
}

func TestAppointmentServiceBookUnknownLibrary(t *testing.T) {
	svc := newAppointmentService(&mockAppointmentRepo{})

	req := bookRequest()
	req.LibraryID = 404

	var apiErr *appErrors.Error
	_, err := svc.Book(context.Background(), student(9), req)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, apiErr.Code)
}

func TestAppointmentServiceBookOverlap(t *testing.T) {
	repo := &mockAppointmentRepo{createErr: repository.ErrAppointmentOverlap}
	svc := newAppointmentService(repo)

	var apiErr *appErrors.Error
	_, err := svc.Book(context.Background(), student(9), bookRequest())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrConflict.Code, apiErr.Code)
}

func TestAppointmentServiceListScopesByRole(t *testing.T) {
	repo := &mockAppointmentRepo{}
	svc := newAppointmentService(repo)

	_, err := svc.Book(context.Background(), student(9), bookRequest())
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), student(9))
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	require.NotNil(t, repo.lastFilter.UserID)
	assert.Equal(t, int64(9), *repo.lastFilter.UserID)

	schedule, err := svc.List(context.Background(), staffUser())
	require.NoError(t, err)
	assert.Len(t, schedule, 1)
	require.NotNil(t, repo.lastFilter.LibrarianID)
	assert.Equal(t, int64(100), *repo.lastFilter.LibrarianID)
}

func TestAppointmentServiceUpdateStatus(t *testing.T) {
	repo := &mockAppointmentRepo{}
	svc := newAppointmentService(repo)

	appt, err := svc.Book(context.Background(), student(9), bookRequest())
	require.NoError(t, err)

	var apiErr *appErrors.Error

	// Booker may only cancel.
	_, err = svc.UpdateStatus(context.Background(), student(9), appt.AppointmentID, models.AppointmentConfirmed)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, apiErr.Code)

	// Another student may not touch it at all.
	_, err = svc.UpdateStatus(context.Background(), student(4), appt.AppointmentID, models.AppointmentCancelled)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, apiErr.Code)

	confirmed, err := svc.UpdateStatus(context.Background(), staffUser(), appt.AppointmentID, models.AppointmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentConfirmed, confirmed.Status)

	cancelled, err := svc.UpdateStatus(context.Background(), student(9), appt.AppointmentID, models.AppointmentCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, cancelled.Status)
}

func TestAppointmentServiceUpdateStatusGuards(t *testing.T) {
	svc := newAppointmentService(&mockAppointmentRepo{})

	var apiErr *appErrors.Error
	_, err := svc.UpdateStatus(context.Background(), staffUser(), 1, "archived")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrValidation.Code, apiErr.Code)

	_, err = svc.UpdateStatus(context.Background(), staffUser(), 404, models.AppointmentConfirmed)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, apiErr.Code)
}
