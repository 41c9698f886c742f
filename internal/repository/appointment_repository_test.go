package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
)

func TestAppointmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM users WHERE user_id = $1 FOR UPDATE")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(2))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM appointments").
		WithArgs(int64(2), models.AppointmentCancelled, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(int64(9), int64(2), int64(1), start, end, models.AppointmentPending, "exam prep").
		WillReturnRows(sqlmock.NewRows([]string{"appointment_id"}).AddRow(11))
	mock.ExpectCommit()

	appt := &models.Appointment{
		UserID:          9,
		LibrarianUserID: 2,
		LibraryID:       1,
		StartDatetime:   start,
		EndDatetime:     end,
		Status:          models.AppointmentPending,
		Notes:           "exam prep",
	}
	require.NoError(t, repo.Create(context.Background(), appt))
	assert.Equal(t, int64(11), appt.AppointmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryCreateOverlap(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM users WHERE user_id = $1 FOR UPDATE")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(2))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM appointments").
		WithArgs(int64(2), models.AppointmentCancelled, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Appointment{
		UserID:          9,
		LibrarianUserID: 2,
		LibraryID:       1,
		StartDatetime:   start,
		EndDatetime:     end,
		Status:          models.AppointmentPending,
	})
	assert.ErrorIs(t, err, ErrAppointmentOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectExec("UPDATE appointments SET status").
		WithArgs(int64(99), models.AppointmentConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, models.AppointmentConfirmed)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
