package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
)

func newCirculationRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCirculationRepositoryReserve(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewCirculationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE books SET copies_available = copies_available - 1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO reservations").
		WithArgs(int64(9), int64(5), int64(1), sqlmock.AnyArg(), sqlmock.AnyArg(), models.ReservationActive).
		WillReturnRows(sqlmock.NewRows([]string{"reservation_id"}).AddRow(42))
	mock.ExpectCommit()

	res := &models.Reservation{
		UserID:        9,
		BookID:        5,
		LibraryID:     1,
		ReservedFrom:  time.Now(),
		ReservedUntil: time.Now().Add(2 * time.Hour),
		Status:        models.ReservationActive,
	}
	require.NoError(t, repo.Reserve(context.Background(), res))
	assert.Equal(t, int64(42), res.ReservationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCirculationRepositoryReserveNoCopies(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewCirculationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE books SET copies_available = copies_available - 1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Reserve(context.Background(), &models.Reservation{UserID: 9, BookID: 5, LibraryID: 1, Status: models.ReservationActive})
	assert.ErrorIs(t, err, ErrNoAvailableCopies)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func reservationRow(id, userID, bookID int64, status models.ReservationStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"reservation_id", "user_id", "book_id", "library_id", "reserved_from", "reserved_until", "status"}).
		AddRow(id, userID, bookID, int64(1), now, now.Add(2*time.Hour), status)
}

func TestCirculationRepositoryCollect(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewCirculationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE reservation_id = \\$1 FOR UPDATE").
		WithArgs(int64(42)).
		WillReturnRows(reservationRow(42, 9, 5, models.ReservationActive))
	mock.ExpectQuery("INSERT INTO loans").
		WithArgs(int64(9), int64(5), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"loan_id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status = $2")).
		WithArgs(int64(42), models.ReservationFulfilled).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	checkout := time.Now()
	loan, err := repo.Collect(context.Background(), 42, checkout, checkout.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(7), loan.LoanID)
	assert.Equal(t, int64(9), loan.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCirculationRepositoryCollectNotActive(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewCirculationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE reservation_id = \\$1 FOR UPDATE").
		WithArgs(int64(42)).
		WillReturnRows(reservationRow(42, 9, 5, models.ReservationFulfilled))
	mock.ExpectRollback()

	_, err := repo.Collect(context.Background(), 42, time.Now(), time.Now())
	assert.ErrorIs(t, err, ErrReservationNotActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCirculationRepositoryCancelRefundsActiveHold(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewCirculationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE reservation_id = \\$1 FOR UPDATE").
		WithArgs(int64(42)).
		WillReturnRows(reservationRow(42, 9, 5, models.ReservationActive))
	mock.ExpectExec("DELETE FROM reservations").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE books SET copies_available = copies_available + 1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CancelReservation(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCirculationRepositoryCancelFulfilledKeepsCounter(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewCirculationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE reservation_id = \\$1 FOR UPDATE").
		WithArgs(int64(42)).
		WillReturnRows(reservationRow(42, 9, 5, models.ReservationFulfilled))
	mock.ExpectExec("DELETE FROM reservations").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CancelReservation(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCirculationRepositoryRenewReturnedLoan(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewCirculationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE loans SET due_date = due_date + ($2 * INTERVAL '1 day')")).
		WithArgs(int64(7), 14).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Renew(context.Background(), 7, 14)
	assert.ErrorIs(t, err, ErrLoanAlreadyReturned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCirculationRepositoryReturnLoan(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewCirculationRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("FROM loans WHERE loan_id = \\$1 FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"loan_id", "user_id", "book_id", "checkout_date", "due_date", "returned_date"}).
			AddRow(int64(7), int64(9), int64(5), now.AddDate(0, 0, -6), now.AddDate(0, 0, -1), nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE loans SET returned_date = $2")).
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE books SET copies_available = copies_available + 1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReturnLoan(context.Background(), 7, now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCirculationRepositoryReturnLoanTwice(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewCirculationRepository(db)

	now := time.Now()
	returned := now.Add(-time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM loans WHERE loan_id = \\$1 FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"loan_id", "user_id", "book_id", "checkout_date", "due_date", "returned_date"}).
			AddRow(int64(7), int64(9), int64(5), now.AddDate(0, 0, -6), now.AddDate(0, 0, -1), returned))
	mock.ExpectRollback()

	err := repo.ReturnLoan(context.Background(), 7, now)
	assert.ErrorIs(t, err, ErrLoanAlreadyReturned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCirculationRepositoryMarkFeePaid(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewCirculationRepository(db)

	mock.ExpectExec("UPDATE feefines SET status").
		WithArgs(int64(3), models.FeePaid, models.FeeUnpaid).
		WillReturnResult(sqlmock.NewResult(0, 1))
	paid, err := repo.MarkFeePaid(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, paid)

	mock.ExpectExec("UPDATE feefines SET status").
		WithArgs(int64(3), models.FeePaid, models.FeeUnpaid).
		WillReturnResult(sqlmock.NewResult(0, 0))
	paid, err = repo.MarkFeePaid(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, paid)
	assert.NoError(t, mock.ExpectationsWereMet())
}
