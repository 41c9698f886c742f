package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	"github.com/HackGhosT04/sccs-library-db/internal/repository"
	"github.com/HackGhosT04/sccs-library-db/pkg/config"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
)

type mockCirculationRepo struct {
	reservations map[int64]*models.Reservation
	loans        map[int64]*models.Loan
	fees         map[int64]*models.FeeFine
	reserveErr   error
	collectErr   error
	renewErr     error
	returnErr    error
	cancelled    []int64
}

func (m *mockCirculationRepo) Reserve(ctx context.Context, res *models.Reservation) error {
	if m.reserveErr != nil {
		return m.reserveErr
	}
	res.ReservationID = int64(len(m.reservations) + 1)
	if m.reservations == nil {
		m.reservations = make(map[int64]*models.Reservation)
	}
	cp := *res
	m.reservations[res.ReservationID] = &cp
	return nil
}

func (m *mockCirculationRepo) FindReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	if res, ok := m.reservations[id]; ok {
		cp := *res
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCirculationRepo) ListReservations(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range m.reservations {
		if filter.UserID != nil && res.UserID != *filter.UserID {
			continue
		}
		out = append(out, *res)
	}
	return out, nil
}

func (m *mockCirculationRepo) Collect(ctx context.Context, reservationID int64, checkout, due time.Time) (*models.Loan, error) {
	if m.collectErr != nil {
		return nil, m.collectErr
	}
	res, ok := m.reservations[reservationID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if res.Status != models.ReservationActive {
		return nil, repository.ErrReservationNotActive
	}
	res.Status = models.ReservationFulfilled
	loan := &models.Loan{LoanID: int64(len(m.loans) + 1), UserID: res.UserID, BookID: res.BookID, CheckoutDate: checkout, DueDate: due}
	if m.loans == nil {
		m.loans = make(map[int64]*models.Loan)
	}
	m.loans[loan.LoanID] = loan
	return loan, nil
}

func (m *mockCirculationRepo) CancelReservation(ctx context.Context, reservationID int64) error {
	if _, ok := m.reservations[reservationID]; !ok {
		return sql.ErrNoRows
	}
	delete(m.reservations, reservationID)
	m.cancelled = append(m.cancelled, reservationID)
	return nil
}

func (m *mockCirculationRepo) FindLoan(ctx context.Context, id int64) (*models.Loan, error) {
	if loan, ok := m.loans[id]; ok {
		cp := *loan
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCirculationRepo) ListLoans(ctx context.Context, filter models.LoanFilter) ([]models.Loan, error) {
	var out []models.Loan
	for _, loan := range m.loans {
		if filter.UserID != nil && loan.UserID != *filter.UserID {
			continue
		}
		out = append(out, *loan)
	}
	return out, nil
}

func (m *mockCirculationRepo) Renew(ctx context.Context, loanID int64, days int) (time.Time, error) {
	if m.renewErr != nil {
		return time.Time{}, m.renewErr
	}
	loan := m.loans[loanID]
	if loan.ReturnedDate != nil {
		return time.Time{}, repository.ErrLoanAlreadyReturned
	}
	loan.DueDate = loan.DueDate.AddDate(0, 0, days)
	return loan.DueDate, nil
}

func (m *mockCirculationRepo) ReturnLoan(ctx context.Context, loanID int64, returned time.Time) error {
	if m.returnErr != nil {
		return m.returnErr
	}
	loan, ok := m.loans[loanID]
	if !ok {
		return sql.ErrNoRows
	}
	if loan.ReturnedDate != nil {
		return repository.ErrLoanAlreadyReturned
	}
	loan.ReturnedDate = &returned
	return nil
}

func (m *mockCirculationRepo) CreateFee(ctx context.Context, fee *models.FeeFine) error {
	fee.FeeFineID = int64(len(m.fees) + 1)
	if m.fees == nil {
		m.fees = make(map[int64]*models.FeeFine)
	}
	cp := *fee
	m.fees[fee.FeeFineID] = &cp
	return nil
}

func (m *mockCirculationRepo) FindFee(ctx context.Context, id int64) (*models.FeeFine, error) {
	if fee, ok := m.fees[id]; ok {
		cp := *fee
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCirculationRepo) ListUnpaidFees(ctx context.Context, userID int64) ([]models.FeeFine, error) {
	var out []models.FeeFine
	for _, fee := range m.fees {
		if fee.UserID == userID && fee.Status == models.FeeUnpaid {
			out = append(out, *fee)
		}
	}
	return out, nil
}

func (m *mockCirculationRepo) MarkFeePaid(ctx context.Context, id int64) (bool, error) {
	fee := m.fees[id]
	if fee.Status == models.FeePaid {
		return false, nil
	}
	fee.Status = models.FeePaid
	return true, nil
}

func (m *mockCirculationRepo) CountActiveReservations(ctx context.Context, userID int64) (int, error) {
	count := 0
	for _, res := range m.reservations {
		if res.UserID == userID && res.Status == models.ReservationActive {
			count++
		}
	}
	return count, nil
}

func (m *mockCirculationRepo) CountOpenLoans(ctx context.Context, userID int64) (int, error) {
	count := 0
	for _, loan := range m.loans {
		if loan.UserID == userID && loan.ReturnedDate == nil {
			count++
		}
	}
	return count, nil
}

func (m *mockCirculationRepo) SumUnpaidFees(ctx context.Context, userID int64) (int64, error) {
	var total int64
	for _, fee := range m.fees {
		if fee.UserID == userID && fee.Status == models.FeeUnpaid {
			total += fee.AmountCents
		}
	}
	return total, nil
}

type mockBookFinder struct {
	books map[int64]*models.Book
}

func (m *mockBookFinder) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	if book, ok := m.books[id]; ok {
		cp := *book
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockLibraryExists struct {
	known map[int64]bool
}

func (m *mockLibraryExists) Exists(ctx context.Context, id int64) (bool, error) {
	return m.known[id], nil
}

func newCirculationService(repo *mockCirculationRepo) *CirculationService {
	svc := NewCirculationService(
		repo,
		&mockBookFinder{books: map[int64]*models.Book{5: {BookID: 5, ISBN: "978-1", Title: "Go", Author: "A", CopiesTotal: 2, CopiesAvailable: 1}}},
		&mockLibraryExists{known: map[int64]bool{1: true}},
		config.LoansConfig{ReservationWindow: 2 * time.Hour, LoanPeriodDays: 5, RenewalPeriodDays: 14},
		config.FeesConfig{DailyRateCents: 500},
		validator.New(),
		zap.NewNop(),
	)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func student(id int64) *models.User {
	return &models.User{UserID: id, Name: "Student", Role: models.RoleStudent}
}

func staffUser() *models.User {
	return &models.User{UserID: 100, Name: "Librarian", Role: models.RoleStaff}
}

func TestCirculationServiceReserve(t *testing.T) {
	repo := &mockCirculationRepo{}
	svc := newCirculationService(repo)

	res, err := svc.Reserve(context.Background(), student(9), ReserveRequest{BookID: 5, LibraryID: 1})
	require.NoError(t, err)
	assert.Equal(t, models.ReservationActive, res.Status)
	assert.Equal(t, int64(9), res.UserID)
	assert.Equal(t, 2*time.Hour, res.ReservedUntil.Sub(res.ReservedFrom))
}

func TestCirculationServiceReserveCallerWindow(t *testing.T) {
	repo := &mockCirculationRepo{}
	svc := newCirculationService(repo)

	until := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)
	res, err := svc.Reserve(context.Background(), student(9), ReserveRequest{BookID: 5, LibraryID: 1, ReservedUntil: &until})
	require.NoError(t, err)
	assert.Equal(t, until, res.ReservedUntil)

	// A window ending in the past is rejected.
	past := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)
	_, err = svc.Reserve(context.Background(), student(9), ReserveRequest{BookID: 5, LibraryID: 1, ReservedUntil: &past})
	var apiErr *appErrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrValidation.Code, apiErr.Code)
}

func TestCirculationServiceReserveNoCopies(t *testing.T) {
	repo := &mockCirculationRepo{reserveErr: repository.ErrNoAvailableCopies}
	svc := newCirculationService(repo)

	_, err := svc.Reserve(context.Background(), student(9), ReserveRequest{BookID: 5, LibraryID: 1})
	var apiErr *appErrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrConflict.Code, apiErr.Code)
}

func TestCirculationServiceReserveUnknownLibrary(t *testing.T) {
	svc := newCirculationService(&mockCirculationRepo{})

	_, err := svc.Reserve(context.Background(), student(9), ReserveRequest{BookID: 5, LibraryID: 77})
	var apiErr *appErrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, apiErr.Code)
}

func TestCirculationServiceCollect(t *testing.T) {
	repo := &mockCirculationRepo{reservations: map[int64]*models.Reservation{
		42: {ReservationID: 42, UserID: 9, BookID: 5, LibraryID: 1, Status: models.ReservationActive},
	}}
	svc := newCirculationService(repo)

	loan, err := svc.Collect(context.Background(), student(9), 42)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", loan.CheckoutDate)
	assert.Equal(t, "2026-03-15", loan.DueDate)
	assert.Equal(t, models.ReservationFulfilled, repo.reservations[42].Status)
}

func TestCirculationServiceCollectForeignReservation(t *testing.T) {
	repo := &mockCirculationRepo{reservations: map[int64]*models.Reservation{
		42: {ReservationID: 42, UserID: 9, BookID: 5, Status: models.ReservationActive},
	}}
	svc := newCirculationService(repo)

	// Only the borrower may collect; even staff cannot.
	var apiErr *appErrors.Error
	_, err := svc.Collect(context.Background(), student(4), 42)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, apiErr.Code)

	_, err = svc.Collect(context.Background(), staffUser(), 42)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, apiErr.Code)
}

func TestCirculationServiceCollectNotActive(t *testing.T) {
	repo := &mockCirculationRepo{reservations: map[int64]*models.Reservation{
		42: {ReservationID: 42, UserID: 9, BookID: 5, Status: models.ReservationFulfilled},
	}}
	svc := newCirculationService(repo)

	_, err := svc.Collect(context.Background(), student(9), 42)
	var apiErr *appErrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrConflict.Code, apiErr.Code)
}

func TestCirculationServiceRenewReturnedLoan(t *testing.T) {
	returned := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	repo := &mockCirculationRepo{loans: map[int64]*models.Loan{
		7: {LoanID: 7, UserID: 9, BookID: 5, DueDate: returned, ReturnedDate: &returned},
	}}
	svc := newCirculationService(repo)

	_, err := svc.Renew(context.Background(), student(9), 7)
	var apiErr *appErrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrConflict.Code, apiErr.Code)
}

func TestCirculationServiceRenewForeignLoan(t *testing.T) {
	repo := &mockCirculationRepo{loans: map[int64]*models.Loan{
		7: {LoanID: 7, UserID: 9, BookID: 5, DueDate: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)},
	}}
	svc := newCirculationService(repo)

	// Only the borrower may renew; even staff cannot.
	var apiErr *appErrors.Error
	_, err := svc.Renew(context.Background(), student(4), 7)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, apiErr.Code)

	_, err = svc.Renew(context.Background(), staffUser(), 7)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, apiErr.Code)

	item, err := svc.Renew(context.Background(), student(9), 7)
	require.NoError(t, err)
	assert.NotEmpty(t, item.DueDate)
}

func TestCirculationServiceReturnRequiresStaff(t *testing.T) {
	repo := &mockCirculationRepo{loans: map[int64]*models.Loan{
		7: {LoanID: 7, UserID: 9, BookID: 5, DueDate: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)},
	}}
	svc := newCirculationService(repo)

	_, err := svc.Return(context.Background(), student(9), 7)
	var apiErr *appErrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, apiErr.Code)

	item, err := svc.Return(context.Background(), staffUser(), 7)
	require.NoError(t, err)
	require.NotNil(t, item.ReturnedDate)
	assert.Equal(t, "2026-03-10", *item.ReturnedDate)
}

func TestCirculationServicePayFeeTwice(t *testing.T) {
	repo := &mockCirculationRepo{fees: map[int64]*models.FeeFine{
		3: {FeeFineID: 3, UserID: 9, AmountCents: 1500, Status: models.FeeUnpaid},
	}}
	svc := newCirculationService(repo)

	fee, err := svc.PayFee(context.Background(), student(9), 3)
	require.NoError(t, err)
	assert.Equal(t, models.FeePaid, fee.Status)

	_, err = svc.PayFee(context.Background(), student(9), 3)
	var apiErr *appErrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrConflict.Code, apiErr.Code)
}

func TestCirculationServiceFeesCombinesPostedAndAccrued(t *testing.T) {
	due := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	repo := &mockCirculationRepo{
		fees: map[int64]*models.FeeFine{
			3: {FeeFineID: 3, UserID: 9, AmountCents: 1000, Status: models.FeeUnpaid},
		},
		loans: map[int64]*models.Loan{
			7: {LoanID: 7, UserID: 9, BookID: 5, DueDate: due},
		},
	}
	svc := newCirculationService(repo)

	statement, err := svc.Fees(context.Background(), student(9), 0)
	require.NoError(t, err)
	require.Len(t, statement.Accrued, 1)
	assert.Equal(t, 3, statement.Accrued[0].DaysOverdue)
	assert.Equal(t, int64(1500), statement.Accrued[0].AmountCents)
	assert.Equal(t, int64(2500), statement.TotalCents)
}

func TestCirculationServiceSummaryForbiddenForOtherUsers(t *testing.T) {
	svc := newCirculationService(&mockCirculationRepo{})

	_, err := svc.Summary(context.Background(), student(9), 4)
	var apiErr *appErrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, apiErr.Code)

	summary, err := svc.Summary(context.Background(), staffUser(), 4)
	require.NoError(t, err)
	assert.Zero(t, summary.Loans)
}

func TestAccruedOverdueFee(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	loan := &models.Loan{LoanID: 7, BookID: 5, DueDate: time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)}

	fee := AccruedOverdueFee(loan, today, 500)
	require.NotNil(t, fee)
	assert.Equal(t, 3, fee.DaysOverdue)
	assert.Equal(t, int64(1500), fee.AmountCents)

	// Due today or later accrues nothing.
	assert.Nil(t, AccruedOverdueFee(&models.Loan{DueDate: today}, today, 500))
	assert.Nil(t, AccruedOverdueFee(&models.Loan{DueDate: today.AddDate(0, 0, 2)}, today, 500))

	// Returned loans never accrue, even when overdue.
	returned := today.AddDate(0, 0, -1)
	assert.Nil(t, AccruedOverdueFee(&models.Loan{DueDate: loan.DueDate, ReturnedDate: &returned}, today, 500))
}
