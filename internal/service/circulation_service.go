package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	"github.com/HackGhosT04/sccs-library-db/internal/repository"
	"github.com/HackGhosT04/sccs-library-db/pkg/config"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
)

const dateLayout = "2006-01-02"

type circulationRepository interface {
	Reserve(ctx context.Context, res *models.Reservation) error
	FindReservation(ctx context.Context, id int64) (*models.Reservation, error)
	ListReservations(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error)
	Collect(ctx context.Context, reservationID int64, checkout, due time.Time) (*models.Loan, error)
	CancelReservation(ctx context.Context, reservationID int64) error
	FindLoan(ctx context.Context, id int64) (*models.Loan, error)
	ListLoans(ctx context.Context, filter models.LoanFilter) ([]models.Loan, error)
	Renew(ctx context.Context, loanID int64, days int) (time.Time, error)
	ReturnLoan(ctx context.Context, loanID int64, returned time.Time) error
	CreateFee(ctx context.Context, fee *models.FeeFine) error
	FindFee(ctx context.Context, id int64) (*models.FeeFine, error)
	ListUnpaidFees(ctx context.Context, userID int64) ([]models.FeeFine, error)
	MarkFeePaid(ctx context.Context, id int64) (bool, error)
	CountActiveReservations(ctx context.Context, userID int64) (int, error)
	CountOpenLoans(ctx context.Context, userID int64) (int, error)
	SumUnpaidFees(ctx context.Context, userID int64) (int64, error)
}

type circulationBookRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Book, error)
}

type circulationLibraryRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ReserveRequest holds payload for placing a hold on a book. ReservedUntil
// overrides the default pickup window when supplied.
type ReserveRequest struct {
	BookID        int64      `json:"book_id" validate:"required"`
	LibraryID     int64      `json:"library_id" validate:"required"`
	ReservedUntil *time.Time `json:"reserved_until"`
}

// PostFeeRequest holds payload for a staff-posted charge.
type PostFeeRequest struct {
	UserID      int64  `json:"user_id" validate:"required"`
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Description string `json:"description" validate:"required"`
}

// FeeStatement combines a user's posted fees with the on-demand accrued
// overdue charges for their open loans.
type FeeStatement struct {
	Posted     []models.FeeFine    `json:"posted"`
	Accrued    []models.AccruedFee `json:"accrued"`
	TotalCents int64               `json:"total_cents"`
}

// CirculationService runs the reservation and loan state machine plus fee
// accounting.
type CirculationService struct {
	repo      circulationRepository
	books     circulationBookRepository
	libraries circulationLibraryRepository
	cfg       config.LoansConfig
	feeRate   int64
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCirculationService constructs the circulation service.
func NewCirculationService(
	repo circulationRepository,
	books circulationBookRepository,
	libraries circulationLibraryRepository,
	loans config.LoansConfig,
	fees config.FeesConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *CirculationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CirculationService{
		repo:      repo,
		books:     books,
		libraries: libraries,
		cfg:       loans,
		feeRate:   fees.DailyRateCents,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Reserve places a hold on one available copy. Concurrent holds on the last
// copy resolve to exactly one success; the loser gets a conflict.
func (s *CirculationService) Reserve(ctx context.Context, actor *models.User, req ReserveRequest) (*models.Reservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reservation payload")
	}

	exists, err := s.libraries.Exists(ctx, req.LibraryID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check library")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "library not found")
	}
	if _, err := s.books.FindByID(ctx, req.BookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book")
	}

	now := s.now()
	until := now.Add(s.cfg.ReservationWindow)
	if req.ReservedUntil != nil {
		if !req.ReservedUntil.After(now) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "reserved_until must be in the future")
		}
		until = *req.ReservedUntil
	}
	res := &models.Reservation{
		UserID:        actor.UserID,
		BookID:        req.BookID,
		LibraryID:     req.LibraryID,
		ReservedFrom:  now,
		ReservedUntil: until,
		Status:        models.ReservationActive,
	}
	if err := s.repo.Reserve(ctx, res); err != nil {
		if errors.Is(err, repository.ErrNoAvailableCopies) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "no copies available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reserve")
	}
	s.logger.Info("reservation placed",
		zap.Int64("reservation_id", res.ReservationID),
		zap.Int64("book_id", res.BookID),
		zap.Int64("user_id", res.UserID))
	return res, nil
}

// ListReservations returns the caller's holds; staff may list any user's
// and narrow by book.
func (s *CirculationService) ListReservations(ctx context.Context, actor *models.User, userID, bookID int64) ([]models.Reservation, error) {
	if userID == 0 {
		userID = actor.UserID
	}
	if userID != actor.UserID && !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot view another user's reservations")
	}
	filter := models.ReservationFilter{UserID: &userID}
	if bookID > 0 {
		filter.BookID = &bookID
	}
	reservations, err := s.repo.ListReservations(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
	}
	return reservations, nil
}

// Collect converts an active reservation into a loan. Only the borrower may
// collect; the due date is checkout plus the configured loan period.
func (s *CirculationService) Collect(ctx context.Context, actor *models.User, reservationID int64) (*models.LoanItem, error) {
	res, err := s.getReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.UserID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "reservation belongs to another user")
	}

	checkout := s.now()
	due := checkout.AddDate(0, 0, s.cfg.LoanPeriodDays)
	loan, err := s.repo.Collect(ctx, reservationID, checkout, due)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotActive) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "reservation is not active")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to collect reservation")
	}
	item := s.loanItem(loan)
	return &item, nil
}

// Cancel removes a hold and releases its copy. The owner or staff only.
func (s *CirculationService) Cancel(ctx context.Context, actor *models.User, reservationID int64) error {
	res, err := s.getReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	if res.UserID != actor.UserID && !actor.IsStaff() {
		return appErrors.Clone(appErrors.ErrForbidden, "reservation belongs to another user")
	}

	if err := s.repo.CancelReservation(ctx, reservationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel reservation")
	}
	return nil
}

// ListLoans returns the caller's loans with accrued overdue fees attached;
// staff may list any user's.
func (s *CirculationService) ListLoans(ctx context.Context, actor *models.User, userID int64) ([]models.LoanItem, error) {
	if userID == 0 {
		userID = actor.UserID
	}
	if userID != actor.UserID && !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot view another user's loans")
	}
	loans, err := s.repo.ListLoans(ctx, models.LoanFilter{UserID: &userID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list loans")
	}
	items := make([]models.LoanItem, 0, len(loans))
	for i := range loans {
		items = append(items, s.loanItem(&loans[i]))
	}
	return items, nil
}

// Renew extends an open loan's due date by the configured renewal period.
// Only the borrower may renew; a returned loan cannot be renewed.
func (s *CirculationService) Renew(ctx context.Context, actor *models.User, loanID int64) (*models.LoanItem, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.UserID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "loan belongs to another user")
	}

	due, err := s.repo.Renew(ctx, loanID, s.cfg.RenewalPeriodDays)
	if err != nil {
		if errors.Is(err, repository.ErrLoanAlreadyReturned) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "loan already returned")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to renew loan")
	}
	loan.DueDate = due
	item := s.loanItem(loan)
	return &item, nil
}

// Return closes a loan and releases its copy. Staff only; returning an
// already-returned loan is a conflict.
func (s *CirculationService) Return(ctx context.Context, actor *models.User, loanID int64) (*models.LoanItem, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	returned := s.now()
	if err := s.repo.ReturnLoan(ctx, loanID, returned); err != nil {
		if errors.Is(err, repository.ErrLoanAlreadyReturned) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "loan already returned")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "loan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to return loan")
	}
	loan.ReturnedDate = &returned
	item := s.loanItem(loan)
	return &item, nil
}

// Fees returns a user's fee statement: posted charges plus accrued overdue
// fees computed on demand from open loans. The caller or staff only.
func (s *CirculationService) Fees(ctx context.Context, actor *models.User, userID int64) (*FeeStatement, error) {
	if userID == 0 {
		userID = actor.UserID
	}
	if userID != actor.UserID && !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot view another user's fees")
	}

	posted, err := s.repo.ListUnpaidFees(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fees")
	}
	loans, err := s.repo.ListLoans(ctx, models.LoanFilter{UserID: &userID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list loans")
	}

	statement := &FeeStatement{Posted: posted, Accrued: []models.AccruedFee{}}
	for _, fee := range posted {
		statement.TotalCents += fee.AmountCents
	}
	today := s.now()
	for i := range loans {
		accrued := AccruedOverdueFee(&loans[i], today, s.feeRate)
		if accrued == nil {
			continue
		}
		statement.Accrued = append(statement.Accrued, *accrued)
		statement.TotalCents += accrued.AmountCents
	}
	return statement, nil
}

// PostFee records a manual charge against a user. Staff only.
func (s *CirculationService) PostFee(ctx context.Context, actor *models.User, req PostFeeRequest) (*models.FeeFine, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee payload")
	}

	fee := &models.FeeFine{
		UserID:      req.UserID,
		AmountCents: req.AmountCents,
		Description: req.Description,
		Status:      models.FeeUnpaid,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateFee(ctx, fee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to post fee")
	}
	return fee, nil
}

// PayFee settles a posted charge. The debtor or staff only; paying twice is
// a conflict.
func (s *CirculationService) PayFee(ctx context.Context, actor *models.User, feeID int64) (*models.FeeFine, error) {
	fee, err := s.repo.FindFee(ctx, feeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee")
	}
	if fee.UserID != actor.UserID && !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "fee belongs to another user")
	}

	paid, err := s.repo.MarkFeePaid(ctx, feeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to pay fee")
	}
	if !paid {
		return nil, appErrors.Clone(appErrors.ErrConflict, "fee already paid")
	}
	fee.Status = models.FeePaid
	return fee, nil
}

// Summary aggregates a user's open circulation state. The caller or staff
// only.
func (s *CirculationService) Summary(ctx context.Context, actor *models.User, userID int64) (*models.UserSummary, error) {
	if userID == 0 {
		userID = actor.UserID
	}
	if userID != actor.UserID && !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot view another user's summary")
	}

	reservations, err := s.repo.CountActiveReservations(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reservations")
	}
	loans, err := s.repo.CountOpenLoans(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count loans")
	}
	fees, err := s.repo.SumUnpaidFees(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum fees")
	}
	return &models.UserSummary{Reservations: reservations, Loans: loans, FeesCents: fees}, nil
}

func (s *CirculationService) getReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	res, err := s.repo.FindReservation(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservation")
	}
	return res, nil
}

func (s *CirculationService) getLoan(ctx context.Context, id int64) (*models.Loan, error) {
	loan, err := s.repo.FindLoan(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "loan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load loan")
	}
	return loan, nil
}

func (s *CirculationService) loanItem(loan *models.Loan) models.LoanItem {
	item := models.LoanItem{
		LoanID:       loan.LoanID,
		UserID:       loan.UserID,
		BookID:       loan.BookID,
		CheckoutDate: loan.CheckoutDate.Format(dateLayout),
		DueDate:      loan.DueDate.Format(dateLayout),
	}
	if loan.ReturnedDate != nil {
		returned := loan.ReturnedDate.Format(dateLayout)
		item.ReturnedDate = &returned
	}
	if accrued := AccruedOverdueFee(loan, s.now(), s.feeRate); accrued != nil {
		item.AccruedFeeCents = accrued.AmountCents
	}
	return item
}

// AccruedOverdueFee computes the overdue charge for one loan as whole days
// past the due date times the daily rate. Returned or non-overdue loans
// accrue nothing.
func AccruedOverdueFee(loan *models.Loan, today time.Time, dailyRateCents int64) *models.AccruedFee {
	if loan.Returned() {
		return nil
	}
	due := loan.DueDate.Truncate(24 * time.Hour)
	day := today.Truncate(24 * time.Hour)
	if !day.After(due) {
		return nil
	}
	days := int(day.Sub(due) / (24 * time.Hour))
	return &models.AccruedFee{
		LoanID:      loan.LoanID,
		BookID:      loan.BookID,
		DueDate:     loan.DueDate.Format(dateLayout),
		DaysOverdue: days,
		AmountCents: int64(days) * dailyRateCents,
	}
}
