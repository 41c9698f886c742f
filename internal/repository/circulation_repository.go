package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
)

// Sentinel errors surfaced by the transactional circulation paths. The
// service layer maps them onto the HTTP error taxonomy.
var (
	ErrNoAvailableCopies    = errors.New("no available copies")
	ErrReservationNotActive = errors.New("reservation is not active")
	ErrLoanAlreadyReturned  = errors.New("loan already returned")
)

// CirculationRepository manages reservations, loans and posted fees. Every
// path that moves a copy in or out of the reservation pool adjusts the
// book's availability counter inside the same transaction.
type CirculationRepository struct {
	db *sqlx.DB
}

// NewCirculationRepository constructs a CirculationRepository.
func NewCirculationRepository(db *sqlx.DB) *CirculationRepository {
	return &CirculationRepository{db: db}
}

// Reserve consumes one available copy and creates the hold atomically. The
// guarded update is the race barrier: of two concurrent reservations against
// a single remaining copy, exactly one sees a row updated.
func (r *CirculationRepository) Reserve(ctx context.Context, res *models.Reservation) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reserve transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const decrement = `UPDATE books SET copies_available = copies_available - 1
		WHERE book_id = $1 AND copies_available > 0`
	result, err := tx.ExecContext(ctx, decrement, res.BookID)
	if err != nil {
		return fmt.Errorf("decrement availability: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement availability: %w", err)
	}
	if affected == 0 {
		err = ErrNoAvailableCopies
		return err
	}

	const insert = `INSERT INTO reservations (user_id, book_id, library_id, reserved_from, reserved_until, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING reservation_id`
	if err = tx.GetContext(ctx, &res.ReservationID, insert,
		res.UserID, res.BookID, res.LibraryID, res.ReservedFrom, res.ReservedUntil, res.Status); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit reservation: %w", err)
	}
	return nil
}

// FindReservation fetches a reservation by ID.
func (r *CirculationRepository) FindReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	const query = `SELECT reservation_id, user_id, book_id, library_id, reserved_from, reserved_until, status
		FROM reservations WHERE reservation_id = $1`
	var res models.Reservation
	if err := r.db.GetContext(ctx, &res, query, id); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListReservations returns reservations matching the filter.
func (r *CirculationRepository) ListReservations(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	base := `SELECT reservation_id, user_id, book_id, library_id, reserved_from, reserved_until, status
		FROM reservations WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, *filter.UserID)
	}
	if filter.BookID != nil {
		conditions = append(conditions, fmt.Sprintf("book_id = $%d", len(args)+1))
		args = append(args, *filter.BookID)
	}

	query := base
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY reservation_id"

	var reservations []models.Reservation
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, nil
}

// Collect converts an active reservation into a loan in one transaction:
// the reservation row is locked, flipped to fulfilled, and the loan created.
// The copy stays consumed, so no counter changes hands here.
func (r *CirculationRepository) Collect(ctx context.Context, reservationID int64, checkout, due time.Time) (loan *models.Loan, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin collect transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res models.Reservation
	const lock = `SELECT reservation_id, user_id, book_id, library_id, reserved_from, reserved_until, status
		FROM reservations WHERE reservation_id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &res, lock, reservationID); err != nil {
		return nil, err
	}
	if res.Status != models.ReservationActive {
		err = ErrReservationNotActive
		return nil, err
	}

	loan = &models.Loan{
		UserID:       res.UserID,
		BookID:       res.BookID,
		CheckoutDate: checkout,
		DueDate:      due,
	}
	const insert = `INSERT INTO loans (user_id, book_id, checkout_date, due_date)
		VALUES ($1, $2, $3, $4) RETURNING loan_id`
	if err = tx.GetContext(ctx, &loan.LoanID, insert, loan.UserID, loan.BookID, loan.CheckoutDate, loan.DueDate); err != nil {
		return nil, fmt.Errorf("insert loan: %w", err)
	}

	const fulfil = `UPDATE reservations SET status = $2 WHERE reservation_id = $1`
	if _, err = tx.ExecContext(ctx, fulfil, reservationID, models.ReservationFulfilled); err != nil {
		return nil, fmt.Errorf("fulfil reservation: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit collect: %w", err)
	}
	return loan, nil
}

// CancelReservation deletes the hold and, when it was still active, refunds
// the consumed copy in the same transaction.
func (r *CirculationRepository) CancelReservation(ctx context.Context, reservationID int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cancel transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res models.Reservation
	const lock = `SELECT reservation_id, user_id, book_id, library_id, reserved_from, reserved_until, status
		FROM reservations WHERE reservation_id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &res, lock, reservationID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM reservations WHERE reservation_id = $1`, reservationID); err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}

	// Only an active hold still owns a copy; a fulfilled one handed it to a
	// loan and a cancelled one already refunded it.
	if res.Status == models.ReservationActive {
		const refund = `UPDATE books SET copies_available = copies_available + 1 WHERE book_id = $1`
		if _, err = tx.ExecContext(ctx, refund, res.BookID); err != nil {
			return fmt.Errorf("refund availability: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit cancel: %w", err)
	}
	return nil
}

// FindLoan fetches a loan by ID.
func (r *CirculationRepository) FindLoan(ctx context.Context, id int64) (*models.Loan, error) {
	const query = `SELECT loan_id, user_id, book_id, checkout_date, due_date, returned_date FROM loans WHERE loan_id = $1`
	var loan models.Loan
	if err := r.db.GetContext(ctx, &loan, query, id); err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListLoans returns loans matching the filter.
func (r *CirculationRepository) ListLoans(ctx context.Context, filter models.LoanFilter) ([]models.Loan, error) {
	base := `SELECT loan_id, user_id, book_id, checkout_date, due_date, returned_date FROM loans WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, *filter.UserID)
	}
	if filter.BookID != nil {
		conditions = append(conditions, fmt.Sprintf("book_id = $%d", len(args)+1))
		args = append(args, *filter.BookID)
	}

	query := base
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY loan_id"

	var loans []models.Loan
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

// Renew extends the due date of an open loan. The returned_date guard keeps
// renewals off returned loans without a separate read.
func (r *CirculationRepository) Renew(ctx context.Context, loanID int64, days int) (time.Time, error) {
	const query = `UPDATE loans SET due_date = due_date + ($2 * INTERVAL '1 day')
		WHERE loan_id = $1 AND returned_date IS NULL RETURNING due_date`
	var due time.Time
	if err := r.db.GetContext(ctx, &due, query, loanID, days); err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, ErrLoanAlreadyReturned
		}
		return time.Time{}, fmt.Errorf("renew loan: %w", err)
	}
	return due, nil
}

// ReturnLoan stamps the return date and refunds the copy atomically.
func (r *CirculationRepository) ReturnLoan(ctx context.Context, loanID int64, returned time.Time) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin return transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var loan models.Loan
	const lock = `SELECT loan_id, user_id, book_id, checkout_date, due_date, returned_date
		FROM loans WHERE loan_id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &loan, lock, loanID); err != nil {
		return err
	}
	if loan.ReturnedDate != nil {
		err = ErrLoanAlreadyReturned
		return err
	}

	if _, err = tx.ExecContext(ctx, `UPDATE loans SET returned_date = $2 WHERE loan_id = $1`, loanID, returned); err != nil {
		return fmt.Errorf("stamp return: %w", err)
	}

	const refund = `UPDATE books SET copies_available = copies_available + 1 WHERE book_id = $1`
	if _, err = tx.ExecContext(ctx, refund, loan.BookID); err != nil {
		return fmt.Errorf("refund availability: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit return: %w", err)
	}
	return nil
}

// CreateFee posts a manual charge.
func (r *CirculationRepository) CreateFee(ctx context.Context, fee *models.FeeFine) error {
	const query = `INSERT INTO feefines (user_id, amount_cents, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING feefine_id`
	if err := r.db.GetContext(ctx, &fee.FeeFineID, query,
		fee.UserID, fee.AmountCents, fee.Description, fee.Status, fee.CreatedAt); err != nil {
		return fmt.Errorf("create fee: %w", err)
	}
	return nil
}

// FindFee fetches a posted fee by ID.
func (r *CirculationRepository) FindFee(ctx context.Context, id int64) (*models.FeeFine, error) {
	const query = `SELECT feefine_id, user_id, amount_cents, description, status, created_at FROM feefines WHERE feefine_id = $1`
	var fee models.FeeFine
	if err := r.db.GetContext(ctx, &fee, query, id); err != nil {
		return nil, err
	}
	return &fee, nil
}

// ListUnpaidFees returns the unpaid posted fees of a user.
func (r *CirculationRepository) ListUnpaidFees(ctx context.Context, userID int64) ([]models.FeeFine, error) {
	const query = `SELECT feefine_id, user_id, amount_cents, description, status, created_at
		FROM feefines WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC`
	var fees []models.FeeFine
	if err := r.db.SelectContext(ctx, &fees, query, userID, models.FeeUnpaid); err != nil {
		return nil, fmt.Errorf("list unpaid fees: %w", err)
	}
	return fees, nil
}

// MarkFeePaid flips an unpaid fee to paid; 0 rows means it was already paid.
func (r *CirculationRepository) MarkFeePaid(ctx context.Context, id int64) (bool, error) {
	const query = `UPDATE feefines SET status = $2 WHERE feefine_id = $1 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, id, models.FeePaid, models.FeeUnpaid)
	if err != nil {
		return false, fmt.Errorf("pay fee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("pay fee: %w", err)
	}
	return affected > 0, nil
}

// CountActiveReservations counts a user's active holds.
func (r *CirculationRepository) CountActiveReservations(ctx context.Context, userID int64) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM reservations WHERE user_id = $1 AND status = $2`
	if err := r.db.GetContext(ctx, &count, query, userID, models.ReservationActive); err != nil {
		return 0, fmt.Errorf("count reservations: %w", err)
	}
	return count, nil
}

// CountOpenLoans counts a user's unreturned loans.
func (r *CirculationRepository) CountOpenLoans(ctx context.Context, userID int64) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM loans WHERE user_id = $1 AND returned_date IS NULL`
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count loans: %w", err)
	}
	return count, nil
}

// SumUnpaidFees totals a user's unpaid posted fees in cents.
func (r *CirculationRepository) SumUnpaidFees(ctx context.Context, userID int64) (int64, error) {
	var total int64
	const query = `SELECT COALESCE(SUM(amount_cents), 0) FROM feefines WHERE user_id = $1 AND status = $2`
	if err := r.db.GetContext(ctx, &total, query, userID, models.FeeUnpaid); err != nil {
		return 0, fmt.Errorf("sum unpaid fees: %w", err)
	}
	return total, nil
}

// ListOverdueLoans returns open loans due before the given day, joined with
// borrower and book for report exports.
func (r *CirculationRepository) ListOverdueLoans(ctx context.Context, before time.Time) ([]models.OverdueLoanRow, error) {
	const query = `SELECT l.loan_id, u.name AS user_name, u.email, b.title, b.isbn, l.due_date
		FROM loans l
		JOIN users u ON u.user_id = l.user_id
		JOIN books b ON b.book_id = l.book_id
		WHERE l.returned_date IS NULL AND l.due_date < $1
		ORDER BY l.due_date`
	var rows []models.OverdueLoanRow
	if err := r.db.SelectContext(ctx, &rows, query, before); err != nil {
		return nil, fmt.Errorf("list overdue loans: %w", err)
	}
	return rows, nil
}
