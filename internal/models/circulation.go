package models

import "time"

// ReservationStatus enumerates reservation lifecycle states.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationFulfilled ReservationStatus = "fulfilled"
)

// Reservation holds exactly one copy of its book while active.
type Reservation struct {
	ReservationID int64             `db:"reservation_id" json:"reservation_id"`
	UserID        int64             `db:"user_id" json:"user_id"`
	BookID        int64             `db:"book_id" json:"book_id"`
	LibraryID     int64             `db:"library_id" json:"library_id"`
	ReservedFrom  time.Time         `db:"reserved_from" json:"reserved_from"`
	ReservedUntil time.Time         `db:"reserved_until" json:"reserved_until"`
	Status        ReservationStatus `db:"status" json:"status"`
}

// ReservationFilter narrows reservation listings.
type ReservationFilter struct {
	UserID *int64
	BookID *int64
}

// Loan is a copy removed from the reservation pool until returned.
type Loan struct {
	LoanID       int64      `db:"loan_id" json:"loan_id"`
	UserID       int64      `db:"user_id" json:"user_id"`
	BookID       int64      `db:"book_id" json:"book_id"`
	CheckoutDate time.Time  `db:"checkout_date" json:"-"`
	DueDate      time.Time  `db:"due_date" json:"-"`
	ReturnedDate *time.Time `db:"returned_date" json:"-"`
}

// Returned reports whether the loan has been returned.
func (l *Loan) Returned() bool {
	return l != nil && l.ReturnedDate != nil
}

// LoanItem is the list projection with dates rendered as calendar days.
type LoanItem struct {
	LoanID          int64   `json:"loan_id"`
	UserID          int64   `json:"user_id"`
	BookID          int64   `json:"book_id"`
	CheckoutDate    string  `json:"checkout_date"`
	DueDate         string  `json:"due_date"`
	ReturnedDate    *string `json:"returned_date"`
	AccruedFeeCents int64   `json:"accrued_fee_cents"`
}

// LoanFilter narrows loan listings.
type LoanFilter struct {
	UserID *int64
	BookID *int64
}

// FeeStatus enumerates posted fee states.
type FeeStatus string

const (
	FeeUnpaid FeeStatus = "unpaid"
	FeePaid   FeeStatus = "paid"
)

// FeeFine is a manually posted charge with its own pay lifecycle, distinct
// from the on-demand accrued overdue fee.
type FeeFine struct {
	FeeFineID   int64     `db:"feefine_id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Description string    `db:"description" json:"description"`
	Status      FeeStatus `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AccruedFee reports the computed overdue charge for one open loan.
type AccruedFee struct {
	LoanID      int64  `json:"loan_id"`
	BookID      int64  `json:"book_id"`
	DueDate     string `json:"due_date"`
	DaysOverdue int    `json:"days_overdue"`
	AmountCents int64  `json:"amount_cents"`
}

// OverdueLoanRow joins an overdue open loan with its borrower and book for
// report exports.
type OverdueLoanRow struct {
	LoanID   int64     `db:"loan_id"`
	UserName string    `db:"user_name"`
	Email    string    `db:"email"`
	Title    string    `db:"title"`
	ISBN     string    `db:"isbn"`
	DueDate  time.Time `db:"due_date"`
}
