package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
)

// ErrAppointmentOverlap signals a booking that collides with an existing
// non-cancelled slot for the same librarian.
var ErrAppointmentOverlap = errors.New("appointment window overlaps an existing booking")

// AppointmentRepository manages librarian consultation bookings.
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository constructs an AppointmentRepository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create books the slot after an overlap check against the librarian's
// existing non-cancelled appointments. The librarian's user row is locked
// first so two concurrent bookings for the same librarian serialize; the
// half-open window comparison lets back-to-back slots share an endpoint.
func (r *AppointmentRepository) Create(ctx context.Context, appt *models.Appointment) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin appointment transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var librarianID int64
	const lock = `SELECT user_id FROM users WHERE user_id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &librarianID, lock, appt.LibrarianUserID); err != nil {
		return err
	}

	var clashes int
	const overlap = `SELECT COUNT(*) FROM appointments
		WHERE librarian_user_id = $1 AND status != $2
		AND start_datetime < $4 AND end_datetime > $3`
	if err = tx.GetContext(ctx, &clashes, overlap,
		appt.LibrarianUserID, models.AppointmentCancelled, appt.StartDatetime, appt.EndDatetime); err != nil {
		return fmt.Errorf("check appointment overlap: %w", err)
	}
	if clashes > 0 {
		err = ErrAppointmentOverlap
		return err
	}

	const insert = `INSERT INTO appointments (user_id, librarian_user_id, library_id, start_datetime, end_datetime, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING appointment_id`
	if err = tx.GetContext(ctx, &appt.AppointmentID, insert,
		appt.UserID, appt.LibrarianUserID, appt.LibraryID,
		appt.StartDatetime, appt.EndDatetime, appt.Status, appt.Notes); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit appointment: %w", err)
	}
	return nil
}

// Find fetches an appointment by ID.
func (r *AppointmentRepository) Find(ctx context.Context, id int64) (*models.Appointment, error) {
	const query = `SELECT appointment_id, user_id, librarian_user_id, library_id, start_datetime, end_datetime, status, notes
		FROM appointments WHERE appointment_id = $1`
	var appt models.Appointment
	if err := r.db.GetContext(ctx, &appt, query, id); err != nil {
		return nil, err
	}
	return &appt, nil
}

// List returns appointments matching the filter, soonest first.
func (r *AppointmentRepository) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	base := `SELECT appointment_id, user_id, librarian_user_id, library_id, start_datetime, end_datetime, status, notes
		FROM appointments WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, *filter.UserID)
	}
	if filter.LibrarianID != nil {
		conditions = append(conditions, fmt.Sprintf("librarian_user_id = $%d", len(args)+1))
		args = append(args, *filter.LibrarianID)
	}

	query := base
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_datetime"

	var appts []models.Appointment
	if err := r.db.SelectContext(ctx, &appts, query, args...); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

// UpdateStatus sets the lifecycle status of an appointment.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status models.AppointmentStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE appointments SET status = $2 WHERE appointment_id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
