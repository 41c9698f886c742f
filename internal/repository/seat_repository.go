package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
)

// SeatRepository manages persistence for seats and their computer view.
type SeatRepository struct {
	db *sqlx.DB
}

// NewSeatRepository constructs a SeatRepository.
func NewSeatRepository(db *sqlx.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// List returns the seats of a library matching the filter. The library scope
// is resolved through the seat's room.
func (r *SeatRepository) List(ctx context.Context, filter models.SeatFilter) ([]models.Seat, error) {
	base := `SELECT s.seat_id, s.room_id, s.identifier, s.is_computer, s.is_active, s.is_occupied, s.specs
		FROM seats s JOIN rooms rm ON rm.room_id = s.room_id
		WHERE rm.library_id = $1`
	args := []interface{}{filter.LibraryID}
	var conditions []string

	if filter.RoomID != nil {
		conditions = append(conditions, fmt.Sprintf("s.room_id = $%d", len(args)+1))
		args = append(args, *filter.RoomID)
	}
	if filter.IsComputer != nil {
		conditions = append(conditions, fmt.Sprintf("s.is_computer = $%d", len(args)+1))
		args = append(args, *filter.IsComputer)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "s.is_active = TRUE")
	}

	query := base
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY s.seat_id"

	var seats []models.Seat
	if err := r.db.SelectContext(ctx, &seats, query, args...); err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	return seats, nil
}

// FindInLibrary returns a seat only when its room belongs to the library.
func (r *SeatRepository) FindInLibrary(ctx context.Context, seatID, libraryID int64) (*models.Seat, error) {
	const query = `SELECT s.seat_id, s.room_id, s.identifier, s.is_computer, s.is_active, s.is_occupied, s.specs
		FROM seats s JOIN rooms rm ON rm.room_id = s.room_id
		WHERE s.seat_id = $1 AND rm.library_id = $2`
	var seat models.Seat
	if err := r.db.GetContext(ctx, &seat, query, seatID, libraryID); err != nil {
		return nil, err
	}
	return &seat, nil
}

// Create inserts a seat and fills in the assigned ID.
func (r *SeatRepository) Create(ctx context.Context, seat *models.Seat) error {
	const query = `INSERT INTO seats (room_id, identifier, is_computer, is_active, is_occupied, specs)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING seat_id`
	if err := r.db.GetContext(ctx, &seat.SeatID, query,
		seat.RoomID, seat.Identifier, seat.IsComputer, seat.IsActive, seat.IsOccupied, seat.Specs); err != nil {
		return fmt.Errorf("create seat: %w", err)
	}
	return nil
}

// Update persists the full seat row. Patches are applied by the service
// before the write so the whole update runs as one statement.
func (r *SeatRepository) Update(ctx context.Context, seat *models.Seat) error {
	const query = `UPDATE seats SET room_id = :room_id, identifier = :identifier, is_computer = :is_computer,
		is_active = :is_active, is_occupied = :is_occupied, specs = :specs WHERE seat_id = :seat_id`
	if _, err := r.db.NamedExecContext(ctx, query, seat); err != nil {
		return fmt.Errorf("update seat: %w", err)
	}
	return nil
}
