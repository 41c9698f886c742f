package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
)

// LibraryRepository manages libraries, their rooms and operating hours.
type LibraryRepository struct {
	db *sqlx.DB
}

// NewLibraryRepository constructs a LibraryRepository.
func NewLibraryRepository(db *sqlx.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// ListAll returns every library.
func (r *LibraryRepository) ListAll(ctx context.Context) ([]models.Library, error) {
	const query = `SELECT library_id, name, location, type FROM libraries ORDER BY library_id`
	var libraries []models.Library
	if err := r.db.SelectContext(ctx, &libraries, query); err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	return libraries, nil
}

// ListByType returns libraries of the given type tag.
func (r *LibraryRepository) ListByType(ctx context.Context, libType string) ([]models.Library, error) {
	const query = `SELECT library_id, name, location, type FROM libraries WHERE type = $1 ORDER BY library_id`
	var libraries []models.Library
	if err := r.db.SelectContext(ctx, &libraries, query, libType); err != nil {
		return nil, fmt.Errorf("list libraries by type: %w", err)
	}
	return libraries, nil
}

// Exists reports whether a library with the given ID is present.
func (r *LibraryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	if err := r.db.GetContext(ctx, &one, `SELECT 1 FROM libraries WHERE library_id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check library: %w", err)
	}
	return true, nil
}

// ListRooms returns the rooms of a library.
func (r *LibraryRepository) ListRooms(ctx context.Context, libraryID int64) ([]models.Room, error) {
	const query = `SELECT room_id, library_id, name, room_type FROM rooms WHERE library_id = $1 ORDER BY room_id`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, libraryID); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// FindRoomInLibrary returns a room only when it belongs to the library.
func (r *LibraryRepository) FindRoomInLibrary(ctx context.Context, roomID, libraryID int64) (*models.Room, error) {
	const query = `SELECT room_id, library_id, name, room_type FROM rooms WHERE room_id = $1 AND library_id = $2`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, roomID, libraryID); err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateRoom inserts a room and fills in the assigned ID.
func (r *LibraryRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	const query = `INSERT INTO rooms (library_id, name, room_type) VALUES ($1, $2, $3) RETURNING room_id`
	if err := r.db.GetContext(ctx, &room.RoomID, query, room.LibraryID, room.Name, room.RoomType); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// ListHours returns the operating hours of a library, one row per weekday
// that has been configured.
func (r *LibraryRepository) ListHours(ctx context.Context, libraryID int64) ([]models.OperatingTime, error) {
	const query = `SELECT operating_time_id, library_id, weekday, to_char(open_time, 'HH24:MI') AS open_time,
		to_char(close_time, 'HH24:MI') AS close_time
		FROM operating_times WHERE library_id = $1 ORDER BY operating_time_id`
	var hours []models.OperatingTime
	if err := r.db.SelectContext(ctx, &hours, query, libraryID); err != nil {
		return nil, fmt.Errorf("list hours: %w", err)
	}
	return hours, nil
}

// UpsertHours creates or replaces the record for one (library, weekday) pair.
func (r *LibraryRepository) UpsertHours(ctx context.Context, entry *models.OperatingTime) error {
	const query = `INSERT INTO operating_times (library_id, weekday, open_time, close_time)
		VALUES ($1, $2, $3::time, $4::time)
		ON CONFLICT (library_id, weekday)
		DO UPDATE SET open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time
		RETURNING operating_time_id`
	if err := r.db.GetContext(ctx, &entry.OperatingTimeID, query, entry.LibraryID, entry.Weekday, entry.OpenTime, entry.CloseTime); err != nil {
		return fmt.Errorf("upsert hours: %w", err)
	}
	return nil
}
