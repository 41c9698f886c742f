package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
)

type libraryRepository interface {
	ListAll(ctx context.Context) ([]models.Library, error)
	ListByType(ctx context.Context, libType string) ([]models.Library, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListRooms(ctx context.Context, libraryID int64) ([]models.Room, error)
	FindRoomInLibrary(ctx context.Context, roomID, libraryID int64) (*models.Room, error)
	CreateRoom(ctx context.Context, room *models.Room) error
	ListHours(ctx context.Context, libraryID int64) ([]models.OperatingTime, error)
	UpsertHours(ctx context.Context, entry *models.OperatingTime) error
}

type seatRepository interface {
	List(ctx context.Context, filter models.SeatFilter) ([]models.Seat, error)
	FindInLibrary(ctx context.Context, seatID, libraryID int64) (*models.Seat, error)
	Create(ctx context.Context, seat *models.Seat) error
	Update(ctx context.Context, seat *models.Seat) error
}

// CreateRoomRequest holds payload for adding a room to a library.
type CreateRoomRequest struct {
	Name     string `json:"name" validate:"required"`
	RoomType string `json:"room_type"`
}

// CreateSeatRequest holds payload for adding a seat or computer.
type CreateSeatRequest struct {
	RoomID     int64  `json:"room_id" validate:"required"`
	Identifier string `json:"identifier" validate:"required"`
	IsComputer bool   `json:"is_computer"`
	Specs      string `json:"specs"`
}

// HoursEntry is one weekday's opening window in an hours upsert.
type HoursEntry struct {
	Weekday   string `json:"weekday" validate:"required"`
	OpenTime  string `json:"open_time" validate:"required,len=5"`
	CloseTime string `json:"close_time" validate:"required,len=5"`
}

// LibraryService handles libraries, rooms, operating hours and the seat
// inventory, including its computer-flavored projection.
type LibraryService struct {
	libraries libraryRepository
	seats     seatRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLibraryService constructs the library service.
func NewLibraryService(libraries libraryRepository, seats seatRepository, validate *validator.Validate, logger *zap.Logger) *LibraryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibraryService{libraries: libraries, seats: seats, validator: validate, logger: logger}
}

// List returns all libraries, optionally filtered by type.
func (s *LibraryService) List(ctx context.Context, libType string) ([]models.Library, error) {
	var (
		libs []models.Library
		err  error
	)
	if libType == "" {
		libs, err = s.libraries.ListAll(ctx)
	} else {
		libs, err = s.libraries.ListByType(ctx, libType)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list libraries")
	}
	return libs, nil
}

// ListRooms returns a library's rooms.
func (s *LibraryService) ListRooms(ctx context.Context, libraryID int64) ([]models.Room, error) {
	if err := s.requireLibrary(ctx, libraryID); err != nil {
		return nil, err
	}
	rooms, err := s.libraries.ListRooms(ctx, libraryID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// CreateRoom adds a room to a library. Staff only.
func (s *LibraryService) CreateRoom(ctx context.Context, actor *models.User, libraryID int64, req CreateRoomRequest) (*models.Room, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	if err := s.requireLibrary(ctx, libraryID); err != nil {
		return nil, err
	}

	room := &models.Room{LibraryID: libraryID, Name: req.Name, RoomType: req.RoomType}
	if err := s.libraries.CreateRoom(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	return room, nil
}

// ListHours returns a library's weekly operating hours.
func (s *LibraryService) ListHours(ctx context.Context, libraryID int64) ([]models.OperatingTime, error) {
	if err := s.requireLibrary(ctx, libraryID); err != nil {
		return nil, err
	}
	hours, err := s.libraries.ListHours(ctx, libraryID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list operating hours")
	}
	return hours, nil
}

// SetHours upserts per-weekday opening windows for a library. Staff only.
func (s *LibraryService) SetHours(ctx context.Context, actor *models.User, libraryID int64, entries []HoursEntry) ([]models.OperatingTime, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}
	if len(entries) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one hours entry required")
	}
	if err := s.requireLibrary(ctx, libraryID); err != nil {
		return nil, err
	}

	// Invalid entries are skipped rather than failing the batch.
	for _, entry := range entries {
		if err := s.validator.Struct(entry); err != nil {
			s.logger.Warn("skipping malformed hours entry", zap.String("weekday", entry.Weekday), zap.Error(err))
			continue
		}
		if !models.ValidWeekday(entry.Weekday) {
			s.logger.Warn("skipping unknown weekday", zap.String("weekday", entry.Weekday))
			continue
		}
		record := &models.OperatingTime{
			LibraryID: libraryID,
			Weekday:   entry.Weekday,
			OpenTime:  entry.OpenTime,
			CloseTime: entry.CloseTime,
		}
		if err := s.libraries.UpsertHours(ctx, record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save operating hours")
		}
	}

	hours, err := s.libraries.ListHours(ctx, libraryID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload operating hours")
	}
	return hours, nil
}

// SetHoursDay upserts a single weekday's opening window. Staff only; unlike
// the bulk path, an invalid entry here is an error.
func (s *LibraryService) SetHoursDay(ctx context.Context, actor *models.User, libraryID int64, entry HoursEntry) (*models.OperatingTime, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}
	if err := s.validator.Struct(entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hours entry")
	}
	if !models.ValidWeekday(entry.Weekday) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown weekday label")
	}
	if err := s.requireLibrary(ctx, libraryID); err != nil {
		return nil, err
	}

	record := &models.OperatingTime{
		LibraryID: libraryID,
		Weekday:   entry.Weekday,
		OpenTime:  entry.OpenTime,
		CloseTime: entry.CloseTime,
	}
	if err := s.libraries.UpsertHours(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save operating hours")
	}
	return record, nil
}

// ListSeats returns seat availability for a library.
func (s *LibraryService) ListSeats(ctx context.Context, filter models.SeatFilter) ([]models.Seat, error) {
	if err := s.requireLibrary(ctx, filter.LibraryID); err != nil {
		return nil, err
	}
	seats, err := s.seats.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list seats")
	}
	return seats, nil
}

// ListComputers returns the computer projection of a library's seats.
func (s *LibraryService) ListComputers(ctx context.Context, libraryID int64, activeOnly bool) ([]models.Computer, error) {
	isComputer := true
	seats, err := s.ListSeats(ctx, models.SeatFilter{
		LibraryID:  libraryID,
		IsComputer: &isComputer,
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return nil, err
	}
	computers := make([]models.Computer, 0, len(seats))
	for _, seat := range seats {
		computers = append(computers, seat.ComputerView())
	}
	return computers, nil
}

// CreateSeat adds a seat to a room in the library. Staff only.
func (s *LibraryService) CreateSeat(ctx context.Context, actor *models.User, libraryID int64, req CreateSeatRequest) (*models.Seat, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid seat payload")
	}

	if _, err := s.libraries.FindRoomInLibrary(ctx, req.RoomID, libraryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found in library")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve room")
	}

	seat := &models.Seat{
		RoomID:     req.RoomID,
		Identifier: req.Identifier,
		IsComputer: req.IsComputer,
		IsActive:   true,
		Specs:      req.Specs,
	}
	if err := s.seats.Create(ctx, seat); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create seat")
	}
	return seat, nil
}

// UpdateSeat applies a partial update to a seat in the library. Staff only.
// A patch moving the seat to another room must name a room inside the same
// library.
func (s *LibraryService) UpdateSeat(ctx context.Context, actor *models.User, libraryID, seatID int64, patch models.SeatPatch) (*models.Seat, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}

	seat, err := s.seats.FindInLibrary(ctx, seatID, libraryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "seat not found in library")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seat")
	}

	if patch.RoomID != nil && *patch.RoomID != seat.RoomID {
		if _, err := s.libraries.FindRoomInLibrary(ctx, *patch.RoomID, libraryID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "target room not in library")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve room")
		}
		seat.RoomID = *patch.RoomID
	}
	if patch.Identifier != nil {
		seat.Identifier = *patch.Identifier
	}
	if patch.Specs != nil {
		seat.Specs = *patch.Specs
	}
	if patch.IsComputer != nil {
		seat.IsComputer = *patch.IsComputer
	}
	if patch.IsActive != nil {
		seat.IsActive = *patch.IsActive
	}
	if patch.IsOccupied != nil {
		seat.IsOccupied = *patch.IsOccupied
	}

	if err := s.seats.Update(ctx, seat); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update seat")
	}
	return seat, nil
}

func (s *LibraryService) requireLibrary(ctx context.Context, id int64) error {
	exists, err := s.libraries.Exists(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check library")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "library not found")
	}
	return nil
}
