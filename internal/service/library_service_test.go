package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
)

type mockLibraryRepo struct {
	libraries []models.Library
	rooms     map[int64]*models.Room
	hours     map[string]*models.OperatingTime
	nextRoom  int64
}

func (m *mockLibraryRepo) ListAll(ctx context.Context) ([]models.Library, error) {
	return m.libraries, nil
}

func (m *mockLibraryRepo) ListByType(ctx context.Context, libType string) ([]models.Library, error) {
	var out []models.Library
	for _, lib := range m.libraries {
		if lib.Type == libType {
			out = append(out, lib)
		}
	}
	return out, nil
}

func (m *mockLibraryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	for _, lib := range m.libraries {
		if lib.LibraryID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLibraryRepo) ListRooms(ctx context.Context, libraryID int64) ([]models.Room, error) {
	var out []models.Room
	for _, room := range m.rooms {
		if room.LibraryID == libraryID {
			out = append(out, *room)
		}
	}
	return out, nil
}

func (m *mockLibraryRepo) FindRoomInLibrary(ctx context.Context, roomID, libraryID int64) (*models.Room, error) {
	room, ok := m.rooms[roomID]
	if !ok || room.LibraryID != libraryID {
		return nil, sql.ErrNoRows
	}
	copied := *room
	return &copied, nil
}

func (m *mockLibraryRepo) CreateRoom(ctx context.Context, room *models.Room) error {
	if m.rooms == nil {
		m.rooms = map[int64]*models.Room{}
	}
	m.nextRoom++
	room.RoomID = m.nextRoom
	stored := *room
	m.rooms[room.RoomID] = &stored
	return nil
}

func (m *mockLibraryRepo) ListHours(ctx context.Context, libraryID int64) ([]models.OperatingTime, error) {
	var out []models.OperatingTime
	for _, entry := range m.hours {
		if entry.LibraryID == libraryID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (m *mockLibraryRepo) UpsertHours(ctx context.Context, entry *models.OperatingTime) error {
	if m.hours == nil {
		m.hours = map[string]*models.OperatingTime{}
	}
	stored := *entry
	m.hours[entry.Weekday] = &stored
	return nil
}

type mockSeatRepo struct {
	seats  map[int64]*models.Seat
	rooms  map[int64]int64 // room -> library, for FindInLibrary
	nextID int64
}

func (m *mockSeatRepo) List(ctx context.Context, filter models.SeatFilter) ([]models.Seat, error) {
	var out []models.Seat
	for _, seat := range m.seats {
		if m.rooms[seat.RoomID] != filter.LibraryID {
			continue
		}
		if filter.RoomID != nil && seat.RoomID != *filter.RoomID {
			continue
		}
		if filter.IsComputer != nil && seat.IsComputer != *filter.IsComputer {
			continue
		}
		if filter.ActiveOnly && !seat.IsActive {
			continue
		}
		out = append(out, *seat)
	}
	return out, nil
}

func (m *mockSeatRepo) FindInLibrary(ctx context.Context, seatID, libraryID int64) (*models.Seat, error) {
	seat, ok := m.seats[seatID]
	if !ok || m.rooms[seat.RoomID] != libraryID {
		return nil, sql.ErrNoRows
	}
	copied := *seat
	return &copied, nil
}

func (m *mockSeatRepo) Create(ctx context.Context, seat *models.Seat) error {
	if m.seats == nil {
		m.seats = map[int64]*models.Seat{}
	}
	m.nextID++
	seat.SeatID = m.nextID
	stored := *seat
	m.seats[seat.SeatID] = &stored
	return nil
}

func (m *mockSeatRepo) Update(ctx context.Context, seat *models.Seat) error {
	if _, ok := m.seats[seat.SeatID]; !ok {
		return sql.ErrNoRows
	}
	stored := *seat
	m.seats[seat.SeatID] = &stored
	return nil
}

func newLibraryService() (*LibraryService, *mockLibraryRepo, *mockSeatRepo) {
	libraries := &mockLibraryRepo{
		libraries: []models.Library{
			{LibraryID: 1, Name: "Main Library", Location: "Block A", Type: "library"},
			{LibraryID: 2, Name: "Science Lab", Location: "Block C", Type: "lab"},
		},
		rooms: map[int64]*models.Room{
			10: {RoomID: 10, LibraryID: 1, Name: "Reading Room", RoomType: "reading"},
		},
		nextRoom: 10,
	}
	seats := &mockSeatRepo{rooms: map[int64]int64{10: 1}}
	svc := NewLibraryService(libraries, seats, nil, zap.NewNop())
	return svc, libraries, seats
}

func TestLibraryServiceListByType(t *testing.T) {
	svc, _, _ := newLibraryService()

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	labs, err := svc.List(context.Background(), "lab")
	require.NoError(t, err)
	require.Len(t, labs, 1)
	assert.Equal(t, "Science Lab", labs[0].Name)
}

func TestLibraryServiceCreateRoom(t *testing.T) {
	svc, _, _ := newLibraryService()

	room, err := svc.CreateRoom(context.Background(), staffUser(), 1, CreateRoomRequest{Name: "Quiet Zone", RoomType: "study"})
	require.NoError(t, err)
	assert.NotZero(t, room.RoomID)
	assert.Equal(t, int64(1), room.LibraryID)

	var apiErr *appErrors.Error
	_, err = svc.CreateRoom(context.Background(), student(9), 1, CreateRoomRequest{Name: "Quiet Zone"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, apiErr.Code)

	_, err = svc.CreateRoom(context.Background(), staffUser(), 404, CreateRoomRequest{Name: "Quiet Zone"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, apiErr.Code)
}

func TestLibraryServiceSetHoursSkipsMalformedEntries(t *testing.T) {
	svc, _, _ := newLibraryService()

	hours, err := svc.SetHours(context.Background(), staffUser(), 1, []HoursEntry{
		{Weekday: "Mon", OpenTime: "08:00", CloseTime: "17:00"},
		{Weekday: "Funday", OpenTime: "08:00", CloseTime: "17:00"},
		{Weekday: "Tue", OpenTime: "8am", CloseTime: "17:00"},
	})
	require.NoError(t, err)
	require.Len(t, hours, 1)
	assert.Equal(t, "Mon", hours[0].Weekday)
	assert.Equal(t, "08:00", hours[0].OpenTime)
}

func TestLibraryServiceSetHoursDayRejectsBadEntry(t *testing.T) {
	svc, _, _ := newLibraryService()

	var apiErr *appErrors.Error
	_, err := svc.SetHoursDay(context.Background(), staffUser(), 1, HoursEntry{Weekday: "Funday", OpenTime: "08:00", CloseTime: "17:00"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrValidation.Code, apiErr.Code)

	entry, err := svc.SetHoursDay(context.Background(), staffUser(), 1, HoursEntry{Weekday: "Sat", OpenTime: "09:00", CloseTime: "13:00"})
	require.NoError(t, err)
	assert.Equal(t, "Sat", entry.Weekday)
}

func TestLibraryServiceCreateSeatChecksRoom(t *testing.T) {
	svc, _, _ := newLibraryService()

	seat, err := svc.CreateSeat(context.Background(), staffUser(), 1, CreateSeatRequest{RoomID: 10, Identifier: "A-01"})
	require.NoError(t, err)
	assert.True(t, seat.IsActive)
	assert.False(t, seat.IsComputer)

	var apiErr *appErrors.Error
	_, err = svc.CreateSeat(context.Background(), staffUser(), 2, CreateSeatRequest{RoomID: 10, Identifier: "A-02"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, apiErr.Code)
}

func TestLibraryServiceListComputers(t *testing.T) {
	svc, _, _ := newLibraryService()

	_, err := svc.CreateSeat(context.Background(), staffUser(), 1, CreateSeatRequest{RoomID: 10, Identifier: "A-01"})
	require.NoError(t, err)
	pc, err := svc.CreateSeat(context.Background(), staffUser(), 1, CreateSeatRequest{RoomID: 10, Identifier: "PC-01", IsComputer: true, Specs: "i5/16GB"})
	require.NoError(t, err)

	computers, err := svc.ListComputers(context.Background(), 1, true)
	require.NoError(t, err)
	require.Len(t, computers, 1)
	assert.Equal(t, pc.SeatID, computers[0].ComputerID)
	assert.Equal(t, "i5/16GB", computers[0].Specs)
}

func TestLibraryServiceUpdateSeat(t *testing.T) {
	svc, libraries, seats := newLibraryService()

	seat, err := svc.CreateSeat(context.Background(), staffUser(), 1, CreateSeatRequest{RoomID: 10, Identifier: "A-01"})
	require.NoError(t, err)

	occupied := true
	updated, err := svc.UpdateSeat(context.Background(), staffUser(), 1, seat.SeatID, models.SeatPatch{IsOccupied: &occupied})
	require.NoError(t, err)
	assert.True(t, updated.IsOccupied)
	assert.Equal(t, "A-01", updated.Identifier)

	// Moving to a room outside the library is rejected.
	otherRoom := &models.Room{RoomID: 20, LibraryID: 2, Name: "Lab Floor"}
	libraries.rooms[20] = otherRoom
	seats.rooms[20] = 2

	var apiErr *appErrors.Error
	roomID := int64(20)
	_, err = svc.UpdateSeat(context.Background(), staffUser(), 1, seat.SeatID, models.SeatPatch{RoomID: &roomID})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrValidation.Code, apiErr.Code)

	_, err = svc.UpdateSeat(context.Background(), staffUser(), 1, 404, models.SeatPatch{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, apiErr.Code)
}
