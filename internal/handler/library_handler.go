package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	"github.com/HackGhosT04/sccs-library-db/internal/service"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
	"github.com/HackGhosT04/sccs-library-db/pkg/response"
)

// LibraryHandler exposes library, room, hours and seat endpoints.
type LibraryHandler struct {
	libraries *service.LibraryService
}

// NewLibraryHandler constructs LibraryHandler.
func NewLibraryHandler(libraries *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{libraries: libraries}
}

// List godoc
// @Summary List libraries
// @Tags Libraries
// @Produce json
// @Param type query string false "Filter by library type"
// @Success 200 {array} models.Library
// @Router /libraries [get]
func (h *LibraryHandler) List(c *gin.Context) {
	libs, err := h.libraries.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, libs)
}

// ListLabs godoc
// @Summary List computer-lab libraries
// @Tags Libraries
// @Produce json
// @Success 200 {array} models.Library
// @Router /libraries/labs [get]
func (h *LibraryHandler) ListLabs(c *gin.Context) {
	libs, err := h.libraries.List(c.Request.Context(), "lab")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, libs)
}

// ListRooms godoc
// @Summary List a library's rooms
// @Tags Libraries
// @Produce json
// @Param library_id path int true "Library ID"
// @Success 200 {array} models.Room
// @Router /libraries/{library_id}/rooms [get]
func (h *LibraryHandler) ListRooms(c *gin.Context) {
	libraryID, ok := pathID(c, "library_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid library id"))
		return
	}
	rooms, err := h.libraries.ListRooms(c.Request.Context(), libraryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms)
}

// CreateRoom godoc
// @Summary Add a room to a library
// @Tags Libraries
// @Accept json
// @Produce json
// @Param library_id path int true "Library ID"
// @Param payload body service.CreateRoomRequest true "Room payload"
// @Success 201 {object} models.Room
// @Router /libraries/{library_id}/rooms [post]
func (h *LibraryHandler) CreateRoom(c *gin.Context) {
	libraryID, ok := pathID(c, "library_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid library id"))
		return
	}
	var req service.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	room, err := h.libraries.CreateRoom(c.Request.Context(), userFromContext(c), libraryID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// ListHours godoc
// @Summary List a library's operating hours
// @Tags Libraries
// @Produce json
// @Param library_id path int true "Library ID"
// @Success 200 {array} models.OperatingTime
// @Router /libraries/{library_id}/hours [get]
func (h *LibraryHandler) ListHours(c *gin.Context) {
	libraryID, ok := pathID(c, "library_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid library id"))
		return
	}
	hours, err := h.libraries.ListHours(c.Request.Context(), libraryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hours)
}

// SetHours godoc
// @Summary Bulk upsert operating hours
// @Tags Libraries
// @Accept json
// @Produce json
// @Param library_id path int true "Library ID"
// @Param payload body []service.HoursEntry true "Hours entries"
// @Success 200 {array} models.OperatingTime
// @Router /libraries/{library_id}/hours [put]
func (h *LibraryHandler) SetHours(c *gin.Context) {
	libraryID, ok := pathID(c, "library_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid library id"))
		return
	}
	var entries []service.HoursEntry
	if err := c.ShouldBindJSON(&entries); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	hours, err := h.libraries.SetHours(c.Request.Context(), userFromContext(c), libraryID, entries)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hours)
}

// SetHoursDay godoc
// @Summary Upsert one weekday's operating hours
// @Tags Libraries
// @Accept json
// @Produce json
// @Param library_id path int true "Library ID"
// @Param weekday path string true "Weekday (Mon..Sun)"
// @Param payload body service.HoursEntry true "Opening window"
// @Success 200 {object} models.OperatingTime
// @Router /libraries/{library_id}/hours/{weekday} [put]
func (h *LibraryHandler) SetHoursDay(c *gin.Context) {
	libraryID, ok := pathID(c, "library_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid library id"))
		return
	}
	var entry service.HoursEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry.Weekday = c.Param("weekday")
	record, err := h.libraries.SetHoursDay(c.Request.Context(), userFromContext(c), libraryID, entry)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// ListSeats godoc
// @Summary Seat availability for a library
// @Tags Seats
// @Produce json
// @Param library_id path int true "Library ID"
// @Param room_id query int false "Filter by room"
// @Param is_computer query bool false "Filter computers"
// @Param active query bool false "Only active seats"
// @Success 200 {array} models.Seat
// @Router /libraries/{library_id}/seats [get]
func (h *LibraryHandler) ListSeats(c *gin.Context) {
	libraryID, ok := pathID(c, "library_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid library id"))
		return
	}

	filter := models.SeatFilter{LibraryID: libraryID}
	if roomID, ok := queryID(c, "room_id"); ok {
		filter.RoomID = &roomID
	}
	if v := c.Query("is_computer"); v == "true" || v == "false" {
		b := v == "true"
		filter.IsComputer = &b
	}
	filter.ActiveOnly = c.Query("active") == "true"

	seats, err := h.libraries.ListSeats(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, seats)
}

// CreateSeat godoc
// @Summary Add a seat or computer
// @Tags Seats
// @Accept json
// @Produce json
// @Param library_id path int true "Library ID"
// @Param payload body service.CreateSeatRequest true "Seat payload"
// @Success 201 {object} models.Seat
// @Router /libraries/{library_id}/seats [post]
func (h *LibraryHandler) CreateSeat(c *gin.Context) {
	libraryID, ok := pathID(c, "library_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid library id"))
		return
	}
	var req service.CreateSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	seat, err := h.libraries.CreateSeat(c.Request.Context(), userFromContext(c), libraryID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, seat)
}

// UpdateSeat godoc
// @Summary Update a seat
// @Tags Seats
// @Accept json
// @Produce json
// @Param library_id path int true "Library ID"
// @Param seat_id path int true "Seat ID"
// @Param payload body models.SeatPatch true "Optional field updates"
// @Success 200 {object} models.Seat
// @Router /libraries/{library_id}/seats/{seat_id} [put]
func (h *LibraryHandler) UpdateSeat(c *gin.Context) {
	libraryID, ok := pathID(c, "library_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid library id"))
		return
	}
	seatID, ok := pathID(c, "seat_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid seat id"))
		return
	}
	var patch models.SeatPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	seat, err := h.libraries.UpdateSeat(c.Request.Context(), userFromContext(c), libraryID, seatID, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, seat)
}

// ListComputers godoc
// @Summary Computer availability for a library
// @Tags Seats
// @Produce json
// @Param library_id path int true "Library ID"
// @Param active query bool false "Only active computers"
// @Success 200 {array} models.Computer
// @Router /libraries/{library_id}/computers [get]
func (h *LibraryHandler) ListComputers(c *gin.Context) {
	libraryID, ok := pathID(c, "library_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid library id"))
		return
	}
	computers, err := h.libraries.ListComputers(c.Request.Context(), libraryID, c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, computers)
}
