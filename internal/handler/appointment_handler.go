package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	"github.com/HackGhosT04/sccs-library-db/internal/service"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
	"github.com/HackGhosT04/sccs-library-db/pkg/response"
)

// AppointmentHandler exposes librarian consultation endpoints.
type AppointmentHandler struct {
	appointments *service.AppointmentService
}

// NewAppointmentHandler constructs AppointmentHandler.
func NewAppointmentHandler(appointments *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

// Book godoc
// @Summary Book a librarian consultation
// @Tags Appointments
// @Accept json
// @Produce json
// @Param payload body service.BookAppointmentRequest true "Appointment payload"
// @Success 201 {object} models.Appointment
// @Router /appointments [post]
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req service.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	appt, err := h.appointments.Book(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, appt)
}

// List godoc
// @Summary List appointments
// @Tags Appointments
// @Produce json
// @Success 200 {array} models.Appointment
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	appts, err := h.appointments.List(c.Request.Context(), userFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appts)
}

type appointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary Update appointment status
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param payload body appointmentStatusRequest true "New status"
// @Success 200 {object} models.Appointment
// @Router /appointments/{id}/status [put]
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid appointment id"))
		return
	}
	var req appointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	appt, err := h.appointments.UpdateStatus(c.Request.Context(), userFromContext(c), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appt)
}
