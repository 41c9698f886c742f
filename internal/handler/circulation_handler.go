package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HackGhosT04/sccs-library-db/internal/service"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
	"github.com/HackGhosT04/sccs-library-db/pkg/response"
)

// CirculationHandler exposes reservation, loan and fee endpoints.
type CirculationHandler struct {
	circulation *service.CirculationService
}

// NewCirculationHandler constructs CirculationHandler.
func NewCirculationHandler(circulation *service.CirculationService) *CirculationHandler {
	return &CirculationHandler{circulation: circulation}
}

// Reserve godoc
// @Summary Place a hold on a book
// @Tags Circulation
// @Accept json
// @Produce json
// @Param payload body service.ReserveRequest true "Reservation payload"
// @Success 201 {object} models.Reservation
// @Router /reservations [post]
func (h *CirculationHandler) Reserve(c *gin.Context) {
	var req service.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	res, err := h.circulation.Reserve(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// ListReservations godoc
// @Summary List reservations
// @Tags Circulation
// @Produce json
// @Param user_id query int false "Target user (staff only)"
// @Param book_id query int false "Narrow to one book"
// @Success 200 {array} models.Reservation
// @Router /reservations [get]
func (h *CirculationHandler) ListReservations(c *gin.Context) {
	var userID, bookID int64
	if id, ok := queryID(c, "user_id"); ok {
		userID = id
	}
	if id, ok := queryID(c, "book_id"); ok {
		bookID = id
	}
	reservations, err := h.circulation.ListReservations(c.Request.Context(), userFromContext(c), userID, bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations)
}

// UserReservations godoc
// @Summary List reservations for a user
// @Tags Circulation
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} models.Reservation
// @Router /users/{user_id}/reservations [get]
func (h *CirculationHandler) UserReservations(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid user id"))
		return
	}
	reservations, err := h.circulation.ListReservations(c.Request.Context(), userFromContext(c), userID, 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations)
}

// Collect godoc
// @Summary Collect a reservation as a loan
// @Tags Circulation
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 201 {object} models.LoanItem
// @Router /reservations/{id}/collect [post]
func (h *CirculationHandler) Collect(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid reservation id"))
		return
	}
	loan, err := h.circulation.Collect(c.Request.Context(), userFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, loan)
}

// Cancel godoc
// @Summary Cancel a reservation
// @Tags Circulation
// @Param id path int true "Reservation ID"
// @Success 204
// @Router /reservations/{id} [delete]
func (h *CirculationHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid reservation id"))
		return
	}
	if err := h.circulation.Cancel(c.Request.Context(), userFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListLoans godoc
// @Summary List loans with accrued fees
// @Tags Circulation
// @Produce json
// @Param user_id query int false "Target user (staff only)"
// @Success 200 {array} models.LoanItem
// @Router /loans [get]
func (h *CirculationHandler) ListLoans(c *gin.Context) {
	var userID int64
	if id, ok := queryID(c, "user_id"); ok {
		userID = id
	}
	loans, err := h.circulation.ListLoans(c.Request.Context(), userFromContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loans)
}

// Renew godoc
// @Summary Renew a loan
// @Tags Circulation
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} models.LoanItem
// @Router /loans/{id}/renew [post]
func (h *CirculationHandler) Renew(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid loan id"))
		return
	}
	loan, err := h.circulation.Renew(c.Request.Context(), userFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loan)
}

// Return godoc
// @Summary Return a loan
// @Tags Circulation
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} models.LoanItem
// @Router /loans/{id}/return [post]
func (h *CirculationHandler) Return(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid loan id"))
		return
	}
	loan, err := h.circulation.Return(c.Request.Context(), userFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loan)
}

// Fees godoc
// @Summary Fee statement for a user
// @Tags Fees
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} service.FeeStatement
// @Router /users/{user_id}/fees [get]
func (h *CirculationHandler) Fees(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid user id"))
		return
	}
	statement, err := h.circulation.Fees(c.Request.Context(), userFromContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, statement)
}

// PostFee godoc
// @Summary Post a manual charge
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body service.PostFeeRequest true "Fee payload"
// @Success 201 {object} models.FeeFine
// @Router /feefine [post]
func (h *CirculationHandler) PostFee(c *gin.Context) {
	var req service.PostFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	fee, err := h.circulation.PostFee(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, fee)
}

// PayFee godoc
// @Summary Settle a posted charge
// @Tags Fees
// @Produce json
// @Param id path int true "Fee ID"
// @Success 200 {object} models.FeeFine
// @Router /feefine/{id}/pay [put]
func (h *CirculationHandler) PayFee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid fee id"))
		return
	}
	fee, err := h.circulation.PayFee(c.Request.Context(), userFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fee)
}

// Summary godoc
// @Summary Open circulation summary for a user
// @Tags Circulation
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.UserSummary
// @Router /users/{user_id}/summary [get]
func (h *CirculationHandler) Summary(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid user id"))
		return
	}
	summary, err := h.circulation.Summary(c.Request.Context(), userFromContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}
