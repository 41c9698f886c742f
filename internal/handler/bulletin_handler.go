package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HackGhosT04/sccs-library-db/internal/service"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
	"github.com/HackGhosT04/sccs-library-db/pkg/response"
)

// BulletinHandler exposes announcement, purchase-request and recommendation
// endpoints.
type BulletinHandler struct {
	bulletin *service.BulletinService
}

// NewBulletinHandler constructs BulletinHandler.
func NewBulletinHandler(bulletin *service.BulletinService) *BulletinHandler {
	return &BulletinHandler{bulletin: bulletin}
}

// ListAnnouncements godoc
// @Summary List recent announcements
// @Tags Bulletin
// @Produce json
// @Param limit query int false "Max results (default 5)"
// @Success 200 {array} models.Announcement
// @Router /announcements [get]
func (h *BulletinHandler) ListAnnouncements(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	items, err := h.bulletin.ListAnnouncements(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// CreateAnnouncement godoc
// @Summary Post an announcement
// @Tags Bulletin
// @Accept json
// @Produce json
// @Param payload body service.CreateAnnouncementRequest true "Announcement payload"
// @Success 201 {object} models.Announcement
// @Router /announcements [post]
func (h *BulletinHandler) CreateAnnouncement(c *gin.Context) {
	var req service.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.bulletin.CreateAnnouncement(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// DeleteAnnouncement godoc
// @Summary Delete an announcement
// @Tags Bulletin
// @Param id path int true "Announcement ID"
// @Success 204
// @Router /announcements/{id} [delete]
func (h *BulletinHandler) DeleteAnnouncement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid announcement id"))
		return
	}
	if err := h.bulletin.DeleteAnnouncement(c.Request.Context(), userFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreatePurchaseRequest godoc
// @Summary Submit an acquisition request
// @Tags Bulletin
// @Accept json
// @Produce json
// @Param payload body service.PurchaseRequestInput true "Request payload"
// @Success 201 {object} models.PurchaseRequest
// @Router /purchase_requests [post]
func (h *BulletinHandler) CreatePurchaseRequest(c *gin.Context) {
	var input service.PurchaseRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req, err := h.bulletin.SubmitPurchaseRequest(c.Request.Context(), userFromContext(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, req)
}

// ListPurchaseRequests godoc
// @Summary List acquisition requests
// @Tags Bulletin
// @Produce json
// @Success 200 {array} models.PurchaseRequest
// @Router /purchase_requests [get]
func (h *BulletinHandler) ListPurchaseRequests(c *gin.Context) {
	reqs, err := h.bulletin.ListPurchaseRequests(c.Request.Context(), userFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reqs)
}

// CreateRecommendation godoc
// @Summary Submit feedback
// @Tags Bulletin
// @Accept json
// @Produce json
// @Param payload body service.RecommendationInput true "Feedback payload"
// @Success 201 {object} models.Recommendation
// @Router /recommendations [post]
func (h *BulletinHandler) CreateRecommendation(c *gin.Context) {
	var input service.RecommendationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	rec, err := h.bulletin.SubmitRecommendation(c.Request.Context(), userFromContext(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rec)
}

// ListRecommendations godoc
// @Summary List feedback
// @Tags Bulletin
// @Produce json
// @Success 200 {array} models.Recommendation
// @Router /recommendations [get]
func (h *BulletinHandler) ListRecommendations(c *gin.Context) {
	recs, err := h.bulletin.ListRecommendations(c.Request.Context(), userFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recs)
}
