package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	"github.com/HackGhosT04/sccs-library-db/internal/service"
	"github.com/HackGhosT04/sccs-library-db/pkg/config"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
	"github.com/HackGhosT04/sccs-library-db/pkg/response"
)

// StudyRoomHandler exposes study-room collaboration endpoints.
type StudyRoomHandler struct {
	rooms *service.StudyRoomService
	media config.MediaConfig
}

// NewStudyRoomHandler constructs StudyRoomHandler.
func NewStudyRoomHandler(rooms *service.StudyRoomService, media config.MediaConfig) *StudyRoomHandler {
	return &StudyRoomHandler{rooms: rooms, media: media}
}

// Create godoc
// @Summary Open a study room
// @Tags StudyRooms
// @Accept json
// @Produce json
// @Param payload body service.CreateStudyRoomRequest true "Room payload"
// @Success 201 {object} models.StudyRoom
// @Router /study_rooms [post]
func (h *StudyRoomHandler) Create(c *gin.Context) {
	var req service.CreateStudyRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	room, err := h.rooms.Create(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// List godoc
// @Summary List active study rooms
// @Tags StudyRooms
// @Produce json
// @Success 200 {array} models.StudyRoomListing
// @Router /study_rooms [get]
func (h *StudyRoomHandler) List(c *gin.Context) {
	rooms, err := h.rooms.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms)
}

// Get godoc
// @Summary Study room detail
// @Tags StudyRooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} service.StudyRoomDetail
// @Router /study_rooms/{id} [get]
func (h *StudyRoomHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid room id"))
		return
	}
	room, err := h.rooms.Get(c.Request.Context(), userFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room)
}

// Join godoc
// @Summary Request to join a study room
// @Tags StudyRooms
// @Accept json
// @Produce json
// @Param id path int true "Room ID"
// @Param payload body service.JoinStudyRoomRequest true "Contact details"
// @Success 201 {object} models.StudyRoomMember
// @Router /study_rooms/{id}/join [post]
func (h *StudyRoomHandler) Join(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid room id"))
		return
	}
	var req service.JoinStudyRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	member, err := h.rooms.Join(c.Request.Context(), userFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// Membership godoc
// @Summary Caller's membership status in a room
// @Tags StudyRooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} map[string]string
// @Router /study_rooms/{id}/membership [get]
func (h *StudyRoomHandler) Membership(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid room id"))
		return
	}
	status, err := h.rooms.Membership(c.Request.Context(), userFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": status})
}

// Members godoc
// @Summary Approved members of a room
// @Tags StudyRooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {array} models.StudyRoomMemberDetail
// @Router /study_rooms/{id}/members [get]
func (h *StudyRoomHandler) Members(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid room id"))
		return
	}
	members, err := h.rooms.Members(c.Request.Context(), userFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, members)
}

// PendingMembers godoc
// @Summary Pending join requests for a room
// @Tags StudyRooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {array} models.StudyRoomMemberDetail
// @Router /study_rooms/{id}/members/pending [get]
func (h *StudyRoomHandler) PendingMembers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid room id"))
		return
	}
	members, err := h.rooms.PendingMembers(c.Request.Context(), userFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, members)
}

type resolveMemberRequest struct {
	Status models.MembershipStatus `json:"status" binding:"required"`
}

// ResolveMember godoc
// @Summary Approve or reject a join request
// @Tags StudyRooms
// @Accept json
// @Produce json
// @Param id path int true "Room ID"
// @Param user_id path int true "Requesting user ID"
// @Param payload body resolveMemberRequest true "approved or rejected"
// @Success 200 {object} models.StudyRoomMember
// @Router /study_rooms/{id}/members/{user_id} [put]
func (h *StudyRoomHandler) ResolveMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid room id"))
		return
	}
	targetID, ok := pathID(c, "user_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid user id"))
		return
	}
	var req resolveMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	member, err := h.rooms.ResolveMember(c.Request.Context(), userFromContext(c), id, targetID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member)
}

type mediaItem struct {
	models.StudyRoomMediaDetail
	URL string `json:"url"`
}

// UploadMedia godoc
// @Summary Upload a file to a room
// @Tags StudyRooms
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Room ID"
// @Param file formData file true "File to share"
// @Success 201 {object} mediaItem
// @Router /study_rooms/{id}/media [post]
func (h *StudyRoomHandler) UploadMedia(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid room id"))
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	f, err := file.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload"))
		return
	}
	defer f.Close()

	media, err := h.rooms.UploadMedia(c.Request.Context(), userFromContext(c), id, service.MediaUpload{
		FileName: file.Filename,
		Size:     file.Size,
		Reader:   f,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{
		"media_id":    media.MediaID,
		"file_name":   media.FileName,
		"file_type":   media.FileType,
		"uploaded_at": media.UploadedAt,
		"url":         h.mediaURL(media.MediaID),
	})
}

// ListMedia godoc
// @Summary List a room's uploads
// @Tags StudyRooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {array} mediaItem
// @Router /study_rooms/{id}/media [get]
func (h *StudyRoomHandler) ListMedia(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid room id"))
		return
	}
	media, err := h.rooms.ListMedia(c.Request.Context(), userFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]mediaItem, 0, len(media))
	for _, m := range media {
		items = append(items, mediaItem{StudyRoomMediaDetail: m, URL: h.mediaURL(m.MediaID)})
	}
	response.JSON(c, http.StatusOK, items)
}

// DownloadMedia godoc
// @Summary Download a shared file
// @Tags StudyRooms
// @Produce octet-stream
// @Param media_id path int true "Media ID"
// @Success 200 {file} binary
// @Router /media/{media_id} [get]
func (h *StudyRoomHandler) DownloadMedia(c *gin.Context) {
	mediaID, ok := pathID(c, "media_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid media id"))
		return
	}
	media, reader, err := h.rooms.OpenMedia(c.Request.Context(), userFromContext(c), mediaID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", media.FileName))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

// MindMap godoc
// @Summary Load a room's mind-map
// @Tags StudyRooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} models.MindMapDocument
// @Router /study_rooms/{id}/mindmap [get]
func (h *StudyRoomHandler) MindMap(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid room id"))
		return
	}
	doc, err := h.rooms.MindMap(c.Request.Context(), userFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc)
}

// SaveMindMap godoc
// @Summary Replace a room's mind-map
// @Tags StudyRooms
// @Accept json
// @Produce json
// @Param id path int true "Room ID"
// @Param payload body models.MindMapDocument true "Whole document"
// @Success 200 {object} models.MindMapDocument
// @Router /study_rooms/{id}/mindmap [post]
func (h *StudyRoomHandler) SaveMindMap(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid room id"))
		return
	}
	var doc models.MindMapDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.rooms.SaveMindMap(c.Request.Context(), userFromContext(c), id, doc); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc)
}

func (h *StudyRoomHandler) mediaURL(mediaID int64) string {
	return fmt.Sprintf("%s/media/%d", h.media.PublicBaseURL, mediaID)
}
