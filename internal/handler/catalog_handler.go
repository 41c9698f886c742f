package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	"github.com/HackGhosT04/sccs-library-db/internal/service"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
	"github.com/HackGhosT04/sccs-library-db/pkg/response"
)

// CatalogHandler exposes book catalog endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Search godoc
// @Summary Search the catalog
// @Tags Books
// @Produce json
// @Param q query string false "Match against ISBN, title or author"
// @Param page query int false "1-based page"
// @Success 200 {object} models.BookPage
// @Router /books [get]
func (h *CatalogHandler) Search(c *gin.Context) {
	filter := models.BookFilter{Query: strings.TrimSpace(c.Query("q"))}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}

	page, err := h.catalog.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

// Get godoc
// @Summary Book detail
// @Tags Books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} models.BookItem
// @Router /books/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid book id"))
		return
	}
	item, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Add a catalog record
// @Tags Books
// @Accept multipart/form-data
// @Produce json
// @Param isbn formData string true "ISBN"
// @Param title formData string true "Title"
// @Param author formData string true "Author"
// @Param publisher formData string false "Publisher"
// @Param year formData int false "Publication year"
// @Param copies formData int false "Initial copy count"
// @Param image formData file false "Cover image"
// @Success 201 {object} models.Book
// @Router /books [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	req := service.CreateBookRequest{
		ISBN:   strings.TrimSpace(c.PostForm("isbn")),
		Title:  strings.TrimSpace(c.PostForm("title")),
		Author: strings.TrimSpace(c.PostForm("author")),
	}
	if publisher := c.PostForm("publisher"); publisher != "" {
		req.Publisher = &publisher
	}
	if raw := c.PostForm("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be numeric"))
			return
		}
		req.Year = &year
	}
	if raw := c.PostForm("copies"); raw != "" {
		copies, err := strconv.Atoi(raw)
		if err != nil || copies < 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "copies must be a non-negative integer"))
			return
		}
		req.Copies = copies
	}

	image, err := formImage(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req.Image = image

	book, err := h.catalog.Create(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, book)
}

// Update godoc
// @Summary Update a catalog record
// @Tags Books
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} models.Book
// @Router /books/{id} [put]
func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid book id"))
		return
	}

	var req service.UpdateBookRequest
	if isbn, ok := c.GetPostForm("isbn"); ok {
		req.ISBN = &isbn
	}
	if title, ok := c.GetPostForm("title"); ok {
		req.Title = &title
	}
	if author, ok := c.GetPostForm("author"); ok {
		req.Author = &author
	}
	if publisher, ok := c.GetPostForm("publisher"); ok {
		req.Publisher = &publisher
	}
	if raw, ok := c.GetPostForm("year"); ok {
		year, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be numeric"))
			return
		}
		req.Year = &year
	}

	image, err := formImage(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req.Image = image

	book, err := h.catalog.Update(c.Request.Context(), userFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book)
}

type copyActionRequest struct {
	Action string `json:"action" binding:"required"`
}

// UpdateCopies godoc
// @Summary Adjust copy counters
// @Tags Books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param payload body copyActionRequest true "Action: add or remove"
// @Success 200 {object} service.CopyCounts
// @Router /books/{id}/status [patch]
func (h *CatalogHandler) UpdateCopies(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid book id"))
		return
	}
	var req copyActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	var (
		counts *service.CopyCounts
		err    error
	)
	switch req.Action {
	case "add":
		counts, err = h.catalog.AddCopy(c.Request.Context(), userFromContext(c), id)
	case "remove":
		counts, err = h.catalog.RemoveCopy(c.Request.Context(), userFromContext(c), id)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "action must be add or remove"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts)
}

func formImage(c *gin.Context) ([]byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}
	f, err := file.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable image upload")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable image upload")
	}
	return data, nil
}
