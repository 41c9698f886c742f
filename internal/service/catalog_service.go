package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	"github.com/HackGhosT04/sccs-library-db/internal/repository"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
)

type bookRepository interface {
	Search(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error)
	FindByID(ctx context.Context, id int64) (*models.Book, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	AddCopy(ctx context.Context, id int64) (total, available int, err error)
	RemoveCopy(ctx context.Context, id int64) (total, available int, err error)
}

// CreateBookRequest holds payload for adding a catalog record. The cover
// arrives as a multipart file; it is stored inline and served base64.
type CreateBookRequest struct {
	ISBN      string  `validate:"required"`
	Title     string  `validate:"required"`
	Author    string  `validate:"required"`
	Publisher *string
	Year      *int
	Copies    int `validate:"min=0"`
	Image     []byte
}

// UpdateBookRequest holds optional field updates; copy counters are managed
// through the dedicated status endpoint only.
type UpdateBookRequest struct {
	ISBN      *string
	Title     *string
	Author    *string
	Publisher *string
	Year      *int
	Image     []byte
}

// CopyCounts reports a book's counters after a copy adjustment.
type CopyCounts struct {
	BookID          int64 `json:"book_id"`
	CopiesTotal     int   `json:"copies_total"`
	CopiesAvailable int   `json:"copies_available"`
}

// CatalogService handles the book catalog and its copy inventory.
type CatalogService struct {
	repo      bookRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(repo bookRepository, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, validator: validate, logger: logger}
}

// Search returns one page of catalog matches with covers inlined.
func (s *CatalogService) Search(ctx context.Context, filter models.BookFilter) (*models.BookPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	books, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search books")
	}

	items := make([]models.BookItem, 0, len(books))
	for _, b := range books {
		items = append(items, bookItem(&b))
	}
	pages := (total + repository.BookPageSize - 1) / repository.BookPageSize
	return &models.BookPage{
		Items:   items,
		Total:   total,
		Page:    filter.Page,
		PerPage: repository.BookPageSize,
		Pages:   pages,
	}, nil
}

// Get returns one catalog record with its cover inlined.
func (s *CatalogService) Get(ctx context.Context, id int64) (*models.BookItem, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book")
	}
	item := bookItem(book)
	return &item, nil
}

// Create adds a catalog record. Staff only; ISBNs are unique.
func (s *CatalogService) Create(ctx context.Context, actor *models.User, req CreateBookRequest) (*models.Book, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid book payload")
	}

	exists, err := s.repo.ExistsByISBN(ctx, req.ISBN)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check isbn")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "isbn already in catalog")
	}

	book := &models.Book{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		Year:            req.Year,
		CopiesTotal:     req.Copies,
		CopiesAvailable: req.Copies,
		Image:           req.Image,
	}
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create book")
	}
	return book, nil
}

// Update applies optional field changes to a catalog record. Staff only.
func (s *CatalogService) Update(ctx context.Context, actor *models.User, id int64, req UpdateBookRequest) (*models.Book, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}

	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book")
	}

	if req.ISBN != nil && *req.ISBN != book.ISBN {
		exists, err := s.repo.ExistsByISBN(ctx, *req.ISBN)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check isbn")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "isbn already in catalog")
		}
		book.ISBN = *req.ISBN
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = req.Publisher
	}
	if req.Year != nil {
		book.Year = req.Year
	}
	if len(req.Image) > 0 {
		book.Image = req.Image
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update book")
	}
	return book, nil
}

// AddCopy raises both copy counters by one. Staff only.
func (s *CatalogService) AddCopy(ctx context.Context, actor *models.User, id int64) (*CopyCounts, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}
	total, available, err := s.repo.AddCopy(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add copy")
	}
	return &CopyCounts{BookID: id, CopiesTotal: total, CopiesAvailable: available}, nil
}

// RemoveCopy retires one copy, clamping availability so the counters stay
// consistent. Staff only; removing the last copy of a zero-copy record is
// rejected.
func (s *CatalogService) RemoveCopy(ctx context.Context, actor *models.User, id int64) (*CopyCounts, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}
	total, available, err := s.repo.RemoveCopy(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The guarded UPDATE matches nothing for both an unknown book
			// and a zero-copy record; tell them apart before answering.
			if _, findErr := s.repo.FindByID(ctx, id); findErr != nil {
				if errors.Is(findErr, sql.ErrNoRows) {
					return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
				}
				return nil, appErrors.Wrap(findErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove copy")
			}
			return nil, appErrors.Clone(appErrors.ErrConflict, "no copies to remove")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove copy")
	}
	return &CopyCounts{BookID: id, CopiesTotal: total, CopiesAvailable: available}, nil
}

func bookItem(b *models.Book) models.BookItem {
	item := models.BookItem{
		BookID:          b.BookID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		Year:            b.Year,
		CopiesAvailable: b.CopiesAvailable,
	}
	if len(b.Image) > 0 {
		encoded := base64.StdEncoding.EncodeToString(b.Image)
		item.ImageBase64 = &encoded
	}
	return item
}
