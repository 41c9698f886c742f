package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
)

type mockBookCatalogRepo struct {
	books      map[int64]*models.Book
	nextID     int64
	total      int
	lastFilter models.BookFilter
}

func (m *mockBookCatalogRepo) Search(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error) {
	m.lastFilter = filter
	var out []models.Book
	for _, b := range m.books {
		out = append(out, *b)
	}
	return out, m.total, nil
}

func (m *mockBookCatalogRepo) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	book, ok := m.books[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *book
	return &copied, nil
}

func (m *mockBookCatalogRepo) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	for _, b := range m.books {
		if b.ISBN == isbn {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBookCatalogRepo) Create(ctx context.Context, book *models.Book) error {
	if m.books == nil {
		m.books = map[int64]*models.Book{}
	}
	m.nextID++
	book.BookID = m.nextID
	stored := *book
	m.books[book.BookID] = &stored
	m.total++
	return nil
}

func (m *mockBookCatalogRepo) Update(ctx context.Context, book *models.Book) error {
	if _, ok := m.books[book.BookID]; !ok {
		return sql.ErrNoRows
	}
	stored := *book
	m.books[book.BookID] = &stored
	return nil
}

func (m *mockBookCatalogRepo) AddCopy(ctx context.Context, id int64) (int, int, error) {
	book, ok := m.books[id]
	if !ok {
		return 0, 0, sql.ErrNoRows
	}
	book.CopiesTotal++
	book.CopiesAvailable++
	return book.CopiesTotal, book.CopiesAvailable, nil
}

func (m *mockBookCatalogRepo) RemoveCopy(ctx context.Context, id int64) (int, int, error) {
	book, ok := m.books[id]
	if !ok || book.CopiesTotal == 0 {
		return 0, 0, sql.ErrNoRows
	}
	book.CopiesTotal--
	if book.CopiesAvailable > book.CopiesTotal {
		book.CopiesAvailable = book.CopiesTotal
	}
	return book.CopiesTotal, book.CopiesAvailable, nil
}

func newCatalogService(repo *mockBookCatalogRepo) *CatalogService {
	return NewCatalogService(repo, nil, zap.NewNop())
}

func createBookRequest() CreateBookRequest {
	return CreateBookRequest{
		ISBN:   "978-0-13-468599-1",
		Title:  "The Go Programming Language",
		Author: "Donovan & Kernighan",
		Copies: 3,
	}
}

func TestCatalogServiceCreate(t *testing.T) {
	repo := &mockBookCatalogRepo{}
	svc := newCatalogService(repo)

	book, err := svc.Create(context.Background(), staffUser(), createBookRequest())
	require.NoError(t, err)
	assert.NotZero(t, book.BookID)
	assert.Equal(t, 3, book.CopiesTotal)
	assert.Equal(t, 3, book.CopiesAvailable)
}

func TestCatalogServiceCreateDuplicateISBN(t *testing.T) {
	repo := &mockBookCatalogRepo{}
	svc := newCatalogService(repo)

	_, err := svc.Create(context.Background(), staffUser(), createBookRequest())
	require.NoError(t, err)

	var apiErr *appErrors.Error
	_, err = svc.Create(context.Background(), staffUser(), createBookRequest())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrConflict.Code, apiErr.Code)
}

func TestCatalogServiceCreateGuards(t *testing.T) {
	svc := newCatalogService(&mockBookCatalogRepo{})

	var apiErr *appErrors.Error
	_, err := svc.Create(context.Background(), student(9), createBookRequest())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, apiErr.Code)

	req := createBookRequest()
	req.Title = ""
	_, err = svc.Create(context.Background(), staffUser(), req)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrValidation.Code, apiErr.Code)
}

func TestCatalogServiceSearchInlinesCovers(t *testing.T) {
	repo := &mockBookCatalogRepo{}
	svc := newCatalogService(repo)

	req := createBookRequest()
	req.Image = []byte{0xFF, 0xD8, 0xFF}
	_, err := svc.Create(context.Background(), staffUser(), req)
	require.NoError(t, err)

	page, err := svc.Search(context.Background(), models.BookFilter{Query: "go", Page: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PerPage)
	assert.Equal(t, 1, page.Pages)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].ImageBase64)
	assert.Equal(t, base64.StdEncoding.EncodeToString(req.Image), *page.Items[0].ImageBase64)
}

func TestCatalogServiceGetMissing(t *testing.T) {
	svc := newCatalogService(&mockBookCatalogRepo{})

	var apiErr *appErrors.Error
	_, err := svc.Get(context.Background(), 404)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, apiErr.Code)
}

func TestCatalogServiceUpdate(t *testing.T) {
	repo := &mockBookCatalogRepo{}
	svc := newCatalogService(repo)

	book, err := svc.Create(context.Background(), staffUser(), createBookRequest())
	require.NoError(t, err)

	title := "The Go Programming Language, 2nd ed."
	updated, err := svc.Update(context.Background(), staffUser(), book.BookID, UpdateBookRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, book.ISBN, updated.ISBN)
	assert.Equal(t, book.Author, updated.Author)
}

func TestCatalogServiceUpdateISBNCollision(t *testing.T) {
	repo := &mockBookCatalogRepo{}
	svc := newCatalogService(repo)

	first, err := svc.Create(context.Background(), staffUser(), createBookRequest())
	require.NoError(t, err)

	second := createBookRequest()
	second.ISBN = "978-1-49-195829-4"
	secondBook, err := svc.Create(context.Background(), staffUser(), second)
	require.NoError(t, err)

	var apiErr *appErrors.Error
	_, err = svc.Update(context.Background(), staffUser(), secondBook.BookID, UpdateBookRequest{ISBN: &first.ISBN})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrConflict.Code, apiErr.Code)
}

func TestCatalogServiceCopyCounters(t *testing.T) {
	repo := &mockBookCatalogRepo{}
	svc := newCatalogService(repo)

	book, err := svc.Create(context.Background(), staffUser(), createBookRequest())
	require.NoError(t, err)

	counts, err := svc.AddCopy(context.Background(), staffUser(), book.BookID)
	require.NoError(t, err)
	assert.Equal(t, 4, counts.CopiesTotal)
	assert.Equal(t, 4, counts.CopiesAvailable)

	counts, err = svc.RemoveCopy(context.Background(), staffUser(), book.BookID)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.CopiesTotal)

	// Drain the remaining copies; the next removal hits the zero floor.
	for i := 0; i < 3; i++ {
		_, err = svc.RemoveCopy(context.Background(), staffUser(), book.BookID)
		require.NoError(t, err)
	}
	var apiErr *appErrors.Error
	_, err = svc.RemoveCopy(context.Background(), staffUser(), book.BookID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrConflict.Code, apiErr.Code)

	_, err = svc.RemoveCopy(context.Background(), staffUser(), 404)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, apiErr.Code)

	_, err = svc.AddCopy(context.Background(), student(9), book.BookID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, apiErr.Code)
}
