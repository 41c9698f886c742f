package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
)

// BookPageSize is the fixed page size for catalog search.
const BookPageSize = 10

// BookRepository manages persistence for catalog books.
type BookRepository struct {
	db *sqlx.DB
}

// NewBookRepository constructs a BookRepository.
func NewBookRepository(db *sqlx.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Search returns one page of books matching the query along with the total
// match count. Pages are 1-based with a fixed size.
func (r *BookRepository) Search(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error) {
	base := "FROM books WHERE 1=1"
	var args []interface{}

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + q + "%"
		base += fmt.Sprintf(" AND (isbn ILIKE $%d OR title ILIKE $%d OR author ILIKE $%d)", len(args)+1, len(args)+1, len(args)+1)
		args = append(args, pattern)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * BookPageSize

	query := fmt.Sprintf("SELECT book_id, isbn, title, author, publisher, year, copies_total, copies_available, image %s ORDER BY book_id LIMIT %d OFFSET %d", base, BookPageSize, offset)
	var books []models.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search books: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	return books, total, nil
}

// FindByID fetches a book by ID.
func (r *BookRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	const query = `SELECT book_id, isbn, title, author, publisher, year, copies_total, copies_available, image FROM books WHERE book_id = $1`
	var book models.Book
	if err := r.db.GetContext(ctx, &book, query, id); err != nil {
		return nil, err
	}
	return &book, nil
}

// ExistsByISBN checks whether a book already uses the ISBN.
func (r *BookRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var one int
	if err := r.db.GetContext(ctx, &one, `SELECT 1 FROM books WHERE isbn = $1 LIMIT 1`, isbn); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check book isbn: %w", err)
	}
	return true, nil
}

// Create inserts a book and fills in the assigned ID.
func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	const query = `INSERT INTO books (isbn, title, author, publisher, year, copies_total, copies_available, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING book_id`
	if err := r.db.GetContext(ctx, &book.BookID, query,
		book.ISBN, book.Title, book.Author, book.Publisher, book.Year,
		book.CopiesTotal, book.CopiesAvailable, book.Image); err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// Update persists the full book row after the service has applied a patch.
func (r *BookRepository) Update(ctx context.Context, book *models.Book) error {
	const query = `UPDATE books SET isbn = :isbn, title = :title, author = :author, publisher = :publisher,
		year = :year, image = :image WHERE book_id = :book_id`
	if _, err := r.db.NamedExecContext(ctx, query, book); err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// AddCopy grows both counters by one.
func (r *BookRepository) AddCopy(ctx context.Context, id int64) (total, available int, err error) {
	const query = `UPDATE books SET copies_total = copies_total + 1, copies_available = copies_available + 1
		WHERE book_id = $1 RETURNING copies_total, copies_available`
	row := r.db.QueryRowxContext(ctx, query, id)
	if err := row.Scan(&total, &available); err != nil {
		return 0, 0, err
	}
	return total, available, nil
}

// RemoveCopy shrinks the holdings by one copy, preferring an available one.
// The guard keeps copies_total from going negative and the LEAST keeps the
// counter invariant intact when no copy is available.
func (r *BookRepository) RemoveCopy(ctx context.Context, id int64) (total, available int, err error) {
	const query = `UPDATE books SET copies_total = copies_total - 1,
		copies_available = LEAST(copies_available, copies_total - 1)
		WHERE book_id = $1 AND copies_total > 0 RETURNING copies_total, copies_available`
	row := r.db.QueryRowxContext(ctx, query, id)
	if err := row.Scan(&total, &available); err != nil {
		return 0, 0, err
	}
	return total, available, nil
}
