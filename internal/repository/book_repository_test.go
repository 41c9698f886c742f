package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
)

func bookColumns() []string {
	return []string{"book_id", "isbn", "title", "author", "publisher", "year", "copies_total", "copies_available", "image"}
}

func TestBookRepositorySearchPaginates(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewBookRepository(db)

	rows := sqlmock.NewRows(bookColumns()).
		AddRow(int64(21), "978-1", "Go in Practice", "M. Ryer", nil, nil, 3, 2, nil)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY book_id LIMIT 10 OFFSET 10")).
		WithArgs("%go%").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM books")).
		WithArgs("%go%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	books, total, err := repo.Search(context.Background(), models.BookFilter{Query: "go", Page: 2})
	require.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepositorySearchDefaultsToFirstPage(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewBookRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY book_id LIMIT 10 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows(bookColumns()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM books")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	books, total, err := repo.Search(context.Background(), models.BookFilter{Page: 0})
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepositoryExistsByISBN(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewBookRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM books WHERE isbn = $1 LIMIT 1")).
		WithArgs("978-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	exists, err := repo.ExistsByISBN(context.Background(), "978-1")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM books WHERE isbn = $1 LIMIT 1")).
		WithArgs("978-2").
		WillReturnError(sql.ErrNoRows)
	exists, err = repo.ExistsByISBN(context.Background(), "978-2")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepositoryAddCopy(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewBookRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE books SET copies_total = copies_total + 1")).
		WithArgs(int64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"copies_total", "copies_available"}).AddRow(4, 3))

	total, available, err := repo.AddCopy(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, 3, available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepositoryRemoveCopyExhausted(t *testing.T) {
	db, mock, cleanup := newCirculationRepoMock(t)
	defer cleanup()
	repo := NewBookRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE books SET copies_total = copies_total - 1")).
		WithArgs(int64(21)).
		WillReturnError(sql.ErrNoRows)

	_, _, err := repo.RemoveCopy(context.Background(), 21)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
