package models

// Book is a catalog record with copy counters. The schema guarantees
// 0 <= copies_available <= copies_total at all times.
type Book struct {
	BookID          int64   `db:"book_id" json:"book_id"`
	ISBN            string  `db:"isbn" json:"isbn"`
	Title           string  `db:"title" json:"title"`
	Author          string  `db:"author" json:"author"`
	Publisher       *string `db:"publisher" json:"publisher,omitempty"`
	Year            *int    `db:"year" json:"year,omitempty"`
	CopiesTotal     int     `db:"copies_total" json:"copies_total"`
	CopiesAvailable int     `db:"copies_available" json:"copies_available"`
	Image           []byte  `db:"image" json:"-"`
}

// BookItem is the search/detail projection with the cover inlined as base64.
type BookItem struct {
	BookID          int64   `json:"book_id"`
	ISBN            string  `json:"isbn"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Publisher       *string `json:"publisher,omitempty"`
	Year            *int    `json:"year,omitempty"`
	CopiesAvailable int     `json:"copies_available"`
	ImageBase64     *string `json:"image_base64"`
}

// BookPage is the paginated search response shape.
type BookPage struct {
	Items   []BookItem `json:"items"`
	Total   int        `json:"total"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
	Pages   int        `json:"pages"`
}

// BookFilter captures search parameters. Page numbers are 1-based and the
// page size is fixed.
type BookFilter struct {
	Query string
	Page  int
}

// BookPatch carries optional book field updates.
type BookPatch struct {
	ISBN      *string
	Title     *string
	Author    *string
	Publisher *string
	Year      *int
	Image     []byte
}
