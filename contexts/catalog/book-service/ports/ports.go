package ports

import (
	"context"
	"time"

	"libris/contexts/catalog/book-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Ordering fields accepted by book listings. A leading '-' on the query
// value selects descending order.
const (
	OrderTitle      = "title"
	OrderYear       = "publication_year"
	OrderAuthorName = "author_name"
	OrderBookID     = "book_id"
)

// SortKey is one validated ordering directive.
type SortKey struct {
	Field      string
	Descending bool
}

// BookFilter mirrors the listing query surface: field filters, free-text
// search over title and author name, ordering, and page pagination.
type BookFilter struct {
	Title              string
	TitleContains      string
	AuthorID           string
	AuthorNameContains string
	Year               *int
	YearGT             *int
	YearLT             *int
	YearGTE            *int
	YearLTE            *int
	RecentOnly         bool
	ClassicsOnly       bool
	Search             string
	Ordering           []SortKey
	Page               int
	PageSize           int
}

// AuthorFilter narrows author listings.
type AuthorFilter struct {
	NameContains string
	HasBooks     bool
}

// BookPage is one page of a book listing.
type BookPage struct {
	Items      []entities.Book
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
}

type CreateBookInput struct {
	Title           string
	PublicationYear int
	AuthorID        string
}

type UpdateBookInput struct {
	Title           string
	PublicationYear int
	AuthorID        string
}

// Repository persists books and authors.
type Repository interface {
	CreateBook(ctx context.Context, book entities.Book) error
	GetBook(ctx context.Context, bookID string) (entities.Book, error)
	UpdateBook(ctx context.Context, book entities.Book) error
	DeleteBook(ctx context.Context, bookID string) error
	ListBooks(ctx context.Context, filter BookFilter) (BookPage, error)

	CreateAuthor(ctx context.Context, author entities.Author) error
	GetAuthor(ctx context.Context, authorID string) (entities.AuthorWithBooks, error)
	ListAuthors(ctx context.Context, filter AuthorFilter) ([]entities.AuthorWithBooks, error)
}
