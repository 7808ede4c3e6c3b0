package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"libris/contexts/catalog/book-service/domain/entities"
	domainerrors "libris/contexts/catalog/book-service/domain/errors"
	"libris/contexts/catalog/book-service/ports"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

var orderingFields = map[string]struct{}{
	ports.OrderTitle:      {},
	ports.OrderYear:       {},
	ports.OrderAuthorName: {},
	ports.OrderBookID:     {},
}

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// ParseOrdering validates a comma-separated ordering expression, e.g.
// "-publication_year,title".
func ParseOrdering(raw string) ([]ports.SortKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var keys []ports.SortKey
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key := ports.SortKey{Field: part}
		if strings.HasPrefix(part, "-") {
			key.Field = part[1:]
			key.Descending = true
		}
		if _, ok := orderingFields[key.Field]; !ok {
			return nil, domainerrors.ErrInvalidOrdering
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (s Service) ListBooks(ctx context.Context, filter ports.BookFilter) (ports.BookPage, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	for _, key := range filter.Ordering {
		if _, ok := orderingFields[key.Field]; !ok {
			return ports.BookPage{}, domainerrors.ErrInvalidOrdering
		}
	}
	if len(filter.Ordering) == 0 {
		filter.Ordering = []ports.SortKey{{Field: ports.OrderTitle}}
	}
	return s.Repo.ListBooks(ctx, filter)
}

func (s Service) GetBook(ctx context.Context, bookID string) (entities.Book, error) {
	if strings.TrimSpace(bookID) == "" {
		return entities.Book{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetBook(ctx, strings.TrimSpace(bookID))
}

func (s Service) CreateBook(ctx context.Context, input ports.CreateBookInput) (entities.Book, error) {
	title := strings.TrimSpace(input.Title)
	authorID := strings.TrimSpace(input.AuthorID)
	if title == "" || authorID == "" {
		return entities.Book{}, domainerrors.ErrInvalidRequest
	}
	if err := s.validateYear(input.PublicationYear); err != nil {
		return entities.Book{}, err
	}
	author, err := s.Repo.GetAuthor(ctx, authorID)
	if err != nil {
		return entities.Book{}, err
	}

	bookID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Book{}, err
	}

	now := s.now()
	book := entities.Book{
		BookID:          bookID,
		Title:           title,
		PublicationYear: input.PublicationYear,
		AuthorID:        authorID,
		AuthorName:      author.Name,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.CreateBook(ctx, book); err != nil {
		return entities.Book{}, err
	}

	s.logger().Info("book created",
		"event", "catalog_book_created",
		"module", "catalog/book-service",
		"layer", "application",
		"book_id", bookID,
		"author_id", authorID,
	)
	return book, nil
}

func (s Service) UpdateBook(ctx context.Context, bookID string, input ports.UpdateBookInput) (entities.Book, error) {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return entities.Book{}, domainerrors.ErrInvalidRequest
	}
	book, err := s.Repo.GetBook(ctx, bookID)
	if err != nil {
		return entities.Book{}, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		book.Title = title
	}
	if input.PublicationYear != 0 {
		if err := s.validateYear(input.PublicationYear); err != nil {
			return entities.Book{}, err
		}
		book.PublicationYear = input.PublicationYear
	}
	if authorID := strings.TrimSpace(input.AuthorID); authorID != "" && authorID != book.AuthorID {
		author, err := s.Repo.GetAuthor(ctx, authorID)
		if err != nil {
			return entities.Book{}, err
		}
		book.AuthorID = authorID
		book.AuthorName = author.Name
	}
	book.UpdatedAt = s.now()

	if err := s.Repo.UpdateBook(ctx, book); err != nil {
		return entities.Book{}, err
	}
	return book, nil
}

func (s Service) DeleteBook(ctx context.Context, bookID string) error {
	if strings.TrimSpace(bookID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	if err := s.Repo.DeleteBook(ctx, strings.TrimSpace(bookID)); err != nil {
		return err
	}
	s.logger().Info("book deleted",
		"event", "catalog_book_deleted",
		"module", "catalog/book-service",
		"layer", "application",
		"book_id", bookID,
	)
	return nil
}

func (s Service) CreateAuthor(ctx context.Context, name string) (entities.Author, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entities.Author{}, domainerrors.ErrInvalidRequest
	}
	authorID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Author{}, err
	}
	author := entities.Author{
		AuthorID:  authorID,
		Name:      name,
		CreatedAt: s.now(),
	}
	if err := s.Repo.CreateAuthor(ctx, author); err != nil {
		return entities.Author{}, err
	}
	return author, nil
}

func (s Service) GetAuthor(ctx context.Context, authorID string) (entities.AuthorWithBooks, error) {
	if strings.TrimSpace(authorID) == "" {
		return entities.AuthorWithBooks{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetAuthor(ctx, strings.TrimSpace(authorID))
}

func (s Service) ListAuthors(ctx context.Context, filter ports.AuthorFilter) ([]entities.AuthorWithBooks, error) {
	return s.Repo.ListAuthors(ctx, filter)
}

// validateYear rejects books published in the future.
func (s Service) validateYear(year int) error {
	if year <= 0 {
		return domainerrors.ErrInvalidRequest
	}
	if year > s.now().Year() {
		return domainerrors.ErrFutureYear
	}
	return nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (s Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
