package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"libris/contexts/catalog/book-service/domain/entities"
	domainerrors "libris/contexts/catalog/book-service/domain/errors"
	"libris/contexts/catalog/book-service/ports"

	"github.com/google/uuid"
)

const classicsBefore = 1950

// Store is an in-memory adapter implementing the catalog repository port.
// It is intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	books   map[string]entities.Book
	authors map[string]entities.Author
}

func NewStore() *Store {
	return &Store{
		books:   make(map[string]entities.Book),
		authors: make(map[string]entities.Author),
	}
}

func (s *Store) CreateBook(_ context.Context, book entities.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.authors[book.AuthorID]; !ok {
		return domainerrors.ErrAuthorNotFound
	}
	for _, existing := range s.books {
		if existing.AuthorID == book.AuthorID && strings.EqualFold(existing.Title, book.Title) {
			return domainerrors.ErrDuplicateBook
		}
	}
	s.books[book.BookID] = book
	return nil
}

func (s *Store) GetBook(_ context.Context, bookID string) (entities.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[bookID]
	if !ok {
		return entities.Book{}, domainerrors.ErrBookNotFound
	}
	return book, nil
}

func (s *Store) UpdateBook(_ context.Context, book entities.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[book.BookID]; !ok {
		return domainerrors.ErrBookNotFound
	}
	for _, existing := range s.books {
		if existing.BookID != book.BookID &&
			existing.AuthorID == book.AuthorID &&
			strings.EqualFold(existing.Title, book.Title) {
			return domainerrors.ErrDuplicateBook
		}
	}
	s.books[book.BookID] = book
	return nil
}

func (s *Store) DeleteBook(_ context.Context, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[bookID]; !ok {
		return domainerrors.ErrBookNotFound
	}
	delete(s.books, bookID)
	return nil
}

func (s *Store) ListBooks(_ context.Context, filter ports.BookFilter) (ports.BookPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]entities.Book, 0, len(s.books))
	for _, book := range s.books {
		if s.matches(book, filter) {
			matched = append(matched, book)
		}
	}
	sortBooks(matched, filter.Ordering)
	return paginate(matched, filter.Page, filter.PageSize), nil
}

func (s *Store) CreateAuthor(_ context.Context, author entities.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.authors[author.AuthorID] = author
	return nil
}

func (s *Store) GetAuthor(_ context.Context, authorID string) (entities.AuthorWithBooks, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	author, ok := s.authors[authorID]
	if !ok {
		return entities.AuthorWithBooks{}, domainerrors.ErrAuthorNotFound
	}
	return s.withBooks(author), nil
}

func (s *Store) ListAuthors(_ context.Context, filter ports.AuthorFilter) ([]entities.AuthorWithBooks, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	authors := make([]entities.AuthorWithBooks, 0, len(s.authors))
	for _, author := range s.authors {
		if filter.NameContains != "" &&
			!strings.Contains(strings.ToLower(author.Name), strings.ToLower(filter.NameContains)) {
			continue
		}
		view := s.withBooks(author)
		if filter.HasBooks && len(view.Books) == 0 {
			continue
		}
		authors = append(authors, view)
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].Name < authors[j].Name })
	return authors, nil
}

// Now implements ports.Clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID implements ports.IDGenerator.
func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) withBooks(author entities.Author) entities.AuthorWithBooks {
	view := entities.AuthorWithBooks{Author: author}
	for _, book := range s.books {
		if book.AuthorID == author.AuthorID {
			view.Books = append(view.Books, book)
		}
	}
	sort.Slice(view.Books, func(i, j int) bool { return view.Books[i].Title < view.Books[j].Title })
	return view
}

func (s *Store) matches(book entities.Book, filter ports.BookFilter) bool {
	if filter.Title != "" && !strings.EqualFold(book.Title, filter.Title) {
		return false
	}
	if filter.TitleContains != "" &&
		!strings.Contains(strings.ToLower(book.Title), strings.ToLower(filter.TitleContains)) {
		return false
	}
	if filter.AuthorID != "" && book.AuthorID != filter.AuthorID {
		return false
	}
	if filter.AuthorNameContains != "" &&
		!strings.Contains(strings.ToLower(book.AuthorName), strings.ToLower(filter.AuthorNameContains)) {
		return false
	}
	if filter.Year != nil && book.PublicationYear != *filter.Year {
		return false
	}
	if filter.YearGT != nil && book.PublicationYear <= *filter.YearGT {
		return false
	}
	if filter.YearLT != nil && book.PublicationYear >= *filter.YearLT {
		return false
	}
	if filter.YearGTE != nil && book.PublicationYear < *filter.YearGTE {
		return false
	}
	if filter.YearLTE != nil && book.PublicationYear > *filter.YearLTE {
		return false
	}
	if filter.RecentOnly && book.PublicationYear < s.Now().Year()-10 {
		return false
	}
	if filter.ClassicsOnly && book.PublicationYear >= classicsBefore {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(book.Title), needle) &&
			!strings.Contains(strings.ToLower(book.AuthorName), needle) {
			return false
		}
	}
	return true
}

func sortBooks(books []entities.Book, ordering []ports.SortKey) {
	if len(ordering) == 0 {
		ordering = []ports.SortKey{{Field: ports.OrderTitle}}
	}
	sort.SliceStable(books, func(i, j int) bool {
		for _, key := range ordering {
			cmp := compareBooks(books[i], books[j], key.Field)
			if cmp == 0 {
				continue
			}
			if key.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareBooks(a entities.Book, b entities.Book, field string) int {
	switch field {
	case ports.OrderYear:
		return a.PublicationYear - b.PublicationYear
	case ports.OrderAuthorName:
		return strings.Compare(a.AuthorName, b.AuthorName)
	case ports.OrderBookID:
		return strings.Compare(a.BookID, b.BookID)
	default:
		return strings.Compare(a.Title, b.Title)
	}
}

func paginate(books []entities.Book, page int, pageSize int) ports.BookPage {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	total := len(books)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return ports.BookPage{
		Items:      append([]entities.Book(nil), books[start:end]...),
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
