package httpadapter

import (
	"context"
	"log/slog"

	"libris/contexts/catalog/book-service/application"
	"libris/contexts/catalog/book-service/domain/entities"
	"libris/contexts/catalog/book-service/ports"
	httptransport "libris/contexts/catalog/book-service/transport/http"
)

// Handler maps HTTP DTOs to the catalog application service.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ListBooksHandler(ctx context.Context, request httptransport.ListBooksRequest) (httptransport.ListBooksResponse, error) {
	ordering, err := application.ParseOrdering(request.Ordering)
	if err != nil {
		return httptransport.ListBooksResponse{}, err
	}

	page, err := h.Service.ListBooks(ctx, ports.BookFilter{
		Title:              request.Title,
		TitleContains:      request.TitleContains,
		AuthorID:           request.AuthorID,
		AuthorNameContains: request.AuthorNameContains,
		Year:               request.Year,
		YearGT:             request.YearGT,
		YearLT:             request.YearLT,
		YearGTE:            request.YearGTE,
		YearLTE:            request.YearLTE,
		RecentOnly:         request.RecentOnly,
		ClassicsOnly:       request.ClassicsOnly,
		Search:             request.Search,
		Ordering:           ordering,
		Page:               request.Page,
		PageSize:           request.PageSize,
	})
	if err != nil {
		return httptransport.ListBooksResponse{}, err
	}

	return httptransport.ListBooksResponse{
		Books:      bookDTOs(page.Items),
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

func (h Handler) GetBookHandler(ctx context.Context, bookID string) (httptransport.BookDTO, error) {
	book, err := h.Service.GetBook(ctx, bookID)
	if err != nil {
		return httptransport.BookDTO{}, err
	}
	return bookDTO(book), nil
}

func (h Handler) CreateBookHandler(ctx context.Context, request httptransport.CreateBookRequest) (httptransport.BookDTO, error) {
	book, err := h.Service.CreateBook(ctx, ports.CreateBookInput{
		Title:           request.Title,
		PublicationYear: request.PublicationYear,
		AuthorID:        request.AuthorID,
	})
	if err != nil {
		return httptransport.BookDTO{}, err
	}
	return bookDTO(book), nil
}

func (h Handler) UpdateBookHandler(ctx context.Context, bookID string, request httptransport.UpdateBookRequest) (httptransport.BookDTO, error) {
	book, err := h.Service.UpdateBook(ctx, bookID, ports.UpdateBookInput{
		Title:           request.Title,
		PublicationYear: request.PublicationYear,
		AuthorID:        request.AuthorID,
	})
	if err != nil {
		return httptransport.BookDTO{}, err
	}
	return bookDTO(book), nil
}

func (h Handler) DeleteBookHandler(ctx context.Context, bookID string) error {
	return h.Service.DeleteBook(ctx, bookID)
}

func (h Handler) ListAuthorsHandler(ctx context.Context, nameContains string, hasBooks bool) (httptransport.ListAuthorsResponse, error) {
	authors, err := h.Service.ListAuthors(ctx, ports.AuthorFilter{
		NameContains: nameContains,
		HasBooks:     hasBooks,
	})
	if err != nil {
		return httptransport.ListAuthorsResponse{}, err
	}

	items := make([]httptransport.AuthorDTO, 0, len(authors))
	for _, author := range authors {
		items = append(items, authorDTO(author))
	}
	return httptransport.ListAuthorsResponse{Authors: items}, nil
}

func (h Handler) GetAuthorHandler(ctx context.Context, authorID string) (httptransport.AuthorDTO, error) {
	author, err := h.Service.GetAuthor(ctx, authorID)
	if err != nil {
		return httptransport.AuthorDTO{}, err
	}
	return authorDTO(author), nil
}

func (h Handler) CreateAuthorHandler(ctx context.Context, request httptransport.CreateAuthorRequest) (httptransport.AuthorDTO, error) {
	author, err := h.Service.CreateAuthor(ctx, request.Name)
	if err != nil {
		return httptransport.AuthorDTO{}, err
	}
	return httptransport.AuthorDTO{
		AuthorID: author.AuthorID,
		Name:     author.Name,
		Books:    []httptransport.BookDTO{},
	}, nil
}

func bookDTO(book entities.Book) httptransport.BookDTO {
	return httptransport.BookDTO{
		BookID:          book.BookID,
		Title:           book.Title,
		PublicationYear: book.PublicationYear,
		AuthorID:        book.AuthorID,
		AuthorName:      book.AuthorName,
	}
}

func bookDTOs(books []entities.Book) []httptransport.BookDTO {
	items := make([]httptransport.BookDTO, 0, len(books))
	for _, book := range books {
		items = append(items, bookDTO(book))
	}
	return items
}

func authorDTO(author entities.AuthorWithBooks) httptransport.AuthorDTO {
	dto := httptransport.AuthorDTO{
		AuthorID: author.AuthorID,
		Name:     author.Name,
		Books:    bookDTOs(author.Books),
	}
	if dto.Books == nil {
		dto.Books = []httptransport.BookDTO{}
	}
	return dto
}
