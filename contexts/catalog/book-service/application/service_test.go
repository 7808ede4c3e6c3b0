package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"libris/contexts/catalog/book-service/adapters/memory"
	domainerrors "libris/contexts/catalog/book-service/domain/errors"
	"libris/contexts/catalog/book-service/ports"
)

func seedCatalog(t *testing.T) (Service, map[string]string) {
	t.Helper()
	store := memory.NewStore()
	service := Service{Repo: store, Clock: store, IDGen: store}

	authors := map[string]string{}
	for _, name := range []string{"Ursula K. Le Guin", "Octavia Butler"} {
		author, err := service.CreateAuthor(context.Background(), name)
		if err != nil {
			t.Fatalf("create author failed: %v", err)
		}
		authors[name] = author.AuthorID
	}

	books := []ports.CreateBookInput{
		{Title: "A Wizard of Earthsea", PublicationYear: 1968, AuthorID: authors["Ursula K. Le Guin"]},
		{Title: "The Dispossessed", PublicationYear: 1974, AuthorID: authors["Ursula K. Le Guin"]},
		{Title: "Kindred", PublicationYear: 1979, AuthorID: authors["Octavia Butler"]},
		{Title: "Parable of the Sower", PublicationYear: 1993, AuthorID: authors["Octavia Butler"]},
	}
	for _, input := range books {
		if _, err := service.CreateBook(context.Background(), input); err != nil {
			t.Fatalf("create book %q failed: %v", input.Title, err)
		}
	}
	return service, authors
}

func TestCreateBookRejectsFutureYear(t *testing.T) {
	service, authors := seedCatalog(t)

	_, err := service.CreateBook(context.Background(), ports.CreateBookInput{
		Title:           "From the Future",
		PublicationYear: time.Now().UTC().Year() + 1,
		AuthorID:        authors["Octavia Butler"],
	})
	if !errors.Is(err, domainerrors.ErrFutureYear) {
		t.Fatalf("expected ErrFutureYear, got %v", err)
	}
}

func TestCreateBookRejectsUnknownAuthor(t *testing.T) {
	service, _ := seedCatalog(t)

	_, err := service.CreateBook(context.Background(), ports.CreateBookInput{
		Title:           "Orphaned",
		PublicationYear: 2001,
		AuthorID:        "ghost",
	})
	if !errors.Is(err, domainerrors.ErrAuthorNotFound) {
		t.Fatalf("expected ErrAuthorNotFound, got %v", err)
	}
}

func TestCreateBookRejectsDuplicateTitlePerAuthor(t *testing.T) {
	service, authors := seedCatalog(t)

	_, err := service.CreateBook(context.Background(), ports.CreateBookInput{
		Title:           "Kindred",
		PublicationYear: 1979,
		AuthorID:        authors["Octavia Butler"],
	})
	if !errors.Is(err, domainerrors.ErrDuplicateBook) {
		t.Fatalf("expected ErrDuplicateBook, got %v", err)
	}
}

func TestListBooksDefaultOrderingByTitle(t *testing.T) {
	service, _ := seedCatalog(t)

	page, err := service.ListBooks(context.Background(), ports.BookFilter{})
	if err != nil {
		t.Fatalf("list books failed: %v", err)
	}
	if page.TotalCount != 4 {
		t.Fatalf("expected 4 books, got %d", page.TotalCount)
	}
	if page.Items[0].Title != "A Wizard of Earthsea" {
		t.Fatalf("expected title ordering, got %q first", page.Items[0].Title)
	}
}

func TestListBooksYearRangeAndOrdering(t *testing.T) {
	service, _ := seedCatalog(t)

	gt := 1970
	lt := 1994
	page, err := service.ListBooks(context.Background(), ports.BookFilter{
		YearGT:   &gt,
		YearLT:   &lt,
		Ordering: []ports.SortKey{{Field: ports.OrderYear, Descending: true}},
	})
	if err != nil {
		t.Fatalf("list books failed: %v", err)
	}
	if page.TotalCount != 3 {
		t.Fatalf("expected 3 books in range, got %d", page.TotalCount)
	}
	if page.Items[0].Title != "Parable of the Sower" {
		t.Fatalf("expected newest first, got %q", page.Items[0].Title)
	}
}

func TestListBooksSearchMatchesAuthorName(t *testing.T) {
	service, _ := seedCatalog(t)

	page, err := service.ListBooks(context.Background(), ports.BookFilter{Search: "butler"})
	if err != nil {
		t.Fatalf("list books failed: %v", err)
	}
	if page.TotalCount != 2 {
		t.Fatalf("expected 2 matches, got %d", page.TotalCount)
	}
}

func TestListBooksClassicsOnly(t *testing.T) {
	service, _ := seedCatalog(t)

	page, err := service.ListBooks(context.Background(), ports.BookFilter{ClassicsOnly: true})
	if err != nil {
		t.Fatalf("list books failed: %v", err)
	}
	if page.TotalCount != 0 {
		t.Fatalf("expected no pre-1950 books, got %d", page.TotalCount)
	}
}

func TestListBooksPagination(t *testing.T) {
	service, _ := seedCatalog(t)

	page, err := service.ListBooks(context.Background(), ports.BookFilter{Page: 2, PageSize: 3})
	if err != nil {
		t.Fatalf("list books failed: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 item on page 2, got %d", len(page.Items))
	}
	if page.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", page.TotalPages)
	}
}

func TestListBooksRejectsInvalidOrdering(t *testing.T) {
	service, _ := seedCatalog(t)

	_, err := service.ListBooks(context.Background(), ports.BookFilter{
		Ordering: []ports.SortKey{{Field: "price"}},
	})
	if !errors.Is(err, domainerrors.ErrInvalidOrdering) {
		t.Fatalf("expected ErrInvalidOrdering, got %v", err)
	}
}

func TestParseOrdering(t *testing.T) {
	keys, err := ParseOrdering("-publication_year, title")
	if err != nil {
		t.Fatalf("parse ordering failed: %v", err)
	}
	if len(keys) != 2 || !keys[0].Descending || keys[0].Field != ports.OrderYear || keys[1].Field != ports.OrderTitle {
		t.Fatalf("unexpected keys: %+v", keys)
	}

	if _, err := ParseOrdering("isbn"); !errors.Is(err, domainerrors.ErrInvalidOrdering) {
		t.Fatalf("expected ErrInvalidOrdering, got %v", err)
	}
}

func TestUpdateAndDeleteBook(t *testing.T) {
	service, authors := seedCatalog(t)

	page, err := service.ListBooks(context.Background(), ports.BookFilter{TitleContains: "kindred"})
	if err != nil || page.TotalCount != 1 {
		t.Fatalf("expected to find kindred: %v %d", err, page.TotalCount)
	}
	bookID := page.Items[0].BookID

	updated, err := service.UpdateBook(context.Background(), bookID, ports.UpdateBookInput{
		PublicationYear: 1980,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.PublicationYear != 1980 || updated.Title != "Kindred" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	_, err = service.UpdateBook(context.Background(), bookID, ports.UpdateBookInput{
		AuthorID: authors["Ursula K. Le Guin"],
	})
	if err != nil {
		t.Fatalf("author reassignment failed: %v", err)
	}

	if err := service.DeleteBook(context.Background(), bookID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := service.GetBook(context.Background(), bookID); !errors.Is(err, domainerrors.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestListAuthorsNestsBooks(t *testing.T) {
	service, _ := seedCatalog(t)

	authors, err := service.ListAuthors(context.Background(), ports.AuthorFilter{NameContains: "guin"})
	if err != nil {
		t.Fatalf("list authors failed: %v", err)
	}
	if len(authors) != 1 {
		t.Fatalf("expected 1 author, got %d", len(authors))
	}
	if len(authors[0].Books) != 2 {
		t.Fatalf("expected 2 nested books, got %d", len(authors[0].Books))
	}
}
