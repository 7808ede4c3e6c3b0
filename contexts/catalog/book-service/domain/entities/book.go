package entities

import "time"

// Author represents a book author. Listings are ordered by name.
type Author struct {
	AuthorID  string    `json:"author_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Book represents a published book. The (title, author) pair is unique.
type Book struct {
	BookID          string    `json:"book_id"`
	Title           string    `json:"title"`
	PublicationYear int       `json:"publication_year"`
	AuthorID        string    `json:"author_id"`
	AuthorName      string    `json:"author_name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AuthorWithBooks nests an author's books for author detail responses.
type AuthorWithBooks struct {
	Author
	Books []Book `json:"books"`
}
