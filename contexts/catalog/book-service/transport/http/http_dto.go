package httptransport

// BookDTO is the wire shape of one book.
type BookDTO struct {
	BookID          string `json:"book_id"`
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	AuthorID        string `json:"author_id"`
	AuthorName      string `json:"author_name"`
}

// ListBooksRequest carries the parsed listing query parameters.
type ListBooksRequest struct {
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
	Ordering           string
	Page               int
	PageSize           int
}

type ListBooksResponse struct {
	Books      []BookDTO `json:"books"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

type CreateBookRequest struct {
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	AuthorID        string `json:"author_id"`
}

type UpdateBookRequest struct {
	Title           string `json:"title,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
	AuthorID        string `json:"author_id,omitempty"`
}

type AuthorDTO struct {
	AuthorID string    `json:"author_id"`
	Name     string    `json:"name"`
	Books    []BookDTO `json:"books"`
}

type ListAuthorsResponse struct {
	Authors []AuthorDTO `json:"authors"`
}

type CreateAuthorRequest struct {
	Name string `json:"name"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
