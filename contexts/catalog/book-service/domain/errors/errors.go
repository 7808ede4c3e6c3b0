package errors

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidOrdering = errors.New("invalid ordering field")
	ErrFutureYear      = errors.New("publication year cannot be in the future")
	ErrBookNotFound    = errors.New("book not found")
	ErrAuthorNotFound  = errors.New("author not found")
	ErrDuplicateBook   = errors.New("book already exists for this author")
)
