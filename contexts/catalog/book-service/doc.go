// Package catalog implements the book/author CRUD service, including
// filtered, searched, ordered, and paginated listings.
package catalog
