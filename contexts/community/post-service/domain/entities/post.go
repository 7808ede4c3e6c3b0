package entities

import "time"

// Post is a user-authored entry. Listings are newest first.
type Post struct {
	PostID    string
	AuthorID  string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment belongs to exactly one post. Listings are oldest first.
type Comment struct {
	CommentID string
	PostID    string
	AuthorID  string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
