package ports

import (
	"context"
	"time"

	"libris/contexts/community/post-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// FollowingReader resolves the set of user ids a caller follows. Backed by
// the account service at runtime.
type FollowingReader interface {
	Following(ctx context.Context, userID string) ([]string, error)
}

// PostFilter narrows post listings. AuthorIDs restricts to the given
// authors; an empty slice means no restriction.
type PostFilter struct {
	AuthorIDs []string
	Search    string
	Page      int
	PageSize  int
}

// PostPage is one page of a newest-first post listing.
type PostPage struct {
	Items      []entities.Post
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
}

type CreatePostInput struct {
	Title   string
	Content string
}

type UpdatePostInput struct {
	Title   string
	Content string
}

// Repository persists posts and comments.
type Repository interface {
	CreatePost(ctx context.Context, post entities.Post) error
	GetPost(ctx context.Context, postID string) (entities.Post, error)
	UpdatePost(ctx context.Context, post entities.Post) error
	DeletePost(ctx context.Context, postID string) error
	ListPosts(ctx context.Context, filter PostFilter) (PostPage, error)

	CreateComment(ctx context.Context, comment entities.Comment) error
	GetComment(ctx context.Context, commentID string) (entities.Comment, error)
	UpdateComment(ctx context.Context, comment entities.Comment) error
	DeleteComment(ctx context.Context, commentID string) error
	ListComments(ctx context.Context, postID string) ([]entities.Comment, error)
}
