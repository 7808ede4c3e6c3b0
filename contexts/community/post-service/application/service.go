package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"libris/contexts/community/post-service/domain/entities"
	domainerrors "libris/contexts/community/post-service/domain/errors"
	"libris/contexts/community/post-service/ports"
)

const (
	defaultPostPageSize = 5
	maxPostPageSize     = 50
	defaultFeedPageSize = 10
	maxFeedPageSize     = 50
)

// Service implements post and comment use cases. Ownership checks live
// here: only the author may edit or delete their post or comment.
type Service struct {
	Repo      ports.Repository
	Following ports.FollowingReader
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (s Service) CreatePost(ctx context.Context, authorID string, input ports.CreatePostInput) (entities.Post, error) {
	authorID = strings.TrimSpace(authorID)
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if authorID == "" || title == "" || content == "" {
		return entities.Post{}, domainerrors.ErrInvalidRequest
	}

	postID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Post{}, err
	}
	now := s.now()
	post := entities.Post{
		PostID:    postID,
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.CreatePost(ctx, post); err != nil {
		return entities.Post{}, err
	}

	s.logger().Info("post created",
		"event", "community_post_created",
		"module", "community/post-service",
		"layer", "application",
		"post_id", postID,
		"author_id", authorID,
	)
	return post, nil
}

func (s Service) GetPost(ctx context.Context, postID string) (entities.Post, error) {
	if strings.TrimSpace(postID) == "" {
		return entities.Post{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetPost(ctx, strings.TrimSpace(postID))
}

func (s Service) UpdatePost(ctx context.Context, callerID string, postID string, input ports.UpdatePostInput) (entities.Post, error) {
	post, err := s.ownedPost(ctx, callerID, postID)
	if err != nil {
		return entities.Post{}, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		post.Title = title
	}
	if content := strings.TrimSpace(input.Content); content != "" {
		post.Content = content
	}
	post.UpdatedAt = s.now()

	if err := s.Repo.UpdatePost(ctx, post); err != nil {
		return entities.Post{}, err
	}
	return post, nil
}

func (s Service) DeletePost(ctx context.Context, callerID string, postID string) error {
	post, err := s.ownedPost(ctx, callerID, postID)
	if err != nil {
		return err
	}
	if err := s.Repo.DeletePost(ctx, post.PostID); err != nil {
		return err
	}
	s.logger().Info("post deleted",
		"event", "community_post_deleted",
		"module", "community/post-service",
		"layer", "application",
		"post_id", post.PostID,
	)
	return nil
}

func (s Service) ListPosts(ctx context.Context, filter ports.PostFilter) (ports.PostPage, error) {
	filter = clampPage(filter, defaultPostPageSize, maxPostPageSize)
	return s.Repo.ListPosts(ctx, filter)
}

// Feed lists posts authored by users the caller follows, newest first.
// A caller following nobody gets an empty page, not an error.
func (s Service) Feed(ctx context.Context, callerID string, filter ports.PostFilter) (ports.PostPage, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return ports.PostPage{}, domainerrors.ErrInvalidRequest
	}
	filter = clampPage(filter, defaultFeedPageSize, maxFeedPageSize)

	following, err := s.Following.Following(ctx, callerID)
	if err != nil {
		return ports.PostPage{}, err
	}
	if len(following) == 0 {
		return ports.PostPage{
			Items:    []entities.Post{},
			Page:     filter.Page,
			PageSize: filter.PageSize,
		}, nil
	}
	filter.AuthorIDs = following
	return s.Repo.ListPosts(ctx, filter)
}

func (s Service) AddComment(ctx context.Context, authorID string, postID string, content string) (entities.Comment, error) {
	authorID = strings.TrimSpace(authorID)
	postID = strings.TrimSpace(postID)
	content = strings.TrimSpace(content)
	if authorID == "" || postID == "" || content == "" {
		return entities.Comment{}, domainerrors.ErrInvalidRequest
	}
	if _, err := s.Repo.GetPost(ctx, postID); err != nil {
		return entities.Comment{}, err
	}

	commentID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Comment{}, err
	}
	now := s.now()
	comment := entities.Comment{
		CommentID: commentID,
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.CreateComment(ctx, comment); err != nil {
		return entities.Comment{}, err
	}
	return comment, nil
}

func (s Service) ListComments(ctx context.Context, postID string) ([]entities.Comment, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	if _, err := s.Repo.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.Repo.ListComments(ctx, postID)
}

func (s Service) UpdateComment(ctx context.Context, callerID string, commentID string, content string) (entities.Comment, error) {
	comment, err := s.ownedComment(ctx, callerID, commentID)
	if err != nil {
		return entities.Comment{}, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return entities.Comment{}, domainerrors.ErrInvalidRequest
	}
	comment.Content = content
	comment.UpdatedAt = s.now()

	if err := s.Repo.UpdateComment(ctx, comment); err != nil {
		return entities.Comment{}, err
	}
	return comment, nil
}

func (s Service) DeleteComment(ctx context.Context, callerID string, commentID string) error {
	comment, err := s.ownedComment(ctx, callerID, commentID)
	if err != nil {
		return err
	}
	return s.Repo.DeleteComment(ctx, comment.CommentID)
}

func (s Service) ownedPost(ctx context.Context, callerID string, postID string) (entities.Post, error) {
	callerID = strings.TrimSpace(callerID)
	postID = strings.TrimSpace(postID)
	if callerID == "" || postID == "" {
		return entities.Post{}, domainerrors.ErrInvalidRequest
	}
	post, err := s.Repo.GetPost(ctx, postID)
	if err != nil {
		return entities.Post{}, err
	}
	if post.AuthorID != callerID {
		return entities.Post{}, domainerrors.ErrNotOwner
	}
	return post, nil
}

func (s Service) ownedComment(ctx context.Context, callerID string, commentID string) (entities.Comment, error) {
	callerID = strings.TrimSpace(callerID)
	commentID = strings.TrimSpace(commentID)
	if callerID == "" || commentID == "" {
		return entities.Comment{}, domainerrors.ErrInvalidRequest
	}
	comment, err := s.Repo.GetComment(ctx, commentID)
	if err != nil {
		return entities.Comment{}, err
	}
	if comment.AuthorID != callerID {
		return entities.Comment{}, domainerrors.ErrNotOwner
	}
	return comment, nil
}

func clampPage(filter ports.PostFilter, defaultSize int, maxSize int) ports.PostFilter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultSize
	}
	if filter.PageSize > maxSize {
		filter.PageSize = maxSize
	}
	return filter
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
