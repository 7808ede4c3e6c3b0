package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"libris/contexts/community/post-service/domain/entities"
	domainerrors "libris/contexts/community/post-service/domain/errors"
	"libris/contexts/community/post-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the post repository port.
// It is intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	posts    map[string]entities.Post
	comments map[string]entities.Comment
}

func NewStore() *Store {
	return &Store{
		posts:    make(map[string]entities.Post),
		comments: make(map[string]entities.Comment),
	}
}

func (s *Store) CreatePost(_ context.Context, post entities.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts[post.PostID] = post
	return nil
}

func (s *Store) GetPost(_ context.Context, postID string) (entities.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[postID]
	if !ok {
		return entities.Post{}, domainerrors.ErrPostNotFound
	}
	return post, nil
}

func (s *Store) UpdatePost(_ context.Context, post entities.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.PostID]; !ok {
		return domainerrors.ErrPostNotFound
	}
	s.posts[post.PostID] = post
	return nil
}

func (s *Store) DeletePost(_ context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return domainerrors.ErrPostNotFound
	}
	delete(s.posts, postID)
	for id, comment := range s.comments {
		if comment.PostID == postID {
			delete(s.comments, id)
		}
	}
	return nil
}

func (s *Store) ListPosts(_ context.Context, filter ports.PostFilter) (ports.PostPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]entities.Post, 0, len(s.posts))
	for _, post := range s.posts {
		if matches(post, filter) {
			matched = append(matched, post)
		}
	}
	// Newest first; post id breaks creation-time ties deterministically.
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].PostID < matched[j].PostID
	})
	return paginate(matched, filter.Page, filter.PageSize), nil
}

func (s *Store) CreateComment(_ context.Context, comment entities.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return domainerrors.ErrPostNotFound
	}
	s.comments[comment.CommentID] = comment
	return nil
}

func (s *Store) GetComment(_ context.Context, commentID string) (entities.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[commentID]
	if !ok {
		return entities.Comment{}, domainerrors.ErrCommentNotFound
	}
	return comment, nil
}

func (s *Store) UpdateComment(_ context.Context, comment entities.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[comment.CommentID]; !ok {
		return domainerrors.ErrCommentNotFound
	}
	s.comments[comment.CommentID] = comment
	return nil
}

func (s *Store) DeleteComment(_ context.Context, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[commentID]; !ok {
		return domainerrors.ErrCommentNotFound
	}
	delete(s.comments, commentID)
	return nil
}

func (s *Store) ListComments(_ context.Context, postID string) ([]entities.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]entities.Comment, 0)
	for _, comment := range s.comments {
		if comment.PostID == postID {
			comments = append(comments, comment)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].CommentID < comments[j].CommentID
	})
	return comments, nil
}

// Now implements ports.Clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID implements ports.IDGenerator.
func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func matches(post entities.Post, filter ports.PostFilter) bool {
	if len(filter.AuthorIDs) > 0 {
		found := false
		for _, authorID := range filter.AuthorIDs {
			if post.AuthorID == authorID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(post.Title), needle) &&
			!strings.Contains(strings.ToLower(post.Content), needle) {
			return false
		}
	}
	return true
}

func paginate(posts []entities.Post, page int, pageSize int) ports.PostPage {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 5
	}
	total := len(posts)
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

	return ports.PostPage{
		Items:      append([]entities.Post(nil), posts[start:end]...),
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
