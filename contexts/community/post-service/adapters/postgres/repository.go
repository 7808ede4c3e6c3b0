package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"libris/contexts/community/post-service/domain/entities"
	domainerrors "libris/contexts/community/post-service/domain/errors"
	"libris/contexts/community/post-service/ports"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreatePost(ctx context.Context, post entities.Post) error {
	row := postModelFromEntity(post)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetPost(ctx context.Context, postID string) (entities.Post, error) {
	var row postModel
	err := r.db.WithContext(ctx).
		Where("post_id = ?", strings.TrimSpace(postID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Post{}, domainerrors.ErrPostNotFound
		}
		return entities.Post{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdatePost(ctx context.Context, post entities.Post) error {
	result := r.db.WithContext(ctx).
		Model(&postModel{}).
		Where("post_id = ?", strings.TrimSpace(post.PostID)).
		Updates(map[string]any{
			"title":      post.Title,
			"content":    post.Content,
			"updated_at": post.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPostNotFound
	}
	return nil
}

func (r *Repository) DeletePost(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("post_id = ?", strings.TrimSpace(postID)).Delete(&postModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrPostNotFound
		}
		return tx.Where("post_id = ?", strings.TrimSpace(postID)).Delete(&commentModel{}).Error
	})
}

func (r *Repository) ListPosts(ctx context.Context, filter ports.PostFilter) (ports.PostPage, error) {
	tx := r.db.WithContext(ctx).Model(&postModel{})
	if len(filter.AuthorIDs) > 0 {
		tx = tx.Where("author_id IN ?", filter.AuthorIDs)
	}
	if filter.Search != "" {
		needle := "%" + filter.Search + "%"
		tx = tx.Where("title ILIKE ? OR content ILIKE ?", needle, needle)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ports.PostPage{}, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 5
	}

	var rows []postModel
	err := tx.Order("created_at DESC").
		Order("post_id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).
		Error
	if err != nil {
		return ports.PostPage{}, err
	}

	items := make([]entities.Post, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}

	totalPages := (int(total) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	return ports.PostPage{
		Items:      items,
		TotalCount: int(total),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (r *Repository) CreateComment(ctx context.Context, comment entities.Comment) error {
	row := commentModelFromEntity(comment)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetComment(ctx context.Context, commentID string) (entities.Comment, error) {
	var row commentModel
	err := r.db.WithContext(ctx).
		Where("comment_id = ?", strings.TrimSpace(commentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Comment{}, domainerrors.ErrCommentNotFound
		}
		return entities.Comment{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateComment(ctx context.Context, comment entities.Comment) error {
	result := r.db.WithContext(ctx).
		Model(&commentModel{}).
		Where("comment_id = ?", strings.TrimSpace(comment.CommentID)).
		Updates(map[string]any{
			"content":    comment.Content,
			"updated_at": comment.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCommentNotFound
	}
	return nil
}

func (r *Repository) DeleteComment(ctx context.Context, commentID string) error {
	result := r.db.WithContext(ctx).
		Where("comment_id = ?", strings.TrimSpace(commentID)).
		Delete(&commentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCommentNotFound
	}
	return nil
}

func (r *Repository) ListComments(ctx context.Context, postID string) ([]entities.Comment, error) {
	var rows []commentModel
	err := r.db.WithContext(ctx).
		Where("post_id = ?", strings.TrimSpace(postID)).
		Order("created_at ASC").
		Order("comment_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	comments := make([]entities.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.toEntity())
	}
	return comments, nil
}

type postModel struct {
	PostID    string    `gorm:"column:post_id;primaryKey"`
	AuthorID  string    `gorm:"column:author_id;index"`
	Title     string    `gorm:"column:title"`
	Content   string    `gorm:"column:content"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (postModel) TableName() string { return "community_posts" }

func postModelFromEntity(post entities.Post) postModel {
	return postModel{
		PostID:    post.PostID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt.UTC(),
		UpdatedAt: post.UpdatedAt.UTC(),
	}
}

func (m postModel) toEntity() entities.Post {
	return entities.Post{
		PostID:    m.PostID,
		AuthorID:  m.AuthorID,
		Title:     m.Title,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type commentModel struct {
	CommentID string    `gorm:"column:comment_id;primaryKey"`
	PostID    string    `gorm:"column:post_id;index"`
	AuthorID  string    `gorm:"column:author_id;index"`
	Content   string    `gorm:"column:content"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (commentModel) TableName() string { return "community_comments" }

func commentModelFromEntity(comment entities.Comment) commentModel {
	return commentModel{
		CommentID: comment.CommentID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.UTC(),
		UpdatedAt: comment.UpdatedAt.UTC(),
	}
}

func (m commentModel) toEntity() entities.Comment {
	return entities.Comment{
		CommentID: m.CommentID,
		PostID:    m.PostID,
		AuthorID:  m.AuthorID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
