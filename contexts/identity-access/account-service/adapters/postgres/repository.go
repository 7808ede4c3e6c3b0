package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "libris/contexts/identity-access/account-service/domain/errors"
	"libris/contexts/identity-access/account-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
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

func (r *Repository) CreateUser(ctx context.Context, user ports.User) error {
	row := accountModelFromUser(user)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (r *Repository) GetUserByID(ctx context.Context, userID string) (ports.User, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.User{}, domainerrors.ErrUserNotFound
		}
		return ports.User{}, err
	}
	return row.toUser(), nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (ports.User, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.User{}, domainerrors.ErrUserNotFound
		}
		return ports.User{}, err
	}
	return row.toUser(), nil
}

func (r *Repository) UpdateProfile(ctx context.Context, userID string, input ports.UpdateProfileInput, now time.Time) (ports.User, error) {
	updates := map[string]any{
		"bio":        input.Bio,
		"updated_at": now.UTC(),
	}
	if strings.TrimSpace(input.DisplayName) != "" {
		updates["display_name"] = strings.TrimSpace(input.DisplayName)
	}

	result := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Updates(updates)
	if result.Error != nil {
		return ports.User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return r.GetUserByID(ctx, userID)
}

func (r *Repository) Follow(ctx context.Context, followerID string, followeeID string) error {
	row := followModel{
		FollowerID: strings.TrimSpace(followerID),
		FolloweeID: strings.TrimSpace(followeeID),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			// Re-following is a no-op.
			return nil
		}
		return err
	}
	return nil
}

func (r *Repository) Unfollow(ctx context.Context, followerID string, followeeID string) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", strings.TrimSpace(followerID), strings.TrimSpace(followeeID)).
		Delete(&followModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFollowing
	}
	return nil
}

func (r *Repository) ListFollowing(ctx context.Context, followerID string) ([]string, error) {
	var rows []followModel
	err := r.db.WithContext(ctx).
		Where("follower_id = ?", strings.TrimSpace(followerID)).
		Order("followee_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	followees := make([]string, 0, len(rows))
	for _, row := range rows {
		followees = append(followees, row.FolloweeID)
	}
	return followees, nil
}

func (r *Repository) CountFollowing(ctx context.Context, userID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&followModel{}).
		Where("follower_id = ?", strings.TrimSpace(userID)).
		Count(&count).
		Error
	return int(count), err
}

func (r *Repository) CountFollowers(ctx context.Context, userID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&followModel{}).
		Where("followee_id = ?", strings.TrimSpace(userID)).
		Count(&count).
		Error
	return int(count), err
}

func (r *Repository) PutToken(ctx context.Context, token ports.Token) error {
	row := tokenModel{
		Token:     token.Token,
		UserID:    token.UserID,
		CreatedAt: token.CreatedAt.UTC(),
		ExpiresAt: token.ExpiresAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetToken(ctx context.Context, raw string, now time.Time) (ports.Token, bool, error) {
	var row tokenModel
	err := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", strings.TrimSpace(raw), now.UTC()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Token{}, false, nil
		}
		return ports.Token{}, false, err
	}
	return row.toToken(), true, nil
}

func (r *Repository) GetActiveTokenForUser(ctx context.Context, userID string, now time.Time) (ports.Token, bool, error) {
	var row tokenModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", strings.TrimSpace(userID), now.UTC()).
		Order("expires_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Token{}, false, nil
		}
		return ports.Token{}, false, err
	}
	return row.toToken(), true, nil
}

func (r *Repository) DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&tokenModel{})
	return int(result.RowsAffected), result.Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

type accountModel struct {
	UserID       string    `gorm:"column:user_id;primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	DisplayName  string    `gorm:"column:display_name"`
	Bio          string    `gorm:"column:bio"`
	IsStaff      bool      `gorm:"column:is_staff"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string { return "accounts" }

func accountModelFromUser(user ports.User) accountModel {
	return accountModel{
		UserID:       user.UserID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		DisplayName:  user.DisplayName,
		Bio:          user.Bio,
		IsStaff:      user.IsStaff,
		CreatedAt:    user.CreatedAt.UTC(),
		UpdatedAt:    user.UpdatedAt.UTC(),
	}
}

func (m accountModel) toUser() ports.User {
	return ports.User{
		UserID:       m.UserID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		DisplayName:  m.DisplayName,
		Bio:          m.Bio,
		IsStaff:      m.IsStaff,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type tokenModel struct {
	Token     string    `gorm:"column:token;primaryKey"`
	UserID    string    `gorm:"column:user_id;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
}

func (tokenModel) TableName() string { return "account_tokens" }

func (m tokenModel) toToken() ports.Token {
	return ports.Token{
		Token:     m.Token,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}

type followModel struct {
	FollowerID string `gorm:"column:follower_id;primaryKey"`
	FolloweeID string `gorm:"column:followee_id;primaryKey"`
}

func (followModel) TableName() string { return "account_follows" }
