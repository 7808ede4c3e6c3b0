package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"libris/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "libris/contexts/identity-access/authorization-service/domain/errors"
	"libris/contexts/identity-access/authorization-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
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

func (r *Repository) MembershipSnapshot(ctx context.Context, userID string) (entities.MembershipSnapshot, error) {
	var memberRows []memberModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Find(&memberRows).
		Error
	if err != nil {
		return entities.MembershipSnapshot{}, err
	}

	snapshot := entities.MembershipSnapshot{UserID: userID}
	for _, member := range memberRows {
		group, err := r.loadGroup(ctx, member.GroupID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrGroupNotFound) {
				continue
			}
			return entities.MembershipSnapshot{}, err
		}
		snapshot.Groups = append(snapshot.Groups, group)
	}
	return snapshot, nil
}

func (r *Repository) CreateGroup(ctx context.Context, group entities.Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := groupModel{
			GroupID: group.GroupID,
			Name:    group.Name,
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrGroupAlreadyExists
			}
			return err
		}
		return replacePermissions(tx, group.GroupID, group.Permissions)
	})
}

func (r *Repository) GetGroup(ctx context.Context, groupID string) (entities.Group, error) {
	return r.loadGroup(ctx, strings.TrimSpace(groupID))
}

func (r *Repository) ListGroups(ctx context.Context) ([]entities.Group, error) {
	var rows []groupModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	groups := make([]entities.Group, 0, len(rows))
	for _, row := range rows {
		group, err := r.loadGroup(ctx, row.GroupID)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (r *Repository) SetGroupPermissions(ctx context.Context, groupID string, permissions []entities.Permission) error {
	groupID = strings.TrimSpace(groupID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row groupModel
		if err := tx.Where("group_id = ?", groupID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrGroupNotFound
			}
			return err
		}
		return replacePermissions(tx, groupID, permissions)
	})
}

func (r *Repository) AddMember(ctx context.Context, groupID string, userID string) error {
	groupID = strings.TrimSpace(groupID)
	var row groupModel
	if err := r.db.WithContext(ctx).Where("group_id = ?", groupID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrGroupNotFound
		}
		return err
	}

	member := memberModel{GroupID: groupID, UserID: strings.TrimSpace(userID)}
	if err := r.db.WithContext(ctx).Create(&member).Error; err != nil {
		if isUniqueViolation(err) {
			// Duplicate membership is idempotent under union.
			return nil
		}
		return err
	}
	return nil
}

func (r *Repository) RemoveMember(ctx context.Context, groupID string, userID string) error {
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", strings.TrimSpace(groupID), strings.TrimSpace(userID)).
		Delete(&memberModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMemberNotFound
	}
	return nil
}

func (r *Repository) AppendMessage(ctx context.Context, message ports.OutboxMessage) error {
	row := outboxModel{
		MessageID: message.ID,
		EventType: message.EventType,
		Payload:   message.Payload,
		Status:    outboxStatusPending,
		CreatedAt: message.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListPending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	tx := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []outboxModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			ID:        row.MessageID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return messages, nil
}

func (r *Repository) MarkPublished(ctx context.Context, messageID string, publishedAt time.Time) error {
	at := publishedAt.UTC()
	return r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("message_id = ?", messageID).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &at,
		}).
		Error
}

func (r *Repository) loadGroup(ctx context.Context, groupID string) (entities.Group, error) {
	var row groupModel
	err := r.db.WithContext(ctx).Where("group_id = ?", groupID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Group{}, domainerrors.ErrGroupNotFound
		}
		return entities.Group{}, err
	}

	var permissionRows []groupPermissionModel
	err = r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("permission ASC").
		Find(&permissionRows).
		Error
	if err != nil {
		return entities.Group{}, err
	}

	group := entities.Group{
		GroupID: row.GroupID,
		Name:    row.Name,
	}
	for _, permission := range permissionRows {
		group.Permissions = append(group.Permissions, entities.Permission(permission.Permission))
	}
	return group, nil
}

func replacePermissions(tx *gorm.DB, groupID string, permissions []entities.Permission) error {
	if err := tx.Where("group_id = ?", groupID).Delete(&groupPermissionModel{}).Error; err != nil {
		return err
	}
	for _, permission := range permissions {
		row := groupPermissionModel{GroupID: groupID, Permission: string(permission)}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

type groupModel struct {
	GroupID string `gorm:"column:group_id;primaryKey"`
	Name    string `gorm:"column:name;uniqueIndex"`
}

func (groupModel) TableName() string { return "authz_groups" }

type groupPermissionModel struct {
	GroupID    string `gorm:"column:group_id;primaryKey"`
	Permission string `gorm:"column:permission;primaryKey"`
}

func (groupPermissionModel) TableName() string { return "authz_group_permissions" }

type memberModel struct {
	GroupID string `gorm:"column:group_id;primaryKey"`
	UserID  string `gorm:"column:user_id;primaryKey"`
}

func (memberModel) TableName() string { return "authz_group_members" }

type outboxModel struct {
	MessageID   string     `gorm:"column:message_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	RetryCount  int        `gorm:"column:retry_count"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "authz_outbox" }
