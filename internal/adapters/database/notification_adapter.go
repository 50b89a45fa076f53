package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/repositories"
	"github.com/carelink/backend/internal/infrastructure/clients/postgres"
)

// NotificationAdapter implements NotificationRepository on PostgreSQL
type NotificationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewNotificationAdapter creates a new notification adapter
func NewNotificationAdapter(client *postgres.Client) repositories.NotificationRepository {
	return &NotificationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a notification
func (a *NotificationAdapter) Create(ctx context.Context, n *entities.Notification) error {
	return insertNotification(ctx, a.client.DB(), n)
}

// insertNotification is shared with the nurse payment transaction
func insertNotification(ctx context.Context, q querier, n *entities.Notification) error {
	record := goqu.Record{
		"user_id": n.UserID,
		"title":   n.Title,
		"message": n.Message,
		"type":    string(n.Type),
	}

	query, args, err := toSQL(dialect.Insert("notifications").Rows(record).Returning("id", "is_read", "created_at").Prepared(true), "notification insert")
	if err != nil {
		return err
	}

	if err := q.QueryRowContext(ctx, query, args...).Scan(&n.ID, &n.IsRead, &n.CreatedAt); err != nil {
		return mapDBError("failed to create notification", err)
	}
	return nil
}

// ListByUser retrieves a user's most recent notifications
func (a *NotificationAdapter) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.Notification, error) {
	ds := a.db.From("notifications").
		Select("id", "user_id", "title", "message", "type", "is_read", "created_at").
		Where(goqu.C("user_id").Eq(userID)).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := toSQL(ds.Prepared(true), "notification list")
	if err != nil {
		return nil, err
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapDBError("failed to list notifications", err)
	}
	defer rows.Close()

	notifications := make([]*entities.Notification, 0)
	for rows.Next() {
		var (
			n     entities.Notification
			ntype string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &ntype, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, mapDBError("failed to scan notification", err)
		}
		n.Type = entities.NotificationType(ntype)
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("failed to list notifications", err)
	}
	return notifications, nil
}

// MarkRead flags a notification as read
func (a *NotificationAdapter) MarkRead(ctx context.Context, id int64) error {
	query, args, err := toSQL(a.db.Update("notifications").
		Set(goqu.Record{"is_read": goqu.L("TRUE")}).
		Where(goqu.C("id").Eq(id)).
		Prepared(true), "notification update")
	if err != nil {
		return err
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return mapDBError("failed to mark notification read", err)
	}
	return checkAffected(result, "notification not found")
}
