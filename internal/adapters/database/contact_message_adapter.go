package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/repositories"
	"github.com/carelink/backend/internal/infrastructure/clients/postgres"
)

// ContactMessageAdapter implements ContactMessageRepository on PostgreSQL
type ContactMessageAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewContactMessageAdapter creates a new contact message adapter
func NewContactMessageAdapter(client *postgres.Client) repositories.ContactMessageRepository {
	return &ContactMessageAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a contact message
func (a *ContactMessageAdapter) Create(ctx context.Context, m *entities.ContactMessage) error {
	record := goqu.Record{
		"name":              m.Name,
		"email":             m.Email,
		"phone":             nullString(m.Phone),
		"service_needed":    nullString(m.ServiceNeeded),
		"message":           m.Message,
		"status":            string(m.Status),
		"auto_reply_status": string(m.AutoReplyStatus),
	}

	query, args, err := toSQL(a.db.Insert("contact_messages").Rows(record).Returning("id", "created_at").Prepared(true), "contact message insert")
	if err != nil {
		return err
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		return mapDBError("failed to save contact message", err)
	}
	return nil
}

// List retrieves every contact message, newest first
func (a *ContactMessageAdapter) List(ctx context.Context) ([]*entities.ContactMessage, error) {
	query, args, err := toSQL(a.db.From("contact_messages").
		Select("id", "name", "email", "phone", "service_needed", "message", "status", "auto_reply_status", "created_at").
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		Prepared(true), "contact message list")
	if err != nil {
		return nil, err
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapDBError("failed to list contact messages", err)
	}
	defer rows.Close()

	messages := make([]*entities.ContactMessage, 0)
	for rows.Next() {
		var (
			m               entities.ContactMessage
			phone, service  sql.NullString
			status, replied string
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &phone, &service, &m.Message, &status, &replied, &m.CreatedAt); err != nil {
			return nil, mapDBError("failed to scan contact message", err)
		}
		m.Phone = stringPtr(phone)
		m.ServiceNeeded = stringPtr(service)
		m.Status = entities.ContactStatus(status)
		m.AutoReplyStatus = entities.AutoReplyStatus(replied)
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("failed to list contact messages", err)
	}
	return messages, nil
}

// Update applies a partial update
func (a *ContactMessageAdapter) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	return execPartialUpdate(ctx, a.client.DB(), "contact_messages", id, changes, "contact message not found")
}

// SetAutoReplyStatus records the outcome of the acknowledgement email
func (a *ContactMessageAdapter) SetAutoReplyStatus(ctx context.Context, id int64, status entities.AutoReplyStatus) error {
	query, args, err := toSQL(a.db.Update("contact_messages").
		Set(goqu.Record{"auto_reply_status": string(status)}).
		Where(goqu.C("id").Eq(id)).
		Prepared(true), "contact message update")
	if err != nil {
		return err
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return mapDBError("failed to record auto-reply status", err)
	}
	return checkAffected(result, "contact message not found")
}
