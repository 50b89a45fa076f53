package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/backend/internal/domain/entities"
)

func TestContactMessageAdapter_SetAutoReplyStatus(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewContactMessageAdapter(client)

	mock.ExpectExec(`UPDATE "contact_messages" SET "auto_reply_status"=\$1`).
		WithArgs("failed", int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.SetAutoReplyStatus(context.Background(), 8, entities.AutoReplyFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactMessageAdapter_UpdateStatus(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewContactMessageAdapter(client)

	mock.ExpectExec(`UPDATE "contact_messages" SET "status"=\$1`).
		WithArgs("replied", int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.Update(context.Background(), 8, map[string]interface{}{"status": "replied"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
