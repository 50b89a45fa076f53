package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/repositories"
	"github.com/carelink/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carelink/backend/pkg/errors"
)

// UserAdapter implements UserRepository on PostgreSQL
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var userColumns = []interface{}{"id", "name", "email", "password_hash", "role", "status", "created_at"}

// Create inserts a user and fills in the generated ID and creation time
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	record := goqu.Record{
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"role":          string(user.Role),
		"status":        string(user.Status),
	}

	query, args, err := toSQL(a.db.Insert("users").Rows(record).Returning("id", "created_at").Prepared(true), "user insert")
	if err != nil {
		return err
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt); err != nil {
		return mapDBError("failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	return a.getOne(ctx, goqu.C("id").Eq(id))
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return a.getOne(ctx, goqu.C("email").Eq(email))
}

func (a *UserAdapter) getOne(ctx context.Context, where goqu.Expression) (*entities.User, error) {
	query, args, err := toSQL(a.db.From("users").Select(userColumns...).Where(where).Prepared(true), "user select")
	if err != nil {
		return nil, err
	}

	user, err := scanUser(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, mapDBError("failed to get user", err)
	}
	return user, nil
}

// List retrieves every user
func (a *UserAdapter) List(ctx context.Context) ([]*entities.User, error) {
	query, args, err := toSQL(a.db.From("users").Select(userColumns...).Order(goqu.C("id").Asc()).Prepared(true), "user list")
	if err != nil {
		return nil, err
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapDBError("failed to list users", err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, mapDBError("failed to scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("failed to list users", err)
	}
	return users, nil
}

// Update applies a partial update
func (a *UserAdapter) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	return execPartialUpdate(ctx, a.client.DB(), "users", id, changes, "user not found")
}

// Delete removes a user. Appointments, payments, nurse payments, blogs and
// notifications cascade; nurse assignments are cleared by the schema.
func (a *UserAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := toSQL(a.db.Delete("users").Where(goqu.C("id").Eq(id)).Prepared(true), "user delete")
	if err != nil {
		return err
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return mapDBError("failed to delete user", err)
	}
	return checkAffected(result, "user not found")
}

func scanUser(row rowScanner) (*entities.User, error) {
	var (
		user   entities.User
		role   string
		status string
	)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &role, &status, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.Role = entities.UserRole(role)
	user.Status = entities.UserStatus(status)
	return &user, nil
}
