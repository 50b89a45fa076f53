package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	apperrors "github.com/carelink/backend/pkg/errors"
)

// dialect builds statements that are executed on a *sql.Tx
var dialect = goqu.Dialect("postgres")

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

var uniqueConstraintMessages = map[string]string{
	"users_email_key":                   "email already registered",
	"nurse_payments_appointment_id_key": "nurse payment already calculated for this appointment",
}

// mapDBError converts driver errors into application errors. Constraint
// violations caused by request data become validation or conflict errors;
// everything else is internal and keeps the driver error for logging only.
func mapDBError(message string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			if msg, ok := uniqueConstraintMessages[pqErr.Constraint]; ok {
				return apperrors.NewConflictError(msg)
			}
			return apperrors.NewConflictError("record already exists")
		case "23503":
			return apperrors.NewValidationErrorf("%s does not reference an existing record", foreignKeyColumn(pqErr))
		case "23502":
			return apperrors.NewValidationErrorf("%s is required", pqErr.Column)
		case "23514", "22P02", "22007", "22008", "22003":
			return apperrors.NewValidationError("invalid field value")
		}
	}
	return apperrors.NewInternalError(message, err)
}

// foreignKeyColumn recovers the column from PostgreSQL's default
// "<table>_<column>_fkey" constraint names.
func foreignKeyColumn(pqErr *pq.Error) string {
	name := strings.TrimSuffix(pqErr.Constraint, "_fkey")
	if pqErr.Table != "" {
		name = strings.TrimPrefix(name, pqErr.Table+"_")
	}
	if name == "" {
		return "referenced id"
	}
	return name
}

func checkAffected(result sql.Result, notFound string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to read affected rows", err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError(notFound)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

func toSQL(ds interface {
	ToSQL() (string, []interface{}, error)
}, what string) (string, []interface{}, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, apperrors.NewInternalError(fmt.Sprintf("failed to build %s query", what), err)
	}
	return query, args, nil
}
