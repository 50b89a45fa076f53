package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	apperrors "github.com/carelink/backend/pkg/errors"
)

// updatableColumns lists, per table, the only columns a partial update may touch
var updatableColumns = map[string]map[string]bool{
	"users":            {"name": true, "email": true, "role": true, "status": true},
	"appointments":     {"status": true, "nurse_id": true, "appointment_date": true},
	"contact_messages": {"status": true},
}

// buildPartialUpdate turns the provided fields into a single parameterized
// UPDATE. Column names come from the allow-list; values are always bound.
func buildPartialUpdate(table string, id int64, changes map[string]interface{}) (string, []interface{}, error) {
	allowed, ok := updatableColumns[table]
	if !ok {
		return "", nil, apperrors.NewInternalError("partial update not supported", nil)
	}
	if len(changes) == 0 {
		return "", nil, apperrors.NewValidationError("no updates provided")
	}

	record := make(goqu.Record, len(changes))
	for column, value := range changes {
		if !allowed[column] {
			return "", nil, apperrors.NewValidationErrorf("field %q cannot be updated", column)
		}
		record[column] = value
	}

	return toSQL(dialect.Update(table).
		Set(record).
		Where(goqu.C("id").Eq(id)).
		Prepared(true), table+" update")
}

// execPartialUpdate builds and runs the update; zero affected rows is NotFound.
func execPartialUpdate(ctx context.Context, q querier, table string, id int64, changes map[string]interface{}, notFound string) error {
	query, args, err := buildPartialUpdate(table, id, changes)
	if err != nil {
		return err
	}
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return mapDBError("failed to update "+table, err)
	}
	return checkAffected(result, notFound)
}
