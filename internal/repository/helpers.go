package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func execAffectingOne(ctx context.Context, db *sqlx.DB, query string, arg interface{}, op string) error {
	res, err := db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireAffected(res, op)
}

// requireAffected turns an update that matched nothing into sql.ErrNoRows.
func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func strPtr(value string) *string {
	return &value
}
