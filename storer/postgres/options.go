package postgres

import (
	"context"
	"database/sql"

	"github.com/w-h-a/supportdesk/storer"
)

type dbKey struct{}

// WithDB hands the storer an open handle instead of dialing Location.
func WithDB(db *sql.DB) storer.Option {
	return func(o *storer.Options) {
		o.Context = context.WithValue(o.Context, dbKey{}, db)
	}
}

func DBFrom(ctx context.Context) (*sql.DB, bool) {
	db, ok := ctx.Value(dbKey{}).(*sql.DB)
	return db, ok && db != nil
}
