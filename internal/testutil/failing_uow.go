package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alexanderramin/kurikula/internal/db"
)

// FailingExecUoW runs fn in a real transaction but fails the first
// statement whose SQL contains Match with Err. Rollback tests use it to
// break a multi-statement save part way through.
type FailingExecUoW struct {
	DB    *sql.DB
	Match string
	Err   error
}

func (u *FailingExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingExec{DBTX: tx, match: u.Match, err: u.Err})
	})
}

type failingExec struct {
	db.DBTX
	match string
	err   error
	fired bool
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if !f.fired && strings.Contains(query, f.match) {
		f.fired = true
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
