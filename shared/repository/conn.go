package repository

import (
	"context"
	"database/sql"

	"lodge/infras/postgres"

	"github.com/jmoiron/sqlx"
)

type txKey struct{}

// DB is the query surface shared by *sqlx.DB and *sqlx.Tx.
type DB interface {
	sqlx.ExtContext
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Writer returns the transaction carried by ctx, or the write connection.
func Writer(ctx context.Context, conn *postgres.Connection) DB {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}

	return conn.Write
}

// Reader returns the transaction carried by ctx so reads observe uncommitted writes,
// or the read connection.
func Reader(ctx context.Context, conn *postgres.Connection) DB {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}

	return conn.Read
}

func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sqlx.Tx)

	return ok
}
