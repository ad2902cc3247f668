// Package dbx provides the persistence gateway shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// an explicit transaction handle, and a helper to run functions inside
// a transaction.
package dbx

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/donnamis/internal/common"
)

// DBTX is the subset of database/sql used by our repos.
// *sql.DB, *sql.Tx and *Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx is one logical transaction bound to a single pooled connection.
// Every repository built on it shares that connection and the atomic unit.
type Tx struct {
	*sql.Tx
	finished bool
}

// Begin acquires a connection and starts a transaction on it.
func Begin(ctx context.Context, db *sql.DB, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %w", common.ErrorFatal, err)
	}
	return &Tx{Tx: tx}, nil
}

// Commit commits and releases the connection. Committing a transaction that
// was already committed or rolled back is a programming error and panics.
func (t *Tx) Commit() error {
	if t.finished {
		panic("dbx: commit on a finished transaction")
	}
	t.finished = true
	if err := t.Tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", common.ErrorFatal, err)
	}
	return nil
}

// Rollback rolls back and releases the connection. It is a no-op once the
// transaction has finished, so it can always be deferred.
func (t *Tx) Rollback() error {
	if t.finished {
		return nil
	}
	t.finished = true
	if err := t.Tx.Rollback(); err != nil {
		return fmt.Errorf("%w: rollback: %w", common.ErrorFatal, err)
	}
	return nil
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Errors from fn are returned
// unchanged; panics are rethrown.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    offers := manager.Offers(tx)
//	    ...
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := Begin(ctx, db, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
