// Package repokit is the seam between repositories and the store drivers
package repokit

import (
	"context"

	perr "codeeditor/internal/platform/errors"
	"codeeditor/internal/platform/store"
)

type (
	// Queryer is what a bound repository reads and writes through
	Queryer    = store.RowQuerier
	TxRunner   = store.TxRunner
	Rows       = store.Rows
	Row        = store.Row
	CommandTag = store.CommandTag
)

// TxAttempts bounds WithTx retries on serialization failures and deadlocks
const TxAttempts = 3

// WithTx runs fn in a transaction, retrying when postgres reports contention
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	var err error
	for range TxAttempts {
		err = tx.Tx(ctx, fn)
		if !perr.Retryable(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}
