package repo

import (
	"context"
	_ "embed"

	"codeeditor/internal/modkit/repokit"
	perr "codeeditor/internal/platform/errors"
)

// Schema is the postgres DDL for exercises and participations
//
//go:embed schema.sql
var Schema string

// EnsureSchema creates the tables when they are missing
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	if _, err := repokit.RequireQueryer(q).Exec(ctx, Schema); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "ensure exercises schema")
	}
	return nil
}
