// Package repo provides postgres access for exercises and their participations
package repo

import (
	"context"
	"time"

	"codeeditor/internal/modkit/repokit"
	perr "codeeditor/internal/platform/errors"
	"codeeditor/internal/platform/store"
)

// Repo is the minimal persistence surface for exercises
type Repo interface {
	Exercise(ctx context.Context, exerciseID int64) (ExerciseRow, error)
	Participations(ctx context.Context, exerciseID int64) ([]ParticipationRow, error)
	ReplaceAssignment(ctx context.Context, exerciseID, participationID int64, repositoryURL string) error
	ClearAssignments(ctx context.Context, exerciseID int64) (int64, error)
}

// ExerciseRow is one row of exercises
type ExerciseRow struct {
	ID        int64
	Title     string
	CreatedAt time.Time
}

// ParticipationRow is one row of participations
type ParticipationRow struct {
	ID            int64
	ExerciseID    int64
	Kind          string
	RepositoryURL *string
	CreatedAt     time.Time
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: repokit.RequireQueryer(q)} }

func (r *queries) Exercise(ctx context.Context, exerciseID int64) (ExerciseRow, error) {
	const sql = `
select id, title, created_at
from exercises
where id = $1
`
	return store.One(ctx, r.q, func(row store.Row) (ExerciseRow, error) {
		var e ExerciseRow
		err := row.Scan(&e.ID, &e.Title, &e.CreatedAt)
		return e, err
	}, sql, exerciseID)
}

func (r *queries) Participations(ctx context.Context, exerciseID int64) ([]ParticipationRow, error) {
	const sql = `
select id, exercise_id, kind, repository_url, created_at
from participations
where exercise_id = $1
order by id asc
`
	return store.Many(ctx, r.q, func(row store.Row) (ParticipationRow, error) {
		var p ParticipationRow
		err := row.Scan(&p.ID, &p.ExerciseID, &p.Kind, &p.RepositoryURL, &p.CreatedAt)
		return p, err
	}, sql, exerciseID)
}

// ReplaceAssignment keeps exactly one student participation for the exercise
// callers run it inside a transaction
func (r *queries) ReplaceAssignment(ctx context.Context, exerciseID, participationID int64, repositoryURL string) error {
	const del = `
delete from participations
where exercise_id = $1 and kind = 'student' and id <> $2
`
	if _, err := r.q.Exec(ctx, del, exerciseID, participationID); err != nil {
		return perr.FromPostgres(err, "clear previous assignment")
	}

	// the where clause keeps template and solution rows from being taken over
	const ups = `
insert into participations (id, exercise_id, kind, repository_url)
values ($1, $2, 'student', nullif($3, ''))
on conflict (id) do update
set repository_url = excluded.repository_url
where participations.kind = 'student' and participations.exercise_id = excluded.exercise_id
`
	tag, err := r.q.Exec(ctx, ups, participationID, exerciseID, repositoryURL)
	if err != nil {
		if perr.IsForeignKeyViolation(err) {
			return perr.Wrapf(err, perr.ErrorCodeNotFound, "exercise %d", exerciseID)
		}
		return perr.FromPostgres(err, "upsert assignment")
	}
	if tag.RowsAffected() == 0 {
		return perr.Conflictf("participation %d belongs to another slot", participationID)
	}
	return nil
}

func (r *queries) ClearAssignments(ctx context.Context, exerciseID int64) (int64, error) {
	const sql = `
delete from participations
where exercise_id = $1 and kind = 'student'
`
	tag, err := r.q.Exec(ctx, sql, exerciseID)
	if err != nil {
		return 0, perr.FromPostgres(err, "clear assignments")
	}
	return tag.RowsAffected(), nil
}
