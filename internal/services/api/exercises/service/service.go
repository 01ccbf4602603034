// Package service contains exercise read and assignment workflows
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeeditor/internal/core/repodomain"
	"codeeditor/internal/core/sortby"
	"codeeditor/internal/modkit/repokit"
	"codeeditor/internal/platform/cache"
	perr "codeeditor/internal/platform/errors"
	"codeeditor/internal/platform/logger"
	"codeeditor/internal/services/api/exercises/domain"
	"codeeditor/internal/services/api/exercises/repo"
)

// Service defines the exercises service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the exercises service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	cache  *cache.Cache
	log    *logger.Logger
}

// Option configures Svc
type Option func(*Svc)

// WithCache enables the exercise lookup cache
func WithCache(c *cache.Cache) Option { return func(s *Svc) { s.cache = c } }

// New constructs an exercises service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts ...Option) *Svc {
	if db == nil {
		panic("exercises.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("exercises.Service requires a non nil Repo binder")
	}
	s := &Svc{Repo: binder.Bind(db), binder: binder, db: db, log: logger.Named("exercises")}
	for _, o := range opts {
		o(s)
	}
	return s
}

func cacheKey(exerciseID int64) string { return fmt.Sprintf("exercise:%d", exerciseID) }

// Get returns the exercise with its repository slots
func (s *Svc) Get(ctx context.Context, exerciseID int64) (repodomain.Exercise, error) {
	if exerciseID <= 0 {
		return repodomain.Exercise{}, perr.InvalidArgf("exercise id must be positive")
	}
	if ex, ok := cache.GetJSON[repodomain.Exercise](ctx, s.cache, cacheKey(exerciseID)); ok {
		return ex, nil
	}

	row, err := s.Repo.Exercise(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return repodomain.Exercise{}, perr.Wrapf(repodomain.ErrExerciseNotFound, perr.ErrorCodeNotFound, "exercise %d", exerciseID)
		}
		return repodomain.Exercise{}, perr.Wrap(err, perr.ErrorCodeDB, "load exercise")
	}
	parts, err := s.Repo.Participations(ctx, exerciseID)
	if err != nil {
		return repodomain.Exercise{}, perr.Wrap(err, perr.ErrorCodeDB, "load participations")
	}

	ex := Assemble(row, parts)
	if err := cache.SetJSON(ctx, s.cache, cacheKey(exerciseID), ex); err != nil {
		s.log.Warn().Err(err).Int64("exercise_id", exerciseID).Msg("exercise cache write failed")
	}
	return ex, nil
}

// Assemble folds participation rows into repository slots
// the newest student participation becomes the assignment
func Assemble(row repo.ExerciseRow, parts []repo.ParticipationRow) repodomain.Exercise {
	ex := repodomain.Exercise{ID: row.ID, Title: row.Title}
	var students []repo.ParticipationRow
	for _, p := range parts {
		switch domain.ParticipationKind(p.Kind) {
		case domain.KindTemplate:
			if ex.Template == nil {
				ex.Template = toParticipation(p)
			}
		case domain.KindSolution:
			if ex.Solution == nil {
				ex.Solution = toParticipation(p)
			}
		case domain.KindStudent:
			students = append(students, p)
		}
	}
	if len(students) > 0 {
		sortby.Times(students, sortby.NonZero(func(p repo.ParticipationRow) time.Time { return p.CreatedAt }), false)
		ex.Assignments = []repodomain.Participation{*toParticipation(students[0])}
	}
	return ex
}

func toParticipation(p repo.ParticipationRow) *repodomain.Participation {
	out := &repodomain.Participation{ID: p.ID}
	if p.RepositoryURL != nil {
		out.RepositoryURL = *p.RepositoryURL
	}
	return out
}

// ListParticipations returns the participations of an exercise in the requested order
// without a sort key rows are ordered by id ascending
func (s *Svc) ListParticipations(ctx context.Context, in domain.ListParticipationsInput) ([]domain.ParticipationRow, error) {
	if _, err := s.Repo.Exercise(ctx, in.ExerciseID); err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return nil, perr.Wrapf(repodomain.ErrExerciseNotFound, perr.ErrorCodeNotFound, "exercise %d", in.ExerciseID)
		}
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "load exercise")
	}
	rows, err := s.Repo.Participations(ctx, in.ExerciseID)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "load participations")
	}

	out := make([]domain.ParticipationRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.ParticipationRow{
			ID:            r.ID,
			Kind:          domain.ParticipationKind(r.Kind),
			RepositoryURL: r.RepositoryURL,
			CreatedAt:     r.CreatedAt,
		})
	}
	SortParticipations(out, in.Sort, in.Asc)
	return out, nil
}

// SortParticipations orders rows by key, missing values last
func SortParticipations(rows []domain.ParticipationRow, key string, asc bool) {
	switch key {
	case domain.SortRepositoryURL:
		sortby.Ordered(rows, sortby.Ptr(func(r domain.ParticipationRow) *string { return r.RepositoryURL }), asc)
	case domain.SortCreatedAt:
		sortby.Times(rows, sortby.NonZero(func(r domain.ParticipationRow) time.Time { return r.CreatedAt }), asc)
	case domain.SortID:
		sortby.Ordered(rows, func(r domain.ParticipationRow) (int64, bool) { return r.ID, true }, asc)
	default:
		sortby.Ordered(rows, func(r domain.ParticipationRow) (int64, bool) { return r.ID, true }, true)
	}
}

// SetAssignment stores or clears the assignment participation and returns the fresh exercise
func (s *Svc) SetAssignment(ctx context.Context, exerciseID int64, in domain.SetAssignmentInput) (repodomain.Exercise, error) {
	if exerciseID <= 0 {
		return repodomain.Exercise{}, perr.InvalidArgf("exercise id must be positive")
	}
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		if _, err := r.Exercise(ctx, exerciseID); err != nil {
			if errors.Is(err, perr.ErrNotFound) {
				return perr.Wrapf(repodomain.ErrExerciseNotFound, perr.ErrorCodeNotFound, "exercise %d", exerciseID)
			}
			return err
		}
		if in.ParticipationID == 0 {
			_, err := r.ClearAssignments(ctx, exerciseID)
			return err
		}
		return r.ReplaceAssignment(ctx, exerciseID, in.ParticipationID, in.RepositoryURL)
	})
	if err != nil {
		return repodomain.Exercise{}, err
	}

	if s.cache != nil {
		s.cache.Delete(ctx, cacheKey(exerciseID))
	}
	s.log.Info().Int64("exercise_id", exerciseID).Int64("participation_id", in.ParticipationID).Msg("assignment updated")
	return s.Get(ctx, exerciseID)
}
