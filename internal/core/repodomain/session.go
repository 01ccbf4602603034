package repodomain

import (
	"context"

	perr "codeeditor/internal/platform/errors"
)

// State is the resolution state of an editor session
type State string

const (
	// StateUninitialized is the state before any route arrived
	StateUninitialized State = "uninitialized"
	// StateResolving is held while a route is being resolved
	StateResolving State = "resolving"
	// StateSelected means a domain is active
	StateSelected State = "selected"
	// StateError means the last route could not be resolved
	StateError State = "error"
)

// Route carries the identifiers a navigation supplies
type Route struct {
	ExerciseID      int64 `json:"exerciseId" validate:"required,gt=0"`
	ParticipationID int64 `json:"participationId,omitempty" validate:"gte=0"`
	Test            bool  `json:"test,omitempty"`
}

// ExerciseLoader fetches an exercise with its repository slots
type ExerciseLoader interface {
	LoadExercise(ctx context.Context, exerciseID int64) (Exercise, error)
}

// LoaderFunc adapts a function to ExerciseLoader
type LoaderFunc func(ctx context.Context, exerciseID int64) (Exercise, error)

// LoadExercise calls f
func (f LoaderFunc) LoadExercise(ctx context.Context, id int64) (Exercise, error) { return f(ctx, id) }

// Session drives a Selector from route changes
// transitions: uninitialized -> resolving -> selected | error, any -> resolving on Navigate
// it has a single writer and is not safe for concurrent use
type Session struct {
	loader    ExerciseLoader
	state     State
	selector  *Selector
	lastErr   error
	listeners []func(Domain)
}

// NewSession returns an uninitialized session
func NewSession(loader ExerciseLoader) *Session {
	if loader == nil {
		panic("repodomain.NewSession: nil loader")
	}
	return &Session{loader: loader, state: StateUninitialized}
}

// State returns the current state
func (s *Session) State() State { return s.state }

// Err returns the error that put the session into StateError
func (s *Session) Err() error { return s.lastErr }

// Selector returns the selector of the loaded exercise, nil before the first load
func (s *Session) Selector() *Selector { return s.selector }

// Selected returns the active domain
func (s *Session) Selected() (Domain, bool) {
	if s.selector == nil || s.state != StateSelected {
		return nil, false
	}
	return s.selector.Selected()
}

// OnChange registers fn to run after every successful selection
func (s *Session) OnChange(fn func(Domain)) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

// Navigate resolves a new route
// the loaded exercise is reused when the exercise id is unchanged
// there is no retry, a failed route leaves the session in StateError
func (s *Session) Navigate(ctx context.Context, r Route) error {
	s.state = StateResolving
	s.lastErr = nil

	if err := s.ensureExercise(ctx, r.ExerciseID); err != nil {
		return s.fail(err)
	}

	if r.Test {
		s.selector.SelectTestRepository()
		return s.succeed()
	}

	next, ok := s.selector.NextAvailableParticipation(r.ParticipationID)
	if !ok {
		return s.fail(perr.Wrapf(ErrParticipationNotFound, perr.ErrorCodeNotFound,
			"exercise %d has no usable repository", r.ExerciseID))
	}
	if err := s.selector.SelectByParticipationID(next.ID); err != nil {
		return s.fail(err)
	}
	return s.succeed()
}

// Replace swaps in a fresh copy of the loaded exercise, see Selector.Replace
// listeners run when the active domain or its repository changed as a result
func (s *Session) Replace(ex Exercise) {
	if s.selector == nil {
		return
	}
	before, _ := s.selector.Selected()
	s.selector.Replace(ex)
	after, ok := s.selector.Selected()
	if s.state != StateSelected {
		return
	}
	if !ok {
		s.state = StateUninitialized
		return
	}
	if !Equal(before, after) || repoURL(before) != repoURL(after) {
		_ = s.succeed()
	}
}

func repoURL(d Domain) string {
	if d == nil {
		return ""
	}
	if p := d.Participation(); p != nil {
		return p.RepositoryURL
	}
	return ""
}

// Reload forces the next Navigate to fetch the exercise again
func (s *Session) Reload() {
	s.selector = nil
}

func (s *Session) ensureExercise(ctx context.Context, exerciseID int64) error {
	if s.selector != nil && s.selector.Exercise().ID == exerciseID {
		return nil
	}
	ex, err := s.loader.LoadExercise(ctx, exerciseID)
	if err != nil {
		return err
	}
	s.selector = NewSelector(ex)
	return nil
}

func (s *Session) fail(err error) error {
	s.state = StateError
	s.lastErr = err
	return err
}

func (s *Session) succeed() error {
	s.state = StateSelected
	d, _ := s.selector.Selected()
	for _, fn := range s.listeners {
		fn(d)
	}
	return nil
}
