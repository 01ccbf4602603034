package repodomain

import (
	"context"
	"errors"
	"testing"

	perr "codeeditor/internal/platform/errors"
	"codeeditor/internal/platform/testkit"
)

type countingLoader struct {
	exercises map[int64]Exercise
	calls     int
}

func (l *countingLoader) LoadExercise(_ context.Context, id int64) (Exercise, error) {
	l.calls++
	ex, ok := l.exercises[id]
	if !ok {
		return Exercise{}, perr.Wrapf(ErrExerciseNotFound, perr.ErrorCodeNotFound, "exercise %d", id)
	}
	return ex, nil
}

func newLoader() *countingLoader {
	broken := exercise()
	broken.ID = 2
	broken.Template.RepositoryURL = ""
	broken.Solution.RepositoryURL = ""
	broken.Assignments = nil
	return &countingLoader{exercises: map[int64]Exercise{1: exercise(), 2: broken}}
}

func TestSession_Transitions(t *testing.T) {
	ctx := context.Background()
	l := newLoader()
	s := NewSession(l)

	var seen []Kind
	s.OnChange(func(d Domain) { seen = append(seen, d.Kind()) })

	if s.State() != StateUninitialized {
		t.Fatalf("state = %s", s.State())
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("uninitialized session has a selection")
	}

	if err := s.Navigate(ctx, Route{ExerciseID: 1, ParticipationID: 20}); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if s.State() != StateSelected {
		t.Fatalf("state = %s", s.State())
	}
	if d, _ := s.Selected(); d.Kind() != KindSolution {
		t.Fatalf("kind = %s", d.Kind())
	}

	// same exercise is not loaded twice
	if err := s.Navigate(ctx, Route{ExerciseID: 1, Test: true}); err != nil {
		t.Fatalf("navigate test: %v", err)
	}
	if l.calls != 1 {
		t.Fatalf("loader calls = %d", l.calls)
	}
	if d, _ := s.Selected(); d.Kind() != KindTest {
		t.Fatalf("kind = %s", d.Kind())
	}

	// no usable repository
	err := s.Navigate(ctx, Route{ExerciseID: 2, ParticipationID: 10})
	if !errors.Is(err, ErrParticipationNotFound) {
		t.Fatalf("err = %v", err)
	}
	if s.State() != StateError || !errors.Is(s.Err(), ErrParticipationNotFound) {
		t.Fatalf("state = %s err = %v", s.State(), s.Err())
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("error state must not expose a selection")
	}

	// a new route leaves the error state
	if err := s.Navigate(ctx, Route{ExerciseID: 1, ParticipationID: 30}); err != nil {
		t.Fatalf("recover: %v", err)
	}
	if d, _ := s.Selected(); d.Kind() != KindAssignment {
		t.Fatalf("kind = %s", d.Kind())
	}
	if s.Err() != nil {
		t.Fatalf("err not cleared: %v", s.Err())
	}

	want := []Kind{KindSolution, KindTest, KindAssignment}
	if len(seen) != len(want) {
		t.Fatalf("listener saw %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("listener saw %v, want %v", seen, want)
		}
	}
}

func TestSession_LoaderFailure(t *testing.T) {
	s := NewSession(newLoader())
	err := s.Navigate(context.Background(), Route{ExerciseID: 404})
	if !errors.Is(err, ErrExerciseNotFound) {
		t.Fatalf("err = %v", err)
	}
	if s.State() != StateError {
		t.Fatalf("state = %s", s.State())
	}
}

func TestSession_UnknownPreferredFallsBack(t *testing.T) {
	s := NewSession(newLoader())
	if err := s.Navigate(context.Background(), Route{ExerciseID: 1, ParticipationID: 777}); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if d, _ := s.Selected(); d.Kind() != KindTemplate {
		t.Fatalf("kind = %s", d.Kind())
	}
}

func TestSession_ReloadFetchesAgain(t *testing.T) {
	l := newLoader()
	s := NewSession(l)
	ctx := context.Background()
	_ = s.Navigate(ctx, Route{ExerciseID: 1, ParticipationID: 10})
	s.Reload()
	_ = s.Navigate(ctx, Route{ExerciseID: 1, ParticipationID: 10})
	if l.calls != 2 {
		t.Fatalf("loader calls = %d", l.calls)
	}
}

func TestSession_Replace(t *testing.T) {
	s := NewSession(newLoader())
	var n int
	s.OnChange(func(Domain) { n++ })
	_ = s.Navigate(context.Background(), Route{ExerciseID: 1, ParticipationID: 30})

	ex := s.Selector().Exercise()
	ex.Assignments = []Participation{{ID: 30, RepositoryURL: "https://vcs/moved"}}
	s.Replace(ex)
	if n != 2 {
		t.Fatalf("moved repository should notify, calls = %d", n)
	}

	s.Replace(ex)
	if n != 2 {
		t.Fatalf("unchanged exercise notified, calls = %d", n)
	}

	ex.Assignments = nil
	s.Replace(ex)
	d, ok := s.Selected()
	if !ok || d.Kind() != KindTemplate {
		t.Fatalf("selected = %+v", ViewOf(d))
	}
	if n != 3 {
		t.Fatalf("listener calls = %d", n)
	}
}

func TestNewSession_NilLoaderPanics(t *testing.T) {
	testkit.MustPanic(t, func() { NewSession(nil) })
}

func TestLoaderFunc(t *testing.T) {
	var got int64
	l := LoaderFunc(func(_ context.Context, id int64) (Exercise, error) {
		got = id
		return exercise(), nil
	})
	s := NewSession(l)
	if err := s.Navigate(context.Background(), Route{ExerciseID: 1}); err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Fatalf("loader got %d", got)
	}
}
