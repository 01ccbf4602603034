package repodomain

import (
	"errors"
	"testing"

	perr "codeeditor/internal/platform/errors"
)

func exercise() Exercise {
	return Exercise{
		ID:          1,
		Template:    &Participation{ID: 10, RepositoryURL: "https://vcs/ex-template"},
		Solution:    &Participation{ID: 20, RepositoryURL: "https://vcs/ex-solution"},
		Assignments: []Participation{{ID: 30, RepositoryURL: "https://vcs/ex-student1"}},
	}
}

func TestSelectByParticipationID(t *testing.T) {
	cases := []struct {
		id   int64
		kind Kind
	}{
		{10, KindTemplate},
		{20, KindSolution},
		{30, KindAssignment},
	}
	for _, tc := range cases {
		s := NewSelector(exercise())
		if err := s.SelectByParticipationID(tc.id); err != nil {
			t.Fatalf("id %d: %v", tc.id, err)
		}
		d, ok := s.Selected()
		if !ok || d.Kind() != tc.kind || d.Participation().ID != tc.id {
			t.Fatalf("id %d: selected %+v", tc.id, ViewOf(d))
		}
	}
}

func TestSelectByParticipationID_TemplateWinsOnSharedID(t *testing.T) {
	ex := exercise()
	ex.Solution.ID = 10
	s := NewSelector(ex)
	if err := s.SelectByParticipationID(10); err != nil {
		t.Fatal(err)
	}
	if d, _ := s.Selected(); d.Kind() != KindTemplate {
		t.Fatalf("kind = %s", d.Kind())
	}
}

func TestSelectByParticipationID_UnknownKeepsSelection(t *testing.T) {
	s := NewSelector(exercise())
	if _, ok := s.Selected(); ok {
		t.Fatalf("new selector should be uninitialized")
	}
	if err := s.SelectByParticipationID(99); !errors.Is(err, ErrParticipationNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("failed select must not initialize")
	}

	_ = s.SelectByParticipationID(20)
	err := s.SelectByParticipationID(99)
	if !errors.Is(err, ErrParticipationNotFound) {
		t.Fatalf("err = %v", err)
	}
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
	if d, _ := s.Selected(); d.Kind() != KindSolution {
		t.Fatalf("selection changed to %s", d.Kind())
	}
}

func TestSelectByParticipationID_NoAssignment(t *testing.T) {
	ex := exercise()
	ex.Assignments = nil
	s := NewSelector(ex)
	if err := s.SelectByParticipationID(30); !errors.Is(err, ErrParticipationNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestSelectTestRepository_Idempotent(t *testing.T) {
	s := NewSelector(exercise())
	s.SelectTestRepository()
	first, _ := s.Selected()
	s.SelectTestRepository()
	second, ok := s.Selected()
	if !ok || second.Kind() != KindTest || second.Participation() != nil {
		t.Fatalf("selected = %+v", ViewOf(second))
	}
	if !Equal(first, second) {
		t.Fatalf("second call changed state")
	}
}

func TestNextAvailableParticipation(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*Exercise)
		preferred int64
		wantID    int64
		wantOK    bool
	}{
		{"preferred assignment", nil, 30, 30, true},
		{"preferred solution", nil, 20, 20, true},
		{"unknown preferred falls to template", nil, 99, 10, true},
		{"preferred without url is skipped", func(e *Exercise) { e.Assignments[0].RepositoryURL = "" }, 30, 10, true},
		{"template without url", func(e *Exercise) { e.Template.RepositoryURL = "" }, 0, 20, true},
		{"only assignment usable", func(e *Exercise) {
			e.Template.RepositoryURL = ""
			e.Solution = nil
		}, 0, 30, true},
		{"missing slots", func(e *Exercise) {
			e.Template = nil
			e.Solution = nil
			e.Assignments = nil
		}, 10, 0, false},
		{"all unusable", func(e *Exercise) {
			e.Template.RepositoryURL = ""
			e.Solution.RepositoryURL = ""
			e.Assignments[0].RepositoryURL = ""
		}, 10, 0, false},
		{"preferred id matched among usable slots only", func(e *Exercise) {
			e.Template.ID = 5
			e.Solution.ID = 30
			e.Solution.RepositoryURL = ""
		}, 30, 30, true},
	}
	for _, tc := range cases {
		ex := exercise()
		if tc.mutate != nil {
			tc.mutate(&ex)
		}
		p, ok := NewSelector(ex).NextAvailableParticipation(tc.preferred)
		if ok != tc.wantOK || p.ID != tc.wantID {
			t.Fatalf("%s: got (%d,%v), want (%d,%v)", tc.name, p.ID, ok, tc.wantID, tc.wantOK)
		}
	}
}

func withAssignment(ex Exercise, p *Participation) Exercise {
	ex.Assignments = nil
	if p != nil {
		ex.Assignments = []Participation{*p}
	}
	return ex
}

func TestReplace_AssignmentSlot(t *testing.T) {
	s := NewSelector(exercise())
	_ = s.SelectByParticipationID(30)

	s.Replace(withAssignment(s.Exercise(), &Participation{ID: 31, RepositoryURL: "https://vcs/ex-student2"}))
	d, _ := s.Selected()
	if d.Kind() != KindAssignment || d.Participation().ID != 31 {
		t.Fatalf("selected = %+v", ViewOf(d))
	}

	s.Replace(withAssignment(s.Exercise(), nil))
	d, _ = s.Selected()
	if d.Kind() != KindTemplate {
		t.Fatalf("want template fallback, got %s", d.Kind())
	}
	if s.Exercise().Assignment() != nil {
		t.Fatalf("assignment slot not cleared")
	}

	// a non assignment selection is untouched
	_ = s.SelectByParticipationID(20)
	s.Replace(withAssignment(s.Exercise(), nil))
	if d, _ := s.Selected(); d.Kind() != KindSolution {
		t.Fatalf("kind = %s", d.Kind())
	}

	ex := exercise()
	ex.Template = nil
	s = NewSelector(ex)
	_ = s.SelectByParticipationID(30)
	s.Replace(withAssignment(ex, nil))
	if _, ok := s.Selected(); ok {
		t.Fatalf("want uninitialized without template")
	}
}

func TestReplace(t *testing.T) {
	s := NewSelector(exercise())
	_ = s.SelectByParticipationID(20)

	ex := exercise()
	ex.Solution.RepositoryURL = "https://vcs/moved"
	s.Replace(ex)
	d, ok := s.Selected()
	if !ok || d.Participation().RepositoryURL != "https://vcs/moved" {
		t.Fatalf("selected = %+v", ViewOf(d))
	}

	ex.Solution = nil
	s.Replace(ex)
	if _, ok := s.Selected(); ok {
		t.Fatalf("vanished participation should clear selection")
	}
}

type kindCounter struct{ t, s, a, x int }

func (k *kindCounter) VisitTemplate(Template)     { k.t++ }
func (k *kindCounter) VisitSolution(Solution)     { k.s++ }
func (k *kindCounter) VisitAssignment(Assignment) { k.a++ }
func (k *kindCounter) VisitTest(Test)             { k.x++ }

func TestVisitor(t *testing.T) {
	var c kindCounter
	for _, d := range []Domain{Template{}, Solution{}, Assignment{}, Test{}, Test{}} {
		d.Accept(&c)
	}
	if c.t != 1 || c.s != 1 || c.a != 1 || c.x != 2 {
		t.Fatalf("counts = %+v", c)
	}
}
