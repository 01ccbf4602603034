// Package repodomain resolves which repository of a programming exercise is active in an editor session
package repodomain

import (
	perr "codeeditor/internal/platform/errors"
)

// ErrParticipationNotFound is reported when an id matches no repository slot
// or when no slot has a usable repository
var ErrParticipationNotFound = perr.New(perr.ErrorCodeNotFound, "participation not found")

// ErrExerciseNotFound is reported by loaders for unknown exercises
var ErrExerciseNotFound = perr.New(perr.ErrorCodeNotFound, "exercise not found")

// Participation links an exercise slot to a repository instance
// an empty RepositoryURL means the repository is not provisioned
type Participation struct {
	ID            int64  `json:"id"`
	RepositoryURL string `json:"repositoryUrl,omitempty"`
}

// Usable reports whether p has a repository to open
func (p *Participation) Usable() bool { return p != nil && p.RepositoryURL != "" }

// Exercise is the fixed set of repository slots for one exercise
// Assignments holds zero or one element
type Exercise struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title,omitempty"`
	Template    *Participation  `json:"templateParticipation,omitempty"`
	Solution    *Participation  `json:"solutionParticipation,omitempty"`
	Assignments []Participation `json:"studentParticipations,omitempty"`
}

// Assignment returns the assignment slot if present
func (e *Exercise) Assignment() *Participation {
	if e == nil || len(e.Assignments) == 0 {
		return nil
	}
	return &e.Assignments[0]
}

// Kind names a repository role
type Kind string

const (
	// KindTemplate is the template repository
	KindTemplate Kind = "TEMPLATE"
	// KindSolution is the solution repository
	KindSolution Kind = "SOLUTION"
	// KindAssignment is the student assignment repository
	KindAssignment Kind = "ASSIGNMENT"
	// KindTest is the test repository, which has no participation
	KindTest Kind = "TEST"
)

// Domain is the closed set of repository roles
// the unexported method keeps other packages from adding variants
type Domain interface {
	Kind() Kind
	// Participation is nil for the test repository
	Participation() *Participation
	Accept(v Visitor)
	sealed()
}

// Visitor handles every Domain variant
// adding a variant adds a method here so every implementation must follow
type Visitor interface {
	VisitTemplate(Template)
	VisitSolution(Solution)
	VisitAssignment(Assignment)
	VisitTest(Test)
}

// Template is the template repository domain
type Template struct{ P Participation }

// Solution is the solution repository domain
type Solution struct{ P Participation }

// Assignment is the assignment repository domain
type Assignment struct{ P Participation }

// Test is the test repository domain
type Test struct{}

func (Template) Kind() Kind   { return KindTemplate }
func (Solution) Kind() Kind   { return KindSolution }
func (Assignment) Kind() Kind { return KindAssignment }
func (Test) Kind() Kind       { return KindTest }

func (d Template) Participation() *Participation   { p := d.P; return &p }
func (d Solution) Participation() *Participation   { p := d.P; return &p }
func (d Assignment) Participation() *Participation { p := d.P; return &p }
func (Test) Participation() *Participation         { return nil }

func (d Template) Accept(v Visitor)   { v.VisitTemplate(d) }
func (d Solution) Accept(v Visitor)   { v.VisitSolution(d) }
func (d Assignment) Accept(v Visitor) { v.VisitAssignment(d) }
func (d Test) Accept(v Visitor)       { v.VisitTest(d) }

func (Template) sealed()   {}
func (Solution) sealed()   {}
func (Assignment) sealed() {}
func (Test) sealed()       {}

// Equal compares two domains by role and participation id
func Equal(a, b Domain) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	pa, pb := a.Participation(), b.Participation()
	if pa == nil || pb == nil {
		return pa == nil && pb == nil
	}
	return pa.ID == pb.ID
}

// View is a flat JSON friendly form of a Domain
type View struct {
	Kind          Kind           `json:"kind"`
	Participation *Participation `json:"participation,omitempty"`
}

// ViewOf flattens d, the zero View for nil
func ViewOf(d Domain) View {
	if d == nil {
		return View{}
	}
	return View{Kind: d.Kind(), Participation: d.Participation()}
}
