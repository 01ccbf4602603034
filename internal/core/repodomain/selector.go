package repodomain

import (
	perr "codeeditor/internal/platform/errors"
)

// Selector holds the active repository domain for one exercise
// it has a single writer and is not safe for concurrent use
type Selector struct {
	exercise Exercise
	selected Domain
}

// NewSelector returns an uninitialized selector over ex
func NewSelector(ex Exercise) *Selector {
	return &Selector{exercise: ex}
}

// Exercise returns the exercise the selector resolves against
func (s *Selector) Exercise() Exercise { return s.exercise }

// Selected returns the active domain, false while uninitialized
func (s *Selector) Selected() (Domain, bool) {
	return s.selected, s.selected != nil
}

// SelectByParticipationID activates the slot whose participation has id
// template wins over solution, solution over assignment
// on failure the selection is left unchanged
func (s *Selector) SelectByParticipationID(id int64) error {
	d, ok := s.resolve(id)
	if !ok {
		return perr.Wrapf(ErrParticipationNotFound, perr.ErrorCodeNotFound, "participation %d", id)
	}
	s.selected = d
	return nil
}

func (s *Selector) resolve(id int64) (Domain, bool) {
	ex := &s.exercise
	switch {
	case ex.Template != nil && ex.Template.ID == id:
		return Template{P: *ex.Template}, true
	case ex.Solution != nil && ex.Solution.ID == id:
		return Solution{P: *ex.Solution}, true
	}
	if a := ex.Assignment(); a != nil && a.ID == id {
		return Assignment{P: *a}, true
	}
	return nil, false
}

// SelectTestRepository activates the test repository
func (s *Selector) SelectTestRepository() {
	s.selected = Test{}
}

// NextAvailableParticipation picks the participation to open first
// slots without a repository are dropped, then the preferred id is looked up
// in what remains, otherwise template, solution and assignment win in that order
func (s *Selector) NextAvailableParticipation(preferredID int64) (Participation, bool) {
	ex := &s.exercise
	usable := make([]*Participation, 0, 3)
	for _, p := range []*Participation{ex.Template, ex.Solution, ex.Assignment()} {
		if p.Usable() {
			usable = append(usable, p)
		}
	}
	if len(usable) == 0 {
		return Participation{}, false
	}
	for _, p := range usable {
		if p.ID == preferredID {
			return *p, true
		}
	}
	return *usable[0], true
}

// Replace swaps the exercise and re-resolves the current selection against it
// an assignment selection follows the new assignment record, or falls back to
// the template when the slot is gone; any other vanished participation
// leaves the selector uninitialized
func (s *Selector) Replace(ex Exercise) {
	s.exercise = ex
	if s.selected == nil {
		return
	}
	p := s.selected.Participation()
	if p == nil {
		return
	}
	if d, ok := s.resolve(p.ID); ok {
		s.selected = d
		return
	}
	wasAssignment := s.selected.Kind() == KindAssignment
	s.selected = nil
	if !wasAssignment {
		return
	}
	if a := ex.Assignment(); a != nil {
		s.selected = Assignment{P: *a}
		return
	}
	if t := ex.Template; t != nil {
		s.selected = Template{P: *t}
	}
}
