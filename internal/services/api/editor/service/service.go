// Package service keeps editor sessions and pushes their state to subscribers
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"codeeditor/internal/core/repodomain"
	perr "codeeditor/internal/platform/errors"
	"codeeditor/internal/platform/logger"
	bldomain "codeeditor/internal/services/api/buildlogs/domain"
	"codeeditor/internal/services/api/editor/domain"
	exdomain "codeeditor/internal/services/api/exercises/domain"
)

// ErrSessionNotFound is reported for unknown, closed or expired sessions
var ErrSessionNotFound = perr.New(perr.ErrorCodeNotFound, "session not found")

// Defaults used when Config leaves a field zero
const (
	DefaultTTL         = 30 * time.Minute
	DefaultMaxSessions = 1000
	DefaultBuffer      = 16
)

// Service defines the editor service contract
type Service interface {
	domain.ServicePort
}

// Config bounds the session table
type Config struct {
	TTL         time.Duration
	MaxSessions int
	// Buffer is the per subscriber event buffer, full buffers drop events
	Buffer int
}

// Deps are the ports the editor drives
type Deps struct {
	Exercises exdomain.ServicePort
	// BuildLogs and Notifier are optional, without them no build errors are pushed
	BuildLogs bldomain.ServicePort
	Notifier  bldomain.Notifier
}

// Svc implements the editor service
type Svc struct {
	cfg   Config
	deps  Deps
	now   func() time.Time
	newID func() string
	log   *logger.Logger

	mu       sync.RWMutex
	sessions map[string]*entry

	unsubscribe func()
}

// entry serializes everything that touches one session
type entry struct {
	mu       sync.Mutex
	id       string
	sess     *repodomain.Session
	lastUsed time.Time
	subs     map[uint64]chan domain.Event
	nextSub  uint64
	closed   bool
	// opCtx is the context of the operation holding mu
	opCtx context.Context
}

// Option configures Svc
type Option func(*Svc)

// WithClock sets the time source used for expiry
func WithClock(now func() time.Time) Option {
	return func(s *Svc) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDs sets the session id generator
func WithIDs(fn func() string) Option {
	return func(s *Svc) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New constructs the editor service and follows ingested builds when a notifier is given
func New(cfg Config, deps Deps, opts ...Option) *Svc {
	if deps.Exercises == nil {
		panic("editor.Service requires the exercises port")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultBuffer
	}
	s := &Svc{
		cfg:      cfg,
		deps:     deps,
		now:      time.Now,
		newID:    uuid.NewString,
		log:      logger.Named("editor"),
		sessions: map[string]*entry{},
	}
	for _, o := range opts {
		o(s)
	}
	if deps.Notifier != nil {
		s.unsubscribe = deps.Notifier.Subscribe(s.onBuild)
	}
	return s
}

// Shutdown stops following builds and closes every session
func (s *Svc) Shutdown() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.mu.Lock()
	all := s.sessions
	s.sessions = map[string]*entry{}
	s.mu.Unlock()
	for _, e := range all {
		e.mu.Lock()
		e.close()
		e.mu.Unlock()
	}
}

func (s *Svc) loader() repodomain.ExerciseLoader {
	return repodomain.LoaderFunc(s.deps.Exercises.Get)
}

// Open creates a session, navigating at once when an exercise id is given
func (s *Svc) Open(ctx context.Context, in domain.OpenInput) (domain.SessionView, error) {
	now := s.now()
	e := &entry{
		id:       s.newID(),
		sess:     repodomain.NewSession(s.loader()),
		lastUsed: now,
		subs:     map[uint64]chan domain.Event{},
	}
	e.sess.OnChange(func(repodomain.Domain) { s.publishDomain(e) })

	s.mu.Lock()
	s.evictLocked(now)
	if len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		return domain.SessionView{}, perr.Newf(perr.ErrorCodeTooManyRequests, "session limit of %d reached", s.cfg.MaxSessions)
	}
	s.sessions[e.id] = e
	s.mu.Unlock()

	logger.C(logger.WithSession(ctx, e.id)).Info().Msg("editor session opened")

	if in.ExerciseID == 0 {
		e.mu.Lock()
		defer e.mu.Unlock()
		return s.view(e), nil
	}
	// the session exists either way, a failed first route shows in its state
	v, err := s.Navigate(ctx, e.id, domain.Route{ExerciseID: in.ExerciseID, ParticipationID: in.ParticipationID, Test: in.Test})
	if err != nil && v.ID == "" {
		return v, err
	}
	return v, nil
}

// Get returns the session state and refreshes its idle timer
func (s *Svc) Get(_ context.Context, id string) (domain.SessionView, error) {
	e, err := s.lookup(id)
	if err != nil {
		return domain.SessionView{}, err
	}
	defer e.mu.Unlock()
	return s.view(e), nil
}

// Navigate resolves a route inside the session
// a failed resolution is visible in the returned view and also returned as the error
func (s *Svc) Navigate(ctx context.Context, id string, r domain.Route) (domain.SessionView, error) {
	if r.ExerciseID <= 0 {
		return domain.SessionView{}, perr.WithField(perr.InvalidArgf("exercise id must be positive"), "exerciseId")
	}
	e, err := s.lookup(id)
	if err != nil {
		return domain.SessionView{}, err
	}
	defer e.mu.Unlock()
	e.opCtx = ctx

	navErr := e.sess.Navigate(ctx, r)
	v := s.view(e)
	if navErr != nil {
		logger.C(logger.WithSession(ctx, id)).Debug().Err(navErr).Int64("exercise_id", r.ExerciseID).Msg("route not resolved")
		s.publish(e, domain.Event{Type: domain.EventDomain, Session: &v})
		return v, navErr
	}
	return v, nil
}

// SetAssignment stores the new assignment repository and applies it to the session
func (s *Svc) SetAssignment(ctx context.Context, id string, in domain.SetAssignmentInput) (domain.SessionView, error) {
	e, err := s.lookup(id)
	if err != nil {
		return domain.SessionView{}, err
	}
	defer e.mu.Unlock()
	e.opCtx = ctx

	sel := e.sess.Selector()
	if sel == nil {
		return domain.SessionView{}, perr.InvalidArgf("session has no exercise yet")
	}
	ex, err := s.deps.Exercises.SetAssignment(ctx, sel.Exercise().ID, in)
	if err != nil {
		// the stored slots may have moved underneath this session
		e.sess.Reload()
		return domain.SessionView{}, err
	}
	e.sess.Replace(ex)
	return s.view(e), nil
}

// Close ends a session and its subscriptions
func (s *Svc) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return perr.Wrapf(ErrSessionNotFound, perr.ErrorCodeNotFound, "session %s", id)
	}
	e.mu.Lock()
	e.close()
	e.mu.Unlock()
	logger.C(logger.WithSession(ctx, id)).Info().Msg("editor session closed")
	return nil
}

// Subscribe streams events of a session
// the channel is closed when cancel runs or the session ends
func (s *Svc) Subscribe(_ context.Context, id string) (<-chan domain.Event, func(), error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	defer e.mu.Unlock()

	ch := make(chan domain.Event, s.cfg.Buffer)
	sub := e.nextSub
	e.nextSub++
	e.subs[sub] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if c, ok := e.subs[sub]; ok {
				delete(e.subs, sub)
				close(c)
			}
		})
	}
	return ch, cancel, nil
}

// Len is the number of live sessions
func (s *Svc) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// lookup returns the entry locked, expired sessions are closed on the way
func (s *Svc) lookup(id string) (*entry, error) {
	now := s.now()
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, perr.Wrapf(ErrSessionNotFound, perr.ErrorCodeNotFound, "session %s", id)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, perr.Wrapf(ErrSessionNotFound, perr.ErrorCodeNotFound, "session %s", id)
	}
	if now.Sub(e.lastUsed) > s.cfg.TTL {
		e.close()
		e.mu.Unlock()
		s.mu.Lock()
		if s.sessions[id] == e {
			delete(s.sessions, id)
		}
		s.mu.Unlock()
		return nil, perr.Wrapf(ErrSessionNotFound, perr.ErrorCodeNotFound, "session %s expired", id)
	}
	e.lastUsed = now
	return e, nil
}

// evictLocked drops idle sessions, s.mu must be held
// sessions busy in another call are in use and skipped
func (s *Svc) evictLocked(now time.Time) {
	for id, e := range s.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.closed || now.Sub(e.lastUsed) > s.cfg.TTL {
			e.close()
			delete(s.sessions, id)
			s.log.Debug().Str("session_id", id).Msg("editor session expired")
		}
		e.mu.Unlock()
	}
}

// view snapshots e, e.mu must be held
func (s *Svc) view(e *entry) domain.SessionView {
	v := domain.SessionView{ID: e.id, State: e.sess.State(), UpdatedAt: e.lastUsed}
	if sel := e.sess.Selector(); sel != nil {
		v.ExerciseID = sel.Exercise().ID
	}
	if d, ok := e.sess.Selected(); ok {
		view := repodomain.ViewOf(d)
		v.Selected = &view
	}
	if err := e.sess.Err(); err != nil {
		w := perr.WireFrom(err)
		v.Error = &w
	}
	return v
}

// publishDomain runs from the session change hook with e.mu held
func (s *Svc) publishDomain(e *entry) {
	ctx := e.opCtx
	if ctx == nil {
		ctx = context.Background()
	}
	v := s.view(e)
	s.publish(e, domain.Event{Type: domain.EventDomain, Session: &v})

	if s.deps.BuildLogs == nil || v.Selected == nil || v.Selected.Participation == nil {
		return
	}
	pid := v.Selected.Participation.ID
	res, err := s.deps.BuildLogs.Errors(ctx, pid)
	if err != nil {
		s.log.Warn().Err(err).Int64("participation_id", pid).Msg("build errors unavailable")
		return
	}
	s.publish(e, domain.Event{Type: domain.EventBuildErrors, BuildErrors: &bldomain.BuildErrors{ParticipationID: pid, Result: res}})
}

// onBuild forwards a finished build to sessions that show its participation
func (s *Svc) onBuild(ev bldomain.BuildErrors) {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	for _, e := range entries {
		e.mu.Lock()
		if d, ok := e.sess.Selected(); ok && !e.closed {
			if p := d.Participation(); p != nil && p.ID == ev.ParticipationID {
				evCopy := ev
				s.publish(e, domain.Event{Type: domain.EventBuildErrors, BuildErrors: &evCopy})
			}
		}
		e.mu.Unlock()
	}
}

// publish fans out without blocking, e.mu must be held
func (s *Svc) publish(e *entry, ev domain.Event) {
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
			s.log.Debug().Str("session_id", e.id).Str("event", ev.Type).Msg("slow subscriber, event dropped")
		}
	}
}

// close ends all subscriptions, e.mu must be held
func (e *entry) close() {
	if e.closed {
		return
	}
	e.closed = true
	for id, ch := range e.subs {
		select {
		case ch <- domain.Event{Type: domain.EventClosed}:
		default:
		}
		close(ch)
		delete(e.subs, id)
	}
}
