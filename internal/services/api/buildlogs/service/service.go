// Package service archives build logs and extracts compiler error annotations
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"codeeditor/internal/core/buildlog"
	"codeeditor/internal/core/sortby"
	"codeeditor/internal/platform/cache"
	perr "codeeditor/internal/platform/errors"
	"codeeditor/internal/platform/logger"
	"codeeditor/internal/services/api/buildlogs/domain"
	"codeeditor/internal/services/api/buildlogs/repo"
)

// DefaultMaxLines bounds a single ingested build
const DefaultMaxLines = 50_000

// Service defines the build logs service contract
type Service interface {
	domain.ServicePort
	domain.Notifier
}

// Svc implements the build logs service
type Svc struct {
	archive   repo.Archive
	extractor *buildlog.Extractor
	cache     *cache.Cache
	maxLines  int
	now       func() time.Time
	newID     func() string
	log       *logger.Logger

	mu        sync.RWMutex
	listeners map[uint64]domain.Listener
	nextSub   uint64
}

// Option configures Svc
type Option func(*Svc)

// WithCache caches extraction results per participation
func WithCache(c *cache.Cache) Option { return func(s *Svc) { s.cache = c } }

// WithExtractor replaces the default extractor
func WithExtractor(x *buildlog.Extractor) Option {
	return func(s *Svc) {
		if x != nil {
			s.extractor = x
		}
	}
}

// WithMaxLines bounds ingested builds, n <= 0 keeps the default
func WithMaxLines(n int) Option {
	return func(s *Svc) {
		if n > 0 {
			s.maxLines = n
		}
	}
}

// WithClock sets the receive time source
func WithClock(now func() time.Time) Option {
	return func(s *Svc) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDs sets the build id generator
func WithIDs(fn func() string) Option {
	return func(s *Svc) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New constructs a build logs service over archive
func New(archive repo.Archive, opts ...Option) *Svc {
	if archive == nil {
		panic("buildlogs.Service requires a non nil archive")
	}
	s := &Svc{
		archive:   archive,
		extractor: buildlog.New(),
		maxLines:  DefaultMaxLines,
		now:       time.Now,
		newID:     uuid.NewString,
		log:       logger.Named("buildlogs"),
		listeners: map[uint64]domain.Listener{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func cacheKey(participationID int64) string { return fmt.Sprintf("build_errors:%d", participationID) }

// Extract runs the extractor over arbitrary entries without storing them
func (s *Svc) Extract(_ context.Context, in domain.ExtractInput) (buildlog.Result, error) {
	if len(in.Entries) > s.maxLines {
		return buildlog.Result{}, s.tooLarge(len(in.Entries))
	}
	return s.extractor.ExtractErrors(buildlog.FromEntries(in.Entries)), nil
}

func (s *Svc) tooLarge(n int) error {
	return perr.WithField(perr.InvalidArgf("build has %d lines, limit is %d", n, s.maxLines), "entries")
}

// Ingest archives a finished build, extracts its errors and notifies subscribers
func (s *Svc) Ingest(ctx context.Context, in domain.IngestInput) (domain.IngestOutput, error) {
	if in.ParticipationID <= 0 {
		return domain.IngestOutput{}, perr.InvalidArgf("participation id must be positive")
	}
	if len(in.Entries) > s.maxLines {
		return domain.IngestOutput{}, s.tooLarge(len(in.Entries))
	}

	lines := buildlog.FromEntries(in.Entries)
	b := domain.Build{
		ParticipationID: in.ParticipationID,
		BuildID:         s.newID(),
		ReceivedAt:      s.now().UTC(),
		Lines:           lines,
	}
	if err := s.archive.Append(ctx, b); err != nil {
		return domain.IngestOutput{}, err
	}

	res := s.extractor.ExtractErrors(lines)
	if err := cache.SetJSON(ctx, s.cache, cacheKey(in.ParticipationID), res); err != nil {
		s.log.Warn().Err(err).Int64("participation_id", in.ParticipationID).Msg("build errors cache write failed")
	}

	logger.C(ctx).Info().
		Int64("participation_id", in.ParticipationID).
		Str("build_id", b.BuildID).
		Int("lines", len(lines)).
		Int("errors", res.Errors.Total()).
		Msg("build log ingested")

	s.notify(domain.BuildErrors{ParticipationID: in.ParticipationID, BuildID: b.BuildID, Result: res})
	return domain.IngestOutput{BuildID: b.BuildID, Lines: len(lines), Result: res}, nil
}

// Latest returns the lines of the most recent build ordered by time
// lines without a time go last, ties keep their build order
func (s *Svc) Latest(ctx context.Context, participationID int64) (domain.LatestOutput, error) {
	b, err := s.latest(ctx, participationID)
	if err != nil {
		return domain.LatestOutput{}, err
	}
	sortby.Times(b.Lines, sortby.NonZero(func(l buildlog.LogLine) time.Time { return l.Timestamp }), true)
	return domain.LatestOutput{
		BuildID: b.BuildID,
		Lines:   domain.Lines(b.Lines),
		Counts:  buildlog.Counts(b.Lines),
	}, nil
}

func (s *Svc) latest(ctx context.Context, participationID int64) (domain.Build, error) {
	if participationID <= 0 {
		return domain.Build{}, perr.InvalidArgf("participation id must be positive")
	}
	b, ok, err := s.archive.Latest(ctx, participationID)
	if err != nil {
		return domain.Build{}, err
	}
	if !ok {
		return domain.Build{ParticipationID: participationID}, nil
	}
	return b, nil
}

// Errors returns the extraction result of the most recent build in ingest order
// an empty result is returned when nothing was ingested
func (s *Svc) Errors(ctx context.Context, participationID int64) (buildlog.Result, error) {
	if res, ok := cache.GetJSON[buildlog.Result](ctx, s.cache, cacheKey(participationID)); ok {
		return res, nil
	}
	b, err := s.latest(ctx, participationID)
	if err != nil {
		return buildlog.Result{}, err
	}
	res := s.extractor.ExtractErrors(b.Lines)
	if b.BuildID != "" {
		if err := cache.SetJSON(ctx, s.cache, cacheKey(participationID), res); err != nil {
			s.log.Warn().Err(err).Int64("participation_id", participationID).Msg("build errors cache write failed")
		}
	}
	return res, nil
}

// Subscribe registers fn for every ingested build
func (s *Svc) Subscribe(fn domain.Listener) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Svc) notify(ev domain.BuildErrors) {
	s.mu.RLock()
	fns := make([]domain.Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}
