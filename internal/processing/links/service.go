package links

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/IgorGrieder/short-links/internal/infrastructure/logger"
	"github.com/IgorGrieder/short-links/internal/infrastructure/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	MinCodeLength       = 3
	DefaultMetricsLimit = 50
)

// reservedCodes are single-segment GET routes that shadow GET /{code}.
var reservedCodes = map[string]struct{}{
	"health":  {},
	"metrics": {},
}

var tracer = otel.Tracer("github.com/IgorGrieder/short-links/internal/processing/links")

type Options struct {
	MetricsMode MetricsMode
	// DefaultLimit applies when TopClicks is called with limit <= 0.
	DefaultLimit int
	ClickTimeout time.Duration
}

type Service struct {
	linkRepo LinkRepository
	counter  ClickCounter
	recorder ClickRecorder

	metricsMode  MetricsMode
	defaultLimit int
	clickTimeout time.Duration

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

// NewService wires the link store and the click counter. When recorder is nil
// clicks are written straight to counter.
func NewService(linkRepo LinkRepository, counter ClickCounter, recorder ClickRecorder, opts Options) *Service {
	if recorder == nil {
		recorder = counter
	}
	if opts.MetricsMode == "" {
		opts.MetricsMode = MetricsModeScore
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultMetricsLimit
	}
	if opts.ClickTimeout <= 0 {
		opts.ClickTimeout = 2 * time.Second
	}

	return &Service{
		linkRepo:     linkRepo,
		counter:      counter,
		recorder:     recorder,
		metricsMode:  opts.MetricsMode,
		defaultLimit: opts.DefaultLimit,
		clickTimeout: opts.ClickTimeout,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*ShortLink, error) {
	ctx, span := tracer.Start(ctx, "links.register")
	defer span.End()

	if err := validateCode(in.Code); err != nil {
		return nil, err
	}
	if err := validateURL(in.URL); err != nil {
		return nil, err
	}
	if _, reserved := reservedCodes[in.Code]; reserved {
		return nil, ErrCodeInUse
	}

	link := &ShortLink{
		Code:        in.Code,
		OriginalURL: in.URL,
	}
	if err := s.linkRepo.Insert(ctx, link); err != nil {
		if !errors.Is(err, ErrCodeInUse) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "insert failed")
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int64("short_link.id", link.ID))
	return link, nil
}

// Resolve returns the link for code and schedules one click recording for it.
// The recording runs in the background and never fails the lookup.
func (s *Service) Resolve(ctx context.Context, code string) (*ShortLink, error) {
	ctx, span := tracer.Start(ctx, "links.resolve")
	defer span.End()

	if err := validateCode(code); err != nil {
		return nil, err
	}

	link, err := s.linkRepo.FindByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "lookup failed")
		}
		return nil, err
	}

	s.recordClickAsync(ctx, link.ID)
	return link, nil
}

func (s *Service) ListAll(ctx context.Context) ([]ShortLink, error) {
	ctx, span := tracer.Start(ctx, "links.list")
	defer span.End()

	out, err := s.linkRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if out == nil {
		out = []ShortLink{}
	}
	return out, nil
}

// TopClicks reads the leaderboard. In score mode limit is a score ceiling, in
// rank mode it is the number of entries. Results are ordered by clicks desc.
func (s *Service) TopClicks(ctx context.Context, limit int) ([]ClickTally, error) {
	ctx, span := tracer.Start(ctx, "links.top_clicks")
	defer span.End()

	if limit <= 0 {
		limit = s.defaultLimit
	}
	span.SetAttributes(
		attribute.String("metrics.mode", string(s.metricsMode)),
		attribute.Int("metrics.limit", limit),
	)

	var (
		tallies []ClickTally
		err     error
	)
	switch s.metricsMode {
	case MetricsModeRank:
		tallies, err = s.counter.TopByRank(ctx, int64(limit))
	default:
		tallies, err = s.counter.RangeByScore(ctx, 0, float64(limit))
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	sortByClicksDesc(tallies)
	if tallies == nil {
		tallies = []ClickTally{}
	}
	return tallies, nil
}

// Wait blocks until every scheduled click recording has finished or ctx is done.
// Clicks resolved after Wait has been called are dropped.
func (s *Service) Wait(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) recordClickAsync(ctx context.Context, id int64) {
	shortLinkID := strconv.FormatInt(id, 10)
	detached := context.WithoutCancel(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		clickRecordFailures.Inc()
		logger.Warn("dropping click after shutdown", zap.String("short_link_id", shortLinkID))
		return
	}
	s.pending.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.pending.Done()

		recordCtx, cancel := context.WithTimeout(detached, s.clickTimeout)
		defer cancel()

		if err := s.recorder.RecordClick(recordCtx, shortLinkID); err != nil {
			clickRecordFailures.Inc()
			logger.Warn("failed to record click",
				zap.Error(err),
				zap.String("short_link_id", shortLinkID),
			)
			return
		}
		clicksRecorded.Inc()
	}()
}

func validateCode(code string) error {
	if utf8.RuneCountInString(code) < MinCodeLength {
		return ErrInvalidCode
	}
	return nil
}

// validateURL only checks raw; the link keeps the URL exactly as submitted.
func validateURL(raw string) error {
	if !validation.IsHTTPURL(raw) {
		return ErrInvalidURL
	}
	return nil
}

func sortByClicksDesc(tallies []ClickTally) {
	sort.SliceStable(tallies, func(i, j int) bool {
		if tallies[i].Clicks != tallies[j].Clicks {
			return tallies[i].Clicks > tallies[j].Clicks
		}
		return tallies[i].ShortLinkID < tallies[j].ShortLinkID
	})
}
