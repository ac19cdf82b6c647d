// Package review runs the heuristic score and, on request, the AI analysis of
// one profile against one job description.
package review

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/phoenix-cv/internal/ai"
	"github.com/spigell/phoenix-cv/internal/logger"
	"github.com/spigell/phoenix-cv/internal/profile"
	"github.com/spigell/phoenix-cv/internal/scoring"
)

// Review bundles the outcome of one review. Match is always present; Analysis
// and Keywords are only filled when AI was requested.
type Review struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Match     *scoring.Report `json:"match"`
	Analysis  *ai.Result      `json:"analysis,omitempty"`
	Keywords  *ai.Result      `json:"keywords,omitempty"`
	AIError   string          `json:"ai_error,omitempty"`
	Duration  time.Duration   `json:"duration_ns"`
}

type Service struct {
	engine    *scoring.Engine
	assistant *ai.Assistant
	logger    *zap.Logger
	timeout   time.Duration
	now       func() time.Time
	newID     func() uuid.UUID
}

type Option func(*Service)

type idKey struct{}

// ContextWithID returns a copy of ctx carrying id. A review run under it takes
// id as its own, so its logs line up with those of the calling request.
func ContextWithID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// IDFromContext returns the id stored by ContextWithID.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(idKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAITimeout bounds the AI branch. The heuristic score is never cut short.
func WithAITimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func withIDs(f func() uuid.UUID) Option {
	return func(s *Service) { s.newID = f }
}

// NewService wires the engine with an optional assistant. A nil assistant
// disables AI analysis regardless of what callers ask for.
func NewService(engine *scoring.Engine, assistant *ai.Assistant, opts ...Option) *Service {
	s := &Service{
		engine:    engine,
		assistant: assistant,
		logger:    zap.NewNop(),
		now:       time.Now,
		newID:     uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AIAvailable reports whether reviews can include an AI analysis.
func (s *Service) AIAvailable() bool { return s.assistant != nil }

// Review scores p against job. With withAI the narrative analysis and keyword
// extraction run alongside the heuristic score. AI failures are reported in
// AIError and never fail the review.
func (s *Service) Review(ctx context.Context, p *profile.CandidateProfile, job profile.JobDescription, withAI bool) (*Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := s.now()
	id, ok := IDFromContext(ctx)
	if !ok {
		id = s.newID()
	}

	r := &Review{ID: id, CreatedAt: start}
	log := logger.ForRequest(s.logger, r.ID.String())

	g, gCtx := errgroup.WithContext(ctx)
	var mu sync.Mutex

	g.Go(func() error {
		report := s.engine.Match(p, job)
		mu.Lock()
		r.Match = report
		mu.Unlock()
		return nil
	})

	if withAI && s.assistant != nil {
		aiCtx := gCtx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			aiCtx, cancel = context.WithTimeout(gCtx, s.timeout)
			defer cancel()
		}

		g.Go(func() error {
			analysis := s.assistant.AnalyzeFit(aiCtx, p, job)
			mu.Lock()
			r.Analysis = analysis
			mu.Unlock()
			return nil
		})

		g.Go(func() error {
			keywords := s.assistant.ExtractKeywords(aiCtx, job)
			mu.Lock()
			r.Keywords = keywords
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.AIError = aiErrors(r.Analysis, r.Keywords)
	r.Duration = s.now().Sub(start)

	fields := []zap.Field{
		zap.Int("compatibility_score", r.Match.Score),
		zap.Bool("ai", r.Analysis != nil),
		zap.Duration("duration", r.Duration),
		zap.Stringer("match", r.Match),
	}
	if r.AIError != "" {
		fields = append(fields, zap.String("ai_error", r.AIError))
	}
	log.Info("review completed", fields...)

	return r, nil
}

func aiErrors(results ...*ai.Result) string {
	var errs []error
	seen := map[string]bool{}
	for _, res := range results {
		if res == nil || res.Err == nil || seen[res.Err.Error()] {
			continue
		}
		seen[res.Err.Error()] = true
		errs = append(errs, res.Err)
	}
	if len(errs) == 0 {
		return ""
	}
	return strings.ReplaceAll(errors.Join(errs...).Error(), "\n", "; ")
}
