// Package generator produces learning paths, quizzes and quiz feedback from a
// language model, falling back to deterministic content whenever the model
// is unavailable or its response cannot be used.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/pavelanni/learnpath/internal/llm"
	"github.com/pavelanni/learnpath/internal/llm/prompts"
	"github.com/pavelanni/learnpath/internal/metrics"
	"github.com/pavelanni/learnpath/internal/model"
)

const (
	kindPath     = "learning_path"
	kindQuiz     = "quiz"
	kindFeedback = "feedback"
)

// Generator is safe for concurrent use.
type Generator struct {
	llm         llm.Completer
	metrics     *metrics.Metrics
	log         *slog.Logger
	timeout     time.Duration
	llmFeedback bool
	tracer      trace.Tracer
}

// Option configures a Generator.
type Option func(*Generator)

// WithMetrics records generation outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithTimeout bounds every model call. Zero means no bound beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

// WithLLMFeedback asks the model for quiz feedback, keeping the tiered
// feedback as the fallback.
func WithLLMFeedback(enabled bool) Option {
	return func(g *Generator) { g.llmFeedback = enabled }
}

// New creates a Generator. A nil completer makes every operation return its
// fallback content.
func New(c llm.Completer, opts ...Option) *Generator {
	g := &Generator{
		llm:    c,
		log:    slog.Default(),
		tracer: otel.Tracer("github.com/pavelanni/learnpath/internal/generator"),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// HasModel reports whether a language model is configured.
func (g *Generator) HasModel() bool {
	return g.llm != nil
}

// LearningPath generates a learning path for req. The only error returned is
// a *model.InputError for an invalid request.
func (g *Generator) LearningPath(ctx context.Context, req model.LearningPathRequest) (model.LearningPath, error) {
	req, err := req.Normalize()
	if err != nil {
		return model.LearningPath{}, err
	}
	return g.learningPath(ctx, req), nil
}

func (g *Generator) learningPath(ctx context.Context, req model.LearningPathRequest) model.LearningPath {
	ctx, span := g.tracer.Start(ctx, "generator.LearningPath", trace.WithAttributes(
		attribute.String("learnpath.topic", req.Topic),
		attribute.String("learnpath.level", req.Level),
	))
	defer span.End()

	path, err := g.requestLearningPath(ctx, req)
	if err != nil {
		g.fellBack(ctx, span, kindPath, err)
		return FallbackLearningPath(ctx, req)
	}
	g.succeeded(span, kindPath)
	return path
}

func (g *Generator) requestLearningPath(ctx context.Context, req model.LearningPathRequest) (model.LearningPath, error) {
	prompt, err := prompts.LearningPath(req)
	if err != nil {
		return model.LearningPath{}, fmt.Errorf("build prompt: %w", err)
	}
	raw, err := g.completeJSON(ctx, kindPath, prompt)
	if err != nil {
		return model.LearningPath{}, err
	}
	if err := conform(pathSchema, raw); err != nil {
		return model.LearningPath{}, err
	}

	var path model.LearningPath
	if err := json.Unmarshal([]byte(raw), &path); err != nil {
		return model.LearningPath{}, fmt.Errorf("%w: %v", ErrShape, err)
	}
	path.FillDefaults()
	return path, nil
}

// Quiz generates multiple-choice questions for req. A model response without
// a usable "questions" array yields an empty, non-nil list rather than the
// fallback quiz. Malformed questions are dropped.
func (g *Generator) Quiz(ctx context.Context, req model.QuizRequest) ([]model.Question, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	return g.quiz(ctx, req), nil
}

func (g *Generator) quiz(ctx context.Context, req model.QuizRequest) []model.Question {
	ctx, span := g.tracer.Start(ctx, "generator.Quiz", trace.WithAttributes(
		attribute.String("learnpath.topic", req.Topic),
		attribute.Int("learnpath.question_count", req.QuestionCount),
	))
	defer span.End()

	qs, err := g.requestQuiz(ctx, req)
	switch {
	case err == nil:
		g.succeeded(span, kindQuiz)
		return qs
	case errors.Is(err, ErrShape):
		g.log.WarnContext(ctx, "quiz response has no questions", "error", err)
		span.SetAttributes(attribute.String("learnpath.source", "empty"))
		g.metrics.ObserveGeneration(kindQuiz, metrics.SourceEmpty, reason(err))
		return []model.Question{}
	default:
		g.fellBack(ctx, span, kindQuiz, err)
		return FallbackQuiz(ctx, req)
	}
}

func (g *Generator) requestQuiz(ctx context.Context, req model.QuizRequest) ([]model.Question, error) {
	prompt, err := prompts.Quiz(req)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}
	raw, err := g.completeJSON(ctx, kindQuiz, prompt)
	if err != nil {
		return nil, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	field, ok := top["questions"]
	if !ok {
		return nil, fmt.Errorf("%w: missing questions", ErrShape)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(field, &items); err != nil {
		return nil, fmt.Errorf("%w: questions is not an array", ErrShape)
	}

	qs := make([]model.Question, 0, len(items))
	for i, item := range items {
		var q model.Question
		if err := json.Unmarshal(item, &q); err != nil || !q.Valid() {
			g.log.DebugContext(ctx, "dropping malformed question", "index", i)
			continue
		}
		qs = append(qs, q)
	}
	return qs, nil
}

// Feedback scores req and returns tiered feedback, or model-written feedback
// when enabled and the model answers with a conforming object.
func (g *Generator) Feedback(ctx context.Context, req model.FeedbackRequest) model.Feedback {
	score, total := req.Score()
	tiered := TieredFeedback(ctx, req.Topic, score, total)
	if !g.llmFeedback {
		return tiered
	}

	ctx, span := g.tracer.Start(ctx, "generator.Feedback", trace.WithAttributes(
		attribute.Int("learnpath.score", score),
		attribute.Int("learnpath.total", total),
	))
	defer span.End()

	fb, err := g.requestFeedback(ctx, req.Topic, score, total)
	if err != nil {
		g.fellBack(ctx, span, kindFeedback, err)
		return tiered
	}
	g.succeeded(span, kindFeedback)
	return fb
}

func (g *Generator) requestFeedback(ctx context.Context, topic string, score, total int) (model.Feedback, error) {
	prompt, err := prompts.Feedback(topic, score, total)
	if err != nil {
		return model.Feedback{}, fmt.Errorf("build prompt: %w", err)
	}
	raw, err := g.completeJSON(ctx, kindFeedback, prompt)
	if err != nil {
		return model.Feedback{}, err
	}
	if err := conform(feedbackSchema, raw); err != nil {
		return model.Feedback{}, err
	}
	var fb model.Feedback
	if err := json.Unmarshal([]byte(raw), &fb); err != nil {
		return model.Feedback{}, fmt.Errorf("%w: %v", ErrShape, err)
	}
	return fb, nil
}

// Generate builds a learning path, its quiz and the path's stats. The path
// and quiz are requested concurrently.
func (g *Generator) Generate(ctx context.Context, req model.LearningPathRequest) (model.GenerateResponse, error) {
	req, err := req.Normalize()
	if err != nil {
		return model.GenerateResponse{}, err
	}

	var (
		path model.LearningPath
		quiz []model.Question
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		path = g.learningPath(egCtx, req)
		return nil
	})
	eg.Go(func() error {
		quiz = g.quiz(egCtx, req.QuizRequest())
		return nil
	})
	// Both generations always produce a value.
	_ = eg.Wait()

	stats := DeriveStats(path)
	stats.Topic = req.Topic
	stats.Level = req.Level
	return model.GenerateResponse{
		Success:      true,
		LearningPath: path,
		Quiz:         quiz,
		Stats:        stats,
	}, nil
}

// completeJSON calls the model and extracts the JSON object from its reply.
func (g *Generator) completeJSON(ctx context.Context, kind, prompt string) (string, error) {
	if g.llm == nil {
		return "", fmt.Errorf("%w: %w", ErrCollaborator, llm.ErrUnconfigured)
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.llm.Complete(ctx, prompt)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	g.metrics.ObserveLLM(kind, outcome, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCollaborator, err)
	}

	raw, err := ExtractJSON(text)
	if err != nil {
		return "", err
	}
	if !json.Valid([]byte(raw)) {
		return "", fmt.Errorf("%w: invalid JSON", ErrExtraction)
	}
	return raw, nil
}

func (g *Generator) succeeded(span trace.Span, kind string) {
	span.SetAttributes(attribute.String("learnpath.source", metrics.SourceModel))
	g.metrics.ObserveGeneration(kind, metrics.SourceModel, "")
}

func (g *Generator) fellBack(ctx context.Context, span trace.Span, kind string, err error) {
	r := reason(err)
	g.log.WarnContext(ctx, "using fallback content", "kind", kind, "reason", r, "error", err)
	span.RecordError(err)
	span.SetAttributes(
		attribute.String("learnpath.source", metrics.SourceFallback),
		attribute.String("learnpath.fallback_reason", r),
	)
	g.metrics.ObserveGeneration(kind, metrics.SourceFallback, r)
}
