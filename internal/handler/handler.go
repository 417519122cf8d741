package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pavelanni/learnpath/internal/generator"
	"github.com/pavelanni/learnpath/internal/i18n"
	"github.com/pavelanni/learnpath/internal/metrics"
	"github.com/pavelanni/learnpath/internal/model"
)

const maxBodyBytes = 1 << 20

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	gen    *generator.Generator
	config model.ServiceConfig
	limit  func(http.Handler) http.Handler
}

// New creates a new Handler. ctx bounds the rate limiter's cleanup goroutine.
func New(ctx context.Context, gen *generator.Generator, cfg model.ServiceConfig) *Handler {
	h := &Handler{gen: gen, config: cfg}
	if cfg.RateLimit > 0 {
		h.limit = RateLimit(ctx, cfg.RateLimit, time.Minute)
	}
	return h
}

// Router builds the full middleware stack and routes.
func (h *Handler) Router(lang string, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)
	r.Use(CORS(h.config.CORSOrigins))
	r.Use(i18n.Middleware(lang))

	h.Routes(r)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	return r
}

// Routes registers the API routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Group(func(r chi.Router) {
			if h.limit != nil {
				r.Use(h.limit)
			}
			r.Post("/generate-learning-path", h.handleGenerate)
			r.Post("/generate-quiz", h.handleQuiz)
			r.Post("/quiz-feedback", h.handleFeedback)
		})
	})
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.LearningPathRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.gen.Generate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleQuiz(w http.ResponseWriter, r *http.Request) {
	var req model.QuizRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	quiz, err := h.gen.Quiz(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.QuizResponse{Success: true, Quiz: quiz})
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req model.FeedbackRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	fb := h.gen.Feedback(r.Context(), req)
	writeJSON(w, http.StatusOK, model.FeedbackResponse{Success: true, Feedback: fb})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{
		Status:    "healthy",
		Message:   "Learning Assistant API is running",
		HasAPIKey: h.config.HasAPIKey,
		Provider:  h.config.Provider,
		Model:     h.config.Model,
		Languages: i18n.Languages(),
	})
}

// decode reads a JSON body of at most maxBodyBytes into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &model.InputError{Field: "body", Reason: "Invalid JSON body: " + err.Error()}
	}
	return nil
}

func writeError(w http.ResponseWriter, err error) {
	var inErr *model.InputError
	if errors.As(err, &inErr) {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: inErr.Reason})
		return
	}
	slog.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
