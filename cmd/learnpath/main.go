package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pavelanni/learnpath/internal/generator"
	"github.com/pavelanni/learnpath/internal/handler"
	appI18n "github.com/pavelanni/learnpath/internal/i18n"
	"github.com/pavelanni/learnpath/internal/llm"
	"github.com/pavelanni/learnpath/internal/metrics"
	"github.com/pavelanni/learnpath/internal/model"
	"github.com/pavelanni/learnpath/internal/tracing"
)

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "learnpath",
		Short: "Learning path, quiz and feedback generator",
	}

	serve := serveCmd()
	root.AddCommand(serve, planCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":5000", "HTTP listen address (PORT overrides the default)")
	f.StringP("lang", "l", "en", "Default language for fallback content (en, ru)")
	f.StringSlice("cors-origins", nil, "Allowed CORS origins (empty allows any)")
	f.Int("rate-limit", 30, "Generation requests per minute per client IP (0 disables)")
	f.Bool("llm-feedback", false, "Ask the model for quiz feedback instead of using fixed tiers")
	f.Bool("trace", false, "Write OpenTelemetry spans to stderr")
	addLLMFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a learning path and quiz and print them as JSON",
		RunE:  runPlan,
	}
	f := cmd.Flags()
	f.StringP("topic", "t", "", "Topic to learn (required)")
	f.String("level", model.DefaultLevel, "Current skill level")
	f.String("timeframe", model.DefaultTimeframe, "Time available for learning")
	f.String("goals", "", "Learning goals")
	f.IntP("question-count", "n", model.DefaultQuestionCount, "Number of quiz questions")
	f.StringP("lang", "l", "en", "Language for fallback content (en, ru)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLLMFlags(cmd)
	addLogFlags(cmd)

	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func addLLMFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("llm-provider", llm.ProviderGemini, "Model provider (gemini, openai, none)")
	f.String("llm-key", "", "API key (or GEMINI_API_KEY / OPENAI_API_KEY)")
	f.String("llm-url", "", "OpenAI-compatible API base URL")
	f.String("llm-model", "", "Model name (provider default if empty)")
	f.Duration("llm-timeout", 60*time.Second, "Timeout for each model call")
}

func addLogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	f.String("log-file", "", "Also write logs to this rotating file")
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	if path := v.GetString("log-file"); path != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(out, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(out, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("LEARNPATH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("gemini-api-key", "GEMINI_API_KEY")
	_ = v.BindEnv("openai-api-key", "OPENAI_API_KEY")
	_ = v.BindEnv("port", "PORT")

	v.SetConfigName("learnpath")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/learnpath")
	v.AddConfigPath("/etc/learnpath")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// apiKey returns the configured key, falling back to the provider's
// conventional environment variable.
func apiKey(v *viper.Viper, provider string) string {
	if key := v.GetString("llm-key"); key != "" {
		return key
	}
	switch provider {
	case llm.ProviderGemini:
		return v.GetString("gemini-api-key")
	case llm.ProviderOpenAI:
		return v.GetString("openai-api-key")
	default:
		return ""
	}
}

// newGenerator builds the model client and generator. Without a usable
// provider the generator serves fallback content only.
func newGenerator(ctx context.Context, v *viper.Viper, m *metrics.Metrics) (*generator.Generator, model.ServiceConfig, func(), error) {
	provider := strings.ToLower(strings.TrimSpace(v.GetString("llm-provider")))
	cfg := llm.Config{
		Provider: provider,
		BaseURL:  v.GetString("llm-url"),
		APIKey:   apiKey(v, provider),
		Model:    v.GetString("llm-model"),
	}
	svc := model.ServiceConfig{Provider: provider}
	opts := []generator.Option{
		generator.WithMetrics(m),
		generator.WithTimeout(v.GetDuration("llm-timeout")),
		generator.WithLLMFeedback(v.GetBool("llm-feedback")),
	}

	client, err := llm.New(ctx, cfg)
	if errors.Is(err, llm.ErrUnconfigured) {
		slog.Warn("no language model configured, serving fallback content", "provider", provider)
		return generator.New(nil, opts...), svc, func() {}, nil
	}
	if err != nil {
		return nil, svc, nil, fmt.Errorf("create LLM client: %w", err)
	}

	svc.HasAPIKey = true
	svc.Model = cfg.Model
	if svc.Model == "" {
		svc.Model = llm.DefaultModel(provider)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		slog.Warn("LLM health check failed, requests may fall back", "provider", provider, "error", err)
	} else {
		slog.Info("LLM endpoint OK", "provider", provider, "model", svc.Model)
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Warn("close LLM client", "error", err)
		}
	}
	return generator.New(client, opts...), svc, closeFn, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	var traceOut io.Writer
	if v.GetBool("trace") {
		traceOut = os.Stderr
	}
	shutdownTracing, err := tracing.Setup(traceOut, "learnpath")
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("shutdown tracing", "error", err)
		}
	}()

	m := metrics.New()
	gen, svc, closeLLM, err := newGenerator(ctx, v, m)
	if err != nil {
		return err
	}
	defer closeLLM()

	svc.CORSOrigins = v.GetStringSlice("cors-origins")
	svc.RateLimit = v.GetInt("rate-limit")
	h := handler.New(ctx, gen, svc)

	addr := v.GetString("addr")
	if port := v.GetString("port"); port != "" && !cmd.Flags().Changed("addr") {
		addr = ":" + port
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(lang, m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr, "provider", svc.Provider, "has_api_key", svc.HasAPIKey)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server exited")
	return nil
}

func runPlan(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	ctx = appI18n.WithLocalizer(ctx, appI18n.NewLocalizer(lang))

	gen, _, closeLLM, err := newGenerator(ctx, v, nil)
	if err != nil {
		return err
	}
	defer closeLLM()

	resp, err := gen.Generate(ctx, model.LearningPathRequest{
		Topic:         v.GetString("topic"),
		Level:         v.GetString("level"),
		Timeframe:     v.GetString("timeframe"),
		Goals:         v.GetString("goals"),
		QuestionCount: v.GetInt("question-count"),
	})
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)
	return nil
}
