package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/phoenix-cv/internal/ai"
	"github.com/spigell/phoenix-cv/internal/ai/gemini"
	"github.com/spigell/phoenix-cv/internal/document"
	"github.com/spigell/phoenix-cv/internal/logger"
	"github.com/spigell/phoenix-cv/internal/profile"
	"github.com/spigell/phoenix-cv/internal/review"
	"github.com/spigell/phoenix-cv/internal/scoring"
	"github.com/spigell/phoenix-cv/internal/secrets"
)

// application bundles what every command needs once the config is read.
type application struct {
	config *Config
	logger *zap.Logger
}

func newApplication() *application {
	l, err := logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	l.Debug("starting", zap.String("app", app), zap.String("version", version), zap.Bool("demo", config.Demo))

	return &application{config: config, logger: l}
}

func (a *application) close() {
	_ = a.logger.Sync()
}

func newEngine(cfg *ScoringConfig, l *zap.Logger) (*scoring.Engine, error) {
	opts := []scoring.Option{scoring.WithLogger(l.Named("scoring"))}

	if cfg != nil && cfg.Weights != nil {
		opts = append(opts, scoring.WithWeights(*cfg.Weights))
	}
	if cfg != nil && len(cfg.Tables) > 0 {
		tables, err := scoring.TablesFrom(cfg.Tables)
		if err != nil {
			return nil, fmt.Errorf("scoring tables: %w", err)
		}
		opts = append(opts, scoring.WithTables(tables))
	}

	return scoring.NewEngine(opts...)
}

// newAssistant returns nil when AI is disabled and demo mode is off. A
// misconfigured provider degrades to an assistant without generator, which
// serves fallback content.
func newAssistant(ctx context.Context, cfg *Config, l *zap.Logger) *ai.Assistant {
	opts := []ai.Option{
		ai.WithLogger(l.Named("ai")),
		ai.WithMaxLogLength(cfg.AI.MaxLogLength),
	}

	if cfg.Demo {
		l.Info("demo mode: AI texts are canned demonstration content")
		return ai.NewAssistant(nil, append(opts, ai.WithDemo(true))...)
	}

	if !cfg.AI.Enabled {
		return nil
	}

	generator, err := newGenerator(ctx, cfg.AI, l)
	if err != nil {
		l.Warn("AI provider unavailable, serving fallback content", zap.Error(err))
		return ai.NewAssistant(nil, opts...)
	}

	return ai.NewAssistant(generator, opts...)
}

func newGenerator(ctx context.Context, cfg *AIConfig, l *zap.Logger) (ai.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := l.Named("gemini").With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey:          apiKey,
		Model:           cfg.Gemini.Model,
		MaxRetries:      cfg.Gemini.MaxRetries,
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		MaxLogLength:    cfg.MaxLogLength,
	}, genLogger)
	if err != nil {
		return nil, err
	}

	l.Info("AI provider ready",
		zap.String(logger.FieldProvider, generator.Provider()),
		zap.String(logger.FieldModel, generator.Model()),
	)

	return generator, nil
}

func newReviewService(engine *scoring.Engine, assistant *ai.Assistant, cfg *AIConfig, l *zap.Logger) *review.Service {
	return review.NewService(engine, assistant,
		review.WithLogger(l.Named("review")),
		review.WithAITimeout(cfg.Timeout),
	)
}

var errNoJob = errors.New("a job description is required (--job or --job-text)")

// readJob returns the inline text when given, otherwise the text extracted from
// the job file.
func readJob(file, text string) (profile.JobDescription, error) {
	if strings.TrimSpace(text) != "" {
		return profile.JobDescription(text), nil
	}
	if strings.TrimSpace(file) == "" {
		return "", errNoJob
	}

	extracted, err := document.ExtractFile(file)
	if err != nil {
		return "", fmt.Errorf("reading job description: %w", err)
	}
	return profile.JobDescription(extracted), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
