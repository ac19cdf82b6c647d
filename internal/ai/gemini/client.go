package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/phoenix-cv/internal/ai"
	"github.com/spigell/phoenix-cv/internal/logger"
)

const (
	Provider = "gemini"

	DefaultModel           = "gemini-1.5-flash"
	DefaultMaxRetries      = 3
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 1000

	// quota delays above this are reported instead of waited out
	maxQuotaDelay = 30 * time.Second

	defaultMaxLogLength = 200
)

var sleep = time.Sleep

// contentModel is the subset of *genai.Models the generator calls.
type contentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config configures a Generator. Zero values fall back to the package
// defaults.
type Config struct {
	APIKey          string
	Model           string
	MaxRetries      int
	Temperature     float32
	MaxOutputTokens int32
	MaxLogLength    int
}

// Generator sends prompts to the Gemini API, retrying temporary failures with
// exponential backoff.
type Generator struct {
	models      contentModel
	model       string
	maxRetries  int
	temperature float32
	maxTokens   int32
	maxLogLen   int
	logger      *zap.Logger
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, cfg Config, log *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, cfg, log), nil
}

func newGenerator(models contentModel, cfg Config, log *zap.Logger) *Generator {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	g := &Generator{
		models:      models,
		model:       model,
		maxRetries:  cfg.MaxRetries,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		maxLogLen:   cfg.MaxLogLength,
	}

	if g.maxRetries <= 0 {
		g.maxRetries = DefaultMaxRetries
	}
	if g.temperature <= 0 {
		g.temperature = DefaultTemperature
	}
	if g.maxTokens <= 0 {
		g.maxTokens = DefaultMaxOutputTokens
	}
	if g.maxLogLen <= 0 {
		g.maxLogLen = defaultMaxLogLength
	}

	g.logger = logger.ForModel(log, Provider, model)

	return g
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func (g *Generator) Provider() string { return Provider }

// GenerateContent sends the prompt to Gemini and returns the textual response.
// Temporary failures are retried up to the configured number of attempts.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	g.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.Truncate(prompt, g.maxLogLen)),
	)

	var lastErr error
	attempts := 0
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		attempts++

		text, err := g.generateOnce(ctx, prompt)
		if err == nil {
			g.logger.Debug("gemini generate content response",
				zap.Int("attempt", attempts),
				zap.Int("response_length", utf8.RuneCountInString(text)),
				zap.String("response_preview", logger.Truncate(text, g.maxLogLen)),
			)
			return text, nil
		}
		lastErr = err

		retry, delay := retryable(err)
		if !retry || attempt == g.maxRetries-1 {
			break
		}

		backoff := time.Duration(1<<attempt) * time.Second
		if delay > backoff {
			backoff = delay
		}

		g.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempts),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		if err := waitFor(ctx, backoff); err != nil {
			lastErr = err
			break
		}
	}

	return "", &ai.GenerationError{Provider: Provider, Attempts: attempts, Err: lastErr}
}

var errEmptyResponse = errors.New("gemini api returned empty response")

func (g *Generator) generateOnce(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), g.contentConfig())
	if err != nil {
		return "", err
	}

	output := responseText(resp)
	if output == "" {
		return "", errEmptyResponse
	}

	return output, nil
}

func (g *Generator) contentConfig() *genai.GenerateContentConfig {
	threshold := genai.HarmBlockThresholdBlockMediumAndAbove

	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: g.maxTokens,
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: threshold},
			{Category: genai.HarmCategoryHateSpeech, Threshold: threshold},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: threshold},
			{Category: genai.HarmCategoryDangerousContent, Threshold: threshold},
		},
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

var retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

// retryable reports whether err is worth another attempt and how long the API
// asked to wait, if it did.
func retryable(err error) (bool, time.Duration) {
	if errors.Is(err, errEmptyResponse) {
		return true, 0
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false, 0
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		return false, 0
	}

	switch apiErr.Code {
	case http.StatusTooManyRequests:
		delay := quotaDelay(apiErr)
		if delay > maxQuotaDelay {
			return false, delay
		}
		return true, delay
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, 0
	default:
		return false, 0
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

func quotaDelay(apiErr genai.APIError) time.Duration {
	for _, detail := range apiErr.Details {
		raw, ok := detail["retryDelay"].(string)
		if !ok {
			continue
		}
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}

	if m := retryAfterPattern.FindStringSubmatch(apiErr.Message); m != nil {
		if secs, err := strconv.ParseFloat(m[1], 64); err == nil {
			return time.Duration(secs * float64(time.Second))
		}
	}

	return 0
}

func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
