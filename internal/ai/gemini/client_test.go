package gemini

import (
	"context"
	"errors"
	"math"
	"net/http"
	"reflect"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/phoenix-cv/internal/ai"
)

type fakeModels struct {
	mu    sync.Mutex
	calls []modelCall
	queue []fakeResponse
}

type modelCall struct {
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]

	var prompt string
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		prompt = contents[0].Parts[0].Text
	}
	f.calls = append(f.calls, modelCall{model: model, prompt: prompt, config: config})

	return res.resp, res.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()

	var waits []time.Duration
	var mu sync.Mutex
	original := sleep
	sleep = func(d time.Duration) {
		mu.Lock()
		waits = append(waits, d)
		mu.Unlock()
	}
	t.Cleanup(func() { sleep = original })

	return &waits
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	waits := noSleep(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(nil, genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"})
	models.enqueue(textResponse("retry ok"), nil)

	g := newGenerator(models, Config{Model: "gemini-pro", MaxRetries: 3}, zap.NewNop())

	output, err := g.GenerateContent(context.Background(), "  message  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "retry ok" {
		t.Fatalf("expected retry ok, got %q", output)
	}

	if len(models.calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(models.calls))
	}
	for i, call := range models.calls {
		if call.model != "gemini-pro" {
			t.Fatalf("call %d: expected model gemini-pro, got %q", i, call.model)
		}
		if call.prompt != "message" {
			t.Fatalf("call %d: expected trimmed prompt, got %q", i, call.prompt)
		}
		if call.config == nil || call.config.Temperature == nil {
			t.Fatalf("call %d: expected generation config with temperature", i)
		}
		if math.Abs(float64(*call.config.Temperature)-DefaultTemperature) > 0.001 {
			t.Fatalf("call %d: expected default temperature, got %v", i, *call.config.Temperature)
		}
		if call.config.MaxOutputTokens != DefaultMaxOutputTokens {
			t.Fatalf("call %d: expected %d output tokens, got %d", i, DefaultMaxOutputTokens, call.config.MaxOutputTokens)
		}
		if len(call.config.SafetySettings) != 4 {
			t.Fatalf("call %d: expected 4 safety settings, got %d", i, len(call.config.SafetySettings))
		}
	}

	expected := []time.Duration{time.Second, 2 * time.Second}
	if !reflect.DeepEqual(*waits, expected) {
		t.Fatalf("expected waits %v, got %v", expected, *waits)
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	noSleep(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models.enqueue(nil, tempErr)
	models.enqueue(nil, tempErr)

	g := newGenerator(models, Config{Model: "gemini-pro", MaxRetries: 2}, zap.NewNop())

	_, err := g.GenerateContent(context.Background(), "msg")

	var genErr *ai.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if genErr.Provider != Provider || genErr.Attempts != 2 {
		t.Fatalf("unexpected generation error: %+v", genErr)
	}
	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
}

func TestGeneratorRetriesEmptyResponse(t *testing.T) {
	noSleep(t)

	models := &fakeModels{}
	models.enqueue(&genai.GenerateContentResponse{}, nil)
	models.enqueue(textResponse("second time"), nil)

	g := newGenerator(models, Config{}, zap.NewNop())

	output, err := g.GenerateContent(context.Background(), "msg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "second time" {
		t.Fatalf("expected second time, got %q", output)
	}
	if models.calls[0].model != DefaultModel {
		t.Fatalf("expected default model, got %q", models.calls[0].model)
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	})

	g := newGenerator(models, Config{Model: "gemini-pro", MaxRetries: 3}, zap.NewNop())

	if _, err := g.GenerateContent(context.Background(), "msg"); err == nil {
		t.Fatalf("expected error")
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(models.calls))
	}
}

func TestGeneratorWaitsRequestedQuotaDelay(t *testing.T) {
	waits := noSleep(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Details: []map[string]any{{"retryDelay": "5s"}},
	})
	models.enqueue(textResponse("ok"), nil)

	g := newGenerator(models, Config{MaxRetries: 2}, zap.NewNop())

	if _, err := g.GenerateContent(context.Background(), "msg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expected := []time.Duration{5 * time.Second}; !reflect.DeepEqual(*waits, expected) {
		t.Fatalf("expected waits %v, got %v", expected, *waits)
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	g := newGenerator(models, Config{MaxRetries: 3}, zap.NewNop())

	if _, err := g.GenerateContent(context.Background(), "msg"); err == nil {
		t.Fatalf("expected error")
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(models.calls))
	}
}

func TestGeneratorStopsWaitingOnCancel(t *testing.T) {
	original := sleep
	sleep = func(time.Duration) { time.Sleep(time.Hour) }
	t.Cleanup(func() { sleep = original })

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	g := newGenerator(models, Config{MaxRetries: 3}, zap.NewNop())

	if _, err := g.GenerateContent(ctx, "msg"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(models.calls))
	}
}

func TestGeneratorRejectsEmptyPrompt(t *testing.T) {
	g := newGenerator(&fakeModels{}, Config{}, zap.NewNop())

	if _, err := g.GenerateContent(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for blank prompt")
	}
}

func TestGeneratorIdentity(t *testing.T) {
	g := newGenerator(&fakeModels{}, Config{Model: " gemini-pro "}, zap.NewNop())
	if g.Provider() != Provider {
		t.Fatalf("expected provider %q, got %q", Provider, g.Provider())
	}
	if g.Model() != "gemini-pro" {
		t.Fatalf("expected model gemini-pro, got %q", g.Model())
	}

	if model := newGenerator(&fakeModels{}, Config{}, zap.NewNop()).Model(); model != DefaultModel {
		t.Fatalf("expected default model, got %q", model)
	}
}

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), Config{APIKey: " "}, zap.NewNop()); err == nil {
		t.Fatalf("expected error without api key")
	}
}
