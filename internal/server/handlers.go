package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/phoenix-cv/internal/ai"
	"github.com/spigell/phoenix-cv/internal/coach"
	"github.com/spigell/phoenix-cv/internal/document"
	"github.com/spigell/phoenix-cv/internal/profile"
	"github.com/spigell/phoenix-cv/internal/review"
	"github.com/spigell/phoenix-cv/internal/scoring"
)

const maxJobDescriptionBytes = 100 << 10

type Handler struct {
	engine    *scoring.Engine
	reviews   *review.Service
	assistant *ai.Assistant
	now       func() time.Time
}

func NewHandler(engine *scoring.Engine, reviews *review.Service, assistant *ai.Assistant) *Handler {
	return &Handler{
		engine:    engine,
		reviews:   reviews,
		assistant: assistant,
		now:       time.Now,
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"service":    "phoenix-cv",
		"timestamp":  h.now(),
		"ai_enabled": h.assistant != nil,
		"demo":       h.assistant != nil && h.assistant.Demo(),
	})
}

// Stats handles GET /api/v1/stats
func (h *Handler) Stats(c *gin.Context) {
	var stats ai.Stats
	if h.assistant != nil {
		stats = h.assistant.Stats()
	}
	c.JSON(http.StatusOK, gin.H{
		"ai_enabled": h.assistant != nil,
		"stats":      stats,
	})
}

// Match handles POST /api/v1/match
func (h *Handler) Match(c *gin.Context) {
	var req MatchRequest
	if !bindJSON(c, &req) {
		return
	}

	p, ok := decodeProfile(c, req.Profile)
	if !ok || !checkJob(c, req.JobDescription) {
		return
	}

	c.JSON(http.StatusOK, h.engine.Match(p, profile.JobDescription(req.JobDescription)))
}

// Review handles POST /api/v1/review
func (h *Handler) Review(c *gin.Context) {
	var req ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	p, ok := decodeProfile(c, req.Profile)
	if !ok || !checkJob(c, req.JobDescription) {
		return
	}

	withAI := req.AI == nil || *req.AI
	r, err := h.reviews.Review(c.Request.Context(), p, profile.JobDescription(req.JobDescription), withAI)
	if err != nil {
		abortInternal(c, "Review failed", err)
		return
	}

	c.JSON(http.StatusOK, r)
}

// Coach handles POST /api/v1/coach
func (h *Handler) Coach(c *gin.Context) {
	var req CoachRequest
	if !bindJSON(c, &req) {
		return
	}

	p, ok := decodeProfile(c, req.Profile)
	if !ok {
		return
	}

	resp := CoachResponse{Report: coach.Coach(p)}
	if strings.TrimSpace(req.TargetPosition) != "" || strings.TrimSpace(p.TargetPosition) != "" {
		resp.Trajectory = coach.PlanTrajectory(p, req.TargetPosition, h.now())
	}

	c.JSON(http.StatusOK, resp)
}

// OptimizeATS handles POST /api/v1/ats
func (h *Handler) OptimizeATS(c *gin.Context) {
	if !h.requireAssistant(c) {
		return
	}

	var req ATSRequest
	if !bindJSON(c, &req) {
		return
	}

	p, ok := decodeProfile(c, req.Profile)
	if !ok || !checkJob(c, req.JobDescription) {
		return
	}

	out := h.assistant.OptimizeForATS(c.Request.Context(), p, profile.JobDescription(req.JobDescription))
	if err := out.Err(); err != nil {
		requestLogger(c).Warn("ats optimization fell back", zap.Error(err))
	}

	c.JSON(http.StatusOK, out)
}

// GenerateCV handles POST /api/v1/cv
func (h *Handler) GenerateCV(c *gin.Context) {
	if !h.requireAssistant(c) {
		return
	}

	var req CVRequest
	if !bindJSON(c, &req) {
		return
	}

	p, ok := decodeProfile(c, req.Profile)
	if !ok {
		return
	}

	res := h.assistant.GenerateCV(c.Request.Context(), p, req.TargetPosition)
	if res.Err != nil {
		requestLogger(c).Warn("cv generation fell back", zap.Error(res.Err))
	}

	c.JSON(http.StatusOK, gin.H{
		"cv":       res.Text,
		"demo":     res.Demo,
		"fallback": res.Fallback,
		"error":    res.ErrorMessage(),
	})
}

// Extract handles POST /api/v1/extract
func (h *Handler) Extract(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Multipart field 'file' is required",
			Code:    CodeInvalidInput,
			Details: err.Error(),
		})
		return
	}

	if file.Size > document.MaxSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: "Document too large",
			Code:  CodeTooLarge,
		})
		return
	}

	f, err := file.Open()
	if err != nil {
		abortInternal(c, "Failed to read upload", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, document.MaxSize+1))
	if err != nil {
		abortInternal(c, "Failed to read upload", err)
		return
	}

	kind, err := document.Detect(file.Filename, data)
	if err != nil {
		c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{
			Error:   "Unsupported document type",
			Code:    CodeUnsupported,
			Details: err.Error(),
		})
		return
	}

	text, err := document.Extract(file.Filename, data)
	switch {
	case errors.Is(err, document.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Document too large", Code: CodeTooLarge})
		return
	case err != nil:
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "Failed to extract text",
			Code:    CodeInvalidInput,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ExtractResponse{
		Filename:    file.Filename,
		Kind:        string(kind),
		ContentType: kind.MIME(),
		Text:        text,
	})
}

func (h *Handler) requireAssistant(c *gin.Context) bool {
	if h.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "AI generation is disabled",
			Code:  CodeAIUnavailable,
		})
		return false
	}
	return true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    CodeInvalidInput,
			Details: err.Error(),
		})
		return false
	}
	return true
}

func decodeProfile(c *gin.Context, raw map[string]any) (*profile.CandidateProfile, bool) {
	p, err := profile.Decode(raw)
	if err == nil {
		return p, true
	}

	resp := ErrorResponse{Error: "Invalid profile", Code: CodeInvalidInput, Details: err.Error()}
	var verr *profile.ValidationError
	if errors.As(err, &verr) {
		resp.Details = verr.Errors
	}
	c.JSON(http.StatusBadRequest, resp)
	return nil, false
}

func checkJob(c *gin.Context, job string) bool {
	if len(job) > maxJobDescriptionBytes {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Job description too long",
			Code:  CodeInvalidInput,
		})
		return false
	}
	return true
}

func abortInternal(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   msg,
		Code:    CodeInternal,
		Details: err.Error(),
	})
}
