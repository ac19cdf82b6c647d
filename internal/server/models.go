package server

import "github.com/spigell/phoenix-cv/internal/coach"

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnsupported   = "UNSUPPORTED_DOCUMENT"
	CodeTooLarge      = "DOCUMENT_TOO_LARGE"
	CodeAIUnavailable = "AI_UNAVAILABLE"
	CodeInternal      = "INTERNAL_ERROR"
)

type MatchRequest struct {
	Profile        map[string]any `json:"profile" binding:"required"`
	JobDescription string         `json:"job_description"`
}

type ReviewRequest struct {
	Profile        map[string]any `json:"profile" binding:"required"`
	JobDescription string         `json:"job_description" binding:"required"`
	// AI defaults to true when omitted.
	AI *bool `json:"ai"`
}

type CoachRequest struct {
	Profile map[string]any `json:"profile" binding:"required"`
	// TargetPosition overrides the profile's target role for the trajectory.
	TargetPosition string `json:"target_position"`
}

// CoachResponse carries the trajectory only when a target role is known.
type CoachResponse struct {
	*coach.Report
	Trajectory *coach.Trajectory `json:"trajectory,omitempty"`
}

type ATSRequest struct {
	Profile        map[string]any `json:"profile" binding:"required"`
	JobDescription string         `json:"job_description" binding:"required"`
}

type CVRequest struct {
	Profile        map[string]any `json:"profile" binding:"required"`
	TargetPosition string         `json:"target_position"`
}

type ExtractResponse struct {
	Filename    string `json:"filename"`
	Kind        string `json:"kind"`
	ContentType string `json:"content_type"`
	Text        string `json:"text"`
}
