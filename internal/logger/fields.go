package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared by the AI and HTTP layers.
const (
	FieldProvider  = "ai_provider"
	FieldModel     = "ai_model"
	FieldOperation = "ai_operation"
	FieldRequestID = "request_id"
)

// Strings turns key/value pairs into zap string fields. Pairs with a blank key
// or value are dropped and a trailing key without value is ignored.
func Strings(kv ...string) []zap.Field {
	out := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, value := strings.TrimSpace(kv[i]), strings.TrimSpace(kv[i+1])
		if key == "" || value == "" {
			continue
		}
		out = append(out, zap.String(key, value))
	}
	return out
}

// With is logger.With that tolerates a nil logger.
func With(l *zap.Logger, fields ...zap.Field) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// ForModel tags l with the AI provider and model.
func ForModel(l *zap.Logger, provider, model string) *zap.Logger {
	return With(l, Strings(FieldProvider, provider, FieldModel, model)...)
}

// ForOperation tags l with an assistant operation name.
func ForOperation(l *zap.Logger, operation string) *zap.Logger {
	return With(l, Strings(FieldOperation, operation)...)
}

// ForRequest tags l with a request or review id.
func ForRequest(l *zap.Logger, id string) *zap.Logger {
	return With(l, Strings(FieldRequestID, id)...)
}
