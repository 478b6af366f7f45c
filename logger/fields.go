package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldCount     = "count"
	FieldFile      = "file"
	FieldPath      = "path"

	// Filters and pipeline
	FieldDescriptor = "descriptor"
	FieldFilterKind = "filter_kind"
	FieldOperand    = "operand"
	FieldItemKind   = "item_kind"
	FieldScope      = "scope"
	FieldStepID     = "step_id"

	// Time domain
	FieldWindow  = "window"
	FieldWindows = "windows"
)

type contextKey string

const (
	componentKey contextKey = "logger_component"
	scopeKey     contextKey = "logger_scope"
)

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// WithScope adds a pipeline scope to the context for logging
func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}
	if scope, ok := ctx.Value(scopeKey).(string); ok && scope != "" {
		fields = append(fields, FieldScope, scope)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
//	p := pipeline.New(scope, logger.ComponentLogger("pipeline"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
