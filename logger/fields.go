package logger

import (
	"context"

	"go.uber.org/zap"
)

// Field names shared by every cgkit log line.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldCount     = "count"
	FieldFile      = "file"
	FieldPath      = "path"

	// Type hierarchies
	FieldHierarchy = "hierarchy" // "concept-types" or "relation-types"
	FieldTypeID    = "type_id"
	FieldLabel     = "label"
	FieldOldLabel  = "old_label"
	FieldParents   = "parents"
	FieldChildren  = "children"
	FieldSignature = "signature"

	// Instances
	FieldID       = "id"
	FieldConcept  = "concept"
	FieldRelation = "relation"
	FieldKB       = "kb"
)

// Context keys for propagating logging context
type contextKey string

const (
	componentKey contextKey = "logger_component"
	kbKey        contextKey = "logger_kb"
)

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// WithKnowledgeBase adds a knowledge base name to the context for logging
func WithKnowledgeBase(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, kbKey, name)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}
	if name, ok := ctx.Value(kbKey).(string); ok && name != "" {
		fields = append(fields, FieldKB, name)
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
// Example:
//
//	store := &Store{
//	    log: logger.ComponentLogger("hierarchy"),
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	hlog := logger.ChildLogger(base, logger.FieldHierarchy, "concept-types")
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
