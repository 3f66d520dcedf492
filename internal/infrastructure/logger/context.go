package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RunIDKey is the context key for the execution run ID
	RunIDKey contextKey = "run_id"
	// BrandKey is the context key for the brand being processed
	BrandKey contextKey = "brand"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger
// if not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRunID adds the execution run ID to context and returns an
// enriched logger
func WithRunID(ctx context.Context, logger *zap.Logger, runID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RunIDKey, runID)
	enrichedLogger := logger.With(zap.String("run_id", runID))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// WithBrand adds the brand name to context and returns an enriched
// logger
func WithBrand(ctx context.Context, logger *zap.Logger, brand string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, BrandKey, brand)
	enrichedLogger := logger.With(zap.String("brand", brand))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// GetRunID retrieves the execution run ID from context
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// GetBrand retrieves the brand name from context
func GetBrand(ctx context.Context) string {
	if brand, ok := ctx.Value(BrandKey).(string); ok {
		return brand
	}
	return ""
}
