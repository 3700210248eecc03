package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, component string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", "survey-import", "component", component),
	}
}

// LogOperation logs one service operation with its outcome and duration.
// Validation failures and permission denials are warnings; everything else
// that errored is an error.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, userID string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		if IsValidation(err) {
			level = slog.LevelWarn
			status = "validation_error"
		} else if IsUnauthorized(err) {
			level = slog.LevelWarn
			status = "unauthorized"
		} else if IsNotFound(err) {
			level = slog.LevelInfo
			status = "not_found"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s %s", operation, status), attrs...)
}

// LogParseOutcome logs the aggregate numbers of one parse invocation.
func (l *ServiceLogger) LogParseOutcome(ctx context.Context, producer string, questions, invalidRows, warnings, errors int) {
	l.logger.InfoContext(ctx, "Import parse completed",
		"producer", producer,
		"questions", questions,
		"invalid_rows", invalidRows,
		"warnings", warnings,
		"errors", errors)
}
