package utils

import (
	"context"
	"time"

	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// LogOperation times fn and logs its outcome under the operation name.
// The error from fn is returned untouched.
func LogOperation(logger *zap.Logger, operation string, requestID string, fn func() error) error {
	start := time.Now()
	err := fn()

	fields := []zap.Field{
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOperationKey, operation),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
		zap.Bool(constvars.LoggingSuccessKey, err == nil),
	}
	if err != nil {
		logger.Error(operation+" failed", append(fields, zap.Error(err))...)
		return err
	}
	logger.Info(operation+" done", fields...)
	return nil
}

// LogBusinessEvent records a directory change such as a saved or removed
// patient.
func LogBusinessEvent(logger *zap.Logger, event string, requestID string, fields ...zap.Field) {
	logger.Info("directory event",
		append([]zap.Field{
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventTypeKey, event),
		}, fields...)...,
	)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string); ok {
		return requestID
	}
	return ""
}

// GetSession returns the session attached by the session middleware, or
// nil for anonymous requests.
func GetSession(ctx context.Context) *models.Session {
	if session, ok := ctx.Value(constvars.CONTEXT_SESSION_KEY).(*models.Session); ok {
		return session
	}
	return nil
}

func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, constvars.CONTEXT_SESSION_KEY, session)
}
