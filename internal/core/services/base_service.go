package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/homeos_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// serviceOptions holds the settings shared by the document backed services.
type serviceOptions struct {
	maxAttempts     int
	retryBackoff    time.Duration
	startingBalance decimal.Decimal
	now             func() time.Time
}

// Option configures a service.
type Option func(*serviceOptions)

// WithMaxAttempts bounds how often a conflicting read-modify-write is retried.
func WithMaxAttempts(n int) Option {
	return func(o *serviceOptions) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithRetryBackoff sets the base delay between conflicting attempts.
func WithRetryBackoff(d time.Duration) Option {
	return func(o *serviceOptions) {
		if d >= 0 {
			o.retryBackoff = d
		}
	}
}

// WithStartingBalance sets the balance of lazily created accounts.
func WithStartingBalance(balance decimal.Decimal) Option {
	return func(o *serviceOptions) {
		o.startingBalance = balance
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(opts []Option) serviceOptions {
	o := serviceOptions{
		maxAttempts:     defaultMaxAttempts,
		retryBackoff:    defaultRetryBackoff,
		startingBalance: decimal.NewFromInt(1000),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
