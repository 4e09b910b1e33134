// Package monitor forwards application errors to an external error-monitoring
// service. Components depend on the Reporter interface so tests can observe
// reports without a DSN.
package monitor

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Reporter receives errors worth paging a human about.
type Reporter interface {
	CaptureError(err error)
}

// SentryReporter sends errors to Sentry and mirrors them to the local log.
type SentryReporter struct {
	log *zap.Logger
}

// Init configures the global Sentry client. An empty DSN disables delivery
// but keeps the reporter usable.
func Init(dsn, environment string) error {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	}); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// Flush drains buffered events on shutdown.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

// NewSentryReporter creates a reporter backed by the global Sentry client.
func NewSentryReporter(log *zap.Logger) *SentryReporter {
	return &SentryReporter{log: log}
}

// CaptureError reports err to Sentry and logs it.
func (r *SentryReporter) CaptureError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
	if r.log != nil {
		r.log.Error("reported error", zap.Error(err))
	}
}

// Nop is a Reporter that discards everything.
type Nop struct{}

func (Nop) CaptureError(error) {}
