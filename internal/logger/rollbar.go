package logger

import (
	"github.com/rollbar/rollbar-go"
)

// RollbarConfig enables error reporting when Token is set.
type RollbarConfig struct {
	Token       string
	Environment string
	Host        string
	CodeVersion string
}

// RollbarLogger writes everything to the wrapped logger and reports warnings
// and errors to Rollbar.
type RollbarLogger struct {
	next Logger
}

var _ Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(next Logger, cfg RollbarConfig) *RollbarLogger {
	rollbar.SetToken(cfg.Token)
	rollbar.SetEnvironment(cfg.Environment)
	rollbar.SetServerHost(cfg.Host)
	rollbar.SetCodeVersion(cfg.CodeVersion)
	rollbar.SetEnabled(cfg.Token != "")
	return &RollbarLogger{next: next}
}

// New returns a plain logger, or one that also reports to Rollbar when a
// token is configured.
func New(next Logger, cfg RollbarConfig) Logger {
	if cfg.Token == "" {
		return next
	}
	return NewRollbarLogger(next, cfg)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	l.next.Info(msg, args...)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(append([]interface{}{msg}, args...)...)
	l.next.Warn(msg, args...)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(append([]interface{}{msg}, args...)...)
	l.next.Error(msg, args...)
}

// Close flushes pending reports.
func (l *RollbarLogger) Close() {
	rollbar.Close()
}
