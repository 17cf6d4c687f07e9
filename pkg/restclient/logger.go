package restclient

import "log/slog"

// RetryLogger implements the retryablehttp.LeveledLogger interface on top of
// slog. Retry attempts are logged at debug level.
type RetryLogger struct {
	log *slog.Logger
}

// NewRetryLogger adapts a slog logger to retryablehttp.
func NewRetryLogger(log *slog.Logger) *RetryLogger {
	return &RetryLogger{log: log}
}

func (l *RetryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, keysAndValues...)
}

func (l *RetryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l *RetryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l *RetryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn(msg, keysAndValues...)
}
