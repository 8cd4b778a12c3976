package types

import (
	"context"
	"net/http"
	"time"
)

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Hooks provides lifecycle hooks for requests
type Hooks struct {
	OnRequest  func(ctx context.Context, req *http.Request)
	OnResponse func(ctx context.Context, resp *http.Response, duration time.Duration)
	OnError    func(ctx context.Context, err error)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

// OrNop returns l, or a NopLogger when l is nil
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
