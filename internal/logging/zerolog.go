// Package logging adapts zerolog to the client's key/value Logger interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/eshaffer321/board-go/internal/types"
	"github.com/rs/zerolog"
)

const maskValue = "***"

// sensitiveKeys are masked wherever they appear as a key
var sensitiveKeys = map[string]struct{}{
	"password":             {},
	"new_password":         {},
	"new_password_confirm": {},
	"token":                {},
	"access_token":         {},
	"refresh_token":        {},
	"authorization":        {},
	"cookie":               {},
}

// ZerologLogger writes structured log lines through zerolog
type ZerologLogger struct {
	zlog zerolog.Logger
}

var _ types.Logger = (*ZerologLogger)(nil)

// NewZerolog creates a logger on stdout. Unknown levels fall back to info.
func NewZerolog(level string, pretty bool) *ZerologLogger {
	return NewZerologWriter(os.Stdout, level, pretty)
}

// NewZerologWriter creates a logger on w
func NewZerologWriter(w io.Writer, level string, pretty bool) *ZerologLogger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		zLevel = zerolog.InfoLevel
	}

	l := zerolog.New(w).Level(zLevel).With().Timestamp().Str("component", "board").Logger()
	return &ZerologLogger{zlog: l}
}

// Zerolog exposes the underlying logger
func (l *ZerologLogger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

func (l *ZerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(l.zlog.Debug(), msg, keysAndValues)
}

func (l *ZerologLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log(l.zlog.Info(), msg, keysAndValues)
}

func (l *ZerologLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(l.zlog.Warn(), msg, keysAndValues)
}

func (l *ZerologLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log(l.zlog.Error(), msg, keysAndValues)
}

func (l *ZerologLogger) log(e *zerolog.Event, msg string, keysAndValues []interface{}) {
	if e == nil {
		return
	}
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 >= len(keysAndValues) {
			e = e.Interface("!BADKEY", key)
			break
		}
		value := keysAndValues[i+1]
		if _, ok := sensitiveKeys[strings.ToLower(key)]; ok {
			value = maskValue
		}
		if err, ok := value.(error); ok {
			e = e.AnErr(key, err)
			continue
		}
		e = e.Interface(key, value)
	}
	e.Msg(msg)
}
