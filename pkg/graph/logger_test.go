package graph

import (
	"bytes"
	"errors"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

type capturingLogger struct {
	level  string
	msg    string
	fields map[string]interface{}
}

func (l *capturingLogger) Debug(msg string, fields map[string]interface{}) { l.set("debug", msg, fields) }
func (l *capturingLogger) Info(msg string, fields map[string]interface{})  { l.set("info", msg, fields) }
func (l *capturingLogger) Warn(msg string, fields map[string]interface{})  { l.set("warn", msg, fields) }
func (l *capturingLogger) Error(msg string, fields map[string]interface{}) { l.set("error", msg, fields) }

func (l *capturingLogger) set(level, msg string, fields map[string]interface{}) {
	l.level, l.msg, l.fields = level, msg, fields
}

func TestSlogLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	logger.Info("Graph Request", map[string]interface{}{"path": "/me", "method": "GET"})

	assert.Contains(t, buf.String(), `msg="Graph Request" method=GET path=/me`)
}

func TestLeveledLogger(t *testing.T) {
	t.Parallel()

	inner := &capturingLogger{}
	leveled := leveledLogger{inner: inner}

	requestURL, _ := url.Parse("https://graph.facebook.com/v3.0/me?access_token=secret")

	leveled.Debug("performing request", "method", "GET", "url", requestURL)
	assert.Equal(t, "debug", inner.level)
	assert.Equal(t, "https://graph.facebook.com/v3.0/me?access_token=***", inner.fields["url"])
	assert.Equal(t, "GET", inner.fields["method"])

	leveled.Error("request failed", "error", "dial tcp: refused", "dangling")
	assert.Equal(t, "warn", inner.level)
	assert.Equal(t, "dangling", inner.fields["extra"])

	dialErr := &url.Error{Op: "Get", URL: requestURL.String(), Err: errors.New("connection refused")}
	leveled.Error("request failed", "error", dialErr)
	assert.Equal(t, `Get "https://graph.facebook.com/v3.0/me?access_token=***": connection refused`, inner.fields["error"])
}
