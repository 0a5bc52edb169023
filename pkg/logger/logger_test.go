package logger

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"everia/pkg/config"
)

func newBufferLogger(buf *bytes.Buffer, level zerolog.Level) *zerologLogger {
	zlog := zerolog.New(buf).Level(level).With().Timestamp().Logger()
	return &zerologLogger{logger: &zlog, fields: make(map[string]interface{})}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{name: "info level", cfg: &config.LoggingConfig{Level: "info"}},
		{name: "debug level", cfg: &config.LoggingConfig{Level: "debug"}},
		{name: "invalid level", cfg: &config.LoggingConfig{Level: "invalid"}, wantErr: true},
		{name: "file output", cfg: &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "everia.log")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, zerolog.WarnLevel)

	l.Debug("hidden debug")
	l.InfoWithFields("hidden info", map[string]interface{}{"k": "v"})
	l.Warn("visible warn")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible warn")
}

func TestFieldChaining(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, zerolog.DebugLevel)

	l.WithField("post", "https://example.com/a/").
		WithFields(map[string]interface{}{"images": 2, "done": true}).
		WithError(errors.New("boom")).
		InfoWithFields("post processed", map[string]interface{}{"took": 3 * time.Second})

	out := buf.String()
	assert.Contains(t, out, "post processed")
	assert.Contains(t, out, `"post":"https://example.com/a/"`)
	assert.Contains(t, out, `"images":2`)
	assert.Contains(t, out, `"done":true`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestWithErrorNil(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, zerolog.DebugLevel)

	assert.Same(t, l, l.WithError(nil))
}

func TestGlobalLogger(t *testing.T) {
	require.NoError(t, Initialize(&config.LoggingConfig{Level: "disabled"}))
	require.NotNil(t, GetLogger())

	Info("info message")
	Error("error message")
	WithField("key", "value").Info("with field")
	WithFields(map[string]interface{}{"k1": "v1"}).Info("with fields")
	WithError(errors.New("test")).Error("with error")
}

func TestTestLoggerCapturesScopedFields(t *testing.T) {
	tl := NewTestLogger()

	scoped := tl.WithField("component", "walker")
	scoped.WithError(errors.New("redirect")).InfoWithFields("pagination stopped", map[string]interface{}{"page": 2})
	tl.Error("direct")

	msgs := tl.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "walker", msgs[0].Fields["component"])
	assert.Equal(t, 2, msgs[0].Fields["page"])
	assert.EqualError(t, msgs[0].Error, "redirect")
	assert.True(t, tl.HasMessage("pagination stopped"))
	assert.True(t, tl.HasError())

	tl.Clear()
	assert.Empty(t, tl.GetMessages())
}
