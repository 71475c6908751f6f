package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBasicLoggerWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBasicLoggerWithWriter(InfoLevel, &buf)

	logger.Info("task started")

	require.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), "task started")
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBasicLoggerWithWriter(WarnLevel, &buf)

	logger.Debug("should not appear")
	logger.Info("should not appear either")

	assert.Empty(t, buf.String())

	logger.Warn("this should appear")
	assert.Contains(t, buf.String(), "this should appear")
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	base := NewBasicLoggerWithWriter(InfoLevel, &buf)

	child := base.WithField("stage_id", "A")
	child.Info("expanded stage")

	assert.Contains(t, buf.String(), "stage_id")
	assert.Contains(t, buf.String(), "A")

	buf.Reset()
	base.Info("parent message")
	assert.NotContains(t, buf.String(), "stage_id")
}

func TestWithErrorIncludesErrorMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBasicLoggerWithWriter(InfoLevel, &buf)

	logger.WithError(errors.New("digest lookup failed")).Error("copy failed", errors.New("digest lookup failed"))

	assert.True(t, strings.Contains(buf.String(), "digest lookup failed"))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"fatal":   FatalLevel,
		"panic":   PanicLevel,
		"bogus":   InfoLevel,
	}

	for input, want := range cases {
		assert.Equal(t, want, ParseLevel(input), "input %q", input)
	}
}

func TestGlobalLoggerDefaultsWhenUnset(t *testing.T) {
	SetGlobalLogger(nil)
	assert.NotNil(t, GetGlobalLogger())
}
