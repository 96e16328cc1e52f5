package logger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/mistakeflash/internal/logger"
)

func newBufferLogger(level logger.Level) (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := logger.New(
		logger.WithOutput(&buf),
		logger.WithLevel(level),
		logger.WithColors(false),
		logger.WithCaller(false),
	)
	return l, &buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("WARNING"))
	assert.Equal(t, logger.ERROR, logger.ParseLevel(" error "))
	assert.Equal(t, logger.INFO, logger.ParseLevel("verbose"))
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(logger.WARN)

	l.Info("hidden")
	l.Warn("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN  shown 1")
}

func TestFieldsAreSorted(t *testing.T) {
	l, buf := newBufferLogger(logger.DEBUG)

	l.WithFields(map[string]any{"user_id": 7, "item_key": "banana"}).WithPrefix("card_repo").Debug("upsert")

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "[card_repo] upsert item_key=banana user_id=7")
}

func TestDerivedLoggerDoesNotLeakFields(t *testing.T) {
	l, buf := newBufferLogger(logger.INFO)

	_ = l.WithField("request_id", "abc")
	l.Info("plain")

	assert.NotContains(t, buf.String(), "request_id")
}

func TestContextRoundTrip(t *testing.T) {
	l, _ := newBufferLogger(logger.INFO)
	ctx := logger.NewContext(context.Background(), l)

	assert.Same(t, l, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}
