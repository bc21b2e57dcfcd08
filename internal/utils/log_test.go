package utils

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"clubhouse-server/internal/auth"
)

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogError(context.Background(), logger, "request failed", auth.Internal("store reset token", errors.New("deadlock detected")), "path", "/x")

	out := buf.String()
	assert.Contains(t, out, "request failed")
	assert.Contains(t, out, "code=INTERNAL_ERROR")
	assert.Contains(t, out, "store reset token")
	assert.Contains(t, out, "path=/x")
}

func TestLogErrorPlain(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogError(context.Background(), logger, "request failed", errors.New("boom"))
	assert.Contains(t, buf.String(), "error=boom")
}
