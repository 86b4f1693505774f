package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeEmail(t *testing.T) {
	assert.Empty(t, AnonymizeEmail(""))

	h := AnonymizeEmail("alice@example.com")
	assert.True(t, strings.HasPrefix(h, "user:"))
	assert.NotContains(t, h, "alice")
	assert.Equal(t, h, AnonymizeEmail("alice@example.com"), "hash must be stable for correlation")
	assert.NotEqual(t, h, AnonymizeEmail("bob@example.com"))
}

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "<empty>", SanitizeToken(""))

	out := SanitizeToken("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	assert.NotContains(t, out, "eyJ")
	assert.Contains(t, out, "chars")
}

func TestErrAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("no error", Err(nil))
	assert.NotContains(t, buf.String(), "error=")

	buf.Reset()
	logger.Info("with error", Err(assert.AnError))
	assert.Contains(t, buf.String(), "error=")
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	WithOperation(WithComponent(logger, "api"), "task.create").Info("done", Status(StatusSuccess))

	out := buf.String()
	assert.Contains(t, out, "component=api")
	assert.Contains(t, out, "operation=task.create")
	assert.Contains(t, out, "status=success")
}
