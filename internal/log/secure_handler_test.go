package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestSecureHandlerMasksSensitiveKeys tests masking by attribute key.
func TestSecureHandlerMasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "api_key", key: "api_key", value: "sk-abc123"},
		{name: "authorization header", key: "Authorization", value: "Bearer xyz"},
		{name: "embedded token keyword", key: "session_token", value: "deadbeef"},
		{name: "credentials", key: "credentials", value: "user:pass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)

			logger.Info("test", tt.key, tt.value)

			out := buf.String()
			if strings.Contains(out, tt.value) {
				t.Errorf("sensitive value %q leaked into log output: %s", tt.value, out)
			}
			if !strings.Contains(out, MaskValue) {
				t.Errorf("expected mask in output: %s", out)
			}
		})
	}
}

// TestSecureHandlerMasksSensitiveValues tests masking by value pattern
// even under innocent keys.
func TestSecureHandlerMasksSensitiveValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{name: "openai key", value: "sk-proj4bcdEFGH1234567890"},
		{name: "bearer token", value: "Bearer abc.def.ghi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)

			logger.Info("test", "note", tt.value)

			if strings.Contains(buf.String(), tt.value) {
				t.Errorf("sensitive value %q leaked: %s", tt.value, buf.String())
			}
		})
	}
}

// TestSecureHandlerKeepsOrdinaryAttrs tests that ordinary attributes
// pass through unmodified.
func TestSecureHandlerKeepsOrdinaryAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)

	logger.Info("fetched", "url", "https://x.test/guide", "tier", "direct")

	out := buf.String()
	for _, want := range []string{"https://x.test/guide", "direct"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output: %s", want, out)
		}
	}
}

// TestSecureHandlerGroups tests sanitization inside attribute groups.
func TestSecureHandlerGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)

	logger.Info("request",
		slog.Group("headers",
			slog.String("x-api-key", "sk-grouped1234567890ab"),
			slog.String("accept", "application/json"),
		),
	)

	out := buf.String()
	if strings.Contains(out, "sk-grouped1234567890ab") {
		t.Errorf("grouped sensitive value leaked: %s", out)
	}
	if !strings.Contains(out, "application/json") {
		t.Errorf("ordinary grouped value missing: %s", out)
	}
}

// TestSecureLoggerLevel tests verbose level selection.
func TestSecureLoggerLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, false)

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug/info output leaked at warn level: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn output missing: %s", out)
	}
}
