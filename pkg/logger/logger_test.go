package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dripsend/pkg/logger"
)

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	t.Run("injects request id from chi middleware", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		// Same wiring as logger.New, just aimed at a buffer.
		log := slog.New(slog.NewJSONHandler(&buf, nil))

		var captured context.Context
		h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = r.Context()
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotNil(t, captured)

		attr, ok := logger.RequestID()(captured)
		require.True(t, ok)
		assert.Equal(t, "request_id", attr.Key)
		assert.NotEmpty(t, attr.Value.String())

		log.InfoContext(captured, "ok", attr)
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, attr.Value.String(), entry["request_id"])
	})

	t.Run("absent without middleware", func(t *testing.T) {
		t.Parallel()

		_, ok := logger.RequestID()(context.Background())
		assert.False(t, ok)
	})
}

func TestNewWithSentry_FallsBackWithoutDSN(t *testing.T) {
	t.Parallel()

	log := logger.NewWithSentry(logger.SentryConfig{})
	require.NotNil(t, log)
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
}
