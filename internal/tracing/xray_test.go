package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/roster-wins/internal/logger"
)

func TestInitializeDisabled(t *testing.T) {
	assert.NoError(t, Initialize(Config{Enabled: false}, logger.Discard()))
}

func TestTraceWithoutSegment(t *testing.T) {
	called := false
	err := Trace(context.Background(), "train", func(ctx context.Context) error {
		called = true
		return errors.New("boom")
	})
	assert.True(t, called)
	assert.EqualError(t, err, "boom")

	assert.NotPanics(t, func() {
		AddAnnotation(context.Background(), "model_id", "x")
		AddMetadata(context.Background(), "rows", 10)
		AddError(context.Background(), errors.New("ignored"))
	})
}

func TestMiddlewarePassesThrough(t *testing.T) {
	var sawSegment bool
	h := Middleware("roster-wins", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := Trace(r.Context(), "predict", func(ctx context.Context) error {
			AddAnnotation(ctx, "players", 5)
			return nil
		})
		require.NoError(t, err)
		sawSegment = true
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/model", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, sawSegment)
}
