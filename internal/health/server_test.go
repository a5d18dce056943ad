package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct{ ready bool }

func (s stubModel) Ready() bool { return s.ready }

type stubDB struct{ err error }

func (s stubDB) Ping(context.Context) error { return s.err }

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestLiveAndHealthAlwaysOK(t *testing.T) {
	s := NewServer(Config{ServiceName: "roster-wins", Version: "1.0.0"})
	for _, path := range []string{"/health", "/live"} {
		rec, body := get(t, s.Handler(), path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "roster-wins", body["service"])
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		model      ModelChecker
		db         DatabasePinger
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name:       "not marked ready",
			ready:      false,
			model:      stubModel{ready: true},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "not_ready", "model": "ok"},
		},
		{
			name:       "model not loaded",
			ready:      true,
			model:      stubModel{ready: false},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "ok", "model": "not_loaded"},
		},
		{
			name:       "database down",
			ready:      true,
			model:      stubModel{ready: true},
			db:         stubDB{err: errors.New("refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "ok", "model": "ok", "database": "error: refused"},
		},
		{
			name:       "all healthy",
			ready:      true,
			model:      stubModel{ready: true},
			db:         stubDB{},
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"service": "ok", "model": "ok", "database": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{ServiceName: "roster-wins", Model: tt.model, DB: tt.db})
			s.SetReady(tt.ready)

			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantChecks, resp.Checks)
		})
	}
}

func TestMetricsMounted(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("roster_wins_up 1\n"))
	})
	s := NewServer(Config{Metrics: metrics, MetricsPath: "/prom"})

	rec, _ := get(t, s.Handler(), "/prom")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "roster_wins_up")

	rec, _ = get(t, NewServer(Config{}).Handler(), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
