package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAction struct{}

func (testAction) ActionType() string { return "test/action" }

func TestStoreObserver_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewStoreObserver(reg)

	_, finish := obs.ObserveDispatch(context.Background(), testAction{})
	finish(nil)
	_, finish = obs.ObserveDispatch(context.Background(), testAction{})
	finish(errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(obs.dispatches.WithLabelValues("test/action", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.dispatches.WithLabelValues("test/action", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(obs.duration))
}

func TestStoreObserver_ListenerPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewStoreObserver(reg, WithNamespace("test"))

	obs.ObserveListenerPanic(context.Background(), testAction{}, "id")

	assert.Equal(t, 1.0, testutil.ToFloat64(obs.listenerPanics.WithLabelValues("test/action")))

	families, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range families {
		if mf.GetName() == "test_store_listener_panics_total" {
			found = true
		}
	}
	assert.True(t, found, "metric should use the configured namespace")
}

func TestHTTPMetrics_LabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/bugs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/bugs/1", "/bugs/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/bugs/{id}", "404")))
}

func TestHandler_ServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewStoreObserver(reg)
	_, finish := obs.ObserveDispatch(context.Background(), testAction{})
	finish(nil)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "bugboard_store_dispatches_total"))
}
