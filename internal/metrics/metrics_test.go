package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/fern/internal/pipeline"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/jobs/{jobID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/jobs/{jobID}", "GET", "404")))
}

func TestObserveModelCallAndJob(t *testing.T) {
	m := New()
	m.ObserveModelCall("huggingface:bart", 2*time.Second, nil)
	m.ObserveModelCall("huggingface:bart", time.Second, errors.New("503"))
	m.ObserveJob(pipeline.StatusCompleted, 3*time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelCalls.WithLabelValues("huggingface:bart", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelCalls.WithLabelValues("huggingface:bart", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobs.WithLabelValues("completed")))
}

func TestHandlerExposesQueueDepth(t *testing.T) {
	m := New()
	m.RegisterQueueDepth(func() int { return 7 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "fern_job_queue_depth 7"), body)
	assert.Contains(t, body, "go_goroutines")
}
