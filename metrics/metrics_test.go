package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGetIsSingleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}

func TestRecordGeneration(t *testing.T) {
	m := Get()
	before := testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("metrics-test"))
	beforeRetries := testutil.ToFloat64(m.GenerationRetriesTotal.WithLabelValues("metrics-test"))

	RecordGeneration("metrics-test", 0)
	RecordGeneration("metrics-test", 3)

	assert.Equal(t, before+2, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("metrics-test")))
	assert.Equal(t, beforeRetries+3, testutil.ToFloat64(m.GenerationRetriesTotal.WithLabelValues("metrics-test")))
}

func TestFailureCounters(t *testing.T) {
	m := Get()
	RecordRenderFailure("synth-test")
	RecordValidationFailure("tempo-test")
	ObserveStage("synth-test", time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RenderFailuresTotal.WithLabelValues("synth-test")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("tempo-test")))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Middleware)
	r.HandleFunc("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := Get().HTTPRequestsTotal.WithLabelValues("GET", "/things/{id}", "418")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/things/42", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
