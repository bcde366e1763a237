package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration(StagePageGraph, 150*time.Millisecond)
	pr.IncStageResult(StagePageGraph, ResultSuccess)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.AddDocumentsResolved("First", 3)
	pr.AddDocumentsResolved("First", 2)
	pr.IncPluginInit("search", true)
	pr.IncPluginInit("editlink", false)
	pr.ObserveHistoryLookup(20*time.Millisecond, true)

	assert.Equal(t, 5.0, testutil.ToFloat64(pr.documents.WithLabelValues("First")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.pluginInits.WithLabelValues("editlink", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.buildOutcome.WithLabelValues("success")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncBuildOutcome(BuildOutcomeFailed)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "ignite_build_outcomes_total"))
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration(StageBlog, time.Second)
	r.IncPluginInit("x", true)
	assert.Equal(t, ResultFailed, ResultFor(io.EOF))
	assert.Equal(t, ResultSuccess, ResultFor(nil))
}
