package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration   *prom.HistogramVec
	stageResults    *prom.CounterVec
	buildDuration   prom.Histogram
	buildOutcome    *prom.CounterVec
	documents       *prom.CounterVec
	pluginInits     *prom.CounterVec
	historyDuration *prom.HistogramVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "ignite",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "ignite",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "ignite",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "ignite",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		documents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "ignite",
			Name:      "documents_resolved_total",
			Help:      "Documents reached by page graph walks, per logical root",
		}, []string{"root"}),
		pluginInits: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "ignite",
			Name:      "plugin_inits_total",
			Help:      "Plugin init hook invocations by plugin and result",
		}, []string{"plugin", "result"}),
		historyDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "ignite",
			Name:      "history_lookup_duration_seconds",
			Help:      "Duration of commit-history lookups for blog posts",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.buildDuration, pr.buildOutcome,
		pr.documents, pr.pluginInits, pr.historyDuration)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddDocumentsResolved(root string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.documents.WithLabelValues(root).Add(float64(n))
}

func (p *PrometheusRecorder) IncPluginInit(plugin string, success bool) {
	if p == nil {
		return
	}
	p.pluginInits.WithLabelValues(plugin, successLabel(success)).Inc()
}

func (p *PrometheusRecorder) ObserveHistoryLookup(d time.Duration, success bool) {
	if p == nil {
		return
	}
	p.historyDuration.WithLabelValues(successLabel(success)).Observe(d.Seconds())
}

func successLabel(ok bool) string {
	if ok {
		return string(ResultSuccess)
	}
	return string(ResultFailed)
}
