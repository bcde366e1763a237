package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel is the final status of a whole build.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess BuildOutcomeLabel = "success"
	BuildOutcomeFailed  BuildOutcomeLabel = "failed"
)

// Stage names used as metric labels.
const (
	StagePlugins     = "plugins"
	StagePageGraph   = "page_graph"
	StageSearchIndex = "search_index"
	StageBlog        = "blog"
	StageSink        = "sink"
)

// Recorder defines observability hooks for build and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	AddDocumentsResolved(root string, n int)
	IncPluginInit(plugin string, success bool)
	ObserveHistoryLookup(d time.Duration, success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel) {}
func (NoopRecorder) AddDocumentsResolved(string, int) {}
func (NoopRecorder) IncPluginInit(string, bool) {}
func (NoopRecorder) ObserveHistoryLookup(time.Duration, bool) {}

// ResultFor maps a stage error to its result label.
func ResultFor(err error) ResultLabel {
	if err != nil {
		return ResultFailed
	}
	return ResultSuccess
}
