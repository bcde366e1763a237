// Package metrics provides build observability for ignite.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics stay optional and nil checks never leak into the
// resolver or index code:
//
//	resolver := docgraph.NewResolver(root, source).WithRecorder(recorder)
//
// PrometheusRecorder is activated by the CLI when metrics.listen is configured;
// HTTPHandler exposes the registry for scraping.
package metrics
