// Package build runs one documentation build: it initializes the declared plugins,
// resolves the page graph, builds the search index, extracts blog metadata and hands
// the resulting Artifacts to a Sink for the renderer.
//
// Every execution path (the build command, watch mode, tests) goes through Service.
package build
