// Package metrics exposes serve-mode counters. Components take a Recorder;
// NoopRecorder is the default, so callers never check for nil.
package metrics

import "time"

// ResultLabel enumerates reload outcomes for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines the hooks serve mode reports through.
type Recorder interface {
	// ObserveReload records one reload attempt. trigger is startup|interval|manual|watch.
	ObserveReload(trigger string, d time.Duration, result ResultLabel)
	// SetManifestSize records the size of the manifest being served.
	SetManifestSize(sidebars, groups, docRefs int)
	// ObserveHTTPRequest records one handled request by route pattern.
	ObserveHTTPRequest(route, method string, status int, d time.Duration)
	// IncRenderCache counts render cache lookups; hit is false on a miss.
	IncRenderCache(hit bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are disabled).
type NoopRecorder struct{}

func (NoopRecorder) ObserveReload(string, time.Duration, ResultLabel)      {}
func (NoopRecorder) SetManifestSize(int, int, int)                         {}
func (NoopRecorder) ObserveHTTPRequest(string, string, int, time.Duration) {}
func (NoopRecorder) IncRenderCache(bool)                                   {}
