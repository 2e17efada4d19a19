// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// HTTP metrics; route is the matched pattern, not the raw path.
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)

	// Account metrics
	IncUserRegistered()
	IncLoginFailed()

	// Resource metrics; kind is "business", "media_file", "marketing_plan"
	// or "conversation".
	IncResourceCreated(kind string)
	IncResourceDeleted(kind string)

	// Upstream metrics; outcome is "ok", "upstream_error", "timeout" or "error".
	ObserveUpstreamCall(provider, outcome string, duration time.Duration)
	IncAssetUploaded(status string) // status: "success" or "failed"
	IncLogoGenerated()
	IncRateLimited()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
