package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLoginFailed is a no-op.
func (n *NoopRecorder) IncLoginFailed() {}

// IncResourceCreated is a no-op.
func (n *NoopRecorder) IncResourceCreated(kind string) {}

// IncResourceDeleted is a no-op.
func (n *NoopRecorder) IncResourceDeleted(kind string) {}

// ObserveUpstreamCall is a no-op.
func (n *NoopRecorder) ObserveUpstreamCall(provider, outcome string, duration time.Duration) {}

// IncAssetUploaded is a no-op.
func (n *NoopRecorder) IncAssetUploaded(status string) {}

// IncLogoGenerated is a no-op.
func (n *NoopRecorder) IncLogoGenerated() {}

// IncRateLimited is a no-op.
func (n *NoopRecorder) IncRateLimited() {}
