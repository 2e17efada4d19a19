package metrics

import (
	"fmt"
	"maps"
	"sync"
	"time"
)

// Snapshot captures current in-memory counters. Map keys join labels with ':'.
type Snapshot struct {
	HTTPRequests     map[string]int // "METHOD route:status"
	UsersRegistered  int
	LoginsFailed     int
	ResourcesCreated map[string]int
	ResourcesDeleted map[string]int
	UpstreamCalls    map[string]int // "provider:outcome"
	AssetUploads     map[string]int
	LogosGenerated   int
	RateLimited      int
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		snap: Snapshot{
			HTTPRequests:     map[string]int{},
			ResourcesCreated: map[string]int{},
			ResourcesDeleted: map[string]int{},
			UpstreamCalls:    map[string]int{},
			AssetUploads:     map[string]int{},
		},
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.snap
	out.HTTPRequests = maps.Clone(m.snap.HTTPRequests)
	out.ResourcesCreated = maps.Clone(m.snap.ResourcesCreated)
	out.ResourcesDeleted = maps.Clone(m.snap.ResourcesDeleted)
	out.UpstreamCalls = maps.Clone(m.snap.UpstreamCalls)
	out.AssetUploads = maps.Clone(m.snap.AssetUploads)
	return out
}

// ObserveHTTPRequest counts a served request.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.HTTPRequests[fmt.Sprintf("%s %s:%d", method, route, status)]++
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.UsersRegistered++
}

// IncLoginFailed increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.LoginsFailed++
}

// IncResourceCreated increments the created counter for kind.
func (m *InMemoryRecorder) IncResourceCreated(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.ResourcesCreated[kind]++
}

// IncResourceDeleted increments the deleted counter for kind.
func (m *InMemoryRecorder) IncResourceDeleted(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.ResourcesDeleted[kind]++
}

// ObserveUpstreamCall counts an upstream call by provider and outcome.
func (m *InMemoryRecorder) ObserveUpstreamCall(provider, outcome string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.UpstreamCalls[provider+":"+outcome]++
}

// IncAssetUploaded counts an asset upload by status.
func (m *InMemoryRecorder) IncAssetUploaded(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.AssetUploads[status]++
}

// IncLogoGenerated increments the logo counter.
func (m *InMemoryRecorder) IncLogoGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.LogosGenerated++
}

// IncRateLimited increments the rejected-request counter.
func (m *InMemoryRecorder) IncRateLimited() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.RateLimited++
}
