// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the gateway.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Proxy metrics
	IncProxyForwarded()
	ObserveProxyDuration(duration time.Duration)

	// Upload workflow metrics
	IncUploadBatch(status string) // status: "success", "rejected", "failed"
	ObserveUploadBatchSize(files int)

	// Auth gate metrics
	IncAuthDenied(state string) // state: "unauthenticated", "invalid"

	// Backend call metrics
	IncBackendError(kind string) // kind: "unauthorized", "rejected", "unavailable"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
