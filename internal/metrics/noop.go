package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncProxyForwarded is a no-op.
func (n *NoopRecorder) IncProxyForwarded() {}

// ObserveProxyDuration is a no-op.
func (n *NoopRecorder) ObserveProxyDuration(duration time.Duration) {}

// IncUploadBatch is a no-op.
func (n *NoopRecorder) IncUploadBatch(status string) {}

// ObserveUploadBatchSize is a no-op.
func (n *NoopRecorder) ObserveUploadBatchSize(files int) {}

// IncAuthDenied is a no-op.
func (n *NoopRecorder) IncAuthDenied(state string) {}

// IncBackendError is a no-op.
func (n *NoopRecorder) IncBackendError(kind string) {}
