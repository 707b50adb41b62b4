package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ProxyForwarded       uint64
	ProxyDurationCount   uint64
	ProxyDurationTotalNs int64
	UploadBatches        map[string]uint64
	UploadFilesTotal     uint64
	AuthDenied           map[string]uint64
	BackendErrors        map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	proxyForwarded       uint64
	proxyDurationCount   uint64
	proxyDurationTotalNs int64
	uploadFilesTotal     uint64

	mu            sync.Mutex
	uploadBatches map[string]uint64
	authDenied    map[string]uint64
	backendErrors map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		uploadBatches: make(map[string]uint64),
		authDenied:    make(map[string]uint64),
		backendErrors: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		ProxyForwarded:       atomic.LoadUint64(&m.proxyForwarded),
		ProxyDurationCount:   atomic.LoadUint64(&m.proxyDurationCount),
		ProxyDurationTotalNs: atomic.LoadInt64(&m.proxyDurationTotalNs),
		UploadFilesTotal:     atomic.LoadUint64(&m.uploadFilesTotal),
		UploadBatches:        make(map[string]uint64, len(m.uploadBatches)),
		AuthDenied:           make(map[string]uint64, len(m.authDenied)),
		BackendErrors:        make(map[string]uint64, len(m.backendErrors)),
	}
	for k, v := range m.uploadBatches {
		s.UploadBatches[k] = v
	}
	for k, v := range m.authDenied {
		s.AuthDenied[k] = v
	}
	for k, v := range m.backendErrors {
		s.BackendErrors[k] = v
	}
	return s
}

// IncProxyForwarded increments the forwarded-request counter.
func (m *InMemoryRecorder) IncProxyForwarded() {
	atomic.AddUint64(&m.proxyForwarded, 1)
}

// ObserveProxyDuration records proxy round-trip duration.
func (m *InMemoryRecorder) ObserveProxyDuration(duration time.Duration) {
	atomic.AddUint64(&m.proxyDurationCount, 1)
	atomic.AddInt64(&m.proxyDurationTotalNs, duration.Nanoseconds())
}

// IncUploadBatch increments the batch counter for the given status.
func (m *InMemoryRecorder) IncUploadBatch(status string) {
	m.mu.Lock()
	m.uploadBatches[status]++
	m.mu.Unlock()
}

// ObserveUploadBatchSize adds to the processed file total.
func (m *InMemoryRecorder) ObserveUploadBatchSize(files int) {
	atomic.AddUint64(&m.uploadFilesTotal, uint64(files))
}

// IncAuthDenied increments the denial counter for the given state.
func (m *InMemoryRecorder) IncAuthDenied(state string) {
	m.mu.Lock()
	m.authDenied[state]++
	m.mu.Unlock()
}

// IncBackendError increments the error counter for the given kind.
func (m *InMemoryRecorder) IncBackendError(kind string) {
	m.mu.Lock()
	m.backendErrors[kind]++
	m.mu.Unlock()
}
