package metrics

import (
	"sync"

	metrics_types "github.com/playnet/gamelb/engine/metrics/types"
)

// MemorySink is a Sink that keeps records in memory, in arrival order
type MemorySink struct {
	lock    sync.Mutex
	records []*metrics_types.PlayerMetrics
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (sink *MemorySink) Record(m *metrics_types.PlayerMetrics) {
	sink.lock.Lock()
	sink.records = append(sink.records, m)
	sink.lock.Unlock()
}

// Records returns a copy of the recorded metrics
func (sink *MemorySink) Records() []*metrics_types.PlayerMetrics {
	sink.lock.Lock()
	defer sink.lock.Unlock()
	records := make([]*metrics_types.PlayerMetrics, len(sink.records))
	copy(records, sink.records)
	return records
}

// Count returns the number of recorded metrics
func (sink *MemorySink) Count() int {
	sink.lock.Lock()
	defer sink.lock.Unlock()
	return len(sink.records)
}
