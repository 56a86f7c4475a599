package metrics

import (
	"testing"

	"github.com/bmizerany/assert"
	metrics_types "github.com/playnet/gamelb/engine/metrics/types"
)

func TestMemorySink(t *testing.T) {
	sink := NewMemorySink()
	assert.Equal(t, sink.Count(), 0)

	m1 := metrics_types.NewPlayerMetrics("1", "Game_Server_1")
	m2 := metrics_types.NewPlayerMetrics("2", "Game_Server_1")
	sink.Record(m1)
	sink.Record(m2)

	assert.Equal(t, sink.Count(), 2)
	records := sink.Records()
	assert.Equal(t, records[0], m1)
	assert.Equal(t, records[1], m2)
}

func TestMemorySinkConcurrent(t *testing.T) {
	sink := NewMemorySink()
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				sink.Record(metrics_types.NewPlayerMetrics("p", "Game_Server_1"))
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
	assert.Equal(t, sink.Count(), 400)
}
