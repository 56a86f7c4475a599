package metrics_types

import (
	"fmt"
	"time"

	"github.com/playnet/gamelb/engine/common"
)

// TimeFormat is the timestamp format of persisted metrics records
const TimeFormat = "2006-01-02 15:04:05.000000"

// Fields is the persisted field order of one metrics record, one record per
// completed request, append-only. Consumers (reporting tools) depend on this
// order staying stable.
var Fields = []string{"player_id", "server_id", "start_time", "end_time", "processing_time"}

// PlayerMetrics tracks player ID, server assignment, timing, and processing
// duration of one request. EndTime and ProcessTime are zero while the request
// is queued or in flight and are set together when processing completes, after
// which the record is immutable.
type PlayerMetrics struct {
	PlayerID    common.PlayerID
	ServerID    common.ServerID
	StartTime   time.Time
	EndTime     time.Time
	ProcessTime float64 // seconds
}

// NewPlayerMetrics creates the metrics record of a newly submitted request,
// with StartTime set to now
func NewPlayerMetrics(playerID common.PlayerID, serverID common.ServerID) *PlayerMetrics {
	return &PlayerMetrics{
		PlayerID:  playerID,
		ServerID:  serverID,
		StartTime: time.Now(),
	}
}

// Finalize sets EndTime and ProcessTime together when the request completes
func (m *PlayerMetrics) Finalize(endTime time.Time, processTime float64) {
	m.EndTime = endTime
	m.ProcessTime = processTime
}

// IsFinalized checks whether the request completed processing
func (m *PlayerMetrics) IsFinalized() bool {
	return !m.EndTime.IsZero()
}

// Record converts the metrics to persistable string values in Fields order
func (m *PlayerMetrics) Record() []string {
	endTime := ""
	processTime := ""
	if m.IsFinalized() {
		endTime = m.EndTime.Format(TimeFormat)
		processTime = fmt.Sprintf("%.3f", m.ProcessTime)
	}
	return []string{
		string(m.PlayerID),
		string(m.ServerID),
		m.StartTime.Format(TimeFormat),
		endTime,
		processTime,
	}
}
