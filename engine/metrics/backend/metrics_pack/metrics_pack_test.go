package metrics_pack

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bmizerany/assert"
	"github.com/vmihailenco/msgpack"
	metrics_types "github.com/playnet/gamelb/engine/metrics/types"
)

func TestPackMetrics(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "metrics.pack")
	pm, err := OpenPackMetrics(filename)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	m := metrics_types.NewPlayerMetrics("3", "Game_Server_2")
	m.Finalize(m.StartTime.Add(time.Millisecond*1500), 1.5)
	assert.Equal(t, pm.Write(m), nil)
	assert.Equal(t, pm.Close(), nil)

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(data) < 4 {
		t.Fatalf("file too short: %d bytes", len(data))
	}
	payloadLen := binary.LittleEndian.Uint32(data[:4])
	assert.Equal(t, int(payloadLen), len(data)-4)

	var record packRecord
	if err := msgpack.Unmarshal(data[4:], &record); err != nil {
		t.Fatalf("unpack failed: %v", err)
	}
	assert.Equal(t, record.PlayerID, "3")
	assert.Equal(t, record.ServerID, "Game_Server_2")
	assert.Equal(t, record.ProcessTime, "1.500")
	assert.Equal(t, record.StartTime, m.StartTime.Format(metrics_types.TimeFormat))
}
