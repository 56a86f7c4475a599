package metrics_csv

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bmizerany/assert"
	metrics_types "github.com/playnet/gamelb/engine/metrics/types"
)

func TestCSVMetrics(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "logs", "metrics.csv")
	cm, err := OpenCSVMetrics(filename)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	m := metrics_types.NewPlayerMetrics("1", "Game_Server_1")
	m.Finalize(m.StartTime.Add(time.Second), 1.0)
	assert.Equal(t, cm.Write(m), nil)

	m2 := metrics_types.NewPlayerMetrics("2", "Game_Server_2")
	m2.Finalize(m2.StartTime.Add(time.Millisecond*2345), 2.3456)
	assert.Equal(t, cm.Write(m2), nil)

	assert.Equal(t, cm.Close(), nil)

	f, err := os.Open(filename)
	if err != nil {
		t.Fatalf("open for read failed: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv failed: %v", err)
	}
	assert.Equal(t, len(rows), 3)
	assert.Equal(t, rows[0], metrics_types.Fields)
	assert.Equal(t, rows[1][0], "1")
	assert.Equal(t, rows[1][1], "Game_Server_1")
	assert.Equal(t, rows[1][4], "1.000")
	assert.Equal(t, rows[2][4], "2.346")
}
