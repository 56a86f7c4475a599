package balancer

import (
	"sync"

	"github.com/playnet/gamelb/engine/common"
	"github.com/playnet/gamelb/engine/lblog"
)

type serverStat struct {
	totalRequests uint64
	totalTime     float64 // cumulative processing seconds
}

// serverStatsMonitor keeps lifetime running totals per server. The map holds
// exactly one entry per server for the lifetime of the balancer; the mutex
// keeps each {count, duration} update atomic.
type serverStatsMonitor struct {
	sync.Mutex
	stats map[common.ServerID]*serverStat
}

func newServerStatsMonitor(serverIDs []common.ServerID) *serverStatsMonitor {
	mon := &serverStatsMonitor{
		stats: map[common.ServerID]*serverStat{},
	}
	for _, serverID := range serverIDs {
		mon.stats[serverID] = &serverStat{}
	}
	return mon
}

func (mon *serverStatsMonitor) record(serverID common.ServerID, processTime float64) {
	mon.Lock()
	stat := mon.stats[serverID]
	if stat == nil {
		mon.Unlock()
		lblog.Errorf("stats update for unknown server %s", serverID)
		return
	}
	stat.totalRequests += 1
	stat.totalTime += processTime
	mon.Unlock()
}

func (mon *serverStatsMonitor) get(serverID common.ServerID) (count uint64, avgTime float64) {
	mon.Lock()
	defer mon.Unlock()
	stat := mon.stats[serverID]
	if stat == nil || stat.totalRequests == 0 {
		return 0, 0
	}
	return stat.totalRequests, stat.totalTime / float64(stat.totalRequests)
}

func (mon *serverStatsMonitor) overall() (count uint64, avgTime float64) {
	mon.Lock()
	defer mon.Unlock()
	totalTime := 0.0
	for _, stat := range mon.stats {
		count += stat.totalRequests
		totalTime += stat.totalTime
	}
	if count == 0 {
		return 0, 0
	}
	return count, totalTime / float64(count)
}
