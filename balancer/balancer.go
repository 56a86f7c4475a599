package balancer

import (
	"sync"

	"time"

	"github.com/pkg/errors"

	"github.com/playnet/gamelb/engine/common"
	"github.com/playnet/gamelb/engine/config"
	"github.com/playnet/gamelb/engine/lblog"
	"github.com/playnet/gamelb/engine/metrics"
	"github.com/playnet/gamelb/server"
)

// ErrNoAvailableServer is returned by ConnectPlayer when a full round-robin
// scan finds no active server
var ErrNoAvailableServer = errors.New("no available game server")

// GameLoadBalancer distributes player requests across a fixed pool of game
// servers using round-robin selection. Selection is strictly sequential by
// pool index, not by queue depth or load.
type GameLoadBalancer struct {
	servers []*server.GameServer

	lock        sync.Mutex // guards chooseIndex and startTime
	chooseIndex int
	startTime   time.Time

	stats *serverStatsMonitor
}

// NewGameLoadBalancer creates the server pool and starts every server's
// processing routine. The pool size is fixed for the balancer's lifetime.
//
// sink receives every completed request record. delay generates per-request
// processing durations; pass nil to use the configured per-server uniform
// range.
func NewGameLoadBalancer(serverCount int, sink metrics.Sink, delay server.DelayFunc) *GameLoadBalancer {
	if serverCount <= 0 {
		lblog.Panicf("server count must be at least 1, but is %d", serverCount)
	}

	serverIDs := make([]common.ServerID, serverCount)
	for i := 0; i < serverCount; i++ {
		serverIDs[i] = common.ServerIDForIndex(i)
	}

	glb := &GameLoadBalancer{
		stats: newServerStatsMonitor(serverIDs),
	}

	glb.servers = make([]*server.GameServer, serverCount)
	for i := 0; i < serverCount; i++ {
		serverDelay := delay
		if serverDelay == nil {
			serverConfig := config.GetServer(i)
			serverDelay = server.UniformDelay(serverConfig.MinProcessTime, serverConfig.MaxProcessTime)
		}
		glb.servers[i] = server.NewGameServer(serverIDs[i], sink, glb.UpdateStats, serverDelay)
	}
	return glb
}

// ServerCount returns the fixed size of the server pool
func (glb *GameLoadBalancer) ServerCount() int {
	return len(glb.servers)
}

// Server returns the server at pool index i (0-based)
func (glb *GameLoadBalancer) Server(i int) *server.GameServer {
	return glb.servers[i]
}

// ConnectPlayer assigns a player to the next available game server. Returns
// ErrNoAvailableServer when no server in the pool is active; the failure is
// local and recoverable, the balancer never retries by itself.
func (glb *GameLoadBalancer) ConnectPlayer(playerID common.PlayerID) error {
	glb.lock.Lock()
	if glb.startTime.IsZero() {
		glb.startTime = time.Now()
	}
	gs := glb.nextServer()
	glb.lock.Unlock()

	if gs == nil {
		lblog.Warnf("No available servers for Player_%s", playerID)
		return ErrNoAvailableServer
	}

	if err := gs.HandlePlayer(playerID); err != nil {
		return err
	}

	lblog.Infof("Player_%s connected to %s", playerID, gs.ID())
	return nil
}

// nextServer selects the next server via round robin, skipping inactive
// servers. Returns nil after one full cycle found no active server.
// Must be called with glb.lock held.
func (glb *GameLoadBalancer) nextServer() *server.GameServer {
	startIndex := glb.chooseIndex
	for {
		gs := glb.servers[glb.chooseIndex]
		glb.chooseIndex = (glb.chooseIndex + 1) % len(glb.servers)

		if gs.IsActive() {
			return gs
		}

		if glb.chooseIndex == startIndex {
			return nil
		}
	}
}

// UpdateStats folds one completed request into the server's running totals.
// Safe to call concurrently from any number of server processing routines.
func (glb *GameLoadBalancer) UpdateStats(serverID common.ServerID, processTime float64) {
	glb.stats.record(serverID, processTime)
}

// StartTime returns the time of the first ConnectPlayer call, zero before that
func (glb *GameLoadBalancer) StartTime() time.Time {
	glb.lock.Lock()
	defer glb.lock.Unlock()
	return glb.startTime
}

// ServerStatus is a point-in-time view of one game server's state and
// performance statistics
type ServerStatus struct {
	ID             common.ServerID
	Active         bool
	RequestCount   uint64
	AvgProcessTime float64
	Players        common.PlayerList
	QueuedRequests int
}

// ServerStats generates performance statistics for all game servers in pool
// order. It does not block the processing routines and never observes a count
// without its matching duration.
func (glb *GameLoadBalancer) ServerStats() []ServerStatus {
	stats := make([]ServerStatus, 0, len(glb.servers))
	for _, gs := range glb.servers {
		count, avg := glb.stats.get(gs.ID())
		stats = append(stats, ServerStatus{
			ID:             gs.ID(),
			Active:         gs.IsActive(),
			RequestCount:   count,
			AvgProcessTime: avg,
			Players:        gs.Players(),
			QueuedRequests: gs.QueuedRequests(),
		})
	}
	return stats
}

// OverallStats returns the total completed request count and the average
// processing time across all servers
func (glb *GameLoadBalancer) OverallStats() (uint64, float64) {
	return glb.stats.overall()
}

// Idle checks whether every server drained its queue and finished its
// in-flight request
func (glb *GameLoadBalancer) Idle() bool {
	for _, gs := range glb.servers {
		if !gs.Idle() {
			return false
		}
	}
	return true
}

// Close stops all server processing routines after their queues are drained
func (glb *GameLoadBalancer) Close() {
	for _, gs := range glb.servers {
		gs.Close()
	}
}

// WaitTerminated waits until all server processing routines terminated
func (glb *GameLoadBalancer) WaitTerminated() {
	for _, gs := range glb.servers {
		gs.WaitTerminated()
	}
}
