package server

import (
	"math/rand"

	"sync"

	"sync/atomic"

	"time"

	"github.com/pkg/errors"
	"github.com/xiaonanln/go-xnsyncutil/xnsyncutil"

	"github.com/playnet/gamelb/engine/common"
	"github.com/playnet/gamelb/engine/consts"
	"github.com/playnet/gamelb/engine/lblog"
	"github.com/playnet/gamelb/engine/lbutils"
	"github.com/playnet/gamelb/engine/metrics"
	metrics_types "github.com/playnet/gamelb/engine/metrics/types"
	"github.com/playnet/gamelb/engine/opmon"
)

// ErrServerInactive is returned by HandlePlayer when the server is marked
// inactive
var ErrServerInactive = errors.New("game server is inactive")

// DelayFunc generates the processing duration of one request
type DelayFunc func() time.Duration

// CompletionFunc is called from the server's processing routine after each
// completed request
type CompletionFunc func(serverID common.ServerID, processTime float64)

// UniformDelay returns a DelayFunc that draws durations uniformly from
// [min, max]
func UniformDelay(min time.Duration, max time.Duration) DelayFunc {
	return func() time.Duration {
		return min + time.Duration(rand.Int63n(int64(max-min)+1))
	}
}

// GameServer is a game server instance that processes player requests from its
// own FIFO queue on a dedicated processing routine
type GameServer struct {
	id           common.ServerID
	active       xnsyncutil.AtomicBool
	requestQueue *xnsyncutil.SyncQueue
	sink         metrics.Sink
	onComplete   CompletionFunc
	delay        DelayFunc
	pending      int64 // queued + in flight
	playersLock  sync.Mutex
	players      common.PlayerList
	terminated   *xnsyncutil.OneTimeCond
}

// NewGameServer creates a game server and starts its processing routine, which
// runs for the lifetime of the process until Close is called
func NewGameServer(id common.ServerID, sink metrics.Sink, onComplete CompletionFunc, delay DelayFunc) *GameServer {
	gs := &GameServer{
		id:           id,
		requestQueue: xnsyncutil.NewSyncQueue(),
		sink:         sink,
		onComplete:   onComplete,
		delay:        delay,
		terminated:   xnsyncutil.NewOneTimeCond(),
	}
	gs.active.Store(true)

	go gs.processRoutine()
	return gs
}

// ID returns the server ID
func (gs *GameServer) ID() common.ServerID {
	return gs.id
}

// IsActive checks whether the server accepts new player requests
func (gs *GameServer) IsActive() bool {
	return gs.active.Load()
}

// Deactivate makes the server reject new player requests. Requests already
// queued are still processed.
func (gs *GameServer) Deactivate() {
	gs.active.Store(false)
}

// Reactivate makes the server accept new player requests again
func (gs *GameServer) Reactivate() {
	gs.active.Store(true)
}

// HandlePlayer adds a new player request to the server's processing queue.
// Never blocks on the processing routine.
func (gs *GameServer) HandlePlayer(playerID common.PlayerID) error {
	if !gs.active.Load() {
		return ErrServerInactive
	}

	m := metrics_types.NewPlayerMetrics(playerID, gs.id)
	atomic.AddInt64(&gs.pending, 1)
	gs.requestQueue.Push(m)
	return nil
}

// QueuedRequests returns the number of requests waiting in the queue
func (gs *GameServer) QueuedRequests() int {
	return gs.requestQueue.Len()
}

// Idle checks whether the server has no queued and no in-flight request
func (gs *GameServer) Idle() bool {
	return atomic.LoadInt64(&gs.pending) == 0
}

// Players returns a copy of the list of players processed by this server, in
// completion order
func (gs *GameServer) Players() common.PlayerList {
	gs.playersLock.Lock()
	defer gs.playersLock.Unlock()
	return gs.players.Copy()
}

// Close stops the processing routine after the queued requests are drained
func (gs *GameServer) Close() {
	gs.requestQueue.Close()
}

// WaitTerminated waits until the processing routine terminated
func (gs *GameServer) WaitTerminated() {
	gs.terminated.Wait()
}

// processRoutine processes queued player requests continuously. Pop suspends
// until a request is available, so an idle server does not spin.
func (gs *GameServer) processRoutine() {
	for {
		v := gs.requestQueue.Pop()
		if v == nil { // queue is closed, returning nil
			break
		}

		m := v.(*metrics_types.PlayerMetrics)
		op := opmon.StartOperation("server.process")
		// a panicking handler must not kill the routine or drop the requests
		// queued behind it
		lbutils.RunPanicless(func() {
			gs.processRequest(m)
		})
		op.Finish(consts.PROCESS_WARN_THRESHOLD)
	}

	gs.terminated.Signal()
}

func (gs *GameServer) processRequest(m *metrics_types.PlayerMetrics) {
	defer atomic.AddInt64(&gs.pending, -1)

	processTime := gs.delay()
	time.Sleep(processTime)

	m.Finalize(time.Now(), processTime.Seconds())

	if gs.sink != nil {
		gs.sink.Record(m)
	}
	if gs.onComplete != nil {
		gs.onComplete(gs.id, m.ProcessTime)
	}

	gs.playersLock.Lock()
	gs.players.Append(m.PlayerID)
	gs.playersLock.Unlock()

	lblog.Infof("%s processed request from Player_%s in %.2f seconds", gs.id, m.PlayerID, m.ProcessTime)
}
