package server

import (
	"testing"
	"time"

	"github.com/bmizerany/assert"
	"github.com/playnet/gamelb/engine/common"
	"github.com/playnet/gamelb/engine/metrics"
	metrics_types "github.com/playnet/gamelb/engine/metrics/types"
)

func fixedDelay(d time.Duration) DelayFunc {
	return func() time.Duration {
		return d
	}
}

func waitIdle(t *testing.T, gs *GameServer) {
	deadline := time.Now().Add(time.Second * 5)
	for !gs.Idle() {
		if time.Now().After(deadline) {
			t.Fatalf("server %s did not drain in time", gs.ID())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHandlePlayerInactive(t *testing.T) {
	sink := metrics.NewMemorySink()
	gs := NewGameServer("Game_Server_1", sink, nil, fixedDelay(time.Millisecond))
	defer gs.Close()

	gs.Deactivate()
	assert.T(t, !gs.IsActive(), "should be inactive")
	err := gs.HandlePlayer("1")
	assert.Equal(t, err, ErrServerInactive)
	assert.Equal(t, sink.Count(), 0)

	gs.Reactivate()
	assert.T(t, gs.IsActive(), "should be active")
	assert.Equal(t, gs.HandlePlayer("1"), nil)
	waitIdle(t, gs)
	assert.Equal(t, sink.Count(), 1)
}

func TestProcessFIFO(t *testing.T) {
	sink := metrics.NewMemorySink()
	gs := NewGameServer("Game_Server_1", sink, nil, fixedDelay(time.Millisecond))
	defer gs.Close()

	players := []common.PlayerID{"1", "2", "3", "4", "5"}
	for _, p := range players {
		assert.Equal(t, gs.HandlePlayer(p), nil)
	}
	waitIdle(t, gs)

	records := sink.Records()
	assert.Equal(t, len(records), len(players))
	for i, m := range records {
		assert.Equal(t, m.PlayerID, players[i])
		assert.Equal(t, m.ServerID, common.ServerID("Game_Server_1"))
		assert.T(t, m.IsFinalized(), "record not finalized")
		assert.T(t, !m.EndTime.Before(m.StartTime), "end time before start time")
	}
	// earlier requests finish before later ones start processing
	for i := 1; i < len(records); i++ {
		assert.T(t, !records[i].EndTime.Before(records[i-1].EndTime), "FIFO order violated")
	}
	assert.Equal(t, gs.Players(), common.PlayerList(players))
}

func TestDeactivateKeepsBacklog(t *testing.T) {
	sink := metrics.NewMemorySink()
	gs := NewGameServer("Game_Server_1", sink, nil, fixedDelay(time.Millisecond*5))
	defer gs.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, gs.HandlePlayer("p"), nil)
	}
	gs.Deactivate()
	assert.Equal(t, gs.HandlePlayer("rejected"), ErrServerInactive)

	waitIdle(t, gs)
	assert.Equal(t, sink.Count(), 3)
}

func TestCompletionCallback(t *testing.T) {
	type completion struct {
		serverID    common.ServerID
		processTime float64
	}
	completions := make(chan completion, 4)
	onComplete := func(serverID common.ServerID, processTime float64) {
		completions <- completion{serverID, processTime}
	}

	gs := NewGameServer("Game_Server_2", metrics.NewMemorySink(), onComplete, fixedDelay(time.Millisecond*10))
	defer gs.Close()

	assert.Equal(t, gs.HandlePlayer("1"), nil)
	assert.Equal(t, gs.HandlePlayer("2"), nil)
	waitIdle(t, gs)

	for i := 0; i < 2; i++ {
		c := <-completions
		assert.Equal(t, c.serverID, common.ServerID("Game_Server_2"))
		assert.Equal(t, c.processTime, 0.01)
	}
}

type panicOnceSink struct {
	sink    *metrics.MemorySink
	paniced bool
}

func (s *panicOnceSink) Record(m *metrics_types.PlayerMetrics) {
	if !s.paniced {
		s.paniced = true
		panic("sink failure")
	}
	s.sink.Record(m)
}

func TestProcessRoutineSurvivesPanic(t *testing.T) {
	sink := &panicOnceSink{sink: metrics.NewMemorySink()}
	gs := NewGameServer("Game_Server_1", sink, nil, fixedDelay(time.Millisecond))
	defer gs.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, gs.HandlePlayer("p"), nil)
	}
	waitIdle(t, gs)

	// the first record is lost in the panicking sink, the routine keeps
	// processing the rest
	assert.Equal(t, sink.sink.Count(), 2)
	assert.Equal(t, len(gs.Players()), 2)
}

func TestUniformDelay(t *testing.T) {
	min := time.Millisecond * 1
	max := time.Millisecond * 3
	delay := UniformDelay(min, max)
	for i := 0; i < 1000; i++ {
		d := delay()
		assert.T(t, d >= min, "delay below minimum")
		assert.T(t, d <= max, "delay above maximum")
	}

	same := UniformDelay(min, min)
	assert.Equal(t, same(), min)
}
