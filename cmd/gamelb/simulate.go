package main

import (
	"strconv"

	"strings"

	"time"

	timer "github.com/xiaonanln/goTimer"

	"github.com/playnet/gamelb/balancer"
	"github.com/playnet/gamelb/engine/common"
	"github.com/playnet/gamelb/engine/config"
	"github.com/playnet/gamelb/engine/consts"
	"github.com/playnet/gamelb/engine/lblog"
	"github.com/playnet/gamelb/engine/metrics"
)

// runSimulation drives player connections at the configured cadence, waits
// until all server queues are drained, then reports the final statistics
func runSimulation(glb *balancer.GameLoadBalancer) {
	simConfig := config.GetSimulation()
	players := simConfig.NumPlayers
	if numPlayers > 0 {
		players = numPlayers
	}

	lblog.Infof("Starting game server simulation with %d players ...", players)

	nextPlayer := 1
	connectNext := func() {
		playerID := common.PlayerID(strconv.Itoa(nextPlayer))
		nextPlayer++
		if err := glb.ConnectPlayer(playerID); err != nil {
			lblog.Warnf("Player_%s rejected: %s", playerID, err)
		}
	}

	if simConfig.ConnectInterval <= 0 {
		for nextPlayer <= players {
			connectNext()
		}
	} else {
		var connectTimer *timer.Timer
		connectTimer = timer.AddTimer(simConfig.ConnectInterval, func() {
			if nextPlayer > players {
				connectTimer.Cancel()
				return
			}
			connectNext()
		})
	}

	// wait for all requests to complete
	for {
		timer.Tick()
		if nextPlayer > players && glb.Idle() {
			break
		}
		time.Sleep(consts.SIM_TICK_INTERVAL)
	}

	glb.Close()
	glb.WaitTerminated()
	metrics.Close()
	metrics.WaitTerminated()

	reportFinalStats(glb)
}

func reportFinalStats(glb *balancer.GameLoadBalancer) {
	lblog.Infof("Final Server Statistics:")

	for _, status := range glb.ServerStats() {
		playerNames := make([]string, len(status.Players))
		for i, playerID := range status.Players {
			playerNames[i] = "Player_" + string(playerID)
		}
		lblog.Infof("%s: players handled = %d, average response time = %.3f seconds, player list = %s",
			status.ID, status.RequestCount, status.AvgProcessTime, strings.Join(playerNames, ", "))
	}

	totalRequests, avgTime := glb.OverallStats()
	lblog.Infof("Total players connected: %d", totalRequests)
	lblog.Infof("Average response time across all servers: %.3f seconds", avgTime)
	lblog.Infof("Detailed metrics have been saved by the %s metrics backend", config.GetMetrics().Type)
}
