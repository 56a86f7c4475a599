package main

import (
	"flag"

	"os"

	"os/signal"

	"github.com/playnet/gamelb/balancer"
	"github.com/playnet/gamelb/engine/binutil"
	"github.com/playnet/gamelb/engine/config"
	"github.com/playnet/gamelb/engine/lblog"
	"github.com/playnet/gamelb/engine/metrics"
)

var (
	configFile      = ""
	logLevel        = ""
	runInDaemonMode = false
	numPlayers      = 0
	sigChan         = make(chan os.Signal, 1)
)

func parseArgs() {
	flag.StringVar(&configFile, "configfile", "", "set config file path")
	flag.StringVar(&logLevel, "log", "", "set log level, overriding config")
	flag.BoolVar(&runInDaemonMode, "d", false, "run in daemon mode")
	flag.IntVar(&numPlayers, "players", 0, "set player count, overriding config")
	flag.Parse()
}

func main() {
	parseArgs()
	if runInDaemonMode {
		daemoncontext := binutil.Daemonize()
		defer daemoncontext.Release()
	}

	if configFile != "" {
		config.SetConfigFile(configFile)
	}

	balancerConfig := config.GetBalancer()

	if logLevel == "" {
		logLevel = balancerConfig.LogLevel
	}
	binutil.SetupLBLog("gamelb", logLevel, balancerConfig.LogFile, balancerConfig.LogStderr)
	binutil.SetupPProfServer(balancerConfig.PProfIp, balancerConfig.PProfPort)
	setupSignals()

	metrics.Initialize()

	glb := balancer.NewGameLoadBalancer(balancerConfig.ServerCount, metrics.Pipeline(), nil)
	runSimulation(glb)
}

func setupSignals() {
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		for {
			sig := <-sigChan

			if sig == os.Interrupt {
				// interrupting, quit gamelb
				os.Exit(0)
			} else {
				lblog.Infof("unexcepted signal: %s", sig)
			}
		}
	}()
}
