//go:build !windows
// +build !windows

package binutil

import (
	"os"

	"github.com/playnet/gamelb/engine/lblog"
	"github.com/sevlyar/go-daemon"
)

func Daemonize() *daemon.Context {
	context := new(daemon.Context)
	child, err := context.Reborn()

	if err != nil {
		// daemonize failed
		lblog.Panicf("daemonize failed: %v", err)
	}

	if child != nil {
		lblog.Infof("run in daemon mode")
		os.Exit(0)
		return nil
	} else {
		return context
	}
}
