//go:build windows
// +build windows

package binutil

import "github.com/playnet/gamelb/engine/lblog"

type nopRelease int

func (_ nopRelease) Release() {

}

func Daemonize() nopRelease {
	// Windows can not daemonize
	lblog.Warnf("can not run in daemon mode in windows, -d ignored")
	return nopRelease(0)
}
