package binutil

import (
	"fmt"
	"net/http"

	_ "net/http/pprof"

	"io"

	"os"

	"github.com/natefinch/lumberjack"
	"github.com/playnet/gamelb/engine/lblog"
	"github.com/playnet/gamelb/engine/lbutils"
)

// SetupPProfServer starts the HTTP server for go tool pprof
func SetupPProfServer(ip string, port int) {
	if port == 0 {
		// pprof not enabled
		lblog.Infof("pprof server not enabled")
		return
	}

	pprofHost := fmt.Sprintf("%s:%d", ip, port)
	lblog.Infof("pprof server listening on %s", pprofHost)
	lblog.Infof("pprof http://%s/debug/pprof/ ... available commands: ", pprofHost)
	lblog.Infof("    go tool pprof http://%s/debug/pprof/heap", pprofHost)
	lblog.Infof("    go tool pprof http://%s/debug/pprof/profile", pprofHost)

	go func() {
		http.ListenAndServe(pprofHost, nil)
	}()
}

// SetupLBLog setup the gamelb log system
func SetupLBLog(component string, logLevel string, logFile string, logStderr bool) {
	lblog.SetSource(component)
	lblog.Infof("Set log level to %s", logLevel)
	lblog.SetLevel(lblog.StringToLevel(logLevel))

	outputWriters := make([]io.Writer, 0, 2)
	if logFile != "" {
		var logFileWriter io.Writer
		logFileWriter = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // megabytes
			MaxBackups: 100,
			MaxAge:     30, //days
			Compress:   true,
		}

		logFileWriter.(*lumberjack.Logger).Rotate() // rotate immediately
		outputWriters = append(outputWriters, logFileWriter)
	}

	if logStderr {
		outputWriters = append(outputWriters, os.Stderr)
	}

	if len(outputWriters) == 1 {
		lblog.SetOutput(outputWriters[0])
	} else {
		lblog.SetOutput(lbutils.NewMultiWriter(outputWriters...))
	}
}
