package metrics

import (
	"time"

	"path"

	"sync/atomic"

	"github.com/xiaonanln/go-xnsyncutil/xnsyncutil"

	"github.com/playnet/gamelb/engine/config"
	"github.com/playnet/gamelb/engine/consts"
	"github.com/playnet/gamelb/engine/lblog"
	"github.com/playnet/gamelb/engine/metrics/backend/metrics_csv"
	"github.com/playnet/gamelb/engine/metrics/backend/metrics_mongo"
	"github.com/playnet/gamelb/engine/metrics/backend/metrics_pack"
	metrics_types "github.com/playnet/gamelb/engine/metrics/types"
	"github.com/playnet/gamelb/engine/opmon"
)

// Sink consumes one call per completed request. Implementations must not block
// the caller for more than a bounded, short duration.
type Sink interface {
	Record(m *metrics_types.PlayerMetrics)
}

// Backend durably appends one metrics record per Write call
type Backend interface {
	Write(m *metrics_types.PlayerMetrics) error
	Close() error
}

var (
	metricsBackend     Backend
	recordQueue        *xnsyncutil.SyncQueue
	recorderTerminated *xnsyncutil.OneTimeCond
)

// Initialize the metrics pipeline
//
// Called by the gamelb process before any server starts processing
func Initialize() {
	metricsCfg := config.GetMetrics()
	lblog.Infof("Metrics initializing, config:\n%s", config.DumpPretty(metricsCfg))
	recordQueue = xnsyncutil.NewSyncQueue()
	recorderTerminated = xnsyncutil.NewOneTimeCond()

	assureBackendReady()

	go recorderRoutine()
}

func assureBackendReady() (err error) {
	if metricsBackend != nil { // backend is valid
		return
	}

	metricsCfg := config.GetMetrics()
	file := metricsCfg.File
	if !path.IsAbs(file) {
		// relative output paths are relative to the config file
		file = path.Join(config.GetConfigDir(), file)
	}

	if metricsCfg.Type == "csv" {
		metricsBackend, err = metrics_csv.OpenCSVMetrics(file)
	} else if metricsCfg.Type == "msgpack" {
		metricsBackend, err = metrics_pack.OpenPackMetrics(file)
	} else if metricsCfg.Type == "mongodb" {
		metricsBackend, err = metrics_mongo.OpenMongoMetrics(metricsCfg.Url, metricsCfg.DB, metricsCfg.Collection)
	} else {
		lblog.Fatalf("metrics type %s is not implemented", metricsCfg.Type)
	}
	return
}

// Record queues one completed request record for persisting. Never blocks the
// calling server loop beyond the queue push.
func Record(m *metrics_types.PlayerMetrics) {
	recordQueue.Push(m)
	checkRecordQueueLen()
}

// Pipeline returns the Sink that feeds the metrics record queue
func Pipeline() Sink {
	return pipelineSink{}
}

type pipelineSink struct{}

func (s pipelineSink) Record(m *metrics_types.PlayerMetrics) {
	Record(m)
}

// Close flushes the pipeline: queued records are still persisted, then the
// backend is closed
func Close() {
	recordQueue.Close()
}

// WaitTerminated waits until the recorder routine persisted all queued records
// and terminated
func WaitTerminated() {
	recorderTerminated.Wait()
}

var recentWarnedQueueLen int64

func checkRecordQueueLen() {
	qlen := int64(recordQueue.Len())
	if qlen > consts.METRICS_QUEUE_WARN_LEN && qlen%consts.METRICS_QUEUE_WARN_LEN == 0 && atomic.LoadInt64(&recentWarnedQueueLen) != qlen {
		lblog.Warnf("Metrics record queue length = %d", qlen)
		atomic.StoreInt64(&recentWarnedQueueLen, qlen)
	}
}

func recorderRoutine() {
	for {
		err := assureBackendReady()
		if err != nil {
			lblog.Errorf("Metrics backend is not ready: %s", err)
			time.Sleep(time.Second)
			continue
		}

		v := recordQueue.Pop()
		if v == nil { // queue is closed, returning nil
			metricsBackend.Close()
			break
		}

		m := v.(*metrics_types.PlayerMetrics)
		op := opmon.StartOperation("metrics.record")
		if err := metricsBackend.Write(m); err != nil {
			// keep recording subsequent records, one failed write must not
			// stall the pipeline
			lblog.Errorf("Metrics record for player %s on %s failed: %s", m.PlayerID, m.ServerID, err)
		}
		op.Finish(consts.METRICS_RECORD_WARN_THRESHOLD)
	}

	recorderTerminated.Signal()
}
