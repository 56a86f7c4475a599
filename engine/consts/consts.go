package consts

import "time"

// Tunable consts
const (
	// DEBUG_MODE = true turns on debug mode
	DEBUG_MODE = false

	// OPMON_DUMP_INTERVAL is the interval to print opmon infos to output, 0 to disable
	OPMON_DUMP_INTERVAL = 0 * time.Second

	// METRICS_QUEUE_WARN_LEN is the metrics record queue length that triggers a warning
	METRICS_QUEUE_WARN_LEN = 100

	// METRICS_RECORD_WARN_THRESHOLD is the sink write duration considered slow
	METRICS_RECORD_WARN_THRESHOLD = time.Millisecond * 100

	// PROCESS_WARN_THRESHOLD is the per-request processing duration considered slow
	PROCESS_WARN_THRESHOLD = time.Second * 10

	// SIM_TICK_INTERVAL is the tick interval of the simulation driver main loop
	SIM_TICK_INTERVAL = time.Millisecond * 100
)
