package sheetforge

import "sync/atomic"

// Telemetry counts work across jobs. It is safe for concurrent use and is
// passed explicitly to each job; a nil *Telemetry records nothing.
type Telemetry struct {
	jobsStarted      atomic.Int64
	jobsCompleted    atomic.Int64
	jobsFailed       atomic.Int64
	recordsWritten   atomic.Int64
	recordsDropped   atomic.Int64
	tablesDetected   atomic.Int64
	workbooksScanned atomic.Int64
}

// TelemetrySnapshot is a point-in-time copy of the counters.
type TelemetrySnapshot struct {
	JobsStarted      int64 `json:"jobs_started"`
	JobsCompleted    int64 `json:"jobs_completed"`
	JobsFailed       int64 `json:"jobs_failed"`
	RecordsWritten   int64 `json:"records_written"`
	RecordsDropped   int64 `json:"records_dropped"`
	TablesDetected   int64 `json:"tables_detected"`
	WorkbooksScanned int64 `json:"workbooks_scanned"`
}

// Snapshot returns the current counter values.
func (t *Telemetry) Snapshot() TelemetrySnapshot {
	if t == nil {
		return TelemetrySnapshot{}
	}
	return TelemetrySnapshot{
		JobsStarted:      t.jobsStarted.Load(),
		JobsCompleted:    t.jobsCompleted.Load(),
		JobsFailed:       t.jobsFailed.Load(),
		RecordsWritten:   t.recordsWritten.Load(),
		RecordsDropped:   t.recordsDropped.Load(),
		TablesDetected:   t.tablesDetected.Load(),
		WorkbooksScanned: t.workbooksScanned.Load(),
	}
}

func (t *Telemetry) jobStarted() {
	if t != nil {
		t.jobsStarted.Add(1)
	}
}

func (t *Telemetry) jobFinished(ok bool, written, dropped int) {
	if t == nil {
		return
	}
	if ok {
		t.jobsCompleted.Add(1)
	} else {
		t.jobsFailed.Add(1)
	}
	t.recordsWritten.Add(int64(written))
	t.recordsDropped.Add(int64(dropped))
}

func (t *Telemetry) scanned(tables int) {
	if t == nil {
		return
	}
	t.workbooksScanned.Add(1)
	t.tablesDetected.Add(int64(tables))
}
