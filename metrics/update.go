package metrics

import "sync/atomic"

// SyncMetrics - счётчики процесса синхронизации с момента старта.
type SyncMetrics struct {
	Runs           atomic.Int32
	Failures       atomic.Int32
	RecordsFetched atomic.Int64
	RecordsDropped atomic.Int64
	RecordsStored  atomic.Int64
}

type SyncMetricsSnapshot struct {
	Runs           int32 `json:"runs"`
	Failures       int32 `json:"failures"`
	RecordsFetched int64 `json:"records_fetched"`
	RecordsDropped int64 `json:"records_dropped"`
	RecordsStored  int64 `json:"records_stored"`
}

func (m *SyncMetrics) Snapshot() SyncMetricsSnapshot {
	return SyncMetricsSnapshot{
		Runs:           m.Runs.Load(),
		Failures:       m.Failures.Load(),
		RecordsFetched: m.RecordsFetched.Load(),
		RecordsDropped: m.RecordsDropped.Load(),
		RecordsStored:  m.RecordsStored.Load(),
	}
}
