package models

import "time"

type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncSyncing SyncState = "syncing"
)

// SyncStatus - снимок состояния синхронизации. Progress == nil, когда прогона нет.
type SyncStatus struct {
	State        SyncState  `json:"state"`
	Progress     *int       `json:"progress,omitempty"`
	Error        string     `json:"error,omitempty"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	RunID        string     `json:"run_id,omitempty"`
}

func (s SyncStatus) Syncing() bool { return s.State == SyncSyncing }

// SyncResult - итог одного прогона.
type SyncResult struct {
	RunID    string        `json:"run_id"`
	Fetched  int           `json:"fetched"`
	Dropped  int           `json:"dropped"`
	Stored   int           `json:"stored"`
	Duration time.Duration `json:"duration"`
}
