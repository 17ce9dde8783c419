package schema

import "time"

// ArchiveStatus represents the status of the archive store.
type ArchiveStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	SchemaVersion  int              `json:"schema_version"`
	LastPushTime   time.Time        `json:"last_push_time"`
	EntityCounts   map[string]int   `json:"entity_counts"`
	TableSizeBytes map[string]int64 `json:"table_size_bytes"`
}
