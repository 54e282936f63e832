package models

import "time"

// ServerStatsResponse contains process and host statistics.
type ServerStatsResponse struct {
	Success       bool      `json:"success"`
	Uptime        string    `json:"uptime"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	StartTime     time.Time `json:"start_time"`
	GoRoutines    int       `json:"goroutines"`
	NumCPU        int       `json:"num_cpu"`
	MemoryAllocMB float64   `json:"memory_alloc_mb"`
	// Process figures come from gopsutil and are zero where unsupported.
	ProcessRSSMB      float64 `json:"process_rss_mb"`
	ProcessCPUPercent float64 `json:"process_cpu_percent"`
	SystemMemoryUsed  float64 `json:"system_memory_used_percent"`

	Registrar RegistrarStatus `json:"registrar"`
	Database  DatabaseStatus  `json:"database"`
}

// DatabaseStatus reports the directory store.
type DatabaseStatus struct {
	Path          string `json:"path"`
	Healthy       bool   `json:"healthy"`
	SchemaVersion uint   `json:"schema_version"`
	Error         string `json:"error,omitempty"`
}

// RegistrarStatus describes the configured registrar without secrets.
type RegistrarStatus struct {
	Provider   string `json:"provider"`
	Zone       string `json:"zone"`
	Configured bool   `json:"configured"`
}
