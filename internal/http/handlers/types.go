// Package handlers provides the HTTP API handlers for pulsarr.
package handlers

// HealthResponse is the health check response body.
type HealthResponse struct {
	Status        string            `json:"status" doc:"Overall service status"`
	Timestamp     string            `json:"timestamp" doc:"Current server time (RFC3339)"`
	Version       string            `json:"version" doc:"Application version"`
	Uptime        string            `json:"uptime" doc:"Time since the service started"`
	UptimeSeconds float64           `json:"uptime_seconds" doc:"Uptime in seconds"`
	CPUInfo       CPUInfo           `json:"cpu" doc:"CPU load information"`
	Memory        MemoryInfo        `json:"memory" doc:"Memory usage information"`
	Components    HealthComponents  `json:"components" doc:"Per-component health"`
	Checks        map[string]string `json:"checks" doc:"Simple pass/fail component checks"`
}

// CPUInfo holds CPU load information.
type CPUInfo struct {
	Cores              int     `json:"cores" doc:"Number of CPU cores"`
	Load1Min           float64 `json:"load_1min" doc:"1 minute load average"`
	Load5Min           float64 `json:"load_5min" doc:"5 minute load average"`
	Load15Min          float64 `json:"load_15min" doc:"15 minute load average"`
	LoadPercentage1Min float64 `json:"load_percentage_1min" doc:"1 minute load as a percentage of cores"`
}

// MemoryInfo holds system and process memory usage.
type MemoryInfo struct {
	TotalMemoryMB     float64 `json:"total_memory_mb" doc:"Total system memory in MB"`
	UsedMemoryMB      float64 `json:"used_memory_mb" doc:"Used system memory in MB"`
	AvailableMemoryMB float64 `json:"available_memory_mb" doc:"Available system memory in MB"`
	ProcessMemoryMB   float64 `json:"process_memory_mb" doc:"Resident memory of this process in MB"`
}

// HealthComponents holds per-component health details.
type HealthComponents struct {
	Database DatabaseHealth `json:"database" doc:"Database health"`
	Router   RouterHealth   `json:"router" doc:"Routing engine health"`
}

// DatabaseHealth holds database connectivity details.
type DatabaseHealth struct {
	Status             string  `json:"status" doc:"Database status (ok, error, unknown)"`
	ResponseTimeMS     float64 `json:"response_time_ms" doc:"Ping round-trip in milliseconds"`
	ConnectionPoolSize int     `json:"connection_pool_size" doc:"Maximum open connections"`
	ActiveConnections  int     `json:"active_connections" doc:"Connections currently in use"`
	IdleConnections    int     `json:"idle_connections" doc:"Idle connections"`
}

// RouterHealth reports the state of the rule snapshot cache.
type RouterHealth struct {
	Status      string `json:"status" doc:"Routing engine status"`
	SnapshotAge string `json:"snapshot_age,omitempty" doc:"Age of the rule snapshot, empty before the first refresh"`
	Evaluators  int    `json:"evaluators" doc:"Number of enabled evaluators"`
}
