package domain

import "time"

// HealthStatus is the overall state of a health check
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// Connection states reported per service
const (
	ConnectionConnected    = "connected"
	ConnectionDisconnected = "disconnected"
)

// RedisInfo holds the INFO server fields surfaced by health checks
type RedisInfo struct {
	Version          string `json:"redis_version,omitempty"`
	Mode             string `json:"redis_mode,omitempty"`
	UptimeSeconds    string `json:"uptime_in_seconds,omitempty"`
	ConnectedClients string `json:"connected_clients,omitempty"`
	UsedMemoryHuman  string `json:"used_memory_human,omitempty"`
}

// RedisServiceHealth is the probe result for one Redis instance
type RedisServiceHealth struct {
	Status string     `json:"status"`
	URL    string     `json:"url,omitempty"`
	Info   *RedisInfo `json:"info,omitempty"`
}

// Connected reports whether the probe reached the server
func (h RedisServiceHealth) Connected() bool {
	return h.Status == ConnectionConnected
}

// RedisHealthReport aggregates the event bus and workflow engine probes
type RedisHealthReport struct {
	Status         HealthStatus       `json:"status"`
	Timestamp      time.Time          `json:"timestamp"`
	EventBus       RedisServiceHealth `json:"eventBus"`
	WorkflowEngine RedisServiceHealth `json:"workflowEngine"`
	Errors         []string           `json:"errors"`
}

// Healthy reports whether both instances are reachable
func (r *RedisHealthReport) Healthy() bool {
	return r.Status == HealthStatusHealthy
}
