package redis

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.RedisProber = (*HealthProber)(nil)

// HealthProber pings one Redis instance and reads its INFO reply
type HealthProber struct {
	client redis.UniversalClient
	url    string
}

// NewHealthProber creates a prober; rawURL is reported with the password redacted
func NewHealthProber(client redis.UniversalClient, rawURL string) *HealthProber {
	return &HealthProber{client: client, url: RedactURL(rawURL)}
}

// Probe returns connected when PING succeeds. INFO is best effort.
func (p *HealthProber) Probe(ctx context.Context) (*domain.RedisServiceHealth, error) {
	health := &domain.RedisServiceHealth{
		Status: domain.ConnectionDisconnected,
		URL:    p.url,
	}

	if err := p.client.Ping(ctx).Err(); err != nil {
		return health, fmt.Errorf("ping: %w", err)
	}
	health.Status = domain.ConnectionConnected

	if raw, err := p.client.Info(ctx).Result(); err == nil {
		health.Info = parseServerInfo(raw)
	}
	return health, nil
}

// parseServerInfo extracts the fields surfaced by health checks from an
// INFO reply ("key:value" lines, "#" section headers).
func parseServerInfo(raw string) *domain.RedisInfo {
	info := &domain.RedisInfo{}
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch key {
		case "redis_version":
			info.Version = value
		case "redis_mode":
			info.Mode = value
		case "uptime_in_seconds":
			info.UptimeSeconds = value
		case "connected_clients":
			info.ConnectedClients = value
		case "used_memory_human":
			info.UsedMemoryHuman = value
		}
	}
	return info
}
