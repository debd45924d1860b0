// Package telemetry keeps a bounded history of search observations and
// derives rolling performance aggregates from it.
package telemetry

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

// Defaults for RecorderConfig
const (
	DefaultCapacity      = 1000
	DefaultAverageWindow = 100
	DefaultPopularWindow = 500
	DefaultPopularLimit  = 10
	DefaultSlowQueryMs   = 300
	DefaultSlowWarningMs = 500
)

// RecorderConfig holds configuration for a Recorder
type RecorderConfig struct {
	Capacity      int   // observations retained (FIFO)
	AverageWindow int   // most recent observations averaged
	PopularWindow int   // most recent observations scanned for popular queries
	PopularLimit  int   // popular queries returned
	SlowQueryMs   int64 // counted as slow when strictly above
	SlowWarningMs int64 // logged at warn level when strictly above
	Logger        *slog.Logger
}

// DefaultRecorderConfig returns the standard telemetry configuration
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		Capacity:      DefaultCapacity,
		AverageWindow: DefaultAverageWindow,
		PopularWindow: DefaultPopularWindow,
		PopularLimit:  DefaultPopularLimit,
		SlowQueryMs:   DefaultSlowQueryMs,
		SlowWarningMs: DefaultSlowWarningMs,
	}
}

// Recorder is a fixed-capacity ring buffer of search observations.
// Record is safe for concurrent use; Stats is recomputed on every call.
type Recorder struct {
	mu    sync.Mutex
	buf   []domain.SearchObservation
	start int // index of the oldest observation
	size  int

	cfg    RecorderConfig
	logger *slog.Logger
}

// NewRecorder creates a Recorder. Zero config fields take their defaults.
func NewRecorder(cfg RecorderConfig) *Recorder {
	def := DefaultRecorderConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.AverageWindow <= 0 {
		cfg.AverageWindow = def.AverageWindow
	}
	if cfg.PopularWindow <= 0 {
		cfg.PopularWindow = def.PopularWindow
	}
	if cfg.PopularLimit <= 0 {
		cfg.PopularLimit = def.PopularLimit
	}
	if cfg.SlowQueryMs <= 0 {
		cfg.SlowQueryMs = def.SlowQueryMs
	}
	if cfg.SlowWarningMs <= 0 {
		cfg.SlowWarningMs = def.SlowWarningMs
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Recorder{
		buf:    make([]domain.SearchObservation, cfg.Capacity),
		cfg:    cfg,
		logger: logger,
	}
}

// Record appends an observation, evicting the oldest when full.
func (r *Recorder) Record(obs domain.SearchObservation) {
	r.mu.Lock()
	if r.size == len(r.buf) {
		// overwrite the oldest slot and advance
		r.buf[r.start] = obs
		r.start = (r.start + 1) % len(r.buf)
	} else {
		r.buf[(r.start+r.size)%len(r.buf)] = obs
		r.size++
	}
	r.mu.Unlock()

	if obs.ProcessingTimeMs > r.cfg.SlowWarningMs {
		r.logger.Warn("slow search detected",
			"query", obs.Query,
			"processing_time_ms", obs.ProcessingTimeMs,
			"path", obs.Path)
	}
}

// Len returns the number of retained observations
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Snapshot returns the retained observations, oldest first
func (r *Recorder) Snapshot() []domain.SearchObservation {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.SearchObservation, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

// Stats computes aggregates over the current history
func (r *Recorder) Stats() domain.SearchStats {
	history := r.Snapshot()
	return domain.SearchStats{
		TotalSearches:       len(history),
		AverageResponseTime: averageResponseTime(tail(history, r.cfg.AverageWindow)),
		SlowQueryCount:      slowQueryCount(history, r.cfg.SlowQueryMs),
		PopularQueries:      popularQueries(tail(history, r.cfg.PopularWindow), r.cfg.PopularLimit),
	}
}

func tail(history []domain.SearchObservation, n int) []domain.SearchObservation {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// averageResponseTime is the mean processing time rounded half away from zero
func averageResponseTime(window []domain.SearchObservation) int64 {
	if len(window) == 0 {
		return 0
	}
	var total int64
	for _, obs := range window {
		total += obs.ProcessingTimeMs
	}
	n := int64(len(window))
	return (2*total + n) / (2 * n)
}

func slowQueryCount(history []domain.SearchObservation, thresholdMs int64) int {
	count := 0
	for _, obs := range history {
		if obs.ProcessingTimeMs > thresholdMs {
			count++
		}
	}
	return count
}

// popularQueries groups by lower-cased trimmed query and returns the most
// frequent ones; equal counts keep first-seen order.
func popularQueries(window []domain.SearchObservation, limit int) []domain.PopularQuery {
	index := make(map[string]int)
	popular := []domain.PopularQuery{}
	for _, obs := range window {
		key := strings.ToLower(strings.TrimSpace(obs.Query))
		if i, ok := index[key]; ok {
			popular[i].Count++
			continue
		}
		index[key] = len(popular)
		popular = append(popular, domain.PopularQuery{Query: key, Count: 1})
	}

	sort.SliceStable(popular, func(i, j int) bool {
		return popular[i].Count > popular[j].Count
	})

	if len(popular) > limit {
		popular = popular[:limit]
	}
	return popular
}
