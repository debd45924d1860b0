package client

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

// Session defaults
const (
	DefaultDebounce    = 300 * time.Millisecond
	DefaultResultLimit = 6
)

// FailureMessage is the only error text a shopper ever sees
const FailureMessage = "Search failed. Please try again."

// State is the display state of a Session
type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateSearching
	StateDisplaying
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateSearching:
		return "searching"
	case StateDisplaying:
		return "displaying"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// View is a snapshot of what the search modal renders
type View struct {
	State            State
	Query            string
	Results          []domain.SearchHit
	ProcessingTimeMs int64
	Error            string
}

// SessionConfig holds configuration for a Session
type SessionConfig struct {
	Debounce time.Duration
	Limit    int
	// OnChange receives applied views one at a time, in order. A view that
	// has been superseded by the time it would be delivered is dropped, and
	// nothing is delivered once Close returns. OnChange must not call back
	// into the Session.
	OnChange func(View)
	Logger   *slog.Logger
}

// Session debounces query input and applies only the response of the most
// recently issued request. Each input bumps a sequence number; a response
// is applied only while its sequence number is still current.
type Session struct {
	searcher Searcher
	debounce time.Duration
	limit    int
	onChange func(View)
	logger   *slog.Logger

	mu      sync.Mutex
	seq     uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	closed  bool
	view    View
	version uint64 // bumped on every view change

	// serializes OnChange delivery
	notifyMu sync.Mutex
}

// NewSession creates a Session in the idle state
func NewSession(searcher Searcher, cfg SessionConfig) *Session {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultResultLimit
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		searcher: searcher,
		debounce: cfg.Debounce,
		limit:    cfg.Limit,
		onChange: cfg.OnChange,
		logger:   logger,
		view:     View{State: StateIdle, Results: []domain.SearchHit{}},
	}
}

// OnQueryChange handles a keystroke. It invalidates any pending or
// in-flight search and schedules a new one after the debounce delay.
func (s *Session) OnQueryChange(text string) {
	query := strings.TrimSpace(text)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	s.stopLocked()

	if utf8.RuneCountInString(query) < MinQueryLength {
		version, view := s.setViewLocked(View{State: StateIdle, Query: query, Results: []domain.SearchHit{}})
		s.mu.Unlock()
		s.notify(version, view)
		return
	}

	next := s.view
	next.State = StateDebouncing
	next.Query = query
	version, view := s.setViewLocked(next)
	s.timer = time.AfterFunc(s.debounce, func() { s.run(seq, query) })
	s.mu.Unlock()

	s.notify(version, view)
}

// Close cancels the debounce timer and any in-flight request. Nothing is
// applied after Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.seq++
	s.stopLocked()
	s.setViewLocked(View{State: StateIdle, Results: []domain.SearchHit{}})
	s.mu.Unlock()

	// wait out a delivery already in progress
	s.notifyMu.Lock()
	s.notifyMu.Unlock()
}

// View returns the current display state
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyView(s.view)
}

func (s *Session) run(seq uint64, query string) {
	s.mu.Lock()
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.timer = nil
	next := s.view
	next.State = StateSearching
	version, view := s.setViewLocked(next)
	s.mu.Unlock()
	s.notify(version, view)

	result, err := s.searcher.Search(ctx, query, s.limit, 0)
	cancel()

	s.mu.Lock()
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		s.logger.Debug("discarding stale search response", "query", query, "seq", seq)
		return
	}
	s.cancel = nil
	switch {
	case err != nil:
		s.logger.Error("search failed", "query", query, "error", err)
		next = View{State: StateError, Query: query, Results: []domain.SearchHit{}, Error: FailureMessage}
	case result == nil:
		next = View{State: StateDisplaying, Query: query, Results: []domain.SearchHit{}}
	default:
		next = View{
			State:            StateDisplaying,
			Query:            query,
			Results:          result.Hits,
			ProcessingTimeMs: result.ProcessingTimeMs,
		}
	}
	version, view = s.setViewLocked(next)
	s.mu.Unlock()

	s.notify(version, view)
}

// setViewLocked replaces the view and returns its version with a copy
func (s *Session) setViewLocked(v View) (uint64, View) {
	s.view = v
	s.version++
	return s.version, copyView(v)
}

// stopLocked cancels the pending timer and in-flight request
func (s *Session) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// notify delivers view unless a newer one has been applied since or the
// session is closed.
func (s *Session) notify(version uint64, view View) {
	if s.onChange == nil {
		return
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	current := !s.closed && version == s.version
	s.mu.Unlock()
	if current {
		s.onChange(view)
	}
}

func copyView(v View) View {
	v.Results = append([]domain.SearchHit(nil), v.Results...)
	if v.Results == nil {
		v.Results = []domain.SearchHit{}
	}
	return v
}
