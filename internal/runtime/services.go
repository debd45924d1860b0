package runtime

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driven"
)

// Services holds references to optionally registered capabilities.
// The search capability may be registered, replaced or removed at any time.
// Thread-safe for concurrent access.
type Services struct {
	mu sync.RWMutex

	// Dynamic services (can be nil, updated at runtime)
	searchCapability driven.SearchCapability
	capabilityName   string
}

// NewServices creates an empty Services registry
func NewServices() *Services {
	return &Services{}
}

// SearchCapability returns the current search capability (may be nil)
func (s *Services) SearchCapability() driven.SearchCapability {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchCapability
}

// ResolveSearchCapability returns the registered search capability, or an
// error wrapping domain.ErrPrimaryUnavailable when none is registered.
func (s *Services) ResolveSearchCapability() (driven.SearchCapability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.searchCapability == nil {
		return nil, fmt.Errorf("resolve searchService: %w", domain.ErrPrimaryUnavailable)
	}
	return s.searchCapability, nil
}

// RegisterSearchCapability registers (or replaces) the search capability.
// Passing nil unregisters it.
func (s *Services) RegisterSearchCapability(name string, capability driven.SearchCapability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCapability = capability
	if capability == nil {
		s.capabilityName = ""
		return
	}
	s.capabilityName = name
}

// SearchCapabilityName returns the name the capability was registered under
func (s *Services) SearchCapabilityName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capabilityName
}

// HasSearchCapability reports whether a capability is registered
func (s *Services) HasSearchCapability() bool {
	return s.SearchCapability() != nil
}
