package provider

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// Settings carries per-source construction options that are not credentials.
type Settings struct {
	// BaseURL overrides the provider's API endpoint. Empty means the public default.
	BaseURL string

	// HTTPClient overrides the transport. Nil means the adapter's default.
	HTTPClient *http.Client
}

// Factory builds an adapter instance for one configured source.
type Factory func(settings Settings) (Adapter, error)

// Registry maps provider type tags to adapter factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under tag.
// Returns an error if the tag is empty or already registered.
func (r *Registry) Register(tag string, f Factory) error {
	tag = normalizeTag(tag)
	if tag == "" || f == nil {
		return fmt.Errorf("invalid provider registration: %q", tag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[tag]; exists {
		return fmt.Errorf("provider already registered: %s", tag)
	}
	r.factories[tag] = f
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(tag string, f Factory) {
	if err := r.Register(tag, f); err != nil {
		panic(err)
	}
}

// Build looks up tag and constructs an adapter.
func (r *Registry) Build(tag string, settings Settings) (Adapter, error) {
	r.mu.RLock()
	f, ok := r.factories[normalizeTag(tag)]
	r.mu.RUnlock()

	if !ok {
		return nil, ConfigError("unknown provider type: %s", tag)
	}
	a, err := f(settings)
	if err != nil {
		return nil, fmt.Errorf("building %s adapter: %w", tag, err)
	}
	return a, nil
}

// Tags returns all registered tags sorted by name.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
