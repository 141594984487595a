package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
)

// Registry maps type tags to implementations. Lookups through Resolve never
// fail: unknown tags return the mandatory fallback. Registries are built
// once per flow and read-only afterwards.
type Registry[T any] struct {
	mu       sync.RWMutex
	kind     string
	entries  map[string]T
	fallback T
}

// NewRegistry creates a registry for the given kind ("field", "page", ...)
// with its fallback implementation.
func NewRegistry[T any](kind string, fallback T) *Registry[T] {
	return &Registry[T]{
		kind:     kind,
		entries:  make(map[string]T),
		fallback: fallback,
	}
}

// Register adds an entry by tag. Duplicate tags return an error.
func (r *Registry[T]) Register(tag string, entry T) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("render: %s tag is required", r.kind)
	}
	if isNil(entry) {
		return fmt.Errorf("render: %s %q implementation is required", r.kind, tag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[tag]; exists {
		return fmt.Errorf("render: %s %q already registered", r.kind, tag)
	}
	r.entries[tag] = entry
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry[T]) MustRegister(tag string, entry T) {
	if err := r.Register(tag, entry); err != nil {
		panic(err)
	}
}

// Override sets an entry, replacing any existing one.
func (r *Registry[T]) Override(tag string, entry T) {
	tag = strings.TrimSpace(tag)
	if tag == "" || isNil(entry) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[tag] = entry
}

// Merge returns a new registry holding r's entries with overrides applied
// on top. Host entries win on collision.
func (r *Registry[T]) Merge(overrides map[string]T) *Registry[T] {
	r.mu.RLock()
	out := NewRegistry(r.kind, r.fallback)
	for tag, entry := range r.entries {
		out.entries[tag] = entry
	}
	r.mu.RUnlock()

	for tag, entry := range overrides {
		out.Override(tag, entry)
	}
	return out
}

// Get retrieves an entry by tag.
func (r *Registry[T]) Get(tag string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[strings.TrimSpace(tag)]
	if !ok {
		var zero T
		return zero, fmt.Errorf("render: %s %q not found", r.kind, tag)
	}
	return entry, nil
}

// Resolve returns the entry for tag or the fallback.
func (r *Registry[T]) Resolve(tag string) T {
	if entry, err := r.Get(tag); err == nil {
		return entry
	}
	return r.fallback
}

// Fallback returns the implementation used for unknown tags.
func (r *Registry[T]) Fallback() T {
	return r.fallback
}

// List returns the sorted registered tags.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.entries))
	for tag := range r.entries {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Has reports whether tag is registered.
func (r *Registry[T]) Has(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[strings.TrimSpace(tag)]
	return ok
}

// Suggest returns the registered tag closest to tag, or "" when nothing is
// reasonably close.
func (r *Registry[T]) Suggest(tag string) string {
	return Closest(tag, r.List())
}

// Closest returns the candidate with the smallest edit distance to input,
// provided the distance is small relative to the input length.
func Closest(input string, candidates []string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	limit := len(input) / 3
	if limit < 2 {
		limit = 2
	}
	best, bestDist := "", limit+1
	for _, candidate := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(input), strings.ToLower(candidate))
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch fn := v.(type) {
	case FieldRendererFunc:
		return fn == nil
	case PageRendererFunc:
		return fn == nil
	}
	return false
}
