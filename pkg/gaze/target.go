package gaze

import (
	"sort"
	"sync"
)

// Target is something a pointer can dwell on
type Target struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Name returns the label, or the ID when no label is set
func (t *Target) Name() string {
	if t == nil {
		return ""
	}
	if t.Label != "" {
		return t.Label
	}
	return t.ID
}

// Registry interns targets so that each ID maps to one stable pointer.
// The focus tracker compares targets by identity, so candidates for the
// same ID must always be the same *Target.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]*Target
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]*Target)}
}

// Intern returns the target for id, creating it with label if needed.
// An existing target keeps its original label.
func (r *Registry) Intern(id, label string) *Target {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.targets[id]; ok {
		return t
	}
	t := &Target{ID: id, Label: label}
	r.targets[id] = t
	return t
}

// Get returns the target for id, or nil
func (r *Registry) Get(id string) *Target {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.targets[id]
}

// All returns the registered targets sorted by ID
func (r *Registry) All() []*Target {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Target, 0, len(r.targets))
	for _, t := range r.targets {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Len returns the number of registered targets
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.targets)
}
