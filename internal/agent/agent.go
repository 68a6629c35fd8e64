// Package agent exposes the index to an orchestration layer through a
// single-operation capability contract.
package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"docindex/internal/domain"
)

// Payload is the free-form input handed to an agent.
type Payload map[string]any

// Result is the free-form output of an agent.
type Result map[string]any

// Agent is one capability of the pipeline.
type Agent interface {
	Name() string
	Run(ctx context.Context, payload Payload) (Result, error)
}

// Registry looks agents up by name.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]Agent
}

// NewRegistry creates a registry holding agents.
func NewRegistry(agents ...Agent) *Registry {
	r := &Registry{agents: make(map[string]Agent, len(agents))}
	for _, a := range agents {
		r.Register(a)
	}
	return r
}

// Register adds a, replacing any agent of the same name.
func (r *Registry) Register(a Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.Name()] = a
}

// Get returns the agent registered under name.
func (r *Registry) Get(name string) (Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAgent, name)
	}
	return a, nil
}

// Names returns the registered agent names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.agents))
	for n := range r.agents {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
