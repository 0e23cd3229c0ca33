package resume

import (
	"context"
	"sync"
	"time"
)

// DefaultIdleTimeout is used when a Registry is built with a non-positive
// idle timeout.
const DefaultIdleTimeout = 30 * time.Minute

type session struct {
	sel      *Selector
	lastSeen time.Time
}

// Registry keeps one Selector per browser session.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	idle     time.Duration
	now      func() time.Time
	opts     []SelectorOption
	onCreate func(id string, sel *Selector)
}

// NewRegistry returns a registry that evicts sessions idle for longer than
// idle. opts are applied to every selector it creates.
func NewRegistry(idle time.Duration, opts ...SelectorOption) *Registry {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Registry{
		sessions: make(map[string]*session),
		idle:     idle,
		now:      time.Now,
		opts:     opts,
	}
}

// OnCreate registers a hook called for every new session's selector.
func (r *Registry) OnCreate(fn func(id string, sel *Selector)) {
	r.mu.Lock()
	r.onCreate = fn
	r.mu.Unlock()
}

// Get returns the selector for id, creating a closed one on first use.
func (r *Registry) Get(id string) *Selector {
	r.mu.Lock()
	now := r.now()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = now
		r.mu.Unlock()
		return s.sel
	}
	sel := NewSelector(r.opts...)
	r.sessions[id] = &session{sel: sel, lastSeen: now}
	hook := r.onCreate
	r.mu.Unlock()

	if hook != nil {
		hook(id, sel)
	}
	return sel
}

// Lookup returns the selector for id without creating or touching it.
func (r *Registry) Lookup(id string) (*Selector, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return s.sel, true
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts idle sessions and returns how many were removed. Evicted
// selectors are closed so no auto-close outlives its session.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	cutoff := r.now().Add(-r.idle)
	var evicted []*Selector
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			evicted = append(evicted, s.sel)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, sel := range evicted {
		sel.Close()
	}
	return len(evicted)
}

// Run sweeps on a fixed interval until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	interval := r.idle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
