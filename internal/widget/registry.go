package widget

import (
	"sync"
	"time"
)

type entry struct {
	widget   *Widget
	lastSeen time.Time
}

// Registry keeps one widget per browser session.
type Registry struct {
	mu      sync.Mutex
	widgets map[string]*entry
	factory func() *Widget
	idleTTL time.Duration
	now     func() time.Time
}

func NewRegistry(factory func() *Widget, idleTTL time.Duration) *Registry {
	return &Registry{
		widgets: make(map[string]*entry),
		factory: factory,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Get returns the session's widget, creating it on first use.
func (r *Registry) Get(sessionID string) *Widget {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.widgets[sessionID]
	if !ok {
		e = &entry{widget: r.factory()}
		r.widgets[sessionID] = e
	}
	e.lastSeen = r.now()
	return e.widget
}

// Remove tears down and forgets the session's widget.
func (r *Registry) Remove(sessionID string) bool {
	r.mu.Lock()
	e, ok := r.widgets[sessionID]
	delete(r.widgets, sessionID)
	r.mu.Unlock()

	if ok {
		e.widget.Close()
	}
	return ok
}

// Sweep tears down widgets unseen for longer than the idle TTL and returns
// how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var stale []*Widget
	for id, e := range r.widgets {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e.widget)
			delete(r.widgets, id)
		}
	}
	r.mu.Unlock()

	for _, w := range stale {
		w.Close()
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.widgets)
}

// Close tears down every widget.
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.widgets
	r.widgets = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range all {
		e.widget.Close()
	}
}
