// Package command provides the host environment's operation routing surface.
//
// Every editing operation the host exposes lives in a Registry keyed by
// operation ID. The narration layer intercepts operations by swapping a
// wrapper into the table and restoring the original on uninstall; invoking
// an operation always runs whatever function is currently installed.
package command

import (
	"sort"
	"sync"
)

// Func is an editing operation. It mutates the context's buffer and
// selection and returns the host's own error, if any.
type Func func(ctx *Context) error

// Registry maps operation IDs to their currently installed functions.
// It is safe for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Func
}

// NewRegistry creates an empty operation registry.
func NewRegistry() *Registry {
	return &Registry{
		ops: make(map[string]Func),
	}
}

// Register adds or replaces the operation for an ID.
func (r *Registry) Register(id string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[id] = fn
}

// Get returns the currently installed function for an ID.
// Returns nil if the operation is unknown.
func (r *Registry) Get(id string) Func {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ops[id]
}

// Swap installs fn for the given ID and returns the previously installed
// function. Returns ErrUnknownOperation if no operation exists for the ID;
// unknown operations cannot be intercepted.
func (r *Registry) Swap(id string, fn Func) (Func, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orig, ok := r.ops[id]
	if !ok {
		return nil, ErrUnknownOperation
	}
	r.ops[id] = fn
	return orig, nil
}

// Restore puts a previously swapped-out function back for the given ID.
func (r *Registry) Restore(id string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[id] = fn
}

// Invoke runs the currently installed function for an ID.
// The operation's own error propagates unchanged.
func (r *Registry) Invoke(id string, ctx *Context) error {
	fn := r.Get(id)
	if fn == nil {
		return ErrUnknownOperation
	}

	ctx.resetResults()
	return fn(ctx)
}

// Has returns true if an operation is registered for the ID.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ops[id]
	return ok
}

// List returns all registered operation IDs, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.ops))
	for id := range r.ops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered operations.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops)
}
