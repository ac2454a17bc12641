package dispatch

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dshills/eloud/internal/command"
)

// Registry tracks which operations currently have narration wrappers
// installed, keeping the original functions for restoration.
// Install and Uninstall are idempotent and order-independent across the
// binding set. Safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	installed map[string]command.Func // op ID -> original function
}

// NewRegistry creates an empty interception registry.
func NewRegistry() *Registry {
	return &Registry{
		installed: make(map[string]command.Func),
	}
}

// Install swaps wrapped in for each binding's operation. A binding whose
// operation is already intercepted is skipped (double install is a
// no-op); one whose operation the host does not know is logged and
// skipped.
func (r *Registry) Install(cmds *command.Registry, bindings []Binding, wrap func(Binding) command.Func) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range bindings {
		if _, ok := r.installed[b.Op]; ok {
			continue
		}
		orig, err := cmds.Swap(b.Op, wrap(b))
		if err != nil {
			log.Warn("cannot intercept operation", "op", b.Op, "err", err)
			continue
		}
		r.installed[b.Op] = orig
	}
}

// Uninstall restores the original function for every intercepted
// operation. Safe to call when nothing is installed.
func (r *Registry) Uninstall(cmds *command.Registry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for op, orig := range r.installed {
		cmds.Restore(op, orig)
		delete(r.installed, op)
	}
}

// Original returns the saved original function for an operation, or nil
// if the operation is not intercepted.
func (r *Registry) Original(op string) command.Func {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.installed[op]
}

// Count returns the number of intercepted operations.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.installed)
}
