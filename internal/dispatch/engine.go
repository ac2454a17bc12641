package dispatch

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dshills/eloud/internal/command"
	"github.com/dshills/eloud/internal/narrate"
	"github.com/dshills/eloud/internal/speech"
)

// Status announcements spoken on toggle.
const (
	AnnounceOn  = "eloud on"
	AnnounceOff = "eloud off"
)

// DefaultRefreshDelay is how long the post-refresh hook waits before
// narrating, letting the host finish redrawing first.
const DefaultRefreshDelay = 200 * time.Millisecond

// State is the engine's install state.
type State uint8

const (
	// StateUninstalled means no bindings are routed through the engine.
	StateUninstalled State = iota
	// StateInstalled means every binding is routed through the engine.
	StateInstalled
)

// String returns a human-readable state name.
func (s State) String() string {
	if s == StateInstalled {
		return "installed"
	}
	return "uninstalled"
}

// Speaker is the speech surface the engine talks to.
// *speech.Speaker satisfies it; tests substitute a recorder.
type Speaker interface {
	Speak(req speech.Request)
}

// Engine orchestrates interception and narration.
//
// Enable and Disable are driven by a single external toggle signal; the
// engine does not distinguish "toggle" from "enable". Both transitions
// are idempotent apart from re-announcing status, so a toggle invoked
// twice in the same direction cannot double-install.
type Engine struct {
	mu       sync.Mutex
	state    State
	cmds     *command.Registry
	ctx      *command.Context
	registry *Registry
	bindings []Binding
	speaker  Speaker

	refreshDelay time.Duration
	refreshTimer *time.Timer
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithBindings overrides the default interception table.
func WithBindings(bindings []Binding) EngineOption {
	return func(e *Engine) {
		e.bindings = bindings
	}
}

// WithRefreshDelay sets the settling delay for the post-refresh hook.
func WithRefreshDelay(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d >= 0 {
			e.refreshDelay = d
		}
	}
}

// NewEngine creates an engine over the host's command registry and
// editing context. The engine starts uninstalled.
func NewEngine(cmds *command.Registry, ctx *command.Context, speaker Speaker, opts ...EngineOption) *Engine {
	e := &Engine{
		state:        StateUninstalled,
		cmds:         cmds,
		ctx:          ctx,
		registry:     NewRegistry(),
		bindings:     DefaultBindings(),
		speaker:      speaker,
		refreshDelay: DefaultRefreshDelay,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// State returns the current install state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Enabled returns true if bindings are installed.
func (e *Engine) Enabled() bool {
	return e.State() == StateInstalled
}

// Registry returns the interception registry, for inspection.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Enable installs every binding and announces the engine is on.
// Calling Enable while already enabled re-announces without
// reinstalling.
func (e *Engine) Enable() {
	e.mu.Lock()
	e.registry.Install(e.cmds, e.bindings, e.wrap)
	e.state = StateInstalled
	e.mu.Unlock()

	log.Info("narration enabled", "bindings", e.registry.Count())
	e.speaker.Speak(speech.NewRequest(AnnounceOn))
}

// Disable restores unmodified routing and announces the engine is off.
// Calling Disable while already disabled performs no uninstall work.
func (e *Engine) Disable() {
	e.mu.Lock()
	e.registry.Uninstall(e.cmds)
	e.state = StateUninstalled
	if e.refreshTimer != nil {
		e.refreshTimer.Stop()
		e.refreshTimer = nil
	}
	e.mu.Unlock()

	log.Info("narration disabled")
	e.speaker.Speak(speech.NewRequest(AnnounceOff))
}

// Toggle drives the engine from the host's boolean narration flag.
// The flag value alone determines direction.
func (e *Engine) Toggle(on bool) {
	if on {
		e.Enable()
	} else {
		e.Disable()
	}
}

// wrap builds the interception wrapper for one binding.
func (e *Engine) wrap(b Binding) command.Func {
	return func(ctx *command.Context) error {
		orig := e.registry.Original(b.Op)
		if orig == nil {
			// Raced with uninstall; nothing left to wrap.
			return command.ErrUnknownOperation
		}

		switch b.Mode {
		case WrapBefore:
			e.narrate(b.Extractor(ctx.Sel, ctx.Sel, ctx))
			return orig(ctx)

		case Replace:
			n := b.Extractor(ctx.Sel, ctx.Sel, ctx)
			e.narrate(n)
			if n.Boundary {
				return nil
			}
			return orig(ctx)

		default: // WrapAfter
			pre := ctx.Sel
			if err := orig(ctx); err != nil {
				return err
			}
			e.narrate(b.Extractor(pre, ctx.Sel, ctx))
			return nil
		}
	}
}

// narrate converts an extraction into a speech request.
func (e *Engine) narrate(n narrate.Narration) {
	if n.IsSilent() {
		return
	}

	req := speech.Request{
		Text:        n.Text,
		CancelPrior: !n.KeepPrior,
	}
	if n.Punctuation {
		req.ExtraFlags = append(req.ExtraFlags, speech.PunctFlag)
	}
	e.speaker.Speak(req)
}

// NotifyRefresh is the auxiliary post-refresh listener. After the host
// redraws, the rest of the current line is narrated once the refresh
// delay elapses. Repeated notifications within the delay coalesce into
// one narration, each replacing the previous snapshot. No-op while
// disabled.
//
// The extraction runs here, on the caller's goroutine; the timer
// goroutine only speaks the captured value. The editing context is
// owned by the host loop and must not be read from the timer.
func (e *Engine) NotifyRefresh() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateInstalled {
		return
	}

	n := narrate.RestOfLine(e.ctx.Sel, e.ctx.Sel, e.ctx)
	if e.refreshTimer != nil {
		e.refreshTimer.Stop()
	}
	e.refreshTimer = time.AfterFunc(e.refreshDelay, func() {
		e.narrate(n)
	})
}
