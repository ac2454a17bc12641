// Package app wires the demo host editor together: buffer, command
// registry, speech dispatch engine, and the terminal screen. It owns
// the application lifecycle and the key event loop.
package app

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/eloud/internal/command"
	"github.com/dshills/eloud/internal/config"
	"github.com/dshills/eloud/internal/dispatch"
	"github.com/dshills/eloud/internal/engine/buffer"
	"github.com/dshills/eloud/internal/plugin"
	"github.com/dshills/eloud/internal/speech"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the TOML configuration file.
	ConfigPath string

	// ScriptPath is an optional Lua narration script. When set, the
	// script customizes typing narration in place of the built-in
	// self-insert extractor.
	ScriptPath string

	// File is an optional file to load into the buffer on startup.
	File string

	// LogLevel overrides the configured logging verbosity.
	LogLevel string
}

// Application coordinates the demo host components and runs the
// main key event loop.
type Application struct {
	opts Options
	cfg  config.Config

	buf     *buffer.Buffer
	ctx     *command.Context
	cmds    *command.Registry
	speaker *speech.Speaker
	engine  *dispatch.Engine

	watcher *config.Watcher
	script  *plugin.LuaExtractor

	screen    tcell.Screen
	running   atomic.Bool
	closeOnce sync.Once
}

// New creates an Application from the given options. The terminal
// screen is attached separately via SetScreen so tests can inject a
// simulation screen.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("app: loading configuration: %w", err)
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	if lvl, err := log.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}

	buf := buffer.NewBuffer()
	if opts.File != "" {
		f, err := os.Open(opts.File)
		if err != nil {
			return nil, fmt.Errorf("app: opening %s: %w", opts.File, err)
		}
		buf, err = buffer.NewBufferFromReader(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("app: reading %s: %w", opts.File, err)
		}
	}

	cmds := command.NewRegistry()
	command.RegisterBuiltins(cmds)
	ctx := command.NewContext(buf)

	speakerOpts := []speech.Option{
		speech.WithRate(cfg.Rate),
		speech.WithSettleDelay(cfg.SettleDelay()),
	}
	if cfg.Synthesizer != "" {
		speakerOpts = append(speakerOpts, speech.WithSynthesizer(cfg.Synthesizer))
	}
	speaker := speech.NewSpeaker(speakerOpts...)

	app := &Application{
		opts:    opts,
		cfg:     cfg,
		buf:     buf,
		ctx:     ctx,
		cmds:    cmds,
		speaker: speaker,
	}

	bindings := dispatch.DefaultBindings()
	if opts.ScriptPath != "" {
		script, err := plugin.LoadLuaExtractor(opts.ScriptPath)
		if err != nil {
			return nil, err
		}
		app.script = script
		for i := range bindings {
			if bindings[i].Op == command.OpSelfInsert {
				bindings[i].Extractor = script.Extractor()
			}
		}
	}

	app.engine = dispatch.NewEngine(cmds, ctx, speaker,
		dispatch.WithBindings(bindings),
		dispatch.WithRefreshDelay(cfg.RefreshDelay()),
	)

	if opts.ConfigPath != "" {
		watcher, err := config.NewWatcher(opts.ConfigPath, app.applyConfig)
		if err != nil {
			log.Warn("configuration watching unavailable", "err", err)
		} else {
			app.watcher = watcher
		}
	}

	return app, nil
}

// SetScreen attaches the terminal screen used by Run.
func (a *Application) SetScreen(screen tcell.Screen) {
	a.screen = screen
}

// Engine exposes the dispatch engine, mainly for tests.
func (a *Application) Engine() *dispatch.Engine {
	return a.engine
}

// Buffer exposes the text buffer, mainly for tests.
func (a *Application) Buffer() *buffer.Buffer {
	return a.buf
}

// applyConfig is the configuration reload callback.
func (a *Application) applyConfig(cfg config.Config) {
	a.speaker.SetRate(cfg.Rate)
	if cfg.Synthesizer != "" {
		a.speaker.SetSynthesizer(cfg.Synthesizer)
	}
	log.Info("configuration reloaded", "rate", cfg.Rate)
}

// Run initializes the screen, enables speech, and processes key
// events until quit. Returns ErrQuit on a normal user-requested exit.
func (a *Application) Run() error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	if a.screen == nil {
		return ErrNoScreen
	}
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("app: initializing screen: %w", err)
	}

	a.engine.Enable()
	a.render()

	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventKey:
			if done := a.handleKey(ev); done {
				return ErrQuit
			}
			a.render()
			a.engine.NotifyRefresh()
		}
	}
}

// handleKey processes one key event. Returns true when the user
// requested exit.
func (a *Application) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyCtrlC:
		return true
	case tcell.KeyF5:
		a.engine.Toggle(!a.engine.Enabled())
		return false
	}

	ks, ok := resolveKey(ev)
	if !ok {
		return false
	}
	a.ctx.Input = ks.input
	if err := a.cmds.Invoke(ks.op, a.ctx); err != nil {
		log.Error("operation failed", "op", ks.op, "err", err)
	}
	return false
}

// render redraws the buffer and cursor.
func (a *Application) render() {
	a.screen.Clear()
	_, height := a.screen.Size()

	lines := a.buf.LineCount()
	for line := uint32(0); line < lines && int(line) < height; line++ {
		col := 0
		for _, r := range a.buf.LineText(line) {
			a.screen.SetContent(col, int(line), r, nil, tcell.StyleDefault)
			col++
		}
	}

	pt := a.buf.OffsetToPoint(a.ctx.Cursor())
	a.screen.ShowCursor(int(pt.Column), int(pt.Line))
	a.screen.Show()
}

// Shutdown releases all resources. Safe to call more than once and
// concurrently with Run.
func (a *Application) Shutdown() {
	a.closeOnce.Do(func() {
		a.engine.Disable()
		if a.watcher != nil {
			a.watcher.Close()
		}
		if a.script != nil {
			a.script.Close()
		}
		a.speaker.CancelActive()
		if a.screen != nil {
			a.screen.Fini()
		}
	})
}
