// Package plugin lets users script custom narration in Lua.
//
// A script defines a global function:
//
//	function narrate(pre, post, text)
//	    return "spoken text"
//	end
//
// pre and post are the cursor byte offsets around the wrapped
// operation, text is the full buffer content. Returning an empty
// string (or nil) keeps the operation silent. Script errors disable
// speech for that invocation only; editing is never affected.
package plugin

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/eloud/internal/command"
	"github.com/dshills/eloud/internal/engine/cursor"
	"github.com/dshills/eloud/internal/narrate"
)

// narrateFn is the global function a narration script must define.
const narrateFn = "narrate"

// LuaExtractor adapts a Lua narration script to a narrate.Extractor.
// The underlying Lua state is not goroutine-safe; calls are serialized.
type LuaExtractor struct {
	mu sync.Mutex
	ls *lua.LState
}

// NewLuaExtractor compiles a narration script from source.
func NewLuaExtractor(source string) (*LuaExtractor, error) {
	ls := lua.NewState()
	if err := ls.DoString(source); err != nil {
		ls.Close()
		return nil, fmt.Errorf("plugin: loading narration script: %w", err)
	}

	if ls.GetGlobal(narrateFn).Type() != lua.LTFunction {
		ls.Close()
		return nil, fmt.Errorf("plugin: script does not define %s()", narrateFn)
	}

	return &LuaExtractor{ls: ls}, nil
}

// LoadLuaExtractor compiles a narration script from a file.
func LoadLuaExtractor(path string) (*LuaExtractor, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plugin: reading narration script: %w", err)
	}
	return NewLuaExtractor(string(source))
}

// Extract implements narrate.Extractor for the loaded script.
func (x *LuaExtractor) Extract(pre, post cursor.Selection, ctx *command.Context) narrate.Narration {
	x.mu.Lock()
	defer x.mu.Unlock()

	err := x.ls.CallByParam(lua.P{
		Fn:      x.ls.GetGlobal(narrateFn),
		NRet:    1,
		Protect: true,
	}, lua.LNumber(pre.Cursor()), lua.LNumber(post.Cursor()), lua.LString(ctx.Buffer.Text()))
	if err != nil {
		log.Error("narration script failed", "err", err)
		return narrate.Narration{}
	}

	ret := x.ls.Get(-1)
	x.ls.Pop(1)

	text, ok := ret.(lua.LString)
	if !ok {
		return narrate.Narration{}
	}
	return narrate.Narration{Text: string(text)}
}

// Close releases the Lua state.
func (x *LuaExtractor) Close() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.ls.Close()
}

// Extractor returns the script as a narrate.Extractor.
func (x *LuaExtractor) Extractor() narrate.Extractor {
	return x.Extract
}
