package command

import (
	"github.com/dshills/eloud/internal/engine/buffer"
	"github.com/dshills/eloud/internal/engine/cursor"
)

// Context carries the host state an operation acts on, plus per-invocation
// result fields operations fill for the narration layer.
type Context struct {
	// Buffer is the text buffer being edited.
	Buffer *buffer.Buffer

	// Sel is the current cursor/selection. Operations mutate it in place.
	Sel cursor.Selection

	// Input is the text payload for insert-style operations
	// (the typed character for self-insert, the prompt answer for prompts).
	Input string

	// Prompt is the prompt text for value-prompting operations.
	// Set by the caller before invocation.
	Prompt string

	// Completed reports whether a completion operation found candidates.
	Completed bool

	// Candidates holds the remaining completion candidates when a
	// completion did not resolve to a unique word.
	Candidates []string
}

// NewContext creates a context over the given buffer with the cursor at 0.
func NewContext(buf *buffer.Buffer) *Context {
	return &Context{
		Buffer: buf,
		Sel:    cursor.NewCursor(0),
	}
}

// resetResults clears per-invocation result fields before an operation runs.
// Input and Prompt are caller-supplied and survive until the next Invoke
// sets them.
func (c *Context) resetResults() {
	c.Completed = false
	c.Candidates = nil
}

// Cursor returns the current cursor offset (the selection head).
func (c *Context) Cursor() buffer.ByteOffset {
	return c.Sel.Cursor()
}

// MoveTo collapses the selection to a cursor at the given offset,
// clamped to the buffer.
func (c *Context) MoveTo(offset buffer.ByteOffset) {
	c.Sel = c.Sel.MoveTo(offset).Clamp(c.Buffer.Len())
}
