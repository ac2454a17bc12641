package dispatch

import (
	"github.com/dshills/eloud/internal/command"
	"github.com/dshills/eloud/internal/narrate"
)

// Mode selects how a binding intercepts its operation.
type Mode uint8

const (
	// WrapAfter runs the original operation, then narrates.
	WrapAfter Mode = iota
	// WrapBefore narrates, then runs the original operation.
	WrapBefore
	// Replace narrates first and skips the original operation when the
	// extractor reports a boundary.
	Replace
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case WrapAfter:
		return "wrap-after"
	case WrapBefore:
		return "wrap-before"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}

// Binding associates a host operation with its narration policy.
// Bindings are pure data; the Engine applies a generic wrap at install
// time, so the binding set is inspectable without touching the host.
type Binding struct {
	// Op is the host operation ID to intercept.
	Op string

	// Extractor derives the text to speak.
	Extractor narrate.Extractor

	// Mode selects the interception style.
	Mode Mode
}

// DefaultBindings returns the static interception table covering the
// built-in editing operations. No binding depends on another having
// been installed first.
func DefaultBindings() []Binding {
	return []Binding{
		{Op: command.OpForwardChar, Extractor: narrate.CharAfter, Mode: WrapAfter},
		{Op: command.OpBackwardChar, Extractor: narrate.CharAtPoint, Mode: WrapAfter},
		{Op: command.OpForwardWord, Extractor: narrate.Difference, Mode: WrapAfter},
		{Op: command.OpBackwardWord, Extractor: narrate.Difference, Mode: WrapAfter},
		{Op: command.OpNextLine, Extractor: narrate.RestOfLine, Mode: WrapAfter},
		{Op: command.OpPrevLine, Extractor: narrate.RestOfLine, Mode: WrapAfter},
		{Op: command.OpLineStart, Extractor: narrate.RestOfLine, Mode: WrapAfter},
		{Op: command.OpLineEnd, Extractor: narrate.Difference, Mode: WrapAfter},
		{Op: command.OpBufferStart, Extractor: narrate.WholeBuffer, Mode: WrapAfter},
		{Op: command.OpBufferEnd, Extractor: narrate.Difference, Mode: WrapAfter},
		{Op: command.OpSelfInsert, Extractor: narrate.SelfInsert, Mode: WrapAfter},
		{Op: command.OpDeleteChar, Extractor: narrate.DeleteChar, Mode: Replace},
		{Op: command.OpKillLine, Extractor: narrate.KillLine, Mode: WrapBefore},
		{Op: command.OpCompleteWord, Extractor: narrate.Completion, Mode: WrapAfter},
		{Op: command.OpReadPrompt, Extractor: narrate.Prompt, Mode: WrapBefore},
	}
}
