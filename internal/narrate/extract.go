// Package narrate derives the text to speak for each editing operation.
//
// Extractors are pure: given the cursor state before and after the
// wrapped operation and the buffer content, they compute the substring
// to speak, or empty for silence. They perform no I/O and never touch
// the speech process.
package narrate

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/eloud/internal/command"
	"github.com/dshills/eloud/internal/engine/buffer"
	"github.com/dshills/eloud/internal/engine/cursor"
)

// Boundary announcements spoken in place of text when the cursor sits
// at an edge and there is nothing to read.
const (
	BeginningOfBuffer = "beginning of buffer"
	EndOfBuffer       = "end of buffer"
	EndOfLine         = "end of line"
)

// Narration is an extractor's result. Empty Text means silence.
type Narration struct {
	// Text is the payload to speak.
	Text string

	// Punctuation asks the synthesizer to speak punctuation characters
	// explicitly. Set for single-character narration, where a lone
	// punctuation mark would otherwise be skipped.
	Punctuation bool

	// KeepPrior starts this utterance without cancelling the active
	// one, for narration meant to continue over finishing audio.
	KeepPrior bool

	// Boundary marks the text as a boundary announcement rather than
	// buffer content. Replace-mode bindings skip the wrapped operation
	// when the extractor reports a boundary.
	Boundary bool
}

// IsSilent returns true if there is nothing to speak.
func (n Narration) IsSilent() bool {
	return n.Text == ""
}

// Extractor computes the narration for one operation invocation.
// pre and post are the cursor states around the wrapped operation.
type Extractor func(pre, post cursor.Selection, ctx *command.Context) Narration

// RestOfLine speaks from the new cursor position to the end of the
// current line. Silent when the cursor is already at the line end.
func RestOfLine(pre, post cursor.Selection, ctx *command.Context) Narration {
	p := ctx.Buffer.OffsetToPoint(post.Cursor())
	end := ctx.Buffer.LineEndOffset(p.Line)
	return Narration{Text: ctx.Buffer.TextRange(post.Cursor(), end)}
}

// WholeBuffer speaks the entire buffer content.
func WholeBuffer(pre, post cursor.Selection, ctx *command.Context) Narration {
	return Narration{Text: ctx.Buffer.Text()}
}

// CharAtPoint speaks the single character at the new cursor position,
// clamping to the nearest valid offset at the buffer edges.
func CharAtPoint(pre, post cursor.Selection, ctx *command.Context) Narration {
	g := ctx.Buffer.GraphemeAt(post.Cursor())
	if g == "" {
		// Past the last character; clamp back to it.
		g = ctx.Buffer.GraphemeBefore(ctx.Buffer.Len())
	}
	return Narration{Text: g, Punctuation: true}
}

// CharAfter speaks the character at the new cursor position, announcing
// the buffer end instead of clamping.
func CharAfter(pre, post cursor.Selection, ctx *command.Context) Narration {
	g := ctx.Buffer.GraphemeAt(post.Cursor())
	if g == "" {
		return Narration{Text: EndOfBuffer, Boundary: true}
	}
	return Narration{Text: g, Punctuation: true}
}

// CharBefore speaks the character preceding the new cursor position,
// announcing the buffer start instead of clamping.
func CharBefore(pre, post cursor.Selection, ctx *command.Context) Narration {
	g := ctx.Buffer.GraphemeBefore(post.Cursor())
	if g == "" {
		return Narration{Text: BeginningOfBuffer, Boundary: true}
	}
	return Narration{Text: g, Punctuation: true}
}

// SelfInsert narrates the character the user just typed. Typing a word
// delimiter speaks the whole word just completed instead of the
// delimiter itself.
func SelfInsert(pre, post cursor.Selection, ctx *command.Context) Narration {
	inserted := ctx.Input
	if inserted == "" {
		return Narration{}
	}

	r, _ := utf8.DecodeRuneInString(inserted)
	if command.IsWordDelimiter(r) {
		word := wordBefore(ctx.Buffer, post.Cursor()-buffer.ByteOffset(len(inserted)))
		return Narration{Text: word}
	}
	return Narration{Text: inserted, Punctuation: true}
}

// DeleteChar narrates a forward delete: the character about to be
// removed, read before the deletion runs. At the buffer end it announces
// the boundary instead.
func DeleteChar(pre, post cursor.Selection, ctx *command.Context) Narration {
	g := ctx.Buffer.GraphemeAt(pre.Cursor())
	if g == "" {
		return Narration{Text: EndOfBuffer, Boundary: true}
	}
	return Narration{Text: g, Punctuation: true}
}

// KillLine narrates a kill to end of line: the rest of the current line,
// read before the deletion runs. At the line end it announces the
// boundary instead.
func KillLine(pre, post cursor.Selection, ctx *command.Context) Narration {
	p := ctx.Buffer.OffsetToPoint(pre.Cursor())
	rest := ctx.Buffer.TextRange(pre.Cursor(), ctx.Buffer.LineEndOffset(p.Line))
	if rest == "" {
		return Narration{Text: EndOfLine, Boundary: true}
	}
	return Narration{Text: rest}
}

// Difference speaks the buffer substring the cursor moved across,
// always in forward document order regardless of motion direction.
func Difference(pre, post cursor.Selection, ctx *command.Context) Narration {
	return Narration{Text: ctx.Buffer.TextRange(pre.Cursor(), post.Cursor())}
}

// Completion narrates a completion attempt: the candidate list when the
// cursor did not move (multiple candidates remain), or the word at the
// new cursor position when a unique completion was applied.
func Completion(pre, post cursor.Selection, ctx *command.Context) Narration {
	if !ctx.Completed {
		return Narration{}
	}
	if post.Cursor() == pre.Cursor() {
		// Candidate listing reads over any finishing utterance.
		return Narration{Text: strings.Join(ctx.Candidates, " "), KeepPrior: true}
	}
	return Narration{Text: wordBefore(ctx.Buffer, post.Cursor())}
}

// Prompt speaks the prompt text before a value-prompting operation runs.
func Prompt(pre, post cursor.Selection, ctx *command.Context) Narration {
	return Narration{Text: ctx.Prompt}
}

// wordBefore returns the word ending at offset, scanning backward to the
// previous delimiter or the line start, whichever is nearer.
func wordBefore(buf *buffer.Buffer, offset buffer.ByteOffset) string {
	text := buf.Text()
	end := int(clamp(offset, buffer.ByteOffset(len(text))))

	lineStart := int(buf.LineStartOffset(buf.OffsetToPoint(buffer.ByteOffset(end)).Line))
	start := end
	for start > lineStart {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if command.IsWordDelimiter(r) {
			break
		}
		start -= size
	}
	return text[start:end]
}

func clamp(offset, max buffer.ByteOffset) buffer.ByteOffset {
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}
