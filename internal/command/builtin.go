package command

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/eloud/internal/engine/buffer"
)

// Operation IDs for the built-in editing operations.
const (
	OpForwardChar  = "cursor.forwardChar"
	OpBackwardChar = "cursor.backwardChar"
	OpForwardWord  = "cursor.forwardWord"
	OpBackwardWord = "cursor.backwardWord"
	OpNextLine     = "cursor.nextLine"
	OpPrevLine     = "cursor.prevLine"
	OpLineStart    = "cursor.lineStart"
	OpLineEnd      = "cursor.lineEnd"
	OpBufferStart  = "cursor.bufferStart"
	OpBufferEnd    = "cursor.bufferEnd"
	OpSelfInsert   = "editor.selfInsert"
	OpDeleteChar   = "editor.deleteChar"
	OpKillLine     = "editor.killLine"
	OpCompleteWord = "editor.completeWord"
	OpReadPrompt   = "editor.readPrompt"
)

// RegisterBuiltins registers all built-in editing operations.
func RegisterBuiltins(r *Registry) {
	r.Register(OpForwardChar, ForwardChar)
	r.Register(OpBackwardChar, BackwardChar)
	r.Register(OpForwardWord, ForwardWord)
	r.Register(OpBackwardWord, BackwardWord)
	r.Register(OpNextLine, NextLine)
	r.Register(OpPrevLine, PrevLine)
	r.Register(OpLineStart, LineStart)
	r.Register(OpLineEnd, LineEnd)
	r.Register(OpBufferStart, BufferStart)
	r.Register(OpBufferEnd, BufferEnd)
	r.Register(OpSelfInsert, SelfInsert)
	r.Register(OpDeleteChar, DeleteChar)
	r.Register(OpKillLine, KillLine)
	r.Register(OpCompleteWord, CompleteWord)
	r.Register(OpReadPrompt, ReadPrompt)
}

// IsWordDelimiter reports whether r separates words.
func IsWordDelimiter(r rune) bool {
	return unicode.IsSpace(r)
}

// ForwardChar moves the cursor one grapheme forward.
func ForwardChar(ctx *Context) error {
	g := ctx.Buffer.GraphemeAt(ctx.Cursor())
	if g == "" {
		return nil
	}
	ctx.MoveTo(ctx.Cursor() + buffer.ByteOffset(len(g)))
	return nil
}

// BackwardChar moves the cursor one grapheme backward.
func BackwardChar(ctx *Context) error {
	g := ctx.Buffer.GraphemeBefore(ctx.Cursor())
	if g == "" {
		return nil
	}
	ctx.MoveTo(ctx.Cursor() - buffer.ByteOffset(len(g)))
	return nil
}

// ForwardWord moves the cursor to the end of the next word.
func ForwardWord(ctx *Context) error {
	text := ctx.Buffer.Text()
	i := int(ctx.Cursor())

	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !IsWordDelimiter(r) {
			break
		}
		i += size
	}
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if IsWordDelimiter(r) {
			break
		}
		i += size
	}

	ctx.MoveTo(buffer.ByteOffset(i))
	return nil
}

// BackwardWord moves the cursor to the start of the previous word.
func BackwardWord(ctx *Context) error {
	text := ctx.Buffer.Text()
	i := int(ctx.Cursor())

	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if !IsWordDelimiter(r) {
			break
		}
		i -= size
	}
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if IsWordDelimiter(r) {
			break
		}
		i -= size
	}

	ctx.MoveTo(buffer.ByteOffset(i))
	return nil
}

// NextLine moves the cursor down one line, preserving the column where possible.
func NextLine(ctx *Context) error {
	p := ctx.Buffer.OffsetToPoint(ctx.Cursor())
	if p.Line+1 >= ctx.Buffer.LineCount() {
		return nil
	}
	ctx.MoveTo(ctx.Buffer.PointToOffset(buffer.Point{Line: p.Line + 1, Column: p.Column}))
	return nil
}

// PrevLine moves the cursor up one line, preserving the column where possible.
func PrevLine(ctx *Context) error {
	p := ctx.Buffer.OffsetToPoint(ctx.Cursor())
	if p.Line == 0 {
		return nil
	}
	ctx.MoveTo(ctx.Buffer.PointToOffset(buffer.Point{Line: p.Line - 1, Column: p.Column}))
	return nil
}

// LineStart moves the cursor to the start of the current line.
func LineStart(ctx *Context) error {
	p := ctx.Buffer.OffsetToPoint(ctx.Cursor())
	ctx.MoveTo(ctx.Buffer.LineStartOffset(p.Line))
	return nil
}

// LineEnd moves the cursor to the end of the current line.
func LineEnd(ctx *Context) error {
	p := ctx.Buffer.OffsetToPoint(ctx.Cursor())
	ctx.MoveTo(ctx.Buffer.LineEndOffset(p.Line))
	return nil
}

// BufferStart moves the cursor to the start of the buffer.
func BufferStart(ctx *Context) error {
	ctx.MoveTo(0)
	return nil
}

// BufferEnd moves the cursor to the end of the buffer.
func BufferEnd(ctx *Context) error {
	ctx.MoveTo(ctx.Buffer.Len())
	return nil
}

// SelfInsert inserts ctx.Input at the cursor and advances past it.
func SelfInsert(ctx *Context) error {
	if ctx.Input == "" {
		return nil
	}
	if err := ctx.Buffer.Insert(ctx.Cursor(), ctx.Input); err != nil {
		return err
	}
	ctx.MoveTo(ctx.Cursor() + buffer.ByteOffset(len(ctx.Input)))
	return nil
}

// DeleteChar deletes the grapheme at the cursor.
// At the buffer end this is a no-op delete.
func DeleteChar(ctx *Context) error {
	g := ctx.Buffer.GraphemeAt(ctx.Cursor())
	if g == "" {
		return nil
	}
	return ctx.Buffer.Delete(ctx.Cursor(), ctx.Cursor()+buffer.ByteOffset(len(g)))
}

// KillLine deletes from the cursor to the end of the current line.
// When the cursor already sits at the line end, the newline itself is
// deleted, joining the next line.
func KillLine(ctx *Context) error {
	p := ctx.Buffer.OffsetToPoint(ctx.Cursor())
	end := ctx.Buffer.LineEndOffset(p.Line)

	if ctx.Cursor() == end {
		if end >= ctx.Buffer.Len() {
			return nil
		}
		return ctx.Buffer.Delete(ctx.Cursor(), ctx.Cursor()+1)
	}
	return ctx.Buffer.Delete(ctx.Cursor(), end)
}

// CompleteWord completes the word prefix before the cursor against the
// words already present in the buffer.
//
// A unique match is applied to the buffer (the cursor moves past it).
// Multiple matches leave the cursor in place and report the candidates.
// No prefix or no match reports Completed=false.
func CompleteWord(ctx *Context) error {
	text := ctx.Buffer.Text()
	at := int(ctx.Cursor())

	start := at
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if IsWordDelimiter(r) {
			break
		}
		start -= size
	}
	prefix := text[start:at]
	if prefix == "" {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []string
	for _, w := range strings.FieldsFunc(text, IsWordDelimiter) {
		if w != prefix && strings.HasPrefix(w, prefix) && !seen[w] {
			seen[w] = true
			candidates = append(candidates, w)
		}
	}

	switch len(candidates) {
	case 0:
		return nil
	case 1:
		remainder := candidates[0][len(prefix):]
		if err := ctx.Buffer.Insert(ctx.Cursor(), remainder); err != nil {
			return err
		}
		ctx.MoveTo(ctx.Cursor() + buffer.ByteOffset(len(remainder)))
		ctx.Completed = true
	default:
		sort.Strings(candidates)
		ctx.Completed = true
		ctx.Candidates = candidates
	}
	return nil
}

// ReadPrompt is the host's value-prompting operation. The host supplies
// the prompt in ctx.Prompt and the collected answer arrives in ctx.Input;
// this stub returns the answer unchanged, which is all the narration
// layer needs to wrap.
func ReadPrompt(ctx *Context) error {
	return nil
}
