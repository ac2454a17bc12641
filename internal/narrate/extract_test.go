package narrate_test

import (
	"testing"

	"github.com/dshills/eloud/internal/command"
	"github.com/dshills/eloud/internal/engine/buffer"
	"github.com/dshills/eloud/internal/engine/cursor"
	"github.com/dshills/eloud/internal/narrate"
)

func ctxAt(text string, at buffer.ByteOffset) (*command.Context, cursor.Selection) {
	ctx := command.NewContext(buffer.NewBufferFromString(text))
	ctx.MoveTo(at)
	return ctx, ctx.Sel
}

func TestRestOfLine(t *testing.T) {
	tests := []struct {
		name string
		text string
		at   buffer.ByteOffset
		want string
	}{
		{"mid line", "hello world", 5, " world"},
		{"line start", "hello world", 0, "hello world"},
		{"line end", "hello world", 11, ""},
		{"stops at newline", "ab\ncd", 1, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, sel := ctxAt(tt.text, tt.at)
			n := narrate.RestOfLine(sel, sel, ctx)
			if n.Text != tt.want {
				t.Errorf("RestOfLine = %q, want %q", n.Text, tt.want)
			}
		})
	}
}

func TestWholeBuffer(t *testing.T) {
	ctx, sel := ctxAt("all of it\nboth lines", 3)

	n := narrate.WholeBuffer(sel, sel, ctx)
	if n.Text != "all of it\nboth lines" {
		t.Errorf("WholeBuffer = %q, want full text", n.Text)
	}
}

func TestCharAtPointClampsAtEnd(t *testing.T) {
	ctx, sel := ctxAt("abc", 3)

	n := narrate.CharAtPoint(sel, sel, ctx)
	if n.Text != "c" {
		t.Errorf("CharAtPoint at end = %q, want clamped 'c'", n.Text)
	}
	if !n.Punctuation {
		t.Error("expected punctuation flag for single character")
	}
}

func TestCharAfterAnnouncesBufferEnd(t *testing.T) {
	ctx, sel := ctxAt("abc", 3)

	n := narrate.CharAfter(sel, sel, ctx)
	if n.Text != narrate.EndOfBuffer {
		t.Errorf("CharAfter at end = %q, want boundary announcement", n.Text)
	}
	if n.Punctuation {
		t.Error("boundary announcement should not request punctuation")
	}
}

func TestCharBeforeAnnouncesBufferStart(t *testing.T) {
	ctx, sel := ctxAt("abc", 0)

	n := narrate.CharBefore(sel, sel, ctx)
	if n.Text != narrate.BeginningOfBuffer {
		t.Errorf("CharBefore at start = %q, want boundary announcement", n.Text)
	}
}

func TestCharBeforeReadsCharacter(t *testing.T) {
	ctx, sel := ctxAt("ab", 2)

	n := narrate.CharBefore(sel, sel, ctx)
	if n.Text != "b" || !n.Punctuation {
		t.Errorf("CharBefore = %+v, want 'b' with punctuation", n)
	}
}

func TestSelfInsertPlainCharacter(t *testing.T) {
	// Buffer state after typing "x" at the end of "ca".
	ctx, _ := ctxAt("cax", 3)
	ctx.Input = "x"
	pre := cursor.NewCursor(2)
	post := cursor.NewCursor(3)

	n := narrate.SelfInsert(pre, post, ctx)
	if n.Text != "x" {
		t.Errorf("SelfInsert = %q, want 'x'", n.Text)
	}
	if !n.Punctuation {
		t.Error("expected punctuation flag for typed character")
	}
}

func TestSelfInsertDelimiterSpeaksWord(t *testing.T) {
	// User typed a space after "cat"; buffer already holds the result.
	ctx, _ := ctxAt("cat ", 4)
	ctx.Input = " "
	pre := cursor.NewCursor(3)
	post := cursor.NewCursor(4)

	n := narrate.SelfInsert(pre, post, ctx)
	if n.Text != "cat" {
		t.Errorf("SelfInsert on delimiter = %q, want 'cat'", n.Text)
	}
}

func TestSelfInsertDelimiterScansToLineStart(t *testing.T) {
	ctx, _ := ctxAt("one\ntwo ", 8)
	ctx.Input = " "
	pre := cursor.NewCursor(7)
	post := cursor.NewCursor(8)

	n := narrate.SelfInsert(pre, post, ctx)
	if n.Text != "two" {
		t.Errorf("SelfInsert = %q, want 'two' (scan stops at line start)", n.Text)
	}
}

func TestDeleteCharNarration(t *testing.T) {
	ctx, sel := ctxAt("abc", 1)

	n := narrate.DeleteChar(sel, sel, ctx)
	if n.Text != "b" || !n.Punctuation {
		t.Errorf("DeleteChar = %+v, want 'b' with punctuation", n)
	}
}

func TestDeleteCharAtEndAnnouncesBoundary(t *testing.T) {
	ctx, sel := ctxAt("abc", 3)

	n := narrate.DeleteChar(sel, sel, ctx)
	if n.Text != narrate.EndOfBuffer {
		t.Errorf("DeleteChar at end = %q, want boundary announcement", n.Text)
	}
}

func TestKillLineNarration(t *testing.T) {
	ctx, sel := ctxAt("hello world\nnext", 5)

	n := narrate.KillLine(sel, sel, ctx)
	if n.Text != " world" {
		t.Errorf("KillLine = %q, want ' world'", n.Text)
	}
}

func TestKillLineAtLineEndAnnouncesBoundary(t *testing.T) {
	ctx, sel := ctxAt("hello\nnext", 5)

	n := narrate.KillLine(sel, sel, ctx)
	if n.Text != narrate.EndOfLine {
		t.Errorf("KillLine at line end = %q, want boundary announcement", n.Text)
	}
}

func TestDifferenceForwardOrder(t *testing.T) {
	ctx, _ := ctxAt("hello world", 0)
	pre := cursor.NewCursor(0)
	post := cursor.NewCursor(5)

	n := narrate.Difference(pre, post, ctx)
	if n.Text != "hello" {
		t.Errorf("Difference forward = %q, want 'hello'", n.Text)
	}

	// Backward motion reads the same text in document order.
	n = narrate.Difference(post, pre, ctx)
	if n.Text != "hello" {
		t.Errorf("Difference backward = %q, want 'hello'", n.Text)
	}
}

func TestCompletionCandidates(t *testing.T) {
	ctx, _ := ctxAt("cat catalog ca", 14)
	ctx.Completed = true
	ctx.Candidates = []string{"cat", "catalog"}
	pre := cursor.NewCursor(14)
	post := cursor.NewCursor(14)

	n := narrate.Completion(pre, post, ctx)
	if n.Text != "cat catalog" {
		t.Errorf("Completion candidates = %q, want 'cat catalog'", n.Text)
	}
	if !n.KeepPrior {
		t.Error("candidate listing should not cancel the prior utterance")
	}
}

func TestCompletionUnique(t *testing.T) {
	ctx, _ := ctxAt("elephant elephant", 17)
	ctx.Completed = true
	pre := cursor.NewCursor(12)
	post := cursor.NewCursor(17)

	n := narrate.Completion(pre, post, ctx)
	if n.Text != "elephant" {
		t.Errorf("Completion unique = %q, want 'elephant'", n.Text)
	}
}

func TestCompletionFailedIsSilent(t *testing.T) {
	ctx, sel := ctxAt("zz", 2)

	n := narrate.Completion(sel, sel, ctx)
	if !n.IsSilent() {
		t.Errorf("failed completion = %q, want silence", n.Text)
	}
}

func TestPrompt(t *testing.T) {
	ctx, sel := ctxAt("", 0)
	ctx.Prompt = "Find file: "

	n := narrate.Prompt(sel, sel, ctx)
	if n.Text != "Find file: " {
		t.Errorf("Prompt = %q, want prompt text", n.Text)
	}
}
