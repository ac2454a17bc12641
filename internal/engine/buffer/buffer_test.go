package buffer_test

import (
	"strings"
	"testing"

	"github.com/dshills/eloud/internal/engine/buffer"
)

func TestNewBuffer(t *testing.T) {
	b := buffer.NewBuffer()

	if !b.IsEmpty() {
		t.Error("expected new buffer to be empty")
	}
	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
}

func TestNewBufferFromString(t *testing.T) {
	b := buffer.NewBufferFromString("hello world")

	if b.Text() != "hello world" {
		t.Errorf("expected 'hello world', got %q", b.Text())
	}
	if b.Len() != 11 {
		t.Errorf("expected length 11, got %d", b.Len())
	}
}

func TestNewBufferFromReader(t *testing.T) {
	b, err := buffer.NewBufferFromReader(strings.NewReader("one\ntwo"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.LineCount() != 2 {
		t.Errorf("expected 2 lines, got %d", b.LineCount())
	}
}

func TestBufferLineEndingNormalization(t *testing.T) {
	b := buffer.NewBufferFromString("a\r\nb\rc")

	if b.Text() != "a\nb\nc" {
		t.Errorf("expected normalized text, got %q", b.Text())
	}
}

func TestBufferLineOperations(t *testing.T) {
	b := buffer.NewBufferFromString("first\nsecond\nthird")

	if b.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", b.LineCount())
	}

	tests := []struct {
		line  uint32
		text  string
		start buffer.ByteOffset
		end   buffer.ByteOffset
	}{
		{0, "first", 0, 5},
		{1, "second", 6, 12},
		{2, "third", 13, 18},
	}

	for _, tt := range tests {
		if got := b.LineText(tt.line); got != tt.text {
			t.Errorf("LineText(%d) = %q, want %q", tt.line, got, tt.text)
		}
		if got := b.LineStartOffset(tt.line); got != tt.start {
			t.Errorf("LineStartOffset(%d) = %d, want %d", tt.line, got, tt.start)
		}
		if got := b.LineEndOffset(tt.line); got != tt.end {
			t.Errorf("LineEndOffset(%d) = %d, want %d", tt.line, got, tt.end)
		}
	}
}

func TestBufferTextRange(t *testing.T) {
	b := buffer.NewBufferFromString("hello world")

	if got := b.TextRange(5, 11); got != " world" {
		t.Errorf("TextRange(5, 11) = %q, want ' world'", got)
	}

	// Reversed ranges are swapped.
	if got := b.TextRange(11, 5); got != " world" {
		t.Errorf("TextRange(11, 5) = %q, want ' world'", got)
	}

	// Out-of-range offsets clamp.
	if got := b.TextRange(-3, 100); got != "hello world" {
		t.Errorf("TextRange(-3, 100) = %q, want full text", got)
	}
}

func TestBufferOffsetToPoint(t *testing.T) {
	b := buffer.NewBufferFromString("ab\ncd\nef")

	tests := []struct {
		offset buffer.ByteOffset
		want   buffer.Point
	}{
		{0, buffer.Point{Line: 0, Column: 0}},
		{2, buffer.Point{Line: 0, Column: 2}},
		{3, buffer.Point{Line: 1, Column: 0}},
		{4, buffer.Point{Line: 1, Column: 1}},
		{8, buffer.Point{Line: 2, Column: 2}},
		{100, buffer.Point{Line: 2, Column: 2}}, // clamped
	}

	for _, tt := range tests {
		if got := b.OffsetToPoint(tt.offset); got != tt.want {
			t.Errorf("OffsetToPoint(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestBufferPointToOffset(t *testing.T) {
	b := buffer.NewBufferFromString("ab\ncd")

	if got := b.PointToOffset(buffer.Point{Line: 1, Column: 1}); got != 4 {
		t.Errorf("PointToOffset(1:1) = %d, want 4", got)
	}

	// Column past line end clamps to line end.
	if got := b.PointToOffset(buffer.Point{Line: 0, Column: 99}); got != 2 {
		t.Errorf("PointToOffset(0:99) = %d, want 2", got)
	}

	// Line past buffer end clamps to buffer end.
	if got := b.PointToOffset(buffer.Point{Line: 99, Column: 0}); got != 5 {
		t.Errorf("PointToOffset(99:0) = %d, want 5", got)
	}
}

func TestBufferInsert(t *testing.T) {
	b := buffer.NewBufferFromString("helloworld")

	if err := b.Insert(5, " "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Text() != "hello world" {
		t.Errorf("expected 'hello world', got %q", b.Text())
	}
}

func TestBufferInsertOutOfRange(t *testing.T) {
	b := buffer.NewBufferFromString("abc")

	if err := b.Insert(10, "x"); err != buffer.ErrOffsetOutOfRange {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestBufferDelete(t *testing.T) {
	b := buffer.NewBufferFromString("hello world")

	if err := b.Delete(5, 11); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Text() != "hello" {
		t.Errorf("expected 'hello', got %q", b.Text())
	}
}

func TestBufferDeleteInvalidRange(t *testing.T) {
	b := buffer.NewBufferFromString("abc")

	if err := b.Delete(2, 1); err != buffer.ErrRangeInvalid {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestBufferRuneAt(t *testing.T) {
	b := buffer.NewBufferFromString("aé")

	r, size := b.RuneAt(1)
	if r != 'é' || size != 2 {
		t.Errorf("RuneAt(1) = %q (%d bytes), want 'é' (2 bytes)", r, size)
	}

	if _, size := b.RuneAt(100); size != 0 {
		t.Error("expected zero size for out-of-range offset")
	}
}

func TestBufferGraphemeAt(t *testing.T) {
	// The flag emoji is a single grapheme spanning multiple runes.
	b := buffer.NewBufferFromString("a\U0001F1FA\U0001F1F8b")

	if got := b.GraphemeAt(0); got != "a" {
		t.Errorf("GraphemeAt(0) = %q, want 'a'", got)
	}
	if got := b.GraphemeAt(1); got != "\U0001F1FA\U0001F1F8" {
		t.Errorf("GraphemeAt(1) = %q, want flag emoji", got)
	}
	if got := b.GraphemeAt(b.Len()); got != "" {
		t.Errorf("GraphemeAt(end) = %q, want ''", got)
	}
}

func TestBufferGraphemeBefore(t *testing.T) {
	b := buffer.NewBufferFromString("ab")

	if got := b.GraphemeBefore(2); got != "b" {
		t.Errorf("GraphemeBefore(2) = %q, want 'b'", got)
	}
	if got := b.GraphemeBefore(0); got != "" {
		t.Errorf("GraphemeBefore(0) = %q, want ''", got)
	}
}
