package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("buffer: offset out of range")
	ErrRangeInvalid     = errors.New("buffer: invalid range")
)

// Buffer holds the host environment's text content.
// It provides the read and edit surface narration needs: offset/point
// conversion, line math, and simple edits. All methods are thread-safe.
type Buffer struct {
	mu   sync.RWMutex
	text string

	// lineStarts caches the byte offset of each line start.
	// Rebuilt after every edit.
	lineStarts []ByteOffset
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	b := &Buffer{}
	b.reindex()
	return b
}

// NewBufferFromString creates a buffer with initial content.
// Line endings are normalized to LF.
func NewBufferFromString(s string) *Buffer {
	b := &Buffer{text: normalizeLineEndings(s)}
	b.reindex()
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data)), nil
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// reindex rebuilds the line start cache. Caller must hold mu for writing
// (or exclusive access during construction).
func (b *Buffer) reindex() {
	starts := []ByteOffset{0}
	for i := 0; i < len(b.text); i++ {
		if b.text[i] == '\n' {
			starts = append(starts, ByteOffset(i+1))
		}
	}
	b.lineStarts = starts
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// TextRange returns the text in the range [start, end).
// Offsets are clamped to the valid range; a reversed range is swapped.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if start > end {
		start, end = end, start
	}
	start = clampOffset(start, ByteOffset(len(b.text)))
	end = clampOffset(end, ByteOffset(len(b.text)))
	return b.text[start:end]
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.text))
}

// IsEmpty returns true if the buffer contains no text.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// LineCount returns the number of lines in the buffer.
// An empty buffer has one (empty) line.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(len(b.lineStarts))
}

// LineText returns the text of the given line without its line ending.
// Returns an empty string for out-of-range lines.
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if int(line) >= len(b.lineStarts) {
		return ""
	}
	return b.text[b.lineStarts[line]:b.lineEndLocked(line)]
}

// LineStartOffset returns the byte offset of the start of the given line.
// Out-of-range lines clamp to the buffer end.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if int(line) >= len(b.lineStarts) {
		return ByteOffset(len(b.text))
	}
	return b.lineStarts[line]
}

// LineEndOffset returns the byte offset just past the last character of the
// given line, excluding the line ending.
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if int(line) >= len(b.lineStarts) {
		return ByteOffset(len(b.text))
	}
	return b.lineEndLocked(line)
}

// lineEndLocked returns the end offset of a valid line. Caller holds mu.
func (b *Buffer) lineEndLocked(line uint32) ByteOffset {
	if int(line)+1 < len(b.lineStarts) {
		// Next line start minus the newline.
		return b.lineStarts[line+1] - 1
	}
	return ByteOffset(len(b.text))
}

// OffsetToPoint converts a byte offset to a line/column point.
// The offset is clamped to the valid range.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()

	offset = clampOffset(offset, ByteOffset(len(b.text)))

	// Binary search for the containing line.
	lo, hi := 0, len(b.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Point{Line: uint32(lo), Column: uint32(offset - b.lineStarts[lo])}
}

// PointToOffset converts a line/column point to a byte offset.
// Out-of-range points clamp to the nearest valid offset.
func (b *Buffer) PointToOffset(point Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if int(point.Line) >= len(b.lineStarts) {
		return ByteOffset(len(b.text))
	}
	offset := b.lineStarts[point.Line] + ByteOffset(point.Column)
	return clampOffset(offset, b.lineEndLocked(point.Line))
}

// RuneAt returns the rune starting at the given offset and its byte size.
// Returns (utf8.RuneError, 0) if the offset is out of range.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset < 0 || offset >= ByteOffset(len(b.text)) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(b.text[offset:])
}

// GraphemeAt returns the grapheme cluster starting at the given offset.
// A single user-perceived character may span several runes; narration
// reads one of these, not one byte. Returns "" at or past the buffer end.
func (b *Buffer) GraphemeAt(offset ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset < 0 || offset >= ByteOffset(len(b.text)) {
		return ""
	}
	g, _, _, _ := uniseg.FirstGraphemeClusterInString(b.text[offset:], -1)
	return g
}

// GraphemeBefore returns the grapheme cluster ending at the given offset.
// Returns "" at or before the buffer start.
func (b *Buffer) GraphemeBefore(offset ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset <= 0 || offset > ByteOffset(len(b.text)) {
		return ""
	}

	var last string
	rest := b.text[:offset]
	state := -1
	for len(rest) > 0 {
		var g string
		g, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		last = g
	}
	return last
}

// Edit Operations

// Insert inserts text at the given offset.
func (b *Buffer) Insert(offset ByteOffset, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > ByteOffset(len(b.text)) {
		return ErrOffsetOutOfRange
	}
	b.text = b.text[:offset] + normalizeLineEndings(text) + b.text[offset:]
	b.reindex()
	return nil
}

// Delete removes the text in the range [start, end).
func (b *Buffer) Delete(start, end ByteOffset) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start > end {
		return ErrRangeInvalid
	}
	if start < 0 || end > ByteOffset(len(b.text)) {
		return ErrOffsetOutOfRange
	}
	b.text = b.text[:start] + b.text[end:]
	b.reindex()
	return nil
}

// clampOffset clamps an offset to [0, max].
func clampOffset(offset, max ByteOffset) ByteOffset {
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}
