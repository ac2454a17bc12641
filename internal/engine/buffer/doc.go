// Package buffer provides the text buffer model for the host environment.
//
// The buffer is string-backed with a cached line index. Narration only
// needs reads, line math, offset/point conversion, and simple edits, so
// there is no rope or revision tracking here.
//
// Positions are byte offsets (ByteOffset) or line/column points (Point).
// Single-character reads are grapheme-cluster aware via GraphemeAt and
// GraphemeBefore, since a spoken "character" is a user-perceived
// character, not a byte or rune.
package buffer
