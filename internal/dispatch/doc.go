// Package dispatch wires narration into the host's operation routing.
//
// A Binding associates one host operation ID with an extractor and an
// interception mode. The Registry swaps a wrapper into the host's
// command table for each binding and keeps the original function so
// uninstall restores unmodified routing. The Engine is the toggle:
// Enable installs every binding and announces "eloud on", Disable
// performs the exact inverse and announces "eloud off". Both are
// idempotent apart from re-announcing.
//
// Interception modes:
//
//   - WrapAfter: run the original, then narrate from the pre/post
//     cursor states. Used for motions, typing, and completion.
//   - WrapBefore: narrate from the current state, then run the
//     original. Used when the text to speak is about to be destroyed
//     (kill-line) or consumed (prompts).
//   - Replace: narrate first and skip the original entirely when the
//     extractor reports a boundary. Used for forward-delete, where the
//     boundary check happens before the delete.
//
// The wrapped original's own errors always propagate unchanged; the
// narration layer adds behavior around the call and never suppresses
// the host's failure behavior.
package dispatch
