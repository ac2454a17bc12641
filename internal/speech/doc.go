// Package speech manages the external synthesizer process.
//
// The Speaker owns the single active-utterance slot. A Speak request with
// CancelPrior set kills the active process, waits a short settling
// interval for the OS to tear it down, then spawns the replacement, so
// old and new audio never overlap. Requests with CancelPrior unset start
// alongside the active utterance; that is the only sanctioned overlap.
//
// Speech is an auxiliary side channel: a missing synthesizer binary or a
// failed spawn is logged and otherwise silent. Callers treat Speak as a
// void operation and never block on audio.
package speech
