package speech

import "strings"

// Synthesizer flag vocabulary. ExtraFlags are appended to the process
// arguments verbatim; these are the ones the narration layer uses.
const (
	// PunctFlag asks the synthesizer to speak punctuation characters
	// aloud. Without it a lone punctuation character is silently skipped.
	PunctFlag = "--punct"
)

// Request describes one utterance. It is consumed immediately by the
// Speaker and never persisted.
type Request struct {
	// Text is the payload to synthesize.
	Text string

	// Rate is the speech rate in words per minute. Zero means the
	// Speaker's configured rate. Values are passed through to the
	// synthesizer verbatim, out of range or not.
	Rate int

	// CancelPrior terminates any active utterance before this one
	// starts. Leave false for deliberate overlap (continuous narration
	// over a finishing utterance).
	CancelPrior bool

	// ExtraFlags are appended to the synthesizer arguments verbatim.
	ExtraFlags []string
}

// NewRequest creates a cancel-prior request for the given text.
func NewRequest(text string) Request {
	return Request{Text: text, CancelPrior: true}
}

// normalizeText prepares a payload for the synthesizer command line.
// Whitespace-only text collapses to "" (the caller suppresses the spawn);
// a leading hyphen is padded with a space so the synthesizer does not
// parse the payload as a flag.
func normalizeText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if strings.HasPrefix(text, "-") {
		return " " + text
	}
	return text
}
