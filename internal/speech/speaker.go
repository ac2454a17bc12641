package speech

import (
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Defaults for a freshly constructed Speaker.
const (
	// DefaultSynthesizer is the binary resolved on PATH when no
	// explicit override is given.
	DefaultSynthesizer = "espeak"

	// DefaultRate is the speech rate in words per minute.
	// The documented valid range is 1-400; it is not enforced here.
	DefaultRate = 270

	// DefaultSettleDelay is how long Speak waits after killing the
	// active utterance before starting its replacement. Process
	// termination is asynchronous on most platforms; starting the next
	// audio process immediately can produce a brief overlap.
	DefaultSettleDelay = 500 * time.Millisecond
)

// Utterance is the single in-flight synthesis process.
// At most one exists at a time, owned exclusively by the Speaker.
type Utterance struct {
	ID        string
	StartedAt time.Time

	handle Handle
}

// Speaker owns the synthesizer process lifecycle.
// All methods are safe for concurrent use. Speak calls are serialized
// end to end by seqMu, so a later call cannot start its process inside
// an earlier call's settling interval; mu guards only the
// active-utterance slot.
type Speaker struct {
	seqMu sync.Mutex

	mu     sync.Mutex
	active *Utterance

	runner Runner
	path   string
	rate   int
	settle time.Duration
}

// Option configures a Speaker.
type Option func(*Speaker)

// WithSynthesizer overrides the synthesizer binary path.
// The path is used as given; no PATH lookup is performed.
func WithSynthesizer(path string) Option {
	return func(s *Speaker) {
		s.path = path
	}
}

// WithRate sets the default speech rate in words per minute.
func WithRate(rate int) Option {
	return func(s *Speaker) {
		if rate > 0 {
			s.rate = rate
		}
	}
}

// WithSettleDelay sets the post-termination settling interval.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Speaker) {
		if d >= 0 {
			s.settle = d
		}
	}
}

// WithRunner substitutes the process runner. Tests use this to observe
// spawn/kill ordering without real processes.
func WithRunner(r Runner) Option {
	return func(s *Speaker) {
		s.runner = r
	}
}

// NewSpeaker creates a Speaker. Unless overridden, the synthesizer binary
// is resolved once on PATH; if resolution fails the Speaker still works,
// every Speak just fails silently per the error contract.
func NewSpeaker(opts ...Option) *Speaker {
	s := &Speaker{
		runner: NewExecRunner(),
		rate:   DefaultRate,
		settle: DefaultSettleDelay,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.path == "" {
		path, err := exec.LookPath(DefaultSynthesizer)
		if err != nil {
			log.Error("synthesizer not found, speech disabled", "binary", DefaultSynthesizer, "err", err)
		}
		s.path = path
	}

	return s
}

// Speak synthesizes one utterance. It is a void operation for callers:
// empty-after-normalize text, a missing binary, and spawn failures are
// all silent no-ops.
//
// With CancelPrior set, any active utterance is killed first and Speak
// blocks the caller for the settling interval before spawning the
// replacement. This is a deliberate, bounded stall; Speak never waits
// for audio to finish.
func (s *Speaker) Speak(req Request) {
	text := normalizeText(req.Text)
	if text == "" {
		return
	}

	// The cancel, settle, start sequence must be atomic with respect
	// to other Speak calls; otherwise a concurrent call could claim
	// the emptied slot during the settle sleep and its process would
	// be orphaned, unkillable, when the sleeper starts.
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	if req.CancelPrior {
		if s.CancelActive() {
			time.Sleep(s.settle)
		}
	}

	s.startUtterance(text, req)
}

// SpeakText speaks text with default rate, cancelling any prior utterance.
func (s *Speaker) SpeakText(text string) {
	s.Speak(NewRequest(text))
}

// CancelActive kills the active utterance, if any, and empties the slot.
// Reports whether there was an utterance to cancel. Termination is
// best-effort: a process that already exited is not an error.
func (s *Speaker) CancelActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return false
	}

	log.Debug("cancelling utterance", "id", s.active.ID)
	_ = s.active.handle.Kill()
	s.active = nil
	return true
}

// startUtterance spawns the synthesizer and claims the active slot.
// When a prior utterance is still in the slot (CancelPrior was false)
// it is left running unobserved; the new process replaces it.
func (s *Speaker) startUtterance(text string, req Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return
	}

	rate := req.Rate
	if rate <= 0 {
		rate = s.rate
	}

	args := make([]string, 0, 3+len(req.ExtraFlags))
	args = append(args, text, "-s", strconv.Itoa(rate))
	args = append(args, req.ExtraFlags...)

	id := uuid.NewString()
	handle, err := s.runner.Start(id, s.path, args)
	if err != nil {
		// Silent failure by contract: speech must never block or
		// corrupt editing.
		log.Error("synthesizer spawn failed", "id", id, "path", s.path, "err", err)
		return
	}

	log.Debug("utterance started", "id", id, "rate", rate, "flags", req.ExtraFlags)
	s.active = &Utterance{ID: id, StartedAt: time.Now(), handle: handle}
}

// SetRate updates the default speech rate. Used by live config reload.
func (s *Speaker) SetRate(rate int) {
	if rate <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rate = rate
}

// Rate returns the current default speech rate.
func (s *Speaker) Rate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// SetSynthesizer updates the synthesizer binary path.
func (s *Speaker) SetSynthesizer(path string) {
	if path == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
}
