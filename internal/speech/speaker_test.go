package speech_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dshills/eloud/internal/speech"
)

// fakeRunner records spawn and kill events with timestamps.
type fakeRunner struct {
	mu     sync.Mutex
	events []event
	fail   bool
}

type event struct {
	kind string // "start" or "kill"
	args []string
	at   time.Time
}

func (r *fakeRunner) Start(id, path string, args []string) (speech.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fail {
		return nil, errors.New("spawn failed")
	}
	r.events = append(r.events, event{kind: "start", args: args, at: time.Now()})
	return &fakeHandle{runner: r}, nil
}

func (r *fakeRunner) record(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{kind: kind, at: time.Now()})
}

func (r *fakeRunner) snapshot() []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event, len(r.events))
	copy(out, r.events)
	return out
}

type fakeHandle struct {
	runner *fakeRunner
}

func (h *fakeHandle) Kill() error {
	h.runner.record("kill")
	return nil
}

func newTestSpeaker(r *fakeRunner, settle time.Duration) *speech.Speaker {
	return speech.NewSpeaker(
		speech.WithRunner(r),
		speech.WithSynthesizer("/usr/bin/espeak"),
		speech.WithSettleDelay(settle),
	)
}

func TestSpeakEmptySuppressed(t *testing.T) {
	r := &fakeRunner{}
	s := newTestSpeaker(r, 0)

	s.SpeakText("")
	s.SpeakText(" ")
	s.SpeakText("\t\n")

	if got := r.snapshot(); len(got) != 0 {
		t.Errorf("expected no process spawns, got %d events", len(got))
	}
}

func TestSpeakLeadingHyphenPadded(t *testing.T) {
	r := &fakeRunner{}
	s := newTestSpeaker(r, 0)

	s.SpeakText("-foo")

	got := r.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected 1 spawn, got %d events", len(got))
	}
	if got[0].args[0] != " -foo" {
		t.Errorf("expected payload ' -foo', got %q", got[0].args[0])
	}
}

func TestSpeakArgumentOrder(t *testing.T) {
	r := &fakeRunner{}
	s := newTestSpeaker(r, 0)

	s.Speak(speech.Request{
		Text:        "hello",
		Rate:        150,
		CancelPrior: true,
		ExtraFlags:  []string{speech.PunctFlag},
	})

	got := r.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected 1 spawn, got %d events", len(got))
	}
	want := []string{"hello", "-s", "150", speech.PunctFlag}
	if len(got[0].args) != len(want) {
		t.Fatalf("args = %v, want %v", got[0].args, want)
	}
	for i := range want {
		if got[0].args[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, got[0].args[i], want[i])
		}
	}
}

func TestSpeakDefaultRate(t *testing.T) {
	r := &fakeRunner{}
	s := newTestSpeaker(r, 0)

	s.SpeakText("hi")

	got := r.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected 1 spawn, got %d events", len(got))
	}
	if got[0].args[2] != "270" {
		t.Errorf("expected default rate 270, got %q", got[0].args[2])
	}
}

func TestCancelThenStartOrdering(t *testing.T) {
	const settle = 20 * time.Millisecond
	r := &fakeRunner{}
	s := newTestSpeaker(r, settle)

	s.SpeakText("first")
	s.SpeakText("second")

	got := r.snapshot()
	if len(got) != 3 {
		t.Fatalf("expected start/kill/start, got %d events", len(got))
	}
	if got[0].kind != "start" || got[1].kind != "kill" || got[2].kind != "start" {
		t.Fatalf("event order = %v %v %v, want start kill start", got[0].kind, got[1].kind, got[2].kind)
	}
	if elapsed := got[2].at.Sub(got[1].at); elapsed < settle {
		t.Errorf("second start %v after kill, want at least %v of settling", elapsed, settle)
	}
}

func TestConcurrentSpeaksSerialized(t *testing.T) {
	const settle = 50 * time.Millisecond
	r := &fakeRunner{}
	s := newTestSpeaker(r, settle)

	s.SpeakText("a")

	// Issue one Speak from another goroutine and a second from this
	// one while the first is inside its settle sleep.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.SpeakText("b")
	}()
	time.Sleep(15 * time.Millisecond)
	s.SpeakText("c")
	wg.Wait()

	got := r.snapshot()
	if len(got) != 5 {
		t.Fatalf("expected 3 starts and 2 kills, got %d events", len(got))
	}
	for i, want := range []string{"start", "kill", "start", "kill", "start"} {
		if got[i].kind != want {
			t.Fatalf("event %d = %q, want %q (each start after the first must follow a kill)", i, got[i].kind, want)
		}
	}
	for i := 2; i < len(got); i += 2 {
		if elapsed := got[i].at.Sub(got[i-1].at); elapsed < settle {
			t.Errorf("start %v after preceding kill, want at least %v of settling", elapsed, settle)
		}
	}
}

func TestSpeakNoCancelOverlaps(t *testing.T) {
	r := &fakeRunner{}
	s := newTestSpeaker(r, 0)

	s.SpeakText("first")
	s.Speak(speech.Request{Text: "second", CancelPrior: false})

	got := r.snapshot()
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	for _, e := range got {
		if e.kind != "start" {
			t.Errorf("expected only starts, got %q", e.kind)
		}
	}
}

func TestCancelActiveWithoutUtterance(t *testing.T) {
	r := &fakeRunner{}
	s := newTestSpeaker(r, 0)

	if s.CancelActive() {
		t.Error("expected CancelActive to report no active utterance")
	}
	if got := r.snapshot(); len(got) != 0 {
		t.Errorf("expected no events, got %d", len(got))
	}
}

func TestSpawnFailureIsSilent(t *testing.T) {
	r := &fakeRunner{fail: true}
	s := newTestSpeaker(r, 0)

	// Must not panic or surface an error.
	s.SpeakText("hello")

	if s.CancelActive() {
		t.Error("expected no active utterance after failed spawn")
	}
}

func TestSetRateAppliesToNextUtterance(t *testing.T) {
	r := &fakeRunner{}
	s := newTestSpeaker(r, 0)

	s.SetRate(320)
	s.SpeakText("hi")

	got := r.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected 1 spawn, got %d events", len(got))
	}
	if got[0].args[2] != "320" {
		t.Errorf("expected rate 320, got %q", got[0].args[2])
	}
}
