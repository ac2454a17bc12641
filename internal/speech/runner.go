package speech

import (
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
)

// Handle is a started synthesizer process.
type Handle interface {
	// Kill signals termination. Killing an already-exited process is a
	// no-op, not an error.
	Kill() error
}

// Runner spawns synthesizer processes. The production runner is backed
// by os/exec; tests substitute a fake to observe ordering.
type Runner interface {
	// Start launches the synthesizer with the given arguments and
	// returns immediately. The process runs fire-and-forget; its exit
	// status is never reported to the caller.
	Start(id, path string, args []string) (Handle, error)
}

// execRunner runs real synthesizer processes.
type execRunner struct{}

// NewExecRunner returns the production os/exec-backed runner.
func NewExecRunner() Runner {
	return execRunner{}
}

func (execRunner) Start(id, path string, args []string) (Handle, error) {
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	started := time.Now()
	go func() {
		// Reap the child so no zombie is left behind. The exit status
		// is interesting only for debugging.
		err := cmd.Wait()
		log.Debug("utterance finished", "id", id, "runtime", time.Since(started), "err", err)
	}()

	return &execHandle{cmd: cmd}, nil
}

// execHandle wraps a running exec.Cmd.
type execHandle struct {
	cmd *exec.Cmd
}

func (h *execHandle) Kill() error {
	if h.cmd.Process == nil {
		return nil
	}
	// Kill on an exited process returns os.ErrProcessDone; the contract
	// treats that as a no-op.
	_ = h.cmd.Process.Kill()
	return nil
}
