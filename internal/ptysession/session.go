// Package ptysession owns a single PTY child process: creation, I/O,
// resize, and teardown (spec.md §4.A).
package ptysession

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// ErrPtyCreate is returned when the kernel refuses to hand out a PTY.
var ErrPtyCreate = errors.New("pty: kernel refused to create a PTY")

// ErrShellNotFound is returned when neither zsh nor bash is present.
var ErrShellNotFound = errors.New("pty: no usable shell found (looked for zsh, bash)")

const (
	defaultCols = 80
	defaultRows = 24
)

// Session owns one PTY master/child pair. All methods are safe for
// concurrent use; Kill is idempotent.
type Session struct {
	mu       sync.Mutex
	cmd      *exec.Cmd
	ptmx     *os.File
	shell    string
	killed   bool
	exitCode *int
}

// shellPath picks zsh if present, else bash, per spec.md §4.A.
func shellPath() (path, name string, err error) {
	for _, candidate := range []string{"/bin/zsh", "/usr/bin/zsh", "/bin/bash", "/usr/bin/bash"} {
		if _, statErr := os.Stat(candidate); statErr == nil {
			idx := len(candidate) - 1
			for idx >= 0 && candidate[idx] != '/' {
				idx--
			}
			return candidate, candidate[idx+1:], nil
		}
	}
	return "", "", ErrShellNotFound
}

// New spawns a shell in cwd with a fresh 80x24 PTY. The slave end is
// released after spawn so master reads observe EOF on child exit.
func New(cwd string) (*Session, error) {
	shell, name, err := shellPath()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(shell)
	cmd.Dir = cwd
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
		"LANG=en_US.UTF-8",
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: defaultCols, Rows: defaultRows})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPtyCreate, err)
	}

	return &Session{
		cmd:   cmd,
		ptmx:  ptmx,
		shell: name,
	}, nil
}

// Shell returns the detected shell name (e.g. "zsh").
func (s *Session) Shell() string {
	return s.shell
}

// PID returns the child process id.
func (s *Session) PID() int {
	if s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// Read reads raw PTY output into buf.
func (s *Session) Read(buf []byte) (int, error) {
	return s.ptmx.Read(buf)
}

// Write sends input to the PTY.
func (s *Session) Write(data []byte) (int, error) {
	return s.ptmx.Write(data)
}

// Resize changes the PTY's terminal dimensions.
func (s *Session) Resize(cols, rows int) error {
	return pty.Setsize(s.ptmx, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
}

// Wait blocks until the child exits and returns its exit code. Safe to call
// once; subsequent calls return the cached code.
func (s *Session) Wait() int {
	s.mu.Lock()
	if s.exitCode != nil {
		code := *s.exitCode
		s.mu.Unlock()
		return code
	}
	s.mu.Unlock()

	err := s.cmd.Wait()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}

	s.mu.Lock()
	s.exitCode = &code
	s.mu.Unlock()
	return code
}

// Kill releases reader/writer/master in order and waits for the child to
// exit. Idempotent — safe to call multiple times (e.g. from both an
// explicit TermClose and a deferred cleanup).
func (s *Session) Kill() {
	s.mu.Lock()
	if s.killed {
		s.mu.Unlock()
		return
	}
	s.killed = true
	s.mu.Unlock()

	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.ptmx.Close()
	s.Wait()
}
