package ptysession

import (
	"os"
	"strings"
	"testing"
)

func TestShellPathPrefersZshThenBash(t *testing.T) {
	path, name, err := shellPath()
	if err != nil {
		t.Skipf("no shell available in this environment: %v", err)
	}
	if !strings.HasSuffix(path, name) {
		t.Errorf("name %q should be the basename of path %q", name, path)
	}
	if name != "zsh" && name != "bash" {
		t.Errorf("expected zsh or bash, got %q", name)
	}
	for _, zsh := range []string{"/bin/zsh", "/usr/bin/zsh"} {
		if _, statErr := os.Stat(zsh); statErr == nil && name != "zsh" {
			t.Errorf("zsh is installed at %s but shellPath chose %q", zsh, name)
		}
	}
}

func TestNewAndKill(t *testing.T) {
	if _, _, err := shellPath(); err != nil {
		t.Skip("no shell available in this environment")
	}
	dir := t.TempDir()
	sess, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sess.Shell() == "" {
		t.Error("expected a detected shell name")
	}
	if sess.PID() == 0 {
		t.Error("expected a nonzero PID")
	}

	sess.Kill()
	sess.Kill() // idempotent

	code := sess.Wait()
	if code == 0 {
		// killed processes commonly report a nonzero or negative code; 0 is
		// also possible on some platforms for an already-reaped child, so
		// this is informational rather than a hard assertion.
		t.Logf("exit code after kill: %d", code)
	}
}
