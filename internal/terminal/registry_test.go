package terminal

import (
	"os"
	"testing"
	"time"
)

func hasShell(t *testing.T) {
	t.Helper()
	found := false
	for _, candidate := range []string{"/bin/zsh", "/usr/bin/zsh", "/bin/bash", "/usr/bin/bash"} {
		if _, err := os.Stat(candidate); err == nil {
			found = true
			break
		}
	}
	if !found {
		t.Skip("no shell available in this environment")
	}
}

func TestRegistrySpawnAndList(t *testing.T) {
	hasShell(t)
	reg := NewRegistry(4096)
	dir := t.TempDir()

	termID, shell, err := reg.Spawn(dir, "proj", "default")
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if shell == "" {
		t.Error("expected a detected shell")
	}
	if !reg.Contains(termID) {
		t.Error("expected registry to contain spawned terminal")
	}

	list := reg.List()
	if len(list) != 1 || list[0].TermID != termID {
		t.Fatalf("expected one listed terminal matching %s, got %+v", termID, list)
	}

	resolved, ok := reg.ResolveTermID("")
	if !ok || resolved != termID {
		t.Fatalf("expected default term_id to resolve to %s, got %s (ok=%v)", termID, resolved, ok)
	}

	reg.Close(termID)
	if reg.Contains(termID) {
		t.Error("expected terminal removed after Close")
	}
}

func TestRegistrySubscribeReceivesOutput(t *testing.T) {
	hasShell(t)
	reg := NewRegistry(4096)
	dir := t.TempDir()

	termID, _, err := reg.Spawn(dir, "proj", "default")
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	defer reg.Close(termID)

	ch, unsubscribe, err := reg.Subscribe(termID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsubscribe()

	if err := reg.WriteInput(termID, []byte("echo hi\n")); err != nil {
		t.Fatalf("WriteInput: %v", err)
	}

	select {
	case data, ok := <-ch:
		if !ok {
			t.Fatal("channel closed before receiving output")
		}
		if len(data) == 0 {
			t.Error("expected non-empty output chunk")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for terminal output")
	}
}

func TestRegistryUnknownTerminal(t *testing.T) {
	reg := NewRegistry(4096)
	if _, _, err := reg.Subscribe("nope"); err != ErrTerminalNotFound {
		t.Fatalf("expected ErrTerminalNotFound, got %v", err)
	}
	if _, err := reg.GetScrollback("nope"); err != ErrTerminalNotFound {
		t.Fatalf("expected ErrTerminalNotFound, got %v", err)
	}
	if reg.Close("nope") {
		t.Error("expected Close on unknown term_id to return false")
	}
}
