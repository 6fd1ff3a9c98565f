package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(store.ListProjects()) != 0 {
		t.Error("expected no projects in a fresh store")
	}
}

func TestAddAndGetProject(t *testing.T) {
	store, _ := Load(filepath.Join(t.TempDir(), "state.json"))
	store.AddProject(&Project{Name: "demo", RootPath: "/tmp/demo", DefaultBranch: "main"})

	p, ok := store.GetProject("demo")
	if !ok {
		t.Fatal("expected project to be found")
	}
	if p.RootPath != "/tmp/demo" {
		t.Errorf("unexpected root path %q", p.RootPath)
	}
}

func TestAddWorkspaceRequiresProject(t *testing.T) {
	store, _ := Load(filepath.Join(t.TempDir(), "state.json"))
	ws := &Workspace{Name: "feature-x", Branch: "feature-x", Status: WorkspaceReady}
	if store.AddWorkspace("missing", ws) {
		t.Fatal("expected AddWorkspace to fail for unknown project")
	}

	store.AddProject(&Project{Name: "demo", Workspaces: map[string]*Workspace{}})
	if !store.AddWorkspace("demo", ws) {
		t.Fatal("expected AddWorkspace to succeed")
	}
	p, _ := store.GetProject("demo")
	if _, ok := p.Workspaces["feature-x"]; !ok {
		t.Error("expected workspace to be attached to project")
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	store, _ := Load(filepath.Join(t.TempDir(), "state.json"))
	store.AddProject(&Project{Name: "demo", Workspaces: map[string]*Workspace{
		"default": {Name: "default", Status: WorkspaceReady},
	}})

	snap := store.Snapshot()
	snap.Projects["demo"].Workspaces["default"].Status = WorkspaceSetupFailed

	p, _ := store.GetProject("demo")
	if p.Workspaces["default"].Status != WorkspaceReady {
		t.Error("mutating a snapshot must not affect the store")
	}
}

func TestSaverWritesAfterDebounceAndOnStop(t *testing.T) {
	store, _ := Load(filepath.Join(t.TempDir(), "state.json"))
	store.AddProject(&Project{Name: "demo"})

	path := filepath.Join(t.TempDir(), "out.json")
	saver := StartSaver(store, path, 20*time.Millisecond)
	saver.Trigger()
	saver.Trigger() // second trigger within the window should coalesce

	time.Sleep(200 * time.Millisecond)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected a save after the debounce window, before Stop: %v", err)
	}

	saver.Stop()

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if _, ok := loaded.GetProject("demo"); !ok {
		t.Fatal("expected saved document to contain the project")
	}
}
