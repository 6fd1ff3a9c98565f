package state

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Load(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	store.AddProject(&Project{
		Name:          "demo",
		RootPath:      "/home/dev/demo",
		DefaultBranch: "main",
		Workspaces: map[string]*Workspace{
			"feature-x": {Name: "feature-x", WorktreePath: "/home/dev/.tidyflow/workspaces/demo/feature-x", Branch: "feature-x"},
		},
	})
	return store
}

func TestResolveWorkspaceDefault(t *testing.T) {
	store := newTestStore(t)
	ctx, err := ResolveWorkspace(store, "demo", "default")
	if err != nil {
		t.Fatalf("ResolveWorkspace: %v", err)
	}
	if ctx.RootPath != "/home/dev/demo" {
		t.Errorf("expected default workspace to resolve to project root, got %q", ctx.RootPath)
	}
}

func TestResolveWorkspaceNamed(t *testing.T) {
	store := newTestStore(t)
	ctx, err := ResolveWorkspace(store, "demo", "feature-x")
	if err != nil {
		t.Fatalf("ResolveWorkspace: %v", err)
	}
	if ctx.RootPath != "/home/dev/.tidyflow/workspaces/demo/feature-x" {
		t.Errorf("unexpected root path %q", ctx.RootPath)
	}
}

func TestResolveWorkspaceUnknownProject(t *testing.T) {
	store := newTestStore(t)
	if _, err := ResolveWorkspace(store, "nope", "default"); err != ErrProjectNotFound {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestResolveWorkspaceUnknownWorkspace(t *testing.T) {
	store := newTestStore(t)
	if _, err := ResolveWorkspace(store, "demo", "nope"); err != ErrWorkspaceNotFound {
		t.Fatalf("expected ErrWorkspaceNotFound, got %v", err)
	}
}

func TestResolveWorkspaceBranch(t *testing.T) {
	store := newTestStore(t)

	_, branch, err := ResolveWorkspaceBranch(store, "demo", "default")
	if err != nil || branch != "main" {
		t.Fatalf("expected default branch 'main', got %q (err=%v)", branch, err)
	}

	_, branch, err = ResolveWorkspaceBranch(store, "demo", "feature-x")
	if err != nil || branch != "feature-x" {
		t.Fatalf("expected branch 'feature-x', got %q (err=%v)", branch, err)
	}
}
