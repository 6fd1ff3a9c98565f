package state

import "fmt"

// defaultWorkspaceName is the virtual workspace backed directly by a
// project's root_path rather than a worktree (spec.md §3, §9).
const defaultWorkspaceName = "default"

// ErrProjectNotFound and ErrWorkspaceNotFound back the error-code taxonomy
// (spec.md §7): "project_not_found" / "workspace_not_found".
var (
	ErrProjectNotFound   = fmt.Errorf("project not found")
	ErrWorkspaceNotFound = fmt.Errorf("workspace not found")
)

// WorkspaceContext is the resolved (root path, branch) pair a handler
// needs to act on a project/workspace pair without re-deriving it itself.
type WorkspaceContext struct {
	ProjectName   string
	WorkspaceName string
	RootPath      string
	DefaultBranch string
}

// ResolveWorkspace looks up project/workspace and returns its working
// directory. The "default" workspace short-circuits to the project's own
// root_path rather than requiring a worktree entry.
func ResolveWorkspace(store *Store, project, workspace string) (WorkspaceContext, error) {
	p, ok := store.GetProject(project)
	if !ok {
		return WorkspaceContext{}, ErrProjectNotFound
	}

	if workspace == defaultWorkspaceName {
		return WorkspaceContext{
			ProjectName:   p.Name,
			WorkspaceName: workspace,
			RootPath:      p.RootPath,
			DefaultBranch: p.DefaultBranch,
		}, nil
	}

	w, ok := p.Workspaces[workspace]
	if !ok {
		return WorkspaceContext{}, ErrWorkspaceNotFound
	}
	return WorkspaceContext{
		ProjectName:   p.Name,
		WorkspaceName: workspace,
		RootPath:      w.WorktreePath,
		DefaultBranch: p.DefaultBranch,
	}, nil
}

// ProjectContext is the resolved project-only context used by operations
// that don't need a specific workspace's path, such as integration ops.
type ProjectContext struct {
	ProjectName   string
	RootPath      string
	DefaultBranch string
}

// ResolveProject looks up a project without resolving a workspace.
func ResolveProject(store *Store, project string) (ProjectContext, error) {
	p, ok := store.GetProject(project)
	if !ok {
		return ProjectContext{}, ErrProjectNotFound
	}
	return ProjectContext{
		ProjectName:   p.Name,
		RootPath:      p.RootPath,
		DefaultBranch: p.DefaultBranch,
	}, nil
}

// ResolveWorkspaceBranch resolves a project plus the source branch for
// workspace — the project's default branch for "default", or the
// workspace's own branch otherwise. Used by merge/rebase-onto-default ops.
func ResolveWorkspaceBranch(store *Store, project, workspace string) (ProjectContext, string, error) {
	p, ok := store.GetProject(project)
	if !ok {
		return ProjectContext{}, "", ErrProjectNotFound
	}

	ctx := ProjectContext{
		ProjectName:   p.Name,
		RootPath:      p.RootPath,
		DefaultBranch: p.DefaultBranch,
	}

	if workspace == defaultWorkspaceName {
		return ctx, p.DefaultBranch, nil
	}

	w, ok := p.Workspaces[workspace]
	if !ok {
		return ProjectContext{}, "", ErrWorkspaceNotFound
	}
	return ctx, w.Branch, nil
}
