package dispatcher

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gitbobobo/tidyflow/internal/config"
	"github.com/gitbobobo/tidyflow/internal/handlercontext"
	"github.com/gitbobobo/tidyflow/internal/logger"
	"github.com/gitbobobo/tidyflow/internal/state"
	"github.com/gitbobobo/tidyflow/internal/ws"
)

func dispatchProject(ctx context.Context, hctx *handlercontext.Context, msgType string, raw []byte) {
	switch msgType {
	case ws.TypeListProjects:
		handleListProjects(hctx)
	case ws.TypeListWorkspaces:
		handleListWorkspaces(hctx, raw)
	case ws.TypeSelectWorkspace:
		handleSelectWorkspace(hctx, raw)
	case ws.TypeImportProject:
		handleImportProject(ctx, hctx, raw)
	case ws.TypeCreateWorkspace:
		handleCreateWorkspace(ctx, hctx, raw)
	case ws.TypeRemoveProject:
		handleRemoveProject(ctx, hctx, raw)
	case ws.TypeRemoveWorkspace:
		handleRemoveWorkspace(ctx, hctx, raw)
	case ws.TypeSaveProjectCommands:
		handleSaveProjectCommands(hctx, raw)
	case ws.TypeRunProjectCommand:
		handleRunProjectCommand(ctx, hctx, raw)
	case ws.TypeCancelProjectCommand:
		handleCancelProjectCommand(hctx, raw)
	}
}

func projectInfo(p *state.Project) ws.ProjectInfo {
	return ws.ProjectInfo{
		Name:          p.Name,
		RootPath:      p.RootPath,
		RemoteURL:     p.RemoteURL,
		DefaultBranch: p.DefaultBranch,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

func workspaceInfo(w *state.Workspace) ws.WorkspaceInfo {
	info := ws.WorkspaceInfo{
		Name:         w.Name,
		WorktreePath: w.WorktreePath,
		Branch:       w.Branch,
		Status:       string(w.Status),
		CreatedAt:    w.CreatedAt.Format(time.RFC3339),
		LastAccessed: w.LastAccessed.Format(time.RFC3339),
	}
	if w.SetupResult != nil {
		ok := w.SetupResult.Success
		info.SetupOK = &ok
		if w.SetupResult.LastError != "" {
			msg := w.SetupResult.LastError
			info.SetupError = &msg
		}
	}
	return info
}

func handleListProjects(hctx *handlercontext.Context) {
	names := hctx.Store.ListProjects()
	sort.Strings(names)
	items := make([]ws.ProjectInfo, 0, len(names))
	for _, name := range names {
		if p, ok := hctx.Store.GetProject(name); ok {
			items = append(items, projectInfo(p))
		}
	}
	hctx.Send(ws.Projects{Type: ws.TypeProjects, Items: items})
}

func handleListWorkspaces(hctx *handlercontext.Context, raw []byte) {
	var msg ws.ListWorkspaces
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	p, ok := hctx.Store.GetProject(msg.Project)
	if !ok {
		hctx.SendError("project_not_found", "no such project: "+msg.Project)
		return
	}

	names := make([]string, 0, len(p.Workspaces))
	for name := range p.Workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	items := make([]ws.WorkspaceInfo, 0, len(names))
	for _, name := range names {
		items = append(items, workspaceInfo(p.Workspaces[name]))
	}
	hctx.Send(ws.Workspaces{Type: ws.TypeWorkspaces, Project: msg.Project, Items: items})
}

// handleSelectWorkspace always spawns a fresh terminal rather than
// attaching to an existing one — Open Question (a) in spec.md §9 is
// resolved in favor of the source's observed behavior.
func handleSelectWorkspace(hctx *handlercontext.Context, raw []byte) {
	var msg ws.SelectWorkspace
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}

	hctx.Store.UpdateWorkspace(msg.Project, msg.Workspace, func(w *state.Workspace) {
		w.LastAccessed = time.Now().UTC()
	})
	hctx.Saver.Trigger()

	termID, shell, err := hctx.Registry.Spawn(wctx.RootPath, msg.Project, msg.Workspace)
	if err != nil {
		hctx.SendError("internal_error", err.Error())
		return
	}
	startForwarder(hctx, termID)

	hctx.Send(ws.SelectedWorkspace{
		Type:      ws.TypeSelectedWorkspace,
		Project:   msg.Project,
		Workspace: msg.Workspace,
		Root:      wctx.RootPath,
		SessionID: termID,
		Shell:     shell,
	})
}

func handleImportProject(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.ImportProject
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	if _, exists := hctx.Store.GetProject(msg.Name); exists {
		hctx.SendError("project_exists", "a project named '"+msg.Name+"' already exists")
		return
	}

	info, err := os.Stat(msg.Path)
	if err != nil || !info.IsDir() {
		hctx.SendError("not_git_repo", "path does not exist: "+msg.Path)
		return
	}
	if _, err := os.Stat(filepath.Join(msg.Path, ".git")); err != nil {
		hctx.SendError("not_git_repo", msg.Path+" is not a Git repository")
		return
	}

	branches, err := hctx.Git.Branches(ctx, msg.Path)
	defaultBranch := branches.Current
	if err != nil || defaultBranch == "" {
		defaultBranch = "main"
	}
	remoteURL := hctx.Git.RemoteURL(ctx, msg.Path)

	p := &state.Project{
		Name:          msg.Name,
		RootPath:      msg.Path,
		RemoteURL:     remoteURL,
		DefaultBranch: defaultBranch,
		CreatedAt:     time.Now().UTC(),
		Workspaces:    make(map[string]*state.Workspace),
	}
	hctx.Store.AddProject(p)
	hctx.Saver.Trigger()

	hctx.Send(ws.ProjectImported{
		Type:          ws.TypeProjectImported,
		Name:          p.Name,
		Root:          p.RootPath,
		DefaultBranch: p.DefaultBranch,
	})
}

func handleCreateWorkspace(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.CreateWorkspace
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	p, ok := hctx.Store.GetProject(msg.Project)
	if !ok {
		hctx.SendError("project_not_found", "no such project: "+msg.Project)
		return
	}

	name := uuid.NewString()[:8]
	if _, exists := p.Workspaces[name]; exists {
		hctx.SendError("workspace_exists", "workspace name collision, retry")
		return
	}

	fromBranch := p.DefaultBranch
	if msg.FromBranch != nil && *msg.FromBranch != "" {
		fromBranch = *msg.FromBranch
	}
	branch := "tidyflow/" + name
	worktreePath := filepath.Join(config.WorkspacesDir(hctx.DataDir), msg.Project, name)

	if err := os.MkdirAll(filepath.Dir(worktreePath), 0o755); err != nil {
		hctx.SendError("internal_error", err.Error())
		return
	}
	if err := hctx.Git.AddWorktree(ctx, p.RootPath, worktreePath, branch, fromBranch, true); err != nil {
		hctx.SendError("internal_error", err.Error())
		return
	}

	now := time.Now().UTC()
	w := &state.Workspace{
		Name:         name,
		WorktreePath: worktreePath,
		Branch:       branch,
		Status:       state.WorkspaceReady,
		CreatedAt:    now,
		LastAccessed: now,
	}
	hctx.Store.AddWorkspace(msg.Project, w)
	hctx.Saver.Trigger()

	hctx.Send(ws.WorkspaceCreated{Type: ws.TypeWorkspaceCreated, Project: msg.Project, Workspace: workspaceInfo(w)})
}

func handleRemoveProject(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.RemoveProject
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	p, ok := hctx.Store.GetProject(msg.Name)
	if !ok {
		hctx.SendError("project_not_found", "no such project: "+msg.Name)
		return
	}

	for wname, w := range p.Workspaces {
		if err := hctx.Git.RemoveWorktree(ctx, p.RootPath, w.WorktreePath, true); err != nil {
			logger.Warn("remove_project: worktree cleanup failed", "project", msg.Name, "workspace", wname, "error", err)
		}
	}

	hctx.Store.RemoveProject(msg.Name)
	hctx.Saver.Trigger()
	hctx.Send(ws.ProjectRemoved{Type: ws.TypeProjectRemoved, Name: msg.Name, OK: true})
}

func handleRemoveWorkspace(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.RemoveWorkspace
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	p, ok := hctx.Store.GetProject(msg.Project)
	if !ok {
		hctx.SendError("project_not_found", "no such project: "+msg.Project)
		return
	}
	w, ok := p.Workspaces[msg.Workspace]
	if !ok {
		hctx.SendError("workspace_not_found", "no such workspace: "+msg.Workspace)
		return
	}

	if err := hctx.Git.RemoveWorktree(ctx, p.RootPath, w.WorktreePath, true); err != nil {
		msg2 := err.Error()
		hctx.Send(ws.WorkspaceRemoved{Type: ws.TypeWorkspaceRemoved, Project: msg.Project, Workspace: msg.Workspace, OK: false, Message: &msg2})
		return
	}

	hctx.Store.RemoveWorkspace(msg.Project, msg.Workspace)
	hctx.Saver.Trigger()
	hctx.Send(ws.WorkspaceRemoved{Type: ws.TypeWorkspaceRemoved, Project: msg.Project, Workspace: msg.Workspace, OK: true})
}

func handleSaveProjectCommands(hctx *handlercontext.Context, raw []byte) {
	var msg ws.SaveProjectCommands
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	p, ok := hctx.Store.GetProject(msg.Project)
	if !ok {
		hctx.SendError("project_not_found", "no such project: "+msg.Project)
		return
	}

	commands := make([]state.ProjectCommand, 0, len(msg.Commands))
	for _, c := range msg.Commands {
		commands = append(commands, state.ProjectCommand{
			ID:          c.ID,
			Label:       c.Label,
			Command:     c.Command,
			CwdRelative: c.CwdRelative,
		})
	}
	p.Commands = commands
	hctx.Saver.Trigger()
	hctx.Send(ws.ProjectCommandsSaved{Type: ws.TypeProjectCommandsSaved, Project: msg.Project, OK: true})
}

// handleRunProjectCommand streams the command's stdout/stderr line-by-line
// as ProjectCommandOutput events and replies with a single completion
// event once the process exits or is cancelled (spec.md §3, §5).
func handleRunProjectCommand(parent context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.RunProjectCommand
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	p, _ := hctx.Store.GetProject(msg.Project)
	var command string
	var cwdRel string
	for _, c := range p.Commands {
		if c.ID == msg.CommandID {
			command = c.Command
			cwdRel = c.CwdRelative
			break
		}
	}
	if command == "" {
		hctx.SendError("internal_error", "no such project command: "+msg.CommandID)
		return
	}

	dir := wctx.RootPath
	if cwdRel != "" {
		dir = filepath.Join(dir, cwdRel)
	}

	taskID := uuid.NewString()
	ctx, cancel := context.WithCancel(parent)
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	cmd.Dir = dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		hctx.SendError("internal_error", err.Error())
		return
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		cancel()
		hctx.SendError("internal_error", err.Error())
		return
	}

	hctx.TrackCommand(msg.CommandID, cmd, cancel)
	hctx.Send(ws.ProjectCommandStarted{
		Type: ws.TypeProjectCommandStarted, Project: msg.Project, Workspace: msg.Workspace,
		CommandID: msg.CommandID, TaskID: taskID,
	})

	go func() {
		defer cancel()
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 4096), 1<<20)
		for scanner.Scan() {
			hctx.Send(ws.ProjectCommandOutput{Type: ws.TypeProjectCommandOutput, TaskID: taskID, Line: scanner.Text()})
		}

		err := cmd.Wait()
		hctx.ForgetCommand(msg.CommandID)

		if ctx.Err() != nil {
			hctx.Send(ws.ProjectCommandCancelled{
				Type: ws.TypeProjectCommandCancelled, Project: msg.Project, Workspace: msg.Workspace,
				CommandID: msg.CommandID, TaskID: taskID,
			})
			return
		}

		completed := ws.ProjectCommandCompleted{
			Type: ws.TypeProjectCommandCompleted, Project: msg.Project, Workspace: msg.Workspace,
			CommandID: msg.CommandID, TaskID: taskID, OK: err == nil,
		}
		if err != nil {
			errMsg := err.Error()
			completed.Message = &errMsg
		}
		hctx.Send(completed)
	}()
}

func handleCancelProjectCommand(hctx *handlercontext.Context, raw []byte) {
	var msg ws.CancelProjectCommand
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	hctx.CancelCommand(msg.CommandID)
}
