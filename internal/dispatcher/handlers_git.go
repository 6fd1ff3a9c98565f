package dispatcher

import (
	"context"
	"encoding/json"

	"github.com/gitbobobo/tidyflow/internal/gitcli"
	"github.com/gitbobobo/tidyflow/internal/handlercontext"
	"github.com/gitbobobo/tidyflow/internal/integration"
	"github.com/gitbobobo/tidyflow/internal/state"
	"github.com/gitbobobo/tidyflow/internal/ws"
)

func dispatchGit(ctx context.Context, hctx *handlercontext.Context, msgType string, raw []byte) {
	switch msgType {
	case ws.TypeGitStatus:
		handleGitStatus(ctx, hctx, raw)
	case ws.TypeGitDiff:
		handleGitDiff(ctx, hctx, raw)
	case ws.TypeGitStage:
		handleGitStage(ctx, hctx, raw)
	case ws.TypeGitUnstage:
		handleGitUnstage(ctx, hctx, raw)
	case ws.TypeGitDiscard:
		handleGitDiscard(ctx, hctx, raw)
	case ws.TypeGitBranches:
		handleGitBranches(ctx, hctx, raw)
	case ws.TypeGitSwitchBranch:
		handleGitSwitchBranch(ctx, hctx, raw)
	case ws.TypeGitCreateBranch:
		handleGitCreateBranch(ctx, hctx, raw)
	case ws.TypeGitCommit:
		handleGitCommit(ctx, hctx, raw)
	case ws.TypeGitFetch:
		handleGitFetch(ctx, hctx, raw)
	case ws.TypeGitRebase:
		handleGitRebase(ctx, hctx, raw)
	case ws.TypeGitRebaseContinue:
		handleGitRebaseContinue(ctx, hctx, raw)
	case ws.TypeGitRebaseAbort:
		handleGitRebaseAbort(ctx, hctx, raw)
	case ws.TypeGitOpStatus:
		handleGitOpStatus(ctx, hctx, raw)
	case ws.TypeGitLog:
		handleGitLog(ctx, hctx, raw)
	case ws.TypeGitShow:
		handleGitShow(ctx, hctx, raw)
	case ws.TypeGitAICommit:
		handleGitAICommit(hctx, raw)
	case ws.TypeGitCheckBranchUpToDate:
		handleGitCheckBranchUpToDate(ctx, hctx, raw)
	case ws.TypeGitEnsureIntegrationWorktree:
		handleGitEnsureIntegrationWorktree(hctx, raw)
	case ws.TypeGitMergeToDefault:
		handleGitMergeToDefault(hctx, raw)
	case ws.TypeGitMergeContinue:
		handleGitMergeContinue(hctx, raw)
	case ws.TypeGitMergeAbort:
		handleGitMergeAbort(hctx, raw)
	case ws.TypeGitIntegrationStatus:
		handleGitIntegrationStatus(hctx, raw)
	case ws.TypeGitRebaseOntoDefault:
		handleGitRebaseOntoDefault(hctx, raw)
	case ws.TypeGitRebaseOntoDefaultContinue:
		handleGitRebaseOntoDefaultContinue(hctx, raw)
	case ws.TypeGitRebaseOntoDefaultAbort:
		handleGitRebaseOntoDefaultAbort(hctx, raw)
	case ws.TypeGitResetIntegrationWorktree:
		handleGitResetIntegrationWorktree(hctx, raw)
	}
}

func handleGitStatus(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitStatus
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}

	result, err := hctx.Git.Status(ctx, wctx.RootPath)
	if err != nil {
		hctx.SendError("git_error", err.Error())
		return
	}

	items := make([]ws.GitStatusEntry, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, ws.GitStatusEntry{
			Path: it.Path, IndexStatus: it.IndexStatus, WorktreeStatus: it.WorktreeStatus,
			Staged: it.Staged, OrigPath: it.OrigPath,
		})
	}

	branches, _ := hctx.Git.Branches(ctx, wctx.RootPath)
	hctx.Send(ws.GitStatusResult{
		Type: ws.TypeGitStatusResult, Project: msg.Project, Workspace: msg.Workspace,
		RepoRoot: result.RepoRoot, Items: items, HasStagedChanges: result.HasStagedChanges,
		StagedCount: result.StagedCount, CurrentBranch: branches.Current, DefaultBranch: wctx.DefaultBranch,
	})
}

func handleGitDiff(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitDiff
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}

	opts := gitcli.DiffOptions{Mode: msg.Mode}
	if msg.Base != nil {
		opts.Base = *msg.Base
	}
	result, err := hctx.Git.Diff(ctx, wctx.RootPath, msg.Path, opts)
	if err != nil {
		hctx.SendError("git_error", err.Error())
		return
	}

	hctx.Send(ws.GitDiffResult{
		Type: ws.TypeGitDiffResult, Project: msg.Project, Workspace: msg.Workspace, Path: msg.Path,
		Code: result.Code, Format: result.Format, Text: result.Text, IsBinary: result.IsBinary,
		Truncated: result.Truncated, Mode: result.Mode, Base: msg.Base,
	})
}

func pathList(path *string) []string {
	if path == nil || *path == "" {
		return nil
	}
	return []string{*path}
}

func handleGitStage(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitStage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	err = hctx.Git.Stage(ctx, wctx.RootPath, pathList(msg.Path), msg.Scope)
	sendGitOpResult(hctx, msg.Project, msg.Workspace, "stage", msg.Path, msg.Scope, err)
}

func handleGitUnstage(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitUnstage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	err = hctx.Git.Unstage(ctx, wctx.RootPath, pathList(msg.Path), msg.Scope)
	sendGitOpResult(hctx, msg.Project, msg.Workspace, "unstage", msg.Path, msg.Scope, err)
}

func handleGitDiscard(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitDiscard
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	err = hctx.Git.Discard(ctx, wctx.RootPath, pathList(msg.Path), msg.Scope, msg.IncludeUntracked)
	sendGitOpResult(hctx, msg.Project, msg.Workspace, "discard", msg.Path, msg.Scope, err)
}

func sendGitOpResult(hctx *handlercontext.Context, project, workspace, op string, path *string, scope string, err error) {
	result := ws.GitOpResult{Type: ws.TypeGitOpResult, Project: project, Workspace: workspace, Op: op, Path: path, Scope: scope, OK: err == nil}
	if err != nil {
		m := err.Error()
		result.Message = &m
	}
	hctx.Send(result)
}

func handleGitBranches(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitBranches
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	result, err := hctx.Git.Branches(ctx, wctx.RootPath)
	if err != nil {
		hctx.SendError("git_error", err.Error())
		return
	}
	branches := make([]ws.GitBranchInfo, 0, len(result.Branches))
	for _, b := range result.Branches {
		branches = append(branches, ws.GitBranchInfo{Name: b.Name, IsCurrent: b.IsCurrent, IsRemote: b.IsRemote})
	}
	hctx.Send(ws.GitBranchesResult{Type: ws.TypeGitBranchesResult, Project: msg.Project, Workspace: msg.Workspace, Current: result.Current, Branches: branches})
}

func handleGitSwitchBranch(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitSwitchBranch
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	err = hctx.Git.SwitchBranch(ctx, wctx.RootPath, msg.Branch)
	sendGitOpResult(hctx, msg.Project, msg.Workspace, "switch_branch", nil, "", err)
}

func handleGitCreateBranch(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitCreateBranch
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	err = hctx.Git.CreateBranch(ctx, wctx.RootPath, msg.Branch)
	sendGitOpResult(hctx, msg.Project, msg.Workspace, "create_branch", nil, "", err)
}

func handleGitCommit(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitCommit
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	sha, err := hctx.Git.Commit(ctx, wctx.RootPath, msg.Message)
	result := ws.GitCommitResult{Type: ws.TypeGitCommitResult, Project: msg.Project, Workspace: msg.Workspace, OK: err == nil}
	if err != nil {
		m := err.Error()
		result.Message = &m
	} else {
		result.SHA = &sha
	}
	hctx.Send(result)
}

func handleGitFetch(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitFetch
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	err = hctx.Git.Fetch(ctx, wctx.RootPath)
	sendGitOpResult(hctx, msg.Project, msg.Workspace, "fetch", nil, "", err)
}

func handleGitRebase(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitRebase
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	sendGitRebaseResult(ctx, hctx, msg.Project, msg.Workspace, wctx.RootPath, hctx.Git.Rebase(ctx, wctx.RootPath, msg.OntoBranch))
}

func handleGitRebaseContinue(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitRebaseContinue
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	sendGitRebaseResult(ctx, hctx, msg.Project, msg.Workspace, wctx.RootPath, hctx.Git.RebaseContinue(ctx, wctx.RootPath))
}

func handleGitRebaseAbort(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitRebaseAbort
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	err = hctx.Git.RebaseAbort(ctx, wctx.RootPath)
	result := ws.GitRebaseResult{Type: ws.TypeGitRebaseResult, Project: msg.Project, Workspace: msg.Workspace, OK: err == nil, State: "idle"}
	if err != nil {
		m := err.Error()
		result.Message = &m
		result.State = "failed"
	}
	hctx.Send(result)
}

func sendGitRebaseResult(ctx context.Context, hctx *handlercontext.Context, project, workspace, repoRoot string, opErr error) {
	result := ws.GitRebaseResult{Type: ws.TypeGitRebaseResult, Project: project, Workspace: workspace}
	if opErr == nil {
		result.OK = true
		result.State = "completed"
		hctx.Send(result)
		return
	}
	state, conflicts, statusErr := hctx.Git.OpStatus(ctx, repoRoot)
	if statusErr == nil && (state == "rebasing" || state == "rebase_conflict") {
		result.Conflicts = conflicts
		if state == "rebase_conflict" {
			result.State = "conflict"
		} else {
			result.State = "rebasing"
		}
		m := "rebase stopped for conflict resolution"
		result.Message = &m
		hctx.Send(result)
		return
	}
	m := opErr.Error()
	result.State = "failed"
	result.Message = &m
	hctx.Send(result)
}

func handleGitOpStatus(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitOpStatus
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	opState, conflicts, err := hctx.Git.OpStatus(ctx, wctx.RootPath)
	if err != nil {
		hctx.SendError("git_error", err.Error())
		return
	}
	hctx.Send(ws.GitOpStatusResult{Type: ws.TypeGitOpStatusResult, Project: msg.Project, Workspace: msg.Workspace, State: opState, Conflicts: conflicts})
}

func handleGitLog(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitLog
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	entries, err := hctx.Git.Log(ctx, wctx.RootPath, msg.Limit)
	if err != nil {
		hctx.SendError("git_error", err.Error())
		return
	}
	items := make([]ws.GitLogEntryInfo, 0, len(entries))
	for _, e := range entries {
		items = append(items, ws.GitLogEntryInfo{SHA: e.SHA, ShortSHA: e.ShortSHA, Message: e.Message, Author: e.Author, AuthorEmail: e.AuthorEmail, Date: e.Date})
	}
	hctx.Send(ws.GitLogResult{Type: ws.TypeGitLogResult, Project: msg.Project, Workspace: msg.Workspace, Entries: items})
}

func handleGitShow(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitShow
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	result, err := hctx.Git.Show(ctx, wctx.RootPath, msg.SHA)
	if err != nil {
		hctx.SendError("git_error", err.Error())
		return
	}
	files := make([]ws.GitShowFileInfo, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, ws.GitShowFileInfo{Path: f.Path, Status: f.Status, Additions: f.Additions, Deletions: f.Deletions})
	}
	hctx.Send(ws.GitShowResult{
		Type: ws.TypeGitShowResult, Project: msg.Project, Workspace: msg.Workspace, SHA: result.SHA, FullSHA: result.FullSHA,
		Message: result.Message, Author: result.Author, AuthorEmail: result.AuthorEmail, Date: result.Date, Files: files,
	})
}

// handleGitAICommit is out of scope (SPEC_FULL.md §3, Non-goals): no AI
// agent is invoked; the daemon only acknowledges the request so a client
// can fall back to its own commit flow.
func handleGitAICommit(hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitAICommit
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	hctx.Send(ws.GitAICommitResult{Type: ws.TypeGitAICommitResult, Success: false, Message: "AI-assisted commit is not available on this host"})
}

func handleGitCheckBranchUpToDate(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitCheckBranchUpToDate
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, branch, err := state.ResolveWorkspaceBranch(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	ahead, behind, err := hctx.Git.BranchDivergence(ctx, wctx.RootPath, branch, wctx.DefaultBranch)
	if err != nil {
		hctx.SendError("git_error", err.Error())
		return
	}
	hctx.Send(ws.GitCheckBranchUpToDateResult{
		Type: ws.TypeGitCheckBranchUpToDateResult, Project: msg.Project, Workspace: msg.Workspace,
		UpToDate: behind == 0, AheadBy: ahead, BehindBy: behind,
	})
}

// --- Integration worktree family ---------------------------------------

func handleGitEnsureIntegrationWorktree(hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitEnsureIntegrationWorktree
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	pctx, err := state.ResolveProject(hctx.Store, msg.Project)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	path, err := hctx.Integration.Ensure(pctx.RootPath, msg.Project, pctx.DefaultBranch)
	result := ws.GitResetIntegrationWorktreeResult{Type: ws.TypeGitResetIntegrationWorktreeResult, Project: msg.Project, OK: err == nil}
	if err != nil {
		m := integrationErrMessage(err)
		result.Message = &m
	} else {
		result.Path = &path
	}
	hctx.Send(result)
}

func integrationErrMessage(err error) string {
	switch err {
	case integration.ErrBusy:
		return "an integration operation is already in progress for this project"
	case integration.ErrNotClean:
		return "integration worktree has uncommitted changes or an operation in progress"
	default:
		return err.Error()
	}
}

func handleGitMergeToDefault(hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitMergeToDefault
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	pctx, sourceBranch, err := state.ResolveWorkspaceBranch(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	defaultBranch := msg.DefaultBranch
	if defaultBranch == "" {
		defaultBranch = pctx.DefaultBranch
	}

	result, err := hctx.Integration.MergeToDefault(pctx.RootPath, msg.Project, sourceBranch, defaultBranch)
	if err != nil {
		m := integrationErrMessage(err)
		hctx.Send(ws.GitMergeToDefaultResult{Type: ws.TypeGitMergeToDefaultResult, Project: msg.Project, OK: false, State: "failed", Message: &m})
		return
	}
	hctx.Send(mergeResultToWire(msg.Project, result))
}

func mergeResultToWire(project string, r integration.Result) ws.GitMergeToDefaultResult {
	out := ws.GitMergeToDefaultResult{Type: ws.TypeGitMergeToDefaultResult, Project: project, OK: r.OK, State: r.State, Conflicts: r.Conflicts}
	if r.Message != "" {
		m := r.Message
		out.Message = &m
	}
	if r.HeadSHA != "" {
		sha := r.HeadSHA
		out.HeadSHA = &sha
	}
	if r.IntegrationPath != "" {
		p := r.IntegrationPath
		out.IntegrationPath = &p
	}
	return out
}

func handleGitMergeContinue(hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitMergeContinue
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	result, err := hctx.Integration.MergeContinue(msg.Project)
	if err != nil {
		m := integrationErrMessage(err)
		hctx.Send(ws.GitMergeToDefaultResult{Type: ws.TypeGitMergeToDefaultResult, Project: msg.Project, OK: false, State: "failed", Message: &m})
		return
	}
	hctx.Send(mergeResultToWire(msg.Project, result))
}

func handleGitMergeAbort(hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitMergeAbort
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	result, err := hctx.Integration.MergeAbort(msg.Project)
	if err != nil {
		m := integrationErrMessage(err)
		hctx.Send(ws.GitMergeToDefaultResult{Type: ws.TypeGitMergeToDefaultResult, Project: msg.Project, OK: false, State: "failed", Message: &m})
		return
	}
	hctx.Send(mergeResultToWire(msg.Project, result))
}

func handleGitIntegrationStatus(hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitIntegrationStatus
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	pctx, err := state.ResolveProject(hctx.Store, msg.Project)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	status := hctx.Integration.Status(msg.Project, pctx.DefaultBranch)
	hctx.Send(ws.GitIntegrationStatusResult{
		Type: ws.TypeGitIntegrationStatusResult, Project: msg.Project, State: string(status.State),
		Conflicts: status.Conflicts, DefaultBranch: status.DefaultBranch, Path: status.Path, IsClean: status.IsClean,
	})
}

func handleGitRebaseOntoDefault(hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitRebaseOntoDefault
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	pctx, sourceBranch, err := state.ResolveWorkspaceBranch(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	defaultBranch := msg.DefaultBranch
	if defaultBranch == "" {
		defaultBranch = pctx.DefaultBranch
	}
	result, err := hctx.Integration.RebaseOntoDefault(pctx.RootPath, msg.Project, sourceBranch, defaultBranch)
	if err != nil {
		m := integrationErrMessage(err)
		hctx.Send(ws.GitRebaseOntoDefaultResult{Type: ws.TypeGitRebaseOntoDefaultResult, Project: msg.Project, OK: false, State: "failed", Message: &m})
		return
	}
	hctx.Send(rebaseOntoDefaultResultToWire(msg.Project, result))
}

func rebaseOntoDefaultResultToWire(project string, r integration.Result) ws.GitRebaseOntoDefaultResult {
	out := ws.GitRebaseOntoDefaultResult{Type: ws.TypeGitRebaseOntoDefaultResult, Project: project, OK: r.OK, State: r.State, Conflicts: r.Conflicts}
	if r.Message != "" {
		m := r.Message
		out.Message = &m
	}
	if r.HeadSHA != "" {
		sha := r.HeadSHA
		out.HeadSHA = &sha
	}
	if r.IntegrationPath != "" {
		p := r.IntegrationPath
		out.IntegrationPath = &p
	}
	return out
}

func handleGitRebaseOntoDefaultContinue(hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitRebaseOntoDefaultContinue
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	result, err := hctx.Integration.RebaseContinue(msg.Project)
	if err != nil {
		m := integrationErrMessage(err)
		hctx.Send(ws.GitRebaseOntoDefaultResult{Type: ws.TypeGitRebaseOntoDefaultResult, Project: msg.Project, OK: false, State: "failed", Message: &m})
		return
	}
	hctx.Send(rebaseOntoDefaultResultToWire(msg.Project, result))
}

func handleGitRebaseOntoDefaultAbort(hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitRebaseOntoDefaultAbort
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	result, err := hctx.Integration.RebaseAbort(msg.Project)
	if err != nil {
		m := integrationErrMessage(err)
		hctx.Send(ws.GitRebaseOntoDefaultResult{Type: ws.TypeGitRebaseOntoDefaultResult, Project: msg.Project, OK: false, State: "failed", Message: &m})
		return
	}
	hctx.Send(rebaseOntoDefaultResultToWire(msg.Project, result))
}

// handleGitResetIntegrationWorktree is a hard reset (spec.md §9 Open
// Question b, resolved: reset discards in-progress state and force
// re-checks-out the default branch rather than deleting and recreating
// the worktree).
func handleGitResetIntegrationWorktree(hctx *handlercontext.Context, raw []byte) {
	var msg ws.GitResetIntegrationWorktree
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	pctx, err := state.ResolveProject(hctx.Store, msg.Project)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}
	result, err := hctx.Integration.Reset(msg.Project, pctx.DefaultBranch)
	out := ws.GitResetIntegrationWorktreeResult{Type: ws.TypeGitResetIntegrationWorktreeResult, Project: msg.Project}
	if err != nil {
		m := integrationErrMessage(err)
		out.Message = &m
		hctx.Send(out)
		return
	}
	out.OK = result.OK
	if result.Message != "" {
		m := result.Message
		out.Message = &m
	}
	if result.Path != "" {
		p := result.Path
		out.Path = &p
	}
	hctx.Send(out)
}
