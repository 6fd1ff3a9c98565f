// Package gitcli implements the GitAdapter interface (SPEC_FULL.md §4.Q)
// by shelling out to the system `git`, mirroring the teacher's own
// exec.CommandContext usage in internal/agent/*.go and internal/sandbox.
package gitcli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxDiffSize caps a single-file diff at 1 MiB, truncated at the last
// newline boundary (spec.md §6).
const MaxDiffSize = 1 << 20

// GitStatusEntry, GitBranchesResult, etc. are the adapter's own result
// types; the dispatcher maps them onto the wire DTOs in internal/ws.
type GitStatusEntry struct {
	Path           string
	IndexStatus    string
	WorktreeStatus string
	Staged         bool
	OrigPath       string
	Additions      *int
	Deletions      *int
}

type GitStatusResult struct {
	RepoRoot         string
	Items            []GitStatusEntry
	HasStagedChanges bool
	StagedCount      int
}

type DiffOptions struct {
	Base string
	Mode string // "working" | "staged"
}

type GitDiffResult struct {
	Code      string
	Format    string
	Text      string
	IsBinary  bool
	Truncated bool
	Mode      string
}

type GitBranchInfo struct {
	Name      string
	IsCurrent bool
	IsRemote  bool
}

type GitBranchesResult struct {
	Current  string
	Branches []GitBranchInfo
}

type GitLogEntry struct {
	SHA         string
	ShortSHA    string
	Message     string
	Author      string
	AuthorEmail string
	Date        string
}

type GitShowFile struct {
	Path      string
	Status    string
	Additions int
	Deletions int
}

type GitShowResult struct {
	SHA         string
	FullSHA     string
	Message     string
	Author      string
	AuthorEmail string
	Date        string
	Files       []GitShowFile
}

// Adapter is the system-git-backed implementation of SPEC_FULL.md's
// GitAdapter interface.
type Adapter struct{}

// New returns a ready-to-use Adapter; it carries no state of its own —
// every method is parameterized by repoRoot.
func New() *Adapter { return &Adapter{} }

func run(ctx context.Context, dir string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return strings.TrimRight(stdout.String(), "\n"), strings.TrimSpace(stderr.String()), err
}

// Status runs `git status --porcelain=v1` and parses one entry per line
// (a rename as "old -> new"), matching
// original_source/core/src/server/git/utils.rs's GitStatusEntry shape.
func (a *Adapter) Status(ctx context.Context, repoRoot string) (GitStatusResult, error) {
	out, stderr, err := run(ctx, repoRoot, "status", "--porcelain=v1")
	if err != nil {
		return GitStatusResult{}, fmt.Errorf("git status: %s", stderr)
	}

	root, _, err := run(ctx, repoRoot, "rev-parse", "--show-toplevel")
	if err != nil {
		root = repoRoot
	}

	var items []GitStatusEntry
	staged := 0
	if out != "" {
		for _, line := range strings.Split(out, "\n") {
			if len(line) < 3 {
				continue
			}
			index := string(line[0])
			worktree := string(line[1])
			path := strings.TrimSpace(line[3:])
			origPath := ""
			if idx := strings.Index(path, " -> "); idx >= 0 {
				origPath = path[:idx]
				path = path[idx+4:]
			}
			isStaged := index != " " && index != "?"
			if isStaged {
				staged++
			}
			items = append(items, GitStatusEntry{
				Path:           path,
				IndexStatus:    index,
				WorktreeStatus: worktree,
				Staged:         isStaged,
				OrigPath:       origPath,
			})
		}
	}

	return GitStatusResult{
		RepoRoot:         root,
		Items:            items,
		HasStagedChanges: staged > 0,
		StagedCount:      staged,
	}, nil
}

// Diff runs `git diff` (working tree) or `git diff --cached` (staged),
// capped at MaxDiffSize and truncated at the last newline.
func (a *Adapter) Diff(ctx context.Context, repoRoot, path string, opts DiffOptions) (GitDiffResult, error) {
	args := []string{"diff"}
	if opts.Mode == "staged" {
		args = append(args, "--cached")
	}
	if opts.Base != "" {
		args = append(args, opts.Base)
	}
	args = append(args, "--", path)

	out, stderr, err := run(ctx, repoRoot, args...)
	if err != nil {
		return GitDiffResult{}, fmt.Errorf("git diff: %s", stderr)
	}

	isBinary := strings.Contains(out, "Binary files")
	truncated := false
	text := out
	if len(text) > MaxDiffSize {
		cut := strings.LastIndexByte(text[:MaxDiffSize], '\n')
		if cut < 0 {
			cut = MaxDiffSize
		}
		text = text[:cut]
		truncated = true
	}

	mode := opts.Mode
	if mode == "" {
		mode = "working"
	}
	return GitDiffResult{
		Code:      "M",
		Format:    "unified",
		Text:      text,
		IsBinary:  isBinary,
		Truncated: truncated,
		Mode:      mode,
	}, nil
}

func pathspecArgs(paths []string, scope string) []string {
	if scope == "all" || len(paths) == 0 {
		return []string{"-A"}
	}
	args := []string{"--"}
	return append(args, paths...)
}

// Stage/Unstage/Discard are idempotent: staging an already-staged path
// (and vice versa) is not an error (SPEC_FULL.md §4.Q contract).
func (a *Adapter) Stage(ctx context.Context, repoRoot string, paths []string, scope string) error {
	_, stderr, err := run(ctx, repoRoot, append([]string{"add"}, pathspecArgs(paths, scope)...)...)
	if err != nil {
		return fmt.Errorf("git add: %s", stderr)
	}
	return nil
}

func (a *Adapter) Unstage(ctx context.Context, repoRoot string, paths []string, scope string) error {
	args := append([]string{"restore", "--staged"}, pathspecArgs(paths, scope)[1:]...)
	if len(paths) == 0 || scope == "all" {
		args = []string{"restore", "--staged", "."}
	}
	_, stderr, err := run(ctx, repoRoot, args...)
	if err != nil {
		return fmt.Errorf("git restore --staged: %s", stderr)
	}
	return nil
}

func (a *Adapter) Discard(ctx context.Context, repoRoot string, paths []string, scope string, includeUntracked bool) error {
	checkoutArgs := append([]string{"checkout", "--"}, pathspecArgs(paths, scope)[1:]...)
	if len(paths) == 0 || scope == "all" {
		checkoutArgs = []string{"checkout", "--", "."}
	}
	if _, stderr, err := run(ctx, repoRoot, checkoutArgs...); err != nil {
		return fmt.Errorf("git checkout: %s", stderr)
	}
	if includeUntracked {
		cleanArgs := []string{"clean", "-fd"}
		if len(paths) > 0 && scope != "all" {
			cleanArgs = append(cleanArgs, "--")
			cleanArgs = append(cleanArgs, paths...)
		}
		if _, stderr, err := run(ctx, repoRoot, cleanArgs...); err != nil {
			return fmt.Errorf("git clean: %s", stderr)
		}
	}
	return nil
}

func (a *Adapter) Branches(ctx context.Context, repoRoot string) (GitBranchesResult, error) {
	current, stderr, err := run(ctx, repoRoot, "branch", "--show-current")
	if err != nil {
		return GitBranchesResult{}, fmt.Errorf("git branch --show-current: %s", stderr)
	}

	out, stderr, err := run(ctx, repoRoot, "branch", "-a", "--format=%(refname:short)")
	if err != nil {
		return GitBranchesResult{}, fmt.Errorf("git branch -a: %s", stderr)
	}

	var branches []GitBranchInfo
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		branches = append(branches, GitBranchInfo{
			Name:      name,
			IsCurrent: name == current,
			IsRemote:  strings.HasPrefix(name, "remotes/"),
		})
	}
	return GitBranchesResult{Current: current, Branches: branches}, nil
}

func (a *Adapter) SwitchBranch(ctx context.Context, repoRoot, branch string) error {
	_, stderr, err := run(ctx, repoRoot, "checkout", branch)
	if err != nil {
		return fmt.Errorf("git checkout %s: %s", branch, stderr)
	}
	return nil
}

func (a *Adapter) CreateBranch(ctx context.Context, repoRoot, branch string) error {
	_, stderr, err := run(ctx, repoRoot, "checkout", "-b", branch)
	if err != nil {
		return fmt.Errorf("git checkout -b %s: %s", branch, stderr)
	}
	return nil
}

func (a *Adapter) Commit(ctx context.Context, repoRoot, message string) (string, error) {
	if _, stderr, err := run(ctx, repoRoot, "commit", "-m", message); err != nil {
		return "", fmt.Errorf("git commit: %s", stderr)
	}
	sha, _, err := run(ctx, repoRoot, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return sha, nil
}

func (a *Adapter) Fetch(ctx context.Context, repoRoot string) error {
	_, stderr, err := run(ctx, repoRoot, "fetch", "--all", "--prune")
	if err != nil {
		return fmt.Errorf("git fetch: %s", stderr)
	}
	return nil
}

func (a *Adapter) Log(ctx context.Context, repoRoot string, limit int) ([]GitLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	const sep = "\x1f"
	format := strings.Join([]string{"%H", "%h", "%s", "%an", "%ae", "%aI"}, sep)
	out, stderr, err := run(ctx, repoRoot, "log", "-n", strconv.Itoa(limit), "--format="+format)
	if err != nil {
		return nil, fmt.Errorf("git log: %s", stderr)
	}
	if out == "" {
		return nil, nil
	}

	var entries []GitLogEntry
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, sep)
		if len(fields) != 6 {
			continue
		}
		entries = append(entries, GitLogEntry{
			SHA:         fields[0],
			ShortSHA:    fields[1],
			Message:     fields[2],
			Author:      fields[3],
			AuthorEmail: fields[4],
			Date:        fields[5],
		})
	}
	return entries, nil
}

func (a *Adapter) Show(ctx context.Context, repoRoot, sha string) (GitShowResult, error) {
	const sep = "\x1f"
	format := strings.Join([]string{"%H", "%h", "%s", "%an", "%ae", "%aI"}, sep)
	header, stderr, err := run(ctx, repoRoot, "show", "-s", "--format="+format, sha)
	if err != nil {
		return GitShowResult{}, fmt.Errorf("git show: %s", stderr)
	}
	fields := strings.Split(header, sep)
	if len(fields) != 6 {
		return GitShowResult{}, fmt.Errorf("unexpected git show header: %q", header)
	}

	statOut, stderr, err := run(ctx, repoRoot, "show", "--numstat", "--format=", sha)
	if err != nil {
		return GitShowResult{}, fmt.Errorf("git show --numstat: %s", stderr)
	}

	var files []GitShowFile
	for _, line := range strings.Split(statOut, "\n") {
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		add, _ := strconv.Atoi(parts[0])
		del, _ := strconv.Atoi(parts[1])
		files = append(files, GitShowFile{Path: parts[2], Status: "M", Additions: add, Deletions: del})
	}

	return GitShowResult{
		SHA:         fields[1],
		FullSHA:     fields[0],
		Message:     fields[2],
		Author:      fields[3],
		AuthorEmail: fields[4],
		Date:        fields[5],
		Files:       files,
	}, nil
}

// Rebase rebases repoRoot's current branch onto ontoBranch in place.
func (a *Adapter) Rebase(ctx context.Context, repoRoot, ontoBranch string) error {
	if _, stderr, err := run(ctx, repoRoot, "rebase", ontoBranch); err != nil {
		return fmt.Errorf("git rebase: %s", stderr)
	}
	return nil
}

// RebaseContinue stages all changes and continues an in-progress rebase.
func (a *Adapter) RebaseContinue(ctx context.Context, repoRoot string) error {
	run(ctx, repoRoot, "add", "-A")
	if _, stderr, err := run(ctx, repoRoot, "rebase", "--continue"); err != nil {
		return fmt.Errorf("git rebase --continue: %s", stderr)
	}
	return nil
}

// RebaseAbort aborts an in-progress rebase.
func (a *Adapter) RebaseAbort(ctx context.Context, repoRoot string) error {
	if _, stderr, err := run(ctx, repoRoot, "rebase", "--abort"); err != nil {
		return fmt.Errorf("git rebase --abort: %s", stderr)
	}
	return nil
}

// OpStatus reports whether repoRoot has a merge or rebase in progress and,
// if so, which paths still carry unresolved conflicts.
func (a *Adapter) OpStatus(ctx context.Context, repoRoot string) (opState string, conflicts []string, err error) {
	if gitPathExists(ctx, repoRoot, "rebase-merge") || gitPathExists(ctx, repoRoot, "rebase-apply") {
		conflicts = conflictPaths(ctx, repoRoot)
		if len(conflicts) > 0 {
			return "rebase_conflict", conflicts, nil
		}
		return "rebasing", nil, nil
	}
	if gitPathExists(ctx, repoRoot, "MERGE_HEAD") {
		conflicts = conflictPaths(ctx, repoRoot)
		if len(conflicts) > 0 {
			return "merge_conflict", conflicts, nil
		}
		return "merging", nil, nil
	}
	return "idle", nil, nil
}

func gitPathExists(ctx context.Context, repoRoot, marker string) bool {
	out, _, err := run(ctx, repoRoot, "rev-parse", "--git-path", marker)
	if err != nil || out == "" {
		return false
	}
	path := out
	if !filepath.IsAbs(path) {
		path = filepath.Join(repoRoot, path)
	}
	_, statErr := os.Stat(path)
	return statErr == nil
}

func conflictPaths(ctx context.Context, repoRoot string) []string {
	out, _, err := run(ctx, repoRoot, "diff", "--name-only", "--diff-filter=U")
	if err != nil || out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// AddWorktree creates a new Git worktree at path tracking branch. When
// createBranch is true, branch is created from fromRef (`git worktree add
// -b`); otherwise path is checked out onto the existing branch.
func (a *Adapter) AddWorktree(ctx context.Context, repoRoot, path, branch, fromRef string, createBranch bool) error {
	args := []string{"worktree", "add"}
	if createBranch {
		args = append(args, "-b", branch, path, fromRef)
	} else {
		args = append(args, path, branch)
	}
	if _, stderr, err := run(ctx, repoRoot, args...); err != nil {
		return fmt.Errorf("git worktree add: %s", stderr)
	}
	return nil
}

// RemoveWorktree detaches and deletes the worktree at path.
func (a *Adapter) RemoveWorktree(ctx context.Context, repoRoot, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	if _, stderr, err := run(ctx, repoRoot, args...); err != nil {
		return fmt.Errorf("git worktree remove: %s", stderr)
	}
	return nil
}

// RemoteURL returns the "origin" remote's URL, or "" if the repository has
// no such remote.
func (a *Adapter) RemoteURL(ctx context.Context, repoRoot string) string {
	out, _, err := run(ctx, repoRoot, "remote", "get-url", "origin")
	if err != nil {
		return ""
	}
	return out
}

// BranchDivergence reports how far branch is ahead/behind against, via
// `git rev-list --left-right --count`.
func (a *Adapter) BranchDivergence(ctx context.Context, repoRoot, branch, against string) (int, int, error) {
	out, stderr, err := run(ctx, repoRoot, "rev-list", "--left-right", "--count", branch+"..."+against)
	if err != nil {
		return 0, 0, fmt.Errorf("git rev-list: %s", stderr)
	}
	parts := strings.Fields(out)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output: %q", out)
	}
	ahead, _ := strconv.Atoi(parts[0])
	behind, _ := strconv.Atoi(parts[1])
	return ahead, behind, nil
}
