// Package ws defines the wire protocol spoken over the daemon's single
// WebSocket endpoint: a JSON tagged union, one `type` field per envelope,
// sent as WebSocket text frames (spec.md §4.I, §6; grounded in
// original_source/core/src/server/protocol/*.rs's
// `#[serde(tag = "type", rename_all = "snake_case")]` enums). Binary
// payloads (terminal I/O, file contents, scrollback) ride inside the JSON
// object as `[]byte` fields — encoding/json's built-in base64 behavior for
// []byte matches the original's `serde(with = "serde_bytes")` fields
// exactly, so no custom codec is needed.
package ws

// Message type tags. One constant per protocol.rs enum variant,
// snake_case to match the original's `rename_all = "snake_case")`.
const (
	// Connection lifecycle.
	TypeHello = "hello"
	TypePing  = "ping"
	TypePong  = "pong"
	TypeError = "error"

	// Terminal domain (protocol/terminal.rs).
	TypeInput          = "input"
	TypeResize         = "resize"
	TypeSpawnTerminal  = "spawn_terminal"
	TypeKillTerminal   = "kill_terminal"
	TypeTermCreate     = "term_create"
	TypeTermList       = "term_list"
	TypeTermClose      = "term_close"
	TypeTermFocus      = "term_focus"
	TypeTermAttach     = "term_attach"
	TypeTermOutputAck  = "term_output_ack"
	TypeTerminalSpawned = "terminal_spawned"
	TypeTerminalKilled  = "terminal_killed"
	TypeTermCreated     = "term_created"
	TypeTermListResult  = "term_list_result"
	TypeTermClosed      = "term_closed"
	TypeTermAttached    = "term_attached"
	TypeOutput          = "output"
	TypeExit            = "exit"

	// Project/workspace domain (protocol/project.rs).
	TypeListProjects          = "list_projects"
	TypeListWorkspaces        = "list_workspaces"
	TypeSelectWorkspace       = "select_workspace"
	TypeImportProject         = "import_project"
	TypeCreateWorkspace       = "create_workspace"
	TypeRemoveProject         = "remove_project"
	TypeRemoveWorkspace       = "remove_workspace"
	TypeSaveProjectCommands   = "save_project_commands"
	TypeRunProjectCommand     = "run_project_command"
	TypeCancelProjectCommand  = "cancel_project_command"
	TypeProjects              = "projects"
	TypeWorkspaces            = "workspaces"
	TypeSelectedWorkspace     = "selected_workspace"
	TypeProjectImported       = "project_imported"
	TypeWorkspaceCreated      = "workspace_created"
	TypeProjectRemoved        = "project_removed"
	TypeWorkspaceRemoved      = "workspace_removed"
	TypeProjectCommandsSaved  = "project_commands_saved"
	TypeProjectCommandStarted = "project_command_started"
	TypeProjectCommandCompleted = "project_command_completed"
	TypeProjectCommandCancelled = "project_command_cancelled"
	TypeProjectCommandOutput    = "project_command_output"

	// File domain (protocol/file.rs).
	TypeFileList          = "file_list"
	TypeFileRead          = "file_read"
	TypeFileWrite         = "file_write"
	TypeFileIndex         = "file_index"
	TypeFileRename        = "file_rename"
	TypeFileDelete        = "file_delete"
	TypeFileCopy          = "file_copy"
	TypeFileMove          = "file_move"
	TypeWatchSubscribe    = "watch_subscribe"
	TypeWatchUnsubscribe  = "watch_unsubscribe"
	TypeFileListResult    = "file_list_result"
	TypeFileReadResult    = "file_read_result"
	TypeFileWriteResult   = "file_write_result"
	TypeFileIndexResult   = "file_index_result"
	TypeFileRenameResult  = "file_rename_result"
	TypeFileDeleteResult  = "file_delete_result"
	TypeFileCopyResult    = "file_copy_result"
	TypeFileMoveResult    = "file_move_result"
	TypeWatchSubscribed   = "watch_subscribed"
	TypeWatchUnsubscribed = "watch_unsubscribed"
	TypeFileChanged       = "file_changed"

	// Git domain (protocol/git.rs).
	TypeGitStatus                       = "git_status"
	TypeGitDiff                         = "git_diff"
	TypeGitStage                        = "git_stage"
	TypeGitUnstage                      = "git_unstage"
	TypeGitDiscard                      = "git_discard"
	TypeGitBranches                     = "git_branches"
	TypeGitSwitchBranch                 = "git_switch_branch"
	TypeGitCreateBranch                 = "git_create_branch"
	TypeGitCommit                       = "git_commit"
	TypeGitFetch                        = "git_fetch"
	TypeGitRebase                       = "git_rebase"
	TypeGitRebaseContinue               = "git_rebase_continue"
	TypeGitRebaseAbort                  = "git_rebase_abort"
	TypeGitOpStatus                     = "git_op_status"
	TypeGitEnsureIntegrationWorktree    = "git_ensure_integration_worktree"
	TypeGitMergeToDefault               = "git_merge_to_default"
	TypeGitMergeContinue                = "git_merge_continue"
	TypeGitMergeAbort                   = "git_merge_abort"
	TypeGitIntegrationStatus            = "git_integration_status"
	TypeGitRebaseOntoDefault            = "git_rebase_onto_default"
	TypeGitRebaseOntoDefaultContinue    = "git_rebase_onto_default_continue"
	TypeGitRebaseOntoDefaultAbort       = "git_rebase_onto_default_abort"
	TypeGitResetIntegrationWorktree     = "git_reset_integration_worktree"
	TypeGitCheckBranchUpToDate          = "git_check_branch_up_to_date"
	TypeGitLog                          = "git_log"
	TypeGitShow                         = "git_show"
	TypeGitAICommit                     = "git_ai_commit"
	TypeGitStatusResult                 = "git_status_result"
	TypeGitDiffResult                   = "git_diff_result"
	TypeGitOpResult                     = "git_op_result"
	TypeGitBranchesResult               = "git_branches_result"
	TypeGitCommitResult                 = "git_commit_result"
	TypeGitRebaseResult                 = "git_rebase_result"
	TypeGitOpStatusResult               = "git_op_status_result"
	TypeGitMergeToDefaultResult         = "git_merge_to_default_result"
	TypeGitIntegrationStatusResult      = "git_integration_status_result"
	TypeGitRebaseOntoDefaultResult      = "git_rebase_onto_default_result"
	TypeGitResetIntegrationWorktreeResult = "git_reset_integration_worktree_result"
	TypeGitCheckBranchUpToDateResult    = "git_check_branch_up_to_date_result"
	TypeGitLogResult                    = "git_log_result"
	TypeGitShowResult                   = "git_show_result"
	TypeGitStatusChanged                = "git_status_changed"
	TypeGitAICommitResult               = "git_ai_commit_result"

	// Settings domain (protocol/settings.rs).
	TypeGetClientSettings    = "get_client_settings"
	TypeSaveClientSettings   = "save_client_settings"
	TypeClientSettingsResult = "client_settings_result"
	TypeClientSettingsSaved  = "client_settings_saved"

	// Log upload (spec.md §6).
	TypeLogUpload = "log_upload"
)

// Envelope is decoded first to sniff `type` before unmarshaling the
// tag-specific payload, matching the teacher's own probe-then-decode
// pattern in internal/direct/server.go.
type Envelope struct {
	Type string `json:"type"`
}

// ErrorMsg is the universal failure envelope (spec.md §7).
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Hello is sent once by the server on accept (spec.md §4.M, §6). No
// terminal exists at that point, so SessionID and Shell are sent empty.
type Hello struct {
	Type         string   `json:"type"`
	Version      int      `json:"version"`
	SessionID    string   `json:"session_id"`
	Shell        string   `json:"shell"`
	Capabilities []string `json:"capabilities"`
}

// Ping/Pong are a liveness probe pair; Pong echoes Ping's nonce.
type Ping struct {
	Type  string `json:"type"`
	Nonce string `json:"nonce,omitempty"`
}

type Pong struct {
	Type  string `json:"type"`
	Nonce string `json:"nonce,omitempty"`
}

// LogUpload lets the client forward its own log lines for aggregation
// (spec.md §6 "log upload"); the daemon writes them through internal/logger
// tagged with the client-declared source.
type LogUpload struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Lines  []string `json:"lines"`
}

// ---------------------------------------------------------------------
// Terminal domain
// ---------------------------------------------------------------------

type Input struct {
	Type   string `json:"type"`
	TermID string `json:"term_id,omitempty"`
	Data   []byte `json:"data"`
}

type Resize struct {
	Type   string `json:"type"`
	TermID string `json:"term_id,omitempty"`
	Cols   int    `json:"cols"`
	Rows   int    `json:"rows"`
}

type SpawnTerminal struct {
	Type string `json:"type"`
	Cwd  string `json:"cwd"`
}

type KillTerminal struct {
	Type string `json:"type"`
}

type TermCreate struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
}

type TermList struct {
	Type string `json:"type"`
}

type TermClose struct {
	Type   string `json:"type"`
	TermID string `json:"term_id"`
}

type TermFocus struct {
	Type   string `json:"type"`
	TermID string `json:"term_id"`
}

type TermAttach struct {
	Type   string `json:"type"`
	TermID string `json:"term_id"`
}

type TermOutputAck struct {
	Type   string `json:"type"`
	TermID string `json:"term_id"`
	Bytes  int64  `json:"bytes"`
}

type TerminalSpawned struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Shell     string `json:"shell"`
	Cwd       string `json:"cwd"`
}

type TerminalKilled struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

type TermCreated struct {
	Type      string `json:"type"`
	TermID    string `json:"term_id"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	Cwd       string `json:"cwd"`
	Shell     string `json:"shell"`
}

// TerminalInfo describes one live terminal in a TermListResult.
type TerminalInfo struct {
	TermID    string `json:"term_id"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	Cwd       string `json:"cwd"`
	Shell     string `json:"shell"`
	Running   bool   `json:"running"`
	ExitCode  *int   `json:"exit_code,omitempty"`
}

type TermListResult struct {
	Type  string         `json:"type"`
	Items []TerminalInfo `json:"items"`
}

type TermClosed struct {
	Type   string `json:"type"`
	TermID string `json:"term_id"`
}

type TermAttached struct {
	Type       string `json:"type"`
	TermID     string `json:"term_id"`
	Project    string `json:"project"`
	Workspace  string `json:"workspace"`
	Cwd        string `json:"cwd"`
	Shell      string `json:"shell"`
	Scrollback []byte `json:"scrollback"`
}

type Output struct {
	Type   string `json:"type"`
	TermID string `json:"term_id,omitempty"`
	Data   []byte `json:"data"`
}

type Exit struct {
	Type   string `json:"type"`
	TermID string `json:"term_id,omitempty"`
	Code   int    `json:"code"`
}

// ---------------------------------------------------------------------
// Project/workspace domain
// ---------------------------------------------------------------------

type ListProjects struct {
	Type string `json:"type"`
}

type ListWorkspaces struct {
	Type    string `json:"type"`
	Project string `json:"project"`
}

type SelectWorkspace struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
}

type ImportProject struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Path string `json:"path"`
}

type CreateWorkspace struct {
	Type       string  `json:"type"`
	Project    string  `json:"project"`
	FromBranch *string `json:"from_branch,omitempty"`
}

type RemoveProject struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type RemoveWorkspace struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
}

// ProjectCommandInfo is a user-defined custom command persisted on a
// project record (SPEC_FULL.md §3).
type ProjectCommandInfo struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Command     string `json:"command"`
	CwdRelative string `json:"cwd_relative,omitempty"`
}

type SaveProjectCommands struct {
	Type     string               `json:"type"`
	Project  string               `json:"project"`
	Commands []ProjectCommandInfo `json:"commands"`
}

type RunProjectCommand struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	CommandID string `json:"command_id"`
}

type CancelProjectCommand struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	CommandID string `json:"command_id"`
}

// ProjectInfo / WorkspaceInfo mirror internal/state's Project/Workspace
// documents, trimmed to the fields the client needs.
type ProjectInfo struct {
	Name          string `json:"name"`
	RootPath      string `json:"root_path"`
	RemoteURL     string `json:"remote_url,omitempty"`
	DefaultBranch string `json:"default_branch"`
	CreatedAt     string `json:"created_at"`
}

type WorkspaceInfo struct {
	Name         string  `json:"name"`
	WorktreePath string  `json:"worktree_path"`
	Branch       string  `json:"branch"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
	LastAccessed string  `json:"last_accessed"`
	SetupOK      *bool   `json:"setup_ok,omitempty"`
	SetupError   *string `json:"setup_error,omitempty"`
}

type Projects struct {
	Type  string        `json:"type"`
	Items []ProjectInfo `json:"items"`
}

type Workspaces struct {
	Type    string          `json:"type"`
	Project string          `json:"project"`
	Items   []WorkspaceInfo `json:"items"`
}

type SelectedWorkspace struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	Root      string `json:"root"`
	SessionID string `json:"session_id"`
	Shell     string `json:"shell"`
}

type ProjectImported struct {
	Type          string         `json:"type"`
	Name          string         `json:"name"`
	Root          string         `json:"root"`
	DefaultBranch string         `json:"default_branch"`
	Workspace     *WorkspaceInfo `json:"workspace,omitempty"`
}

type WorkspaceCreated struct {
	Type      string        `json:"type"`
	Project   string        `json:"project"`
	Workspace WorkspaceInfo `json:"workspace"`
}

type ProjectRemoved struct {
	Type    string  `json:"type"`
	Name    string  `json:"name"`
	OK      bool    `json:"ok"`
	Message *string `json:"message,omitempty"`
}

type WorkspaceRemoved struct {
	Type      string  `json:"type"`
	Project   string  `json:"project"`
	Workspace string  `json:"workspace"`
	OK        bool    `json:"ok"`
	Message   *string `json:"message,omitempty"`
}

type ProjectCommandsSaved struct {
	Type    string  `json:"type"`
	Project string  `json:"project"`
	OK      bool    `json:"ok"`
	Message *string `json:"message,omitempty"`
}

type ProjectCommandStarted struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	CommandID string `json:"command_id"`
	TaskID    string `json:"task_id"`
}

type ProjectCommandCompleted struct {
	Type      string  `json:"type"`
	Project   string  `json:"project"`
	Workspace string  `json:"workspace"`
	CommandID string  `json:"command_id"`
	TaskID    string  `json:"task_id"`
	OK        bool    `json:"ok"`
	Message   *string `json:"message,omitempty"`
}

type ProjectCommandCancelled struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	CommandID string `json:"command_id"`
	TaskID    string `json:"task_id"`
}

type ProjectCommandOutput struct {
	Type   string `json:"type"`
	TaskID string `json:"task_id"`
	Line   string `json:"line"`
}

// ---------------------------------------------------------------------
// File domain
// ---------------------------------------------------------------------

type FileList struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	Path      string `json:"path,omitempty"`
}

type FileRead struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	Path      string `json:"path"`
}

type FileWrite struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	Path      string `json:"path"`
	Content   []byte `json:"content"`
}

type FileIndex struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
}

type FileRename struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	OldPath   string `json:"old_path"`
	NewName   string `json:"new_name"`
}

type FileDelete struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	Path      string `json:"path"`
}

type FileCopy struct {
	Type               string `json:"type"`
	DestProject        string `json:"dest_project"`
	DestWorkspace      string `json:"dest_workspace"`
	SourceAbsolutePath string `json:"source_absolute_path"`
	DestDir            string `json:"dest_dir"`
}

type FileMove struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	OldPath   string `json:"old_path"`
	NewDir    string `json:"new_dir"`
}

type WatchSubscribe struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
}

type WatchUnsubscribe struct {
	Type string `json:"type"`
}

// FileEntryInfo is one entry in a FileListResult.
type FileEntryInfo struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size,omitempty"`
}

type FileListResult struct {
	Type      string          `json:"type"`
	Project   string          `json:"project"`
	Workspace string          `json:"workspace"`
	Path      string          `json:"path"`
	Items     []FileEntryInfo `json:"items"`
}

type FileReadResult struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	Path      string `json:"path"`
	Content   []byte `json:"content"`
	Size      int64  `json:"size"`
}

type FileWriteResult struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	Path      string `json:"path"`
	Success   bool   `json:"success"`
	Size      int64  `json:"size"`
}

type FileIndexResult struct {
	Type      string   `json:"type"`
	Project   string   `json:"project"`
	Workspace string   `json:"workspace"`
	Items     []string `json:"items"`
	Truncated bool     `json:"truncated"`
}

type FileRenameResult struct {
	Type      string  `json:"type"`
	Project   string  `json:"project"`
	Workspace string  `json:"workspace"`
	OldPath   string  `json:"old_path"`
	NewPath   string  `json:"new_path"`
	Success   bool    `json:"success"`
	Message   *string `json:"message,omitempty"`
}

type FileDeleteResult struct {
	Type      string  `json:"type"`
	Project   string  `json:"project"`
	Workspace string  `json:"workspace"`
	Path      string  `json:"path"`
	Success   bool    `json:"success"`
	Message   *string `json:"message,omitempty"`
}

type FileCopyResult struct {
	Type               string  `json:"type"`
	Project            string  `json:"project"`
	Workspace          string  `json:"workspace"`
	SourceAbsolutePath string  `json:"source_absolute_path"`
	DestPath           string  `json:"dest_path"`
	Success            bool    `json:"success"`
	Message            *string `json:"message,omitempty"`
}

type FileMoveResult struct {
	Type      string  `json:"type"`
	Project   string  `json:"project"`
	Workspace string  `json:"workspace"`
	OldPath   string  `json:"old_path"`
	NewPath   string  `json:"new_path"`
	Success   bool    `json:"success"`
	Message   *string `json:"message,omitempty"`
}

type WatchSubscribed struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
}

type WatchUnsubscribed struct {
	Type string `json:"type"`
}

type FileChanged struct {
	Type      string   `json:"type"`
	Project   string   `json:"project"`
	Workspace string   `json:"workspace"`
	Paths     []string `json:"paths"`
	Kind      string   `json:"kind"`
}

// ---------------------------------------------------------------------
// Git domain
// ---------------------------------------------------------------------

type GitStatus struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
}

type GitDiff struct {
	Type      string  `json:"type"`
	Project   string  `json:"project"`
	Workspace string  `json:"workspace"`
	Path      string  `json:"path"`
	Base      *string `json:"base,omitempty"`
	Mode      string  `json:"mode,omitempty"`
}

type GitStage struct {
	Type      string  `json:"type"`
	Project   string  `json:"project"`
	Workspace string  `json:"workspace"`
	Path      *string `json:"path,omitempty"`
	Scope     string  `json:"scope,omitempty"`
}

type GitUnstage struct {
	Type      string  `json:"type"`
	Project   string  `json:"project"`
	Workspace string  `json:"workspace"`
	Path      *string `json:"path,omitempty"`
	Scope     string  `json:"scope,omitempty"`
}

type GitDiscard struct {
	Type              string  `json:"type"`
	Project           string  `json:"project"`
	Workspace         string  `json:"workspace"`
	Path              *string `json:"path,omitempty"`
	Scope             string  `json:"scope,omitempty"`
	IncludeUntracked  bool    `json:"include_untracked,omitempty"`
}

type GitBranches struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
}

type GitSwitchBranch struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	Branch    string `json:"branch"`
}

type GitCreateBranch struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	Branch    string `json:"branch"`
}

type GitCommit struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	Message   string `json:"message"`
}

type GitFetch struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
}

type GitRebase struct {
	Type       string `json:"type"`
	Project    string `json:"project"`
	Workspace  string `json:"workspace"`
	OntoBranch string `json:"onto_branch"`
}

type GitRebaseContinue struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
}

type GitRebaseAbort struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
}

type GitOpStatus struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
}

type GitEnsureIntegrationWorktree struct {
	Type    string `json:"type"`
	Project string `json:"project"`
}

type GitMergeToDefault struct {
	Type          string `json:"type"`
	Project       string `json:"project"`
	Workspace     string `json:"workspace"`
	DefaultBranch string `json:"default_branch"`
}

type GitMergeContinue struct {
	Type    string `json:"type"`
	Project string `json:"project"`
}

type GitMergeAbort struct {
	Type    string `json:"type"`
	Project string `json:"project"`
}

type GitIntegrationStatus struct {
	Type    string `json:"type"`
	Project string `json:"project"`
}

type GitRebaseOntoDefault struct {
	Type          string `json:"type"`
	Project       string `json:"project"`
	Workspace     string `json:"workspace"`
	DefaultBranch string `json:"default_branch"`
}

type GitRebaseOntoDefaultContinue struct {
	Type    string `json:"type"`
	Project string `json:"project"`
}

type GitRebaseOntoDefaultAbort struct {
	Type    string `json:"type"`
	Project string `json:"project"`
}

type GitResetIntegrationWorktree struct {
	Type    string `json:"type"`
	Project string `json:"project"`
}

type GitCheckBranchUpToDate struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
}

type GitLog struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	Limit     int    `json:"limit,omitempty"`
}

type GitShow struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	SHA       string `json:"sha"`
}

// GitAICommit requests an AI-authored commit. The handler invokes no AI
// agent and stores nothing: it replies with a GitAICommitResult whose
// success is false and whose message says the feature is not available.
type GitAICommit struct {
	Type      string  `json:"type"`
	Project   string  `json:"project"`
	Workspace string  `json:"workspace"`
	AIAgent   *string `json:"ai_agent,omitempty"`
}

// GitStatusEntry / GitBranchInfo / GitLogEntryInfo / GitShowFileInfo /
// AIGitCommit are the adapter-produced DTOs round-tripped verbatim
// (SPEC_FULL.md §3).
type GitStatusEntry struct {
	Path           string `json:"path"`
	IndexStatus    string `json:"index_status"`
	WorktreeStatus string `json:"worktree_status"`
	Staged         bool   `json:"staged"`
	OrigPath       string `json:"orig_path,omitempty"`
	Additions      *int   `json:"additions,omitempty"`
	Deletions      *int   `json:"deletions,omitempty"`
}

type GitBranchInfo struct {
	Name      string `json:"name"`
	IsCurrent bool   `json:"is_current"`
	IsRemote  bool   `json:"is_remote"`
	AheadBy   *int   `json:"ahead_by,omitempty"`
	BehindBy  *int   `json:"behind_by,omitempty"`
}

type GitLogEntryInfo struct {
	SHA         string `json:"sha"`
	ShortSHA    string `json:"short_sha"`
	Message     string `json:"message"`
	Author      string `json:"author"`
	AuthorEmail string `json:"author_email"`
	Date        string `json:"date"`
}

type GitShowFileInfo struct {
	Path      string `json:"path"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

type AIGitCommit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

type GitStatusResult struct {
	Type             string           `json:"type"`
	Project          string           `json:"project"`
	Workspace        string           `json:"workspace"`
	RepoRoot         string           `json:"repo_root"`
	Items            []GitStatusEntry `json:"items"`
	HasStagedChanges bool             `json:"has_staged_changes"`
	StagedCount      int              `json:"staged_count"`
	CurrentBranch    string           `json:"current_branch,omitempty"`
	DefaultBranch    string           `json:"default_branch,omitempty"`
	AheadBy          *int             `json:"ahead_by,omitempty"`
	BehindBy         *int             `json:"behind_by,omitempty"`
	ComparedBranch   string           `json:"compared_branch,omitempty"`
}

type GitDiffResult struct {
	Type      string  `json:"type"`
	Project   string  `json:"project"`
	Workspace string  `json:"workspace"`
	Path      string  `json:"path"`
	Code      string  `json:"code"`
	Format    string  `json:"format"`
	Text      string  `json:"text"`
	IsBinary  bool    `json:"is_binary"`
	Truncated bool    `json:"truncated"`
	Mode      string  `json:"mode"`
	Base      *string `json:"base,omitempty"`
}

type GitOpResult struct {
	Type      string  `json:"type"`
	Project   string  `json:"project"`
	Workspace string  `json:"workspace"`
	Op        string  `json:"op"`
	OK        bool    `json:"ok"`
	Message   *string `json:"message,omitempty"`
	Path      *string `json:"path,omitempty"`
	Scope     string  `json:"scope"`
}

type GitBranchesResult struct {
	Type      string          `json:"type"`
	Project   string          `json:"project"`
	Workspace string          `json:"workspace"`
	Current   string          `json:"current"`
	Branches  []GitBranchInfo `json:"branches"`
}

type GitCommitResult struct {
	Type      string  `json:"type"`
	Project   string  `json:"project"`
	Workspace string  `json:"workspace"`
	OK        bool    `json:"ok"`
	Message   *string `json:"message,omitempty"`
	SHA       *string `json:"sha,omitempty"`
}

type GitRebaseResult struct {
	Type      string   `json:"type"`
	Project   string   `json:"project"`
	Workspace string   `json:"workspace"`
	OK        bool     `json:"ok"`
	State     string   `json:"state"`
	Message   *string  `json:"message,omitempty"`
	Conflicts []string `json:"conflicts,omitempty"`
}

type GitOpStatusResult struct {
	Type      string   `json:"type"`
	Project   string   `json:"project"`
	Workspace string   `json:"workspace"`
	State     string   `json:"state"`
	Conflicts []string `json:"conflicts,omitempty"`
	Head      *string  `json:"head,omitempty"`
	Onto      *string  `json:"onto,omitempty"`
}

type GitMergeToDefaultResult struct {
	Type            string   `json:"type"`
	Project         string   `json:"project"`
	OK              bool     `json:"ok"`
	State           string   `json:"state"`
	Message         *string  `json:"message,omitempty"`
	Conflicts       []string `json:"conflicts,omitempty"`
	HeadSHA         *string  `json:"head_sha,omitempty"`
	IntegrationPath *string  `json:"integration_path,omitempty"`
}

type GitIntegrationStatusResult struct {
	Type           string   `json:"type"`
	Project        string   `json:"project"`
	State          string   `json:"state"`
	Conflicts      []string `json:"conflicts,omitempty"`
	Head           *string  `json:"head,omitempty"`
	DefaultBranch  string   `json:"default_branch"`
	Path           string   `json:"path"`
	IsClean        bool     `json:"is_clean"`
	BranchAheadBy  *int     `json:"branch_ahead_by,omitempty"`
	BranchBehindBy *int     `json:"branch_behind_by,omitempty"`
	ComparedBranch *string  `json:"compared_branch,omitempty"`
}

type GitRebaseOntoDefaultResult struct {
	Type            string   `json:"type"`
	Project         string   `json:"project"`
	OK              bool     `json:"ok"`
	State           string   `json:"state"`
	Message         *string  `json:"message,omitempty"`
	Conflicts       []string `json:"conflicts,omitempty"`
	HeadSHA         *string  `json:"head_sha,omitempty"`
	IntegrationPath *string  `json:"integration_path,omitempty"`
}

type GitResetIntegrationWorktreeResult struct {
	Type    string  `json:"type"`
	Project string  `json:"project"`
	OK      bool    `json:"ok"`
	Message *string `json:"message,omitempty"`
	Path    *string `json:"path,omitempty"`
}

type GitCheckBranchUpToDateResult struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
	UpToDate  bool   `json:"up_to_date"`
	AheadBy   int    `json:"ahead_by"`
	BehindBy  int    `json:"behind_by"`
}

type GitLogResult struct {
	Type      string            `json:"type"`
	Project   string            `json:"project"`
	Workspace string            `json:"workspace"`
	Entries   []GitLogEntryInfo `json:"entries"`
}

type GitShowResult struct {
	Type        string            `json:"type"`
	Project     string            `json:"project"`
	Workspace   string            `json:"workspace"`
	SHA         string            `json:"sha"`
	FullSHA     string            `json:"full_sha"`
	Message     string            `json:"message"`
	Author      string            `json:"author"`
	AuthorEmail string            `json:"author_email"`
	Date        string            `json:"date"`
	Files       []GitShowFileInfo `json:"files"`
}

type GitStatusChanged struct {
	Type      string `json:"type"`
	Project   string `json:"project"`
	Workspace string `json:"workspace"`
}

type GitAICommitResult struct {
	Type    string        `json:"type"`
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Commits []AIGitCommit `json:"commits"`
}

// ---------------------------------------------------------------------
// Settings domain
// ---------------------------------------------------------------------

type GetClientSettings struct {
	Type string `json:"type"`
}

// CustomCommandInfo is a client-defined quick-launch command.
type CustomCommandInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon,omitempty"`
	Command string `json:"command"`
}

type SaveClientSettings struct {
	Type                string             `json:"type"`
	CustomCommands      []CustomCommandInfo `json:"custom_commands"`
	WorkspaceShortcuts  map[string]string   `json:"workspace_shortcuts,omitempty"`
	CommitAIAgent       *string             `json:"commit_ai_agent,omitempty"`
	MergeAIAgent        *string             `json:"merge_ai_agent,omitempty"`
	SelectedAIAgent     *string             `json:"selected_ai_agent,omitempty"`
}

type ClientSettingsResult struct {
	Type               string              `json:"type"`
	CustomCommands     []CustomCommandInfo `json:"custom_commands"`
	WorkspaceShortcuts map[string]string   `json:"workspace_shortcuts"`
	CommitAIAgent      *string             `json:"commit_ai_agent,omitempty"`
	MergeAIAgent       *string             `json:"merge_ai_agent,omitempty"`
}

type ClientSettingsSaved struct {
	Type    string  `json:"type"`
	OK      bool    `json:"ok"`
	Message *string `json:"message,omitempty"`
}
