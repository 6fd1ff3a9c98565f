// Package dispatcher implements the per-connection read-loop routing
// described in spec.md §4.J: decode one envelope and dispatch it to a
// domain handler on the read loop's own goroutine.
package dispatcher

import (
	"context"
	"encoding/json"

	"github.com/gitbobobo/tidyflow/internal/handlercontext"
	"github.com/gitbobobo/tidyflow/internal/logger"
	"github.com/gitbobobo/tidyflow/internal/ws"
)

// Dispatch decodes raw as an Envelope, routes by tag to the matching
// domain handler, and replies with Error{code:"unknown_message"} for any
// tag it doesn't recognize. Handlers run on the caller's goroutine, so a
// Git subprocess or filesystem scan holds this connection's read loop until
// it returns (other connections are unaffected); only terminal output
// forwarding and project command runs start goroutines of their own.
func Dispatch(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var env ws.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Warn("dispatcher: malformed envelope", "error", err)
		return
	}

	switch env.Type {
	// Connection lifecycle.
	case ws.TypePing:
		handlePing(hctx, raw)

	// Terminal domain.
	case ws.TypeInput, ws.TypeResize, ws.TypeSpawnTerminal, ws.TypeKillTerminal,
		ws.TypeTermCreate, ws.TypeTermList, ws.TypeTermClose, ws.TypeTermFocus,
		ws.TypeTermAttach, ws.TypeTermOutputAck:
		dispatchTerminal(ctx, hctx, env.Type, raw)

	// Project/workspace domain.
	case ws.TypeListProjects, ws.TypeListWorkspaces, ws.TypeSelectWorkspace,
		ws.TypeImportProject, ws.TypeCreateWorkspace, ws.TypeRemoveProject,
		ws.TypeRemoveWorkspace, ws.TypeSaveProjectCommands, ws.TypeRunProjectCommand,
		ws.TypeCancelProjectCommand:
		dispatchProject(ctx, hctx, env.Type, raw)

	// File domain (includes watch subscribe/unsubscribe per protocol/file.rs).
	case ws.TypeFileList, ws.TypeFileRead, ws.TypeFileWrite, ws.TypeFileIndex,
		ws.TypeFileRename, ws.TypeFileDelete, ws.TypeFileCopy, ws.TypeFileMove,
		ws.TypeWatchSubscribe, ws.TypeWatchUnsubscribe:
		dispatchFile(ctx, hctx, env.Type, raw)

	// Git domain (status/diff/stage family, branches, commit, log/show,
	// rebase/merge/integration family).
	case ws.TypeGitStatus, ws.TypeGitDiff, ws.TypeGitStage, ws.TypeGitUnstage,
		ws.TypeGitDiscard, ws.TypeGitBranches, ws.TypeGitSwitchBranch,
		ws.TypeGitCreateBranch, ws.TypeGitCommit, ws.TypeGitFetch,
		ws.TypeGitRebase, ws.TypeGitRebaseContinue, ws.TypeGitRebaseAbort,
		ws.TypeGitOpStatus, ws.TypeGitLog, ws.TypeGitShow, ws.TypeGitAICommit,
		ws.TypeGitCheckBranchUpToDate,
		ws.TypeGitEnsureIntegrationWorktree, ws.TypeGitMergeToDefault,
		ws.TypeGitMergeContinue, ws.TypeGitMergeAbort, ws.TypeGitIntegrationStatus,
		ws.TypeGitRebaseOntoDefault, ws.TypeGitRebaseOntoDefaultContinue,
		ws.TypeGitRebaseOntoDefaultAbort, ws.TypeGitResetIntegrationWorktree:
		dispatchGit(ctx, hctx, env.Type, raw)

	// Settings domain.
	case ws.TypeGetClientSettings, ws.TypeSaveClientSettings:
		dispatchSettings(hctx, env.Type, raw)

	case ws.TypeLogUpload:
		handleLogUpload(hctx, raw)

	default:
		hctx.SendError("unknown_message", "unrecognized message type: "+env.Type)
	}
}

func handlePing(hctx *handlercontext.Context, raw []byte) {
	var msg ws.Ping
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	hctx.Send(ws.Pong{Type: ws.TypePong, Nonce: msg.Nonce})
}

func handleLogUpload(hctx *handlercontext.Context, raw []byte) {
	var msg ws.LogUpload
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	for _, line := range msg.Lines {
		logger.Info("client log", "source", msg.Source, "line", line)
	}
}

// sendAppErr maps a handlercontext.AppError to the wire Error envelope;
// anything else becomes internal_error, matching spec.md §7's
// propagation policy (adapter failures convert to Error at the handler
// boundary, the handler itself returns normally).
func sendAppErr(hctx *handlercontext.Context, err error) {
	if ae, ok := err.(*handlercontext.AppError); ok {
		hctx.SendError(ae.Code, ae.Message)
		return
	}
	hctx.SendError("internal_error", err.Error())
}
