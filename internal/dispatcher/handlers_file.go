package dispatcher

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gitbobobo/tidyflow/internal/fsadapter"
	"github.com/gitbobobo/tidyflow/internal/handlercontext"
	"github.com/gitbobobo/tidyflow/internal/state"
	"github.com/gitbobobo/tidyflow/internal/ws"
)

func dispatchFile(ctx context.Context, hctx *handlercontext.Context, msgType string, raw []byte) {
	switch msgType {
	case ws.TypeFileList:
		handleFileList(ctx, hctx, raw)
	case ws.TypeFileRead:
		handleFileRead(ctx, hctx, raw)
	case ws.TypeFileWrite:
		handleFileWrite(ctx, hctx, raw)
	case ws.TypeFileIndex:
		handleFileIndex(ctx, hctx, raw)
	case ws.TypeFileRename:
		handleFileRename(ctx, hctx, raw)
	case ws.TypeFileDelete:
		handleFileDelete(ctx, hctx, raw)
	case ws.TypeFileCopy:
		handleFileCopy(ctx, hctx, raw)
	case ws.TypeFileMove:
		handleFileMove(ctx, hctx, raw)
	case ws.TypeWatchSubscribe:
		handleWatchSubscribe(hctx, raw)
	case ws.TypeWatchUnsubscribe:
		hctx.Watcher.Unsubscribe()
		hctx.Send(ws.WatchUnsubscribed{Type: ws.TypeWatchUnsubscribed})
	}
}

// fileErrCode maps a fsadapter error to the wire error-code taxonomy
// (spec.md §7).
func fileErrCode(err error) (code string, ok bool) {
	switch {
	case errors.Is(err, fsadapter.ErrFileNotFound):
		return "file_not_found", true
	case errors.Is(err, fsadapter.ErrFileTooLarge):
		return "file_too_large", true
	case errors.Is(err, fsadapter.ErrInvalidUTF8):
		return "invalid_utf8", true
	case errors.Is(err, fsadapter.ErrTargetExists):
		return "target_exists", true
	case errors.Is(err, fsadapter.ErrMoveIntoSelf):
		return "move_into_self", true
	case errors.Is(err, fsadapter.ErrPathEscape):
		return "path_escape", true
	case errors.Is(err, fsadapter.ErrPathTooLong):
		return "path_too_long", true
	default:
		return "", false
	}
}

func sendFileErr(hctx *handlercontext.Context, err error) {
	if code, ok := fileErrCode(err); ok {
		hctx.SendError(code, err.Error())
		return
	}
	hctx.SendError("internal_error", err.Error())
}

func handleFileList(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.FileList
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}

	entries, err := hctx.Files.List(ctx, wctx.RootPath, msg.Path)
	if err != nil {
		sendFileErr(hctx, err)
		return
	}

	items := make([]ws.FileEntryInfo, 0, len(entries))
	for _, e := range entries {
		items = append(items, ws.FileEntryInfo{Name: e.Name, Path: joinRel(msg.Path, e.Name), IsDir: e.IsDir, Size: e.Size})
	}
	hctx.Send(ws.FileListResult{Type: ws.TypeFileListResult, Project: msg.Project, Workspace: msg.Workspace, Path: msg.Path, Items: items})
}

func joinRel(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	return dir + "/" + name
}

func handleFileRead(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.FileRead
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}

	content, err := hctx.Files.Read(ctx, wctx.RootPath, msg.Path)
	if err != nil {
		sendFileErr(hctx, err)
		return
	}
	hctx.Send(ws.FileReadResult{Type: ws.TypeFileReadResult, Project: msg.Project, Workspace: msg.Workspace, Path: msg.Path, Content: content, Size: int64(len(content))})
}

func handleFileWrite(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.FileWrite
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}

	if err := hctx.Files.Write(ctx, wctx.RootPath, msg.Path, msg.Content); err != nil {
		sendFileErr(hctx, err)
		return
	}
	hctx.Send(ws.FileWriteResult{Type: ws.TypeFileWriteResult, Project: msg.Project, Workspace: msg.Workspace, Path: msg.Path, Success: true, Size: int64(len(msg.Content))})
}

func handleFileIndex(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.FileIndex
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}

	paths, truncated, err := hctx.Files.Index(ctx, wctx.RootPath, 0)
	if err != nil {
		sendFileErr(hctx, err)
		return
	}
	hctx.Send(ws.FileIndexResult{Type: ws.TypeFileIndexResult, Project: msg.Project, Workspace: msg.Workspace, Items: paths, Truncated: truncated})
}

func handleFileRename(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.FileRename
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}

	newPath, err := hctx.Files.Rename(ctx, wctx.RootPath, msg.OldPath, msg.NewName)
	if err != nil {
		m := err.Error()
		hctx.Send(ws.FileRenameResult{Type: ws.TypeFileRenameResult, Project: msg.Project, Workspace: msg.Workspace, OldPath: msg.OldPath, Success: false, Message: &m})
		return
	}
	hctx.Send(ws.FileRenameResult{Type: ws.TypeFileRenameResult, Project: msg.Project, Workspace: msg.Workspace, OldPath: msg.OldPath, NewPath: newPath, Success: true})
}

func handleFileDelete(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.FileDelete
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}

	if err := hctx.Files.Delete(ctx, wctx.RootPath, msg.Path); err != nil {
		m := err.Error()
		hctx.Send(ws.FileDeleteResult{Type: ws.TypeFileDeleteResult, Project: msg.Project, Workspace: msg.Workspace, Path: msg.Path, Success: false, Message: &m})
		return
	}
	hctx.Send(ws.FileDeleteResult{Type: ws.TypeFileDeleteResult, Project: msg.Project, Workspace: msg.Workspace, Path: msg.Path, Success: true})
}

func handleFileCopy(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.FileCopy
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	destCtx, err := state.ResolveWorkspace(hctx.Store, msg.DestProject, msg.DestWorkspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}

	destPath, err := hctx.Files.Copy(ctx, msg.SourceAbsolutePath, destCtx.RootPath, msg.DestDir)
	if err != nil {
		m := err.Error()
		hctx.Send(ws.FileCopyResult{Type: ws.TypeFileCopyResult, Project: msg.DestProject, Workspace: msg.DestWorkspace, SourceAbsolutePath: msg.SourceAbsolutePath, Success: false, Message: &m})
		return
	}
	hctx.Send(ws.FileCopyResult{Type: ws.TypeFileCopyResult, Project: msg.DestProject, Workspace: msg.DestWorkspace, SourceAbsolutePath: msg.SourceAbsolutePath, DestPath: destPath, Success: true})
}

func handleFileMove(ctx context.Context, hctx *handlercontext.Context, raw []byte) {
	var msg ws.FileMove
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}

	newPath, err := hctx.Files.Move(ctx, wctx.RootPath, msg.OldPath, msg.NewDir)
	if err != nil {
		m := err.Error()
		hctx.Send(ws.FileMoveResult{Type: ws.TypeFileMoveResult, Project: msg.Project, Workspace: msg.Workspace, OldPath: msg.OldPath, Success: false, Message: &m})
		return
	}
	hctx.Send(ws.FileMoveResult{Type: ws.TypeFileMoveResult, Project: msg.Project, Workspace: msg.Workspace, OldPath: msg.OldPath, NewPath: newPath, Success: true})
}

func handleWatchSubscribe(hctx *handlercontext.Context, raw []byte) {
	var msg ws.WatchSubscribe
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}

	if err := hctx.Watcher.Subscribe(msg.Project, msg.Workspace, wctx.RootPath); err != nil {
		hctx.SendError("internal_error", err.Error())
		return
	}
	hctx.Send(ws.WatchSubscribed{Type: ws.TypeWatchSubscribed, Project: msg.Project, Workspace: msg.Workspace})
}
