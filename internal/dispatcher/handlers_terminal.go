package dispatcher

import (
	"context"
	"encoding/json"

	"github.com/gitbobobo/tidyflow/internal/handlercontext"
	"github.com/gitbobobo/tidyflow/internal/logger"
	"github.com/gitbobobo/tidyflow/internal/state"
	"github.com/gitbobobo/tidyflow/internal/terminal"
	"github.com/gitbobobo/tidyflow/internal/ws"
)

// flowControlHighWaterBytes mirrors SPEC_FULL.md §4.N's default; it is
// fixed here rather than threaded through every call because the
// forwarder's gate is a per-connection implementation detail, not part
// of the wire contract.
const flowControlHighWaterBytes = 2 * 1024 * 1024

func dispatchTerminal(ctx context.Context, hctx *handlercontext.Context, msgType string, raw []byte) {
	switch msgType {
	case ws.TypeInput:
		var msg ws.Input
		if err := json.Unmarshal(raw, &msg); err != nil {
			return
		}
		termID, ok := hctx.Registry.ResolveTermID(msg.TermID)
		if !ok {
			hctx.SendError("term_not_found", "no such terminal")
			return
		}
		if err := hctx.Registry.WriteInput(termID, msg.Data); err != nil {
			hctx.SendError("term_not_found", err.Error())
		}

	case ws.TypeResize:
		var msg ws.Resize
		if err := json.Unmarshal(raw, &msg); err != nil {
			return
		}
		termID, ok := hctx.Registry.ResolveTermID(msg.TermID)
		if !ok {
			hctx.SendError("term_not_found", "no such terminal")
			return
		}
		if err := hctx.Registry.Resize(termID, msg.Cols, msg.Rows); err != nil {
			hctx.SendError("term_not_found", err.Error())
		}

	case ws.TypeSpawnTerminal:
		var msg ws.SpawnTerminal
		if err := json.Unmarshal(raw, &msg); err != nil {
			return
		}
		cwd := msg.Cwd
		if cwd == "" {
			cwd = hctx.DataDir
		}
		termID, shell, err := hctx.Registry.Spawn(cwd, "", "")
		if err != nil {
			hctx.SendError("internal_error", err.Error())
			return
		}
		startForwarder(hctx, termID)
		hctx.Send(ws.TerminalSpawned{Type: ws.TypeTerminalSpawned, SessionID: termID, Shell: shell, Cwd: cwd})

	case ws.TypeKillTerminal:
		termID, ok := hctx.Registry.ResolveTermID("")
		if !ok {
			hctx.SendError("term_not_found", "no active terminal")
			return
		}
		hctx.Registry.Close(termID)
		hctx.Send(ws.TerminalKilled{Type: ws.TypeTerminalKilled, SessionID: termID})

	case ws.TypeTermCreate:
		handleTermCreate(hctx, raw)

	case ws.TypeTermList:
		handleTermList(hctx)

	case ws.TypeTermClose:
		var msg ws.TermClose
		if err := json.Unmarshal(raw, &msg); err != nil {
			return
		}
		hctx.UntrackSubscription(msg.TermID)
		hctx.UntrackFlowControl(msg.TermID)
		if !hctx.Registry.Close(msg.TermID) {
			hctx.SendError("term_not_found", "no such terminal")
			return
		}
		hctx.Send(ws.TermClosed{Type: ws.TypeTermClosed, TermID: msg.TermID})

	case ws.TypeTermFocus:
		var msg ws.TermFocus
		if err := json.Unmarshal(raw, &msg); err != nil {
			return
		}
		if !hctx.Registry.Contains(msg.TermID) {
			hctx.SendError("term_not_found", "no such terminal")
		}

	case ws.TypeTermAttach:
		handleTermAttach(hctx, raw)

	case ws.TypeTermOutputAck:
		var msg ws.TermOutputAck
		if err := json.Unmarshal(raw, &msg); err != nil {
			return
		}
		if fc, ok := hctx.GetFlowControl(msg.TermID); ok {
			fc.Ack(msg.Bytes)
		}
	}
}

func handleTermCreate(hctx *handlercontext.Context, raw []byte) {
	var msg ws.TermCreate
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	wctx, err := state.ResolveWorkspace(hctx.Store, msg.Project, msg.Workspace)
	if err != nil {
		sendResolveErr(hctx, err)
		return
	}

	termID, shell, err := hctx.Registry.Spawn(wctx.RootPath, msg.Project, msg.Workspace)
	if err != nil {
		hctx.SendError("internal_error", err.Error())
		return
	}
	startForwarder(hctx, termID)

	hctx.Send(ws.TermCreated{
		Type:      ws.TypeTermCreated,
		TermID:    termID,
		Project:   msg.Project,
		Workspace: msg.Workspace,
		Cwd:       wctx.RootPath,
		Shell:     shell,
	})
}

func handleTermList(hctx *handlercontext.Context) {
	infos := hctx.Registry.List()
	items := make([]ws.TerminalInfo, 0, len(infos))
	for _, info := range infos {
		item := ws.TerminalInfo{
			TermID:    info.TermID,
			Project:   info.Project,
			Workspace: info.Workspace,
			Cwd:       info.Cwd,
			Shell:     info.Shell,
			Running:   info.Status.Running,
		}
		if !info.Status.Running {
			code := info.Status.ExitCode
			item.ExitCode = &code
		}
		items = append(items, item)
	}
	hctx.Send(ws.TermListResult{Type: ws.TypeTermListResult, Items: items})
}

func handleTermAttach(hctx *handlercontext.Context, raw []byte) {
	var msg ws.TermAttach
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	info, err := hctx.Registry.GetInfo(msg.TermID)
	if err != nil {
		hctx.SendError("term_not_found", "no such terminal")
		return
	}
	scrollback, err := hctx.Registry.GetScrollback(msg.TermID)
	if err != nil {
		hctx.SendError("term_not_found", "no such terminal")
		return
	}

	startForwarder(hctx, msg.TermID)

	hctx.Send(ws.TermAttached{
		Type:       ws.TypeTermAttached,
		TermID:     msg.TermID,
		Project:    info.Project,
		Workspace:  info.Workspace,
		Cwd:        info.Cwd,
		Shell:      info.Shell,
		Scrollback: scrollback,
	})
}

// startForwarder subscribes to termID's output and relays each chunk as an
// Output envelope, gated by a FlowControl the client drains via
// TermOutputAck (spec.md §4.D, §4.L). Replacing a prior subscription to
// the same terminal (e.g. a re-attach) tears down the old forwarder first.
func startForwarder(hctx *handlercontext.Context, termID string) {
	ch, unsubscribe, err := hctx.Registry.Subscribe(termID)
	if err != nil {
		return
	}

	fc := terminal.NewFlowControl(flowControlHighWaterBytes)
	hctx.TrackFlowControl(termID, fc)

	stopped := make(chan struct{})
	stop := func() {
		unsubscribe()
		fc.Close()
		<-stopped
	}
	hctx.TrackSubscription(termID, stop)

	go func() {
		defer close(stopped)
		for data := range ch {
			fc.Wait()
			if err := hctx.Send(ws.Output{Type: ws.TypeOutput, TermID: termID, Data: data}); err != nil {
				return
			}
			fc.Add(int64(len(data)))
		}
		if info, err := hctx.Registry.GetInfo(termID); err == nil && !info.Status.Running {
			hctx.Send(ws.Exit{Type: ws.TypeExit, TermID: termID, Code: info.Status.ExitCode})
		}
	}()
}

func sendResolveErr(hctx *handlercontext.Context, err error) {
	switch err {
	case state.ErrProjectNotFound:
		hctx.SendError("project_not_found", err.Error())
	case state.ErrWorkspaceNotFound:
		hctx.SendError("workspace_not_found", err.Error())
	default:
		logger.Warn("dispatcher: resolve failed", "error", err)
		hctx.SendError("internal_error", err.Error())
	}
}
