package dispatcher

import (
	"encoding/json"

	"github.com/gitbobobo/tidyflow/internal/handlercontext"
	"github.com/gitbobobo/tidyflow/internal/state"
	"github.com/gitbobobo/tidyflow/internal/ws"
)

func dispatchSettings(hctx *handlercontext.Context, msgType string, raw []byte) {
	switch msgType {
	case ws.TypeGetClientSettings:
		handleGetClientSettings(hctx)
	case ws.TypeSaveClientSettings:
		handleSaveClientSettings(hctx, raw)
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func handleGetClientSettings(hctx *handlercontext.Context) {
	cs := hctx.Store.ClientSettings()
	hctx.Send(clientSettingsResult(cs))
}

func clientSettingsResult(cs state.ClientSettings) ws.ClientSettingsResult {
	commands := make([]ws.CustomCommandInfo, 0, len(cs.CustomCommands))
	for _, c := range cs.CustomCommands {
		commands = append(commands, ws.CustomCommandInfo{ID: c.ID, Name: c.Name, Icon: c.Icon, Command: c.Command})
	}
	shortcuts := cs.WorkspaceShortcuts
	if shortcuts == nil {
		shortcuts = map[string]string{}
	}
	return ws.ClientSettingsResult{
		Type:               ws.TypeClientSettingsResult,
		CustomCommands:     commands,
		WorkspaceShortcuts: shortcuts,
		CommitAIAgent:      emptyToNil(cs.CommitAIAgent),
		MergeAIAgent:       emptyToNil(cs.MergeAIAgent),
	}
}

func handleSaveClientSettings(hctx *handlercontext.Context, raw []byte) {
	var msg ws.SaveClientSettings
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	commands := make([]state.CustomCommand, 0, len(msg.CustomCommands))
	for _, c := range msg.CustomCommands {
		commands = append(commands, state.CustomCommand{ID: c.ID, Name: c.Name, Icon: c.Icon, Command: c.Command})
	}

	cs := state.ClientSettings{
		CustomCommands:     commands,
		WorkspaceShortcuts: msg.WorkspaceShortcuts,
		CommitAIAgent:      strOrEmpty(msg.CommitAIAgent),
		MergeAIAgent:       strOrEmpty(msg.MergeAIAgent),
		SelectedAIAgent:    strOrEmpty(msg.SelectedAIAgent),
	}
	hctx.Store.SetClientSettings(cs)
	hctx.Saver.Trigger()

	hctx.Send(ws.ClientSettingsSaved{Type: ws.TypeClientSettingsSaved, OK: true})
}
