// Package bridge speaks newline-delimited JSON with an editor plugin over a
// pair of streams, usually the host process's stdin and stdout.
//
// Every line is one JSON object with a "command" field. The plugin sends
// user actions and replies to host requests; the host sends chat updates,
// completion results and requests for editor capabilities (choose, showDiff,
// notify, insertText, readDocument, writeDocument). Host requests carry a
// request_id which the plugin echoes in a "reply". A readDocument reply
// carries the buffer in "text", or "missing" when the file does not exist.
package bridge

import (
	"tessa/model"
)

// Commands sent by the editor plugin.
const (
	CmdReady            = "ready"
	CmdSendMessage      = "sendMessage"
	CmdRefreshChat      = "refreshChat"
	CmdFillInMiddle     = "fillInMiddle"
	CmdInlineCompletion = "inlineCompletion"
	CmdCancelCompletion = "cancelCompletion"
	CmdSetModel         = "setModel"
	CmdOpenSettings     = "openSettings"
	CmdReply            = "reply"
)

// Commands sent by the host.
const (
	CmdAddMessage    = "addMessage"
	CmdShowLoading   = "showLoading"
	CmdHideLoading   = "hideLoading"
	CmdResetChat     = "resetChat"
	CmdSetModels     = "setModels"
	CmdCompletion    = "completion"
	CmdSettingsPath  = "settingsPath"
	CmdChoose        = "choose"
	CmdShowDiff      = "showDiff"
	CmdNotify        = "notify"
	CmdInsertText    = "insertText"
	CmdReadDocument  = "readDocument"
	CmdWriteDocument = "writeDocument"
	CmdError         = "error"
)

// Inbound is any line from the plugin. Fields are populated per command.
type Inbound struct {
	Command   string               `json:"command"`
	RequestID string               `json:"request_id,omitempty"`
	Text      string               `json:"text,omitempty"`
	Editor    *model.EditorContext `json:"editor,omitempty"`
	Trigger   string               `json:"trigger,omitempty"`
	Model     string               `json:"model,omitempty"`
	Index     *int                 `json:"index,omitempty"`
	Error     string               `json:"error,omitempty"`
	Missing   bool                 `json:"missing,omitempty"`
}

// Outbound is any line written to the plugin.
type Outbound struct {
	Command   string               `json:"command"`
	RequestID string               `json:"request_id,omitempty"`
	ID        string               `json:"id,omitempty"`
	Role      string               `json:"role,omitempty"`
	Text      string               `json:"text,omitempty"`
	RawHTML   bool                 `json:"rawHtml,omitempty"`
	Models    []model.ModelSummary `json:"models,omitempty"`
	OK        bool                 `json:"ok,omitempty"`
	Prompt    string               `json:"prompt,omitempty"`
	Options   []string             `json:"options,omitempty"`
	Left      string               `json:"left,omitempty"`
	Right     string               `json:"right,omitempty"`
	Title     string               `json:"title,omitempty"`
	Level     string               `json:"level,omitempty"`
	FilePath  string               `json:"filePath,omitempty"`
	Position  *model.Position      `json:"position,omitempty"`
	Path      string               `json:"path,omitempty"`
	Message   string               `json:"message,omitempty"`
}

type reply struct {
	index   int
	text    string
	missing bool
	err     string
}
