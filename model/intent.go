package model

// Kind identifies what a request is for. Generation parameters are fixed per
// kind.
type Kind string

const (
	KindChat       Kind = "chat"
	KindExplain    Kind = "explain"
	KindFIM        Kind = "fim"
	KindUpdateFile Kind = "update_file"
	KindInline     Kind = "inline"
	KindNotice     Kind = "notice"
)

// Intent is the classified form of one user utterance.
type Intent interface {
	Kind() Kind
}

type PlainChat struct {
	Prompt string
}

type Explain struct {
	Prompt      string
	ContextText string
}

type FillInMiddle struct{}

type UpdateFile struct {
	Instruction string
}

type Severity string

const (
	SeverityError Severity = "error"
	SeverityInfo  Severity = "info"
)

// Notice is produced when a command cannot run; it never reaches a model.
type Notice struct {
	Severity Severity
	Command  string
	Text     string
}

func (PlainChat) Kind() Kind    { return KindChat }
func (Explain) Kind() Kind      { return KindExplain }
func (FillInMiddle) Kind() Kind { return KindFIM }
func (UpdateFile) Kind() Kind   { return KindUpdateFile }
func (Notice) Kind() Kind       { return KindNotice }

// Err converts the notice into the error reported by the session.
func (n Notice) Err() error {
	return &NoContextError{Command: n.Command, Message: n.Text}
}
