package model

// FileUpdateProposal is a whole-file replacement suggested by the model.
// OriginalContent is captured before the request is sent.
type FileUpdateProposal struct {
	FilePath        string
	OriginalContent string
	ProposedContent string
}

// Insertion is text to insert at a position in the active document.
type Insertion struct {
	FilePath string
	Position Position
	Text     string
}

// Response is the outcome of one turn. Exactly one field is set.
type Response struct {
	Text       string
	FileUpdate *FileUpdateProposal
	Insertion  *Insertion
	Err        error
}

func TextResponse(text string) Response {
	return Response{Text: text}
}

func ErrorResponse(err error) Response {
	return Response{Err: err}
}
