package bus

import "github.com/google/uuid"

// Purpose says why a selection was requested. Delete and properties requests share
// one response queue, so every response echoes the purpose it was asked for.
type Purpose int

const (
	PurposeDelete Purpose = iota
	PurposeProperties
)

func (p Purpose) String() string {
	switch p {
	case PurposeDelete:
		return "delete"
	case PurposeProperties:
		return "properties"
	default:
		return "unknown"
	}
}

// SelectionRequest asks the file view for its current selection.
type SelectionRequest struct {
	Token   string
	Purpose Purpose
}

// SelectionResponse answers a SelectionRequest. Token and Purpose are copied from
// the request.
type SelectionResponse struct {
	Token   string
	Purpose Purpose
	Paths   []string
}

// StatusKind classifies a status bar message.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusError
)

// Status is a transient status bar message.
type Status struct {
	Text string
	Kind StatusKind
}

// Info builds an informational status message.
func Info(text string) Status { return Status{Text: text, Kind: StatusInfo} }

// Failure builds an error status message.
func Failure(text string) Status { return Status{Text: text, Kind: StatusError} }

// NewToken returns a fresh correlation token for a request/response handshake.
func NewToken() string {
	return uuid.NewString()
}
