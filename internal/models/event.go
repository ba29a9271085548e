package models

// EventKind classifies an inbound message after transport decoding
type EventKind string

// Inbound event kinds.
const (
	EventText    EventKind = "text"
	EventVoice   EventKind = "voice"
	EventPhoto   EventKind = "photo"
	EventCommand EventKind = "command"
)

// Attachment references a piece of inbound media held by the transport
type Attachment struct {
	ID          string `json:"id"`  // stable identifier, used to derive the stored filename
	URL         string `json:"url"` // where the bytes can be fetched from
	ContentType string `json:"content_type"`
}

// Event is the transport-independent input consumed by the dialog engine
type Event struct {
	SessionID  string      `json:"session_id"` // the sender's WhatsApp number
	Kind       EventKind   `json:"kind"`
	Text       string      `json:"text,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
	Command    string      `json:"command,omitempty"` // without the leading slash
}
