package websocket

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	// EventSnapshot carries the full completion statistics of the survey,
	// sent on connect and on periodic refresh.
	EventSnapshot Event = "snapshot"
	// EventSubmission is a single accepted submission forwarded live.
	EventSubmission Event = "submission"
	EventPing       Event = "ping"
	EventError      Event = "error"
)

// Message is the envelope for every server-to-client frame.
type Message struct {
	Event Event       `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// ErrorMessage is the payload of an EventError frame.
type ErrorMessage struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
