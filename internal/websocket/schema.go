package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSend Action = "send"
	ActionPing Action = "ping"
)

// RequestPayload is the single client frame shape; Body is only read
// for ActionSend.
type RequestPayload struct {
	Action Action `json:"action"`
	Body   string `json:"body"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventMessage Event = "message"
	EventError   Event = "error"
	EventAck     Event = "ack"
	EventPong    Event = "pong"
)

// MessageResponse fans a chat message out to subscribers. Data carries
// the model.ChatMessage JSON as published on the Redis channel.
type MessageResponse struct {
	Event Event       `json:"event"`
	Data  interface{} `json:"data"`
}

type AckResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
