package websocket

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError   Event = "error"
	EventChanged Event = "changed"
	EventPong    Event = "pong"
)

// ChangedNotice tells a connected client that reference data changed and a
// delta pull is worthwhile. ServerTime is informational — the client keeps
// using its own stored watermark for the pull.
type ChangedNotice struct {
	Event      Event  `json:"event"`
	Entity     string `json:"entity"`
	ServerTime string `json:"server_time"`
}

type ErrorNotice struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongNotice struct {
	Event Event `json:"event"`
}

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only client→server message shape on the notify
// stream: keepalive pings.
type RequestEnvelope struct {
	Action Action `json:"action"`
}
