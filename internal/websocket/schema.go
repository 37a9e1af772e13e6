package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionDraft Action = "draft"
	ActionState Action = "state"
	ActionPing  Action = "ping"
)

// RequestPayload carries every client action. Unused fields stay at
// their zero value.
type RequestPayload struct {
	Action        Action `json:"action"`
	QuestionIndex int    `json:"q"`
	Answer        string `json:"ans"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError Event = "error"
	EventSaved Event = "saved"
	EventState Event = "state"
	EventPong  Event = "pong"
)

// SavedResponse acknowledges a stored draft answer.
type SavedResponse struct {
	Event  Event  `json:"event"`
	Status string `json:"status"`
}

// StateResponse returns every draft answer the server holds for this
// attempt, keyed by question index.
type StateResponse struct {
	Event  Event             `json:"event"`
	Drafts map[string]string `json:"drafts"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
