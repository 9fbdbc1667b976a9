package events

// Notification is a fire-and-forget user notice published by the ledger engine
// after a use case commits. Consumers (push, e-mail, in-app inbox) are external.
type Notification struct {
	ID       string `json:"id"` // uuid per emission, consumers may dedupe on it
	UserID   int64  `json:"user_id"`
	Event    string `json:"event"` // "bet_placed" | "deposit_initiated" | "deposit_completed"
	Message  string `json:"message"`
	TsUnixMs int64  `json:"ts_unix_ms"`
}

const (
	EventBetPlaced        = "bet_placed"
	EventDepositInitiated = "deposit_initiated"
	EventDepositCompleted = "deposit_completed"
)
