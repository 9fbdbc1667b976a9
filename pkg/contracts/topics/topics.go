package topics

const (
	// User-facing notices emitted by the ledger engine
	Notifications = "ledger_notifications"

	// Settlement results pushed by payment-gateway integrations
	DepositSettled    = "deposit_settled"
	DepositSettledDLQ = "deposit_settled_dlq"
)
