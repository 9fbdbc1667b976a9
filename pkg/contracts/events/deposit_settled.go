package events

// DepositSettled is published by gateway integrations once a provider reports a
// final state for a pending deposit. Status is "completed" or "failed".
type DepositSettled struct {
	ReferenceID string `json:"reference_id"`
	Status      string `json:"status"`
	ProviderRef string `json:"provider_ref,omitempty"`
	TsUnixMs    int64  `json:"ts_unix_ms"`
}

const (
	SettlementCompleted = "completed"
	SettlementFailed    = "failed"
)
