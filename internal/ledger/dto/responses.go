package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Envelope is the uniform response shape of the public API.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"` // machine-stable failure kind
	Data    any    `json:"data,omitempty"`
}

type BetData struct {
	BetID        int64           `json:"bet_id"`
	NewBalance   decimal.Decimal `json:"new_balance"`
	PotentialWin decimal.Decimal `json:"potential_win"`
}

type PaymentData struct {
	ReferenceID    string          `json:"reference_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentDetails map[string]any  `json:"payment_details"`
}

type BalanceData struct {
	Balance decimal.Decimal `json:"balance"`
}

type TransactionData struct {
	ID            int64           `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	ReferenceID   string          `json:"reference_id"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
