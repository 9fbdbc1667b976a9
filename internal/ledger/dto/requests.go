package dto

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/togelhub/lottery-ledger/internal/gateway"
)

type PlaceBetRequest struct {
	GameType string          `json:"game_type"`
	Numbers  json.RawMessage `json:"numbers"` // JSON array, or a string holding one
	Amount   decimal.Decimal `json:"amount"`
	DrawID   int64           `json:"draw_id"`
}

// NormalizedNumbers returns the selection payload as a JSON array string.
// Clients send either a real array or the same array JSON-encoded into a
// string; both forms normalize to the former.
func (r *PlaceBetRequest) NormalizedNumbers() (string, error) {
	raw := bytes.TrimSpace(r.Numbers)
	if len(raw) == 0 {
		return "", errors.New("numbers is required")
	}
	if raw[0] == '"' {
		var embedded string
		if err := json.Unmarshal(raw, &embedded); err != nil {
			return "", err
		}
		return embedded, nil
	}
	return string(raw), nil
}

type ProcessPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`

	// Method-specific fields
	BankCode    string `json:"bank_code,omitempty"`
	WalletType  string `json:"wallet_type,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Params collects the method-specific fields the selected gateway may need.
func (r *ProcessPaymentRequest) Params() gateway.Params {
	p := gateway.Params{}
	if r.BankCode != "" {
		p["bank_code"] = r.BankCode
	}
	if r.WalletType != "" {
		p["wallet_type"] = r.WalletType
	}
	if r.PhoneNumber != "" {
		p["phone_number"] = r.PhoneNumber
	}
	return p
}
