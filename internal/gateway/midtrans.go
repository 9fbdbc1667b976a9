package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const midtransExpiry = time.Hour

// Midtrans quotes a hosted payment page redirect keyed by the deposit
// reference (Midtrans order id).
type Midtrans struct {
	BaseURL string
}

func NewMidtrans(baseURL string) *Midtrans { return &Midtrans{BaseURL: baseURL} }

func (m *Midtrans) Method() string { return "midtrans" }

func (m *Midtrans) Quote(ctx context.Context, referenceID string, amount decimal.Decimal, user UserContext, params Params) (*Quote, error) {
	return &Quote{
		Details: map[string]any{
			"redirect_url": m.BaseURL + "/payment/" + referenceID,
			"order_id":     referenceID,
		},
		ExpiresAt: time.Now().Add(midtransExpiry),
	}, nil
}
