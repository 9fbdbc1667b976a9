package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const xenditExpiry = 24 * time.Hour

// Xendit quotes an invoice URL keyed by the deposit reference (Xendit
// external id).
type Xendit struct {
	BaseURL string
}

func NewXendit(baseURL string) *Xendit { return &Xendit{BaseURL: baseURL} }

func (x *Xendit) Method() string { return "xendit" }

func (x *Xendit) Quote(ctx context.Context, referenceID string, amount decimal.Decimal, user UserContext, params Params) (*Quote, error) {
	return &Quote{
		Details: map[string]any{
			"invoice_url": x.BaseURL + "/" + referenceID,
			"external_id": referenceID,
		},
		ExpiresAt: time.Now().Add(xenditExpiry),
	}, nil
}
