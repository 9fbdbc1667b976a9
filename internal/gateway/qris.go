package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const qrisExpiry = 15 * time.Minute

// QRIS quotes a static-merchant QR payload. QR codes are short-lived by
// scheme rules.
type QRIS struct {
	MerchantID string
}

func NewQRIS(merchantID string) *QRIS { return &QRIS{MerchantID: merchantID} }

func (q *QRIS) Method() string { return "qris" }

func (q *QRIS) Quote(ctx context.Context, referenceID string, amount decimal.Decimal, user UserContext, params Params) (*Quote, error) {
	expires := time.Now().Add(qrisExpiry)
	return &Quote{
		Details: map[string]any{
			"qris_code":   fmt.Sprintf("00020101021226QR.%s.%s.%s6304", q.MerchantID, referenceID, amount.StringFixed(2)),
			"merchant_id": q.MerchantID,
		},
		ExpiresAt: expires,
	}, nil
}
