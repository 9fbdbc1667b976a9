package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/togelhub/lottery-ledger/internal/ledger/refid"
)

const ewalletExpiry = 15 * time.Minute

// EWallet quotes instructions for phone-wallet providers. The wallet_type
// parameter selects the provider; each one has its own payload shape.
type EWallet struct{}

func NewEWallet() *EWallet { return &EWallet{} }

func (e *EWallet) Method() string { return "e_wallet" }

func (e *EWallet) Quote(ctx context.Context, referenceID string, amount decimal.Decimal, user UserContext, params Params) (*Quote, error) {
	walletType, err := params.Get("wallet_type")
	if err != nil {
		return nil, err
	}

	expires := time.Now().Add(ewalletExpiry)

	switch walletType {
	case "gopay":
		return &Quote{
			Details: map[string]any{
				"qr_code":   fmt.Sprintf("GOPAY.%s.%s", referenceID, amount.StringFixed(2)),
				"deep_link": "gojek://gopay/payment/" + referenceID,
			},
			ExpiresAt: expires,
		}, nil
	case "ovo":
		return &Quote{
			Details: map[string]any{
				"payment_code": refid.Digits(6),
				"phone_number": params["phone_number"],
			},
			ExpiresAt: expires,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported wallet_type %q", ErrInvalidParam, walletType)
	}
}
