package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/togelhub/lottery-ledger/internal/ledger/refid"
)

const (
	bankTransferExpiry = 24 * time.Hour
	vaPrefix           = "8888"
)

// BankTransfer quotes a one-off virtual account for the requested bank.
// Requires the bank_code parameter.
type BankTransfer struct {
	AccountName string
}

func NewBankTransfer(accountName string) *BankTransfer {
	return &BankTransfer{AccountName: accountName}
}

func (b *BankTransfer) Method() string { return "bank_transfer" }

func (b *BankTransfer) Quote(ctx context.Context, referenceID string, amount decimal.Decimal, user UserContext, params Params) (*Quote, error) {
	bankCode, err := params.Get("bank_code")
	if err != nil {
		return nil, err
	}

	return &Quote{
		Details: map[string]any{
			"bank_code":      bankCode,
			"account_number": vaPrefix + refid.Digits(7),
			"account_name":   b.AccountName,
		},
		ExpiresAt: time.Now().Add(bankTransferExpiry),
	}, nil
}
