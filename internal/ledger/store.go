package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Store is the durable side of the engine: balances, bets, the transaction
// ledger and the game/draw catalog. InTx runs fn inside one all-or-nothing
// database transaction; any error from fn rolls everything back.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// Read-only queries outside any transaction boundary.
	Balance(ctx context.Context, userID int64) (decimal.Decimal, error)
	RecentTransactions(ctx context.Context, userID int64, limit int) ([]Transaction, error)
}

// Tx exposes the operations available inside an atomic unit.
//
// BalanceForUpdate must take an exclusive row lock held through commit, so the
// balance it returns stays authoritative for the rest of the transaction.
// Catalog lookups return (nil, nil) when nothing matches.
type Tx interface {
	BalanceForUpdate(ctx context.Context, userID int64) (decimal.Decimal, error)
	DebitBalance(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)
	CreditBalance(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)

	FindActiveGame(ctx context.Context, gameType string) (*Game, error)
	FindOpenDraw(ctx context.Context, drawID int64, now time.Time) (*Draw, error)

	InsertBet(ctx context.Context, b *Bet) (int64, error)
	InsertTransaction(ctx context.Context, t *Transaction) (int64, error)

	TransactionByReference(ctx context.Context, referenceID string) (*Transaction, error)
	SettleDeposit(ctx context.Context, txID int64, status string, balanceBefore, balanceAfter decimal.NullDecimal) error
}
