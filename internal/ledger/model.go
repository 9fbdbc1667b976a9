package ledger

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Game is a lottery game configuration. Read-only for the engine; only active
// games accept bets.
type Game struct {
	ID              int64
	Type            string // e.g. "4d", "3d", "2d"
	Status          string
	MinBet          decimal.Decimal
	MaxBet          decimal.Decimal
	PrizeMultiplier decimal.Decimal
}

// Draw is a scheduled lottery event. Bets attach only while the draw is
// pending and its draw time is still in the future.
type Draw struct {
	ID       int64
	GameID   int64
	Status   string
	DrawTime time.Time
}

// Bet is a wager record. Immutable once created except for its status, which
// the settlement subsystem owns.
type Bet struct {
	ID           int64
	UserID       int64
	GameID       int64
	DrawID       int64
	Numbers      string // JSON array of selections, stored as sent
	Amount       decimal.Decimal
	PotentialWin decimal.Decimal
	Status       string
	CreatedAt    time.Time
}

// Transaction is an append-only ledger entry. Bet transactions are created
// completed in the same atomic unit as the balance debit; deposit transactions
// start pending and settle later.
type Transaction struct {
	ID             int64
	UserID         int64
	Type           string
	Amount         decimal.Decimal
	BalanceBefore  decimal.NullDecimal // set for balance-affecting entries
	BalanceAfter   decimal.NullDecimal
	Status         string
	ReferenceID    string
	PaymentMethod  string          // empty unless type is deposit
	PaymentDetails json.RawMessage // gateway-specific blob, nil unless deposit
	CreatedAt      time.Time
}

const (
	GameStatusActive   = "active"
	GameStatusInactive = "inactive"

	DrawStatusPending = "pending"
	DrawStatusClosed  = "closed"
	DrawStatusSettled = "settled"

	BetStatusPending = "pending"
	BetStatusWon     = "won"
	BetStatusLost    = "lost"
	BetStatusVoid    = "void"

	TxTypeBet        = "bet"
	TxTypeDeposit    = "deposit"
	TxTypeWithdrawal = "withdrawal"
	TxTypePayout     = "payout"

	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
)
