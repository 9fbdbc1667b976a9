// Package store is the Postgres implementation of the ledger's durable state:
// user balances, bets, the append-only transaction ledger and the game/draw
// catalog. All multi-row effects run inside a single database transaction
// opened by InTx; the balance row lock taken by BalanceForUpdate is held
// through commit.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/togelhub/lottery-ledger/internal/ledger"
)

type Postgres struct {
	db          *sql.DB
	lockTimeout time.Duration
}

func NewPostgres(db *sql.DB, lockTimeout time.Duration) *Postgres {
	return &Postgres{db: db, lockTimeout: lockTimeout}
}

// InTx runs fn inside one database transaction. fn returning an error, or a
// failed commit, leaves no trace of any statement executed inside.
func (p *Postgres) InTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if p.lockTimeout > 0 {
		// Bounded wait on contended rows; SET LOCAL scopes it to this tx.
		// lock_timeout does not accept bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", p.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", mapPQ(err))
	}
	return nil
}

// Balance reads the current balance without locking.
func (p *Postgres) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := p.db.QueryRowContext(ctx,
		`SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ledger.ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("select balance: %w", err)
	}
	return balance, nil
}

// RecentTransactions returns the user's latest ledger entries, newest first.
func (p *Postgres) RecentTransactions(ctx context.Context, userID int64, limit int) ([]ledger.Transaction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount, balance_before, balance_after,
		       status, reference_id, payment_method, payment_details, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) BalanceForUpdate(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := t.tx.QueryRowContext(ctx,
		`SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ledger.ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("lock balance: %w", mapPQ(err))
	}
	return balance, nil
}

// DebitBalance subtracts amount and returns the new balance. The guard in the
// WHERE clause keeps the non-negative invariant even if a caller skipped the
// locked read; no matching row means the funds are not there.
func (t *pgTx) DebitBalance(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := t.tx.QueryRowContext(ctx, `
		UPDATE users
		SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2 AND balance >= $1
		RETURNING balance`, amount, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ledger.ErrInsufficientFunds
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("debit balance: %w", mapPQ(err))
	}
	return balance, nil
}

func (t *pgTx) CreditBalance(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := t.tx.QueryRowContext(ctx, `
		UPDATE users
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING balance`, amount, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ledger.ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("credit balance: %w", mapPQ(err))
	}
	return balance, nil
}

func (t *pgTx) FindActiveGame(ctx context.Context, gameType string) (*ledger.Game, error) {
	var g ledger.Game
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, type, status, min_bet, max_bet, prize_multiplier
		FROM games
		WHERE type = $1 AND status = 'active'`, gameType).
		Scan(&g.ID, &g.Type, &g.Status, &g.MinBet, &g.MaxBet, &g.PrizeMultiplier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select game: %w", err)
	}
	return &g, nil
}

func (t *pgTx) FindOpenDraw(ctx context.Context, drawID int64, now time.Time) (*ledger.Draw, error) {
	var d ledger.Draw
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, game_id, status, draw_time
		FROM draws
		WHERE id = $1 AND status = 'pending' AND draw_time > $2`, drawID, now).
		Scan(&d.ID, &d.GameID, &d.Status, &d.DrawTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select draw: %w", err)
	}
	return &d, nil
}

func (t *pgTx) InsertBet(ctx context.Context, b *ledger.Bet) (int64, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO bets (user_id, game_id, draw_id, numbers, amount, potential_win, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		b.UserID, b.GameID, b.DrawID, b.Numbers, b.Amount, b.PotentialWin, b.Status, b.CreatedAt).
		Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert bet: %w", mapPQ(err))
	}
	return id, nil
}

func (t *pgTx) InsertTransaction(ctx context.Context, tr *ledger.Transaction) (int64, error) {
	method := sql.NullString{String: tr.PaymentMethod, Valid: tr.PaymentMethod != ""}
	var details any
	if len(tr.PaymentDetails) > 0 {
		details = []byte(tr.PaymentDetails)
	}

	var id int64
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, type, amount, balance_before, balance_after,
		                          status, reference_id, payment_method, payment_details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		tr.UserID, tr.Type, tr.Amount, tr.BalanceBefore, tr.BalanceAfter,
		tr.Status, tr.ReferenceID, method, details, tr.CreatedAt).
		Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", mapPQ(err))
	}
	return id, nil
}

// TransactionByReference takes a row lock so concurrent settlement deliveries
// for the same reference serialize.
func (t *pgTx) TransactionByReference(ctx context.Context, referenceID string) (*ledger.Transaction, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, user_id, type, amount, balance_before, balance_after,
		       status, reference_id, payment_method, payment_details, created_at
		FROM transactions
		WHERE reference_id = $1
		FOR UPDATE`, referenceID)

	tr, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapPQ(err)
	}
	return tr, nil
}

func (t *pgTx) SettleDeposit(ctx context.Context, txID int64, status string, balanceBefore, balanceAfter decimal.NullDecimal) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE transactions
		SET status = $2,
		    balance_before = COALESCE($3, balance_before),
		    balance_after = COALESCE($4, balance_after)
		WHERE id = $1`,
		txID, status, balanceBefore, balanceAfter)
	if err != nil {
		return fmt.Errorf("settle deposit: %w", mapPQ(err))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*ledger.Transaction, error) {
	var (
		tr      ledger.Transaction
		method  sql.NullString
		details []byte
	)
	err := row.Scan(&tr.ID, &tr.UserID, &tr.Type, &tr.Amount, &tr.BalanceBefore,
		&tr.BalanceAfter, &tr.Status, &tr.ReferenceID, &method, &details, &tr.CreatedAt)
	if err != nil {
		return nil, err
	}
	tr.PaymentMethod = method.String
	tr.PaymentDetails = details
	return &tr, nil
}

// mapPQ converts driver error codes into the engine's typed failures:
// 55P03 lock_not_available (bounded-wait expiry) and 23505 unique_violation
// (reference id collision).
func mapPQ(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "55P03":
			return fmt.Errorf("%w: %s", ledger.ErrLockTimeout, pqErr.Message)
		case "23505":
			return fmt.Errorf("%w: %s", ledger.ErrReferenceConflict, pqErr.Constraint)
		}
	}
	return err
}
