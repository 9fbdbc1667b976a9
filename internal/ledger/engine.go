package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/togelhub/lottery-ledger/internal/gateway"
	"github.com/togelhub/lottery-ledger/internal/ledger/refid"
	"github.com/togelhub/lottery-ledger/internal/shared/metrics"
	"github.com/togelhub/lottery-ledger/pkg/contracts/events"
)

// Notifier delivers fire-and-forget user notices. Implementations must never
// propagate delivery failures; the engine calls it only after a commit.
type Notifier interface {
	Notify(ctx context.Context, userID int64, event string, message string)
}

// Limits are the configured deposit bounds enforced by InitiatePayment.
type Limits struct {
	MinDeposit decimal.Decimal
	MaxDeposit decimal.Decimal
}

// Engine composes the balance store, game/draw catalog, reference generator
// and payment gateways into the two transactional use cases of the platform.
// It owns every transaction boundary; nothing else writes bets or ledger
// entries.
type Engine struct {
	store    Store
	gateways *gateway.Registry
	notifier Notifier
	log      *zap.Logger
	limits   Limits

	now func() time.Time
}

func NewEngine(store Store, gws *gateway.Registry, n Notifier, log *zap.Logger, limits Limits) *Engine {
	return &Engine{
		store:    store,
		gateways: gws,
		notifier: n,
		log:      log,
		limits:   limits,
		now:      time.Now,
	}
}

// PlaceBetInput is a validated-at-the-edge bet request. Numbers is the
// client's selection payload normalized to a JSON array string.
type PlaceBetInput struct {
	GameType string
	Numbers  string
	Amount   decimal.Decimal
	DrawID   int64
}

// BetReceipt is returned to the caller after a committed bet.
type BetReceipt struct {
	BetID        int64
	NewBalance   decimal.Decimal
	PotentialWin decimal.Decimal
}

// PlaceBet atomically validates and debits the user's balance, records the
// bet and its completed ledger entry, then emits a best-effort notice.
// Validation is fail-fast: the first violated precondition aborts with no
// observable side effects.
func (e *Engine) PlaceBet(ctx context.Context, userID int64, in PlaceBetInput) (*BetReceipt, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	if err := validateBetInput(in); err != nil {
		metrics.BetFailures.WithLabelValues(Kind(err)).Inc()
		return nil, err
	}

	var receipt BetReceipt
	err := e.store.InTx(ctx, func(tx Tx) error {
		// Exclusive read, held through commit. Everything below relies on
		// this balance staying authoritative.
		balance, err := tx.BalanceForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if balance.LessThan(in.Amount) {
			return ErrInsufficientFunds
		}

		game, err := tx.FindActiveGame(ctx, in.GameType)
		if err != nil {
			return err
		}
		if game == nil {
			return ErrInvalidGame
		}
		if in.Amount.LessThan(game.MinBet) || in.Amount.GreaterThan(game.MaxBet) {
			return fmt.Errorf("%w: must be between %s and %s",
				ErrBetAmountOutOfRange, game.MinBet, game.MaxBet)
		}

		now := e.now()
		draw, err := tx.FindOpenDraw(ctx, in.DrawID, now)
		if err != nil {
			return err
		}
		if draw == nil {
			return ErrDrawClosed
		}

		potentialWin := in.Amount.Mul(game.PrizeMultiplier)

		betID, err := tx.InsertBet(ctx, &Bet{
			UserID:       userID,
			GameID:       game.ID,
			DrawID:       in.DrawID,
			Numbers:      in.Numbers,
			Amount:       in.Amount,
			PotentialWin: potentialWin,
			Status:       BetStatusPending,
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}

		newBalance, err := tx.DebitBalance(ctx, userID, in.Amount)
		if err != nil {
			return err
		}

		if _, err := tx.InsertTransaction(ctx, &Transaction{
			UserID:        userID,
			Type:          TxTypeBet,
			Amount:        in.Amount,
			BalanceBefore: decimal.NewNullDecimal(balance),
			BalanceAfter:  decimal.NewNullDecimal(newBalance),
			Status:        TxStatusCompleted,
			ReferenceID:   refid.Bet(betID),
			CreatedAt:     now,
		}); err != nil {
			return err
		}

		receipt = BetReceipt{BetID: betID, NewBalance: newBalance, PotentialWin: potentialWin}
		return nil
	})
	if err != nil {
		metrics.BetFailures.WithLabelValues(Kind(err)).Inc()
		e.log.Warn("place bet failed",
			zap.Int64("user_id", userID),
			zap.String("game_type", in.GameType),
			zap.String("kind", Kind(err)),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.BetsPlaced.Inc()
	e.notifier.Notify(ctx, userID, events.EventBetPlaced,
		fmt.Sprintf("Bet placed successfully for %s. Amount: %s", in.GameType, in.Amount))
	return &receipt, nil
}

// PaymentInput is a deposit initiation request. Params carries the
// method-specific fields (bank_code, wallet_type, ...).
type PaymentInput struct {
	Amount decimal.Decimal
	Method string
	Params gateway.Params
}

// PaymentReceipt echoes the pending deposit back to the caller along with the
// gateway's instructions.
type PaymentReceipt struct {
	ReferenceID    string
	Amount         decimal.Decimal
	Method         string
	PaymentDetails map[string]any
}

// InitiatePayment quotes gateway instructions for a deposit and persists the
// pending ledger entry atomically with the reference reservation. No balance
// is touched; deposits credit only on confirmed settlement. A reference
// collision triggers one silent regeneration before surfacing.
func (e *Engine) InitiatePayment(ctx context.Context, userID int64, in PaymentInput) (*PaymentReceipt, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	if !in.Amount.IsPositive() {
		err := fmt.Errorf("%w: amount must be positive", ErrValidation)
		metrics.DepositFailures.WithLabelValues(Kind(err)).Inc()
		return nil, err
	}
	if in.Amount.LessThan(e.limits.MinDeposit) || in.Amount.GreaterThan(e.limits.MaxDeposit) {
		err := fmt.Errorf("%w: must be between %s and %s",
			ErrAmountOutOfRange, e.limits.MinDeposit, e.limits.MaxDeposit)
		metrics.DepositFailures.WithLabelValues(Kind(err)).Inc()
		return nil, err
	}

	gw, ok := e.gateways.Lookup(in.Method)
	if !ok {
		metrics.DepositFailures.WithLabelValues(Kind(ErrUnsupportedPaymentMethod)).Inc()
		return nil, ErrUnsupportedPaymentMethod
	}

	receipt, err := e.initiateOnce(ctx, userID, in, gw)
	if errors.Is(err, ErrReferenceConflict) {
		// A collision means the generator raced itself, not a caller mistake.
		receipt, err = e.initiateOnce(ctx, userID, in, gw)
	}
	if err != nil {
		metrics.DepositFailures.WithLabelValues(Kind(err)).Inc()
		e.log.Warn("initiate payment failed",
			zap.Int64("user_id", userID),
			zap.String("method", in.Method),
			zap.String("kind", Kind(err)),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.DepositsInitiated.WithLabelValues(in.Method).Inc()
	e.notifier.Notify(ctx, userID, events.EventDepositInitiated,
		fmt.Sprintf("Deposit initiated for %s via %s", in.Amount, in.Method))
	return receipt, nil
}

func (e *Engine) initiateOnce(ctx context.Context, userID int64, in PaymentInput, gw gateway.Gateway) (*PaymentReceipt, error) {
	referenceID := refid.Deposit()

	quote, err := gw.Quote(ctx, referenceID, in.Amount, gateway.UserContext{UserID: userID}, in.Params)
	if err != nil {
		switch {
		case errors.Is(err, gateway.ErrMissingParam), errors.Is(err, gateway.ErrInvalidParam):
			return nil, fmt.Errorf("%w: %s", ErrMissingPaymentParameter, err)
		case errors.Is(err, gateway.ErrUnavailable):
			return nil, fmt.Errorf("%w: %s", ErrGatewayUnavailable, err)
		default:
			return nil, fmt.Errorf("quote %s: %w", in.Method, err)
		}
	}

	details := make(map[string]any, len(quote.Details)+1)
	for k, v := range quote.Details {
		details[k] = v
	}
	details["expires_at"] = quote.ExpiresAt.UTC().Format(time.RFC3339)

	rawDetails, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("encode payment details: %w", err)
	}

	if err := e.store.InTx(ctx, func(tx Tx) error {
		_, err := tx.InsertTransaction(ctx, &Transaction{
			UserID:         userID,
			Type:           TxTypeDeposit,
			Amount:         in.Amount,
			Status:         TxStatusPending,
			ReferenceID:    referenceID,
			PaymentMethod:  in.Method,
			PaymentDetails: rawDetails,
			CreatedAt:      e.now(),
		})
		return err
	}); err != nil {
		return nil, err
	}

	return &PaymentReceipt{
		ReferenceID:    referenceID,
		Amount:         in.Amount,
		Method:         in.Method,
		PaymentDetails: details,
	}, nil
}

// ConfirmDeposit moves a pending deposit to its final state once a gateway
// reports settlement. Completed deposits credit the balance in the same
// atomic unit. Settling an already-settled reference is a no-op, so the
// settlement feed can be replayed safely.
func (e *Engine) ConfirmDeposit(ctx context.Context, referenceID string, completed bool) error {
	var (
		settledAs string
		userID    int64
		amount    decimal.Decimal
	)

	err := e.store.InTx(ctx, func(tx Tx) error {
		t, err := tx.TransactionByReference(ctx, referenceID)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("%w: %s", ErrUnknownReference, referenceID)
		}
		if t.Type != TxTypeDeposit {
			return fmt.Errorf("%w: %s is not a deposit", ErrUnknownReference, referenceID)
		}
		if t.Status != TxStatusPending {
			return nil // already settled
		}

		if !completed {
			settledAs = TxStatusFailed
			return tx.SettleDeposit(ctx, t.ID, TxStatusFailed, decimal.NullDecimal{}, decimal.NullDecimal{})
		}

		before, err := tx.BalanceForUpdate(ctx, t.UserID)
		if err != nil {
			return err
		}
		after, err := tx.CreditBalance(ctx, t.UserID, t.Amount)
		if err != nil {
			return err
		}
		if err := tx.SettleDeposit(ctx, t.ID, TxStatusCompleted,
			decimal.NewNullDecimal(before), decimal.NewNullDecimal(after)); err != nil {
			return err
		}

		settledAs = TxStatusCompleted
		userID = t.UserID
		amount = t.Amount
		return nil
	})
	if err != nil {
		e.log.Warn("confirm deposit failed",
			zap.String("reference_id", referenceID),
			zap.String("kind", Kind(err)),
			zap.Error(err),
		)
		return err
	}

	if settledAs != "" {
		metrics.DepositsSettled.WithLabelValues(settledAs).Inc()
	}
	if settledAs == TxStatusCompleted {
		e.notifier.Notify(ctx, userID, events.EventDepositCompleted,
			fmt.Sprintf("Deposit of %s completed", amount))
	}
	return nil
}

// Balance returns the user's current balance.
func (e *Engine) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	if userID <= 0 {
		return decimal.Zero, ErrUnauthenticated
	}
	return e.store.Balance(ctx, userID)
}

// RecentTransactions returns the user's latest ledger entries, newest first.
func (e *Engine) RecentTransactions(ctx context.Context, userID int64, limit int) ([]Transaction, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return e.store.RecentTransactions(ctx, userID, limit)
}

func validateBetInput(in PlaceBetInput) error {
	if in.GameType == "" {
		return fmt.Errorf("%w: game_type is required", ErrValidation)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if in.DrawID <= 0 {
		return fmt.Errorf("%w: draw_id is required", ErrValidation)
	}

	var selections []any
	if err := json.Unmarshal([]byte(in.Numbers), &selections); err != nil {
		return fmt.Errorf("%w: numbers must be a JSON array", ErrValidation)
	}
	if len(selections) == 0 {
		return fmt.Errorf("%w: numbers must not be empty", ErrValidation)
	}
	return nil
}
