package ledger

import "errors"

// Business and infrastructure failures surfaced by the engine. All of them
// guarantee full rollback of the atomic unit they aborted; ErrLockTimeout and
// ErrGatewayUnavailable are additionally safe to retry as-is.
var (
	ErrUnauthenticated          = errors.New("unauthorized")
	ErrValidation               = errors.New("invalid request")
	ErrUserNotFound             = errors.New("user not found")
	ErrInsufficientFunds        = errors.New("insufficient balance")
	ErrInvalidGame              = errors.New("invalid game type or game is not active")
	ErrBetAmountOutOfRange      = errors.New("bet amount out of range")
	ErrDrawClosed               = errors.New("draw is closed or invalid")
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
	ErrAmountOutOfRange         = errors.New("deposit amount out of range")
	ErrMissingPaymentParameter  = errors.New("missing payment parameter")
	ErrGatewayUnavailable       = errors.New("payment gateway unavailable")
	ErrLockTimeout              = errors.New("balance is locked by another operation, try again")
	ErrReferenceConflict        = errors.New("reference id already exists")
	ErrUnknownReference         = errors.New("unknown reference id")
)

// Kind returns a machine-stable identifier for an engine failure, used as a
// metrics label and in operational logs.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrInvalidGame):
		return "invalid_game"
	case errors.Is(err, ErrBetAmountOutOfRange):
		return "bet_amount_out_of_range"
	case errors.Is(err, ErrDrawClosed):
		return "draw_closed"
	case errors.Is(err, ErrUnsupportedPaymentMethod):
		return "unsupported_payment_method"
	case errors.Is(err, ErrAmountOutOfRange):
		return "amount_out_of_range"
	case errors.Is(err, ErrMissingPaymentParameter):
		return "missing_payment_parameter"
	case errors.Is(err, ErrGatewayUnavailable):
		return "gateway_unavailable"
	case errors.Is(err, ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, ErrReferenceConflict):
		return "persistence_conflict"
	case errors.Is(err, ErrUnknownReference):
		return "unknown_reference"
	default:
		return "internal"
	}
}

// IsBusiness reports whether err is a client-correctable failure, as opposed
// to an infrastructure fault. The HTTP layer maps business failures to 4xx.
func IsBusiness(err error) bool {
	switch Kind(err) {
	case "internal", "lock_timeout", "persistence_conflict", "gateway_unavailable":
		return false
	}
	return true
}
