// Package gateway models payment methods as registered adapter variants. Each
// adapter quotes method-specific payment instructions for a deposit reference;
// the ledger engine never branches on the method itself, so adding a provider
// means registering a new adapter here.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrMissingParam marks a required method-specific parameter that the
	// caller did not supply (e.g. bank_code for bank transfers).
	ErrMissingParam = errors.New("missing payment parameter")
	// ErrInvalidParam marks a supplied parameter the adapter cannot use
	// (e.g. an unknown e-wallet type).
	ErrInvalidParam = errors.New("invalid payment parameter")
	// ErrUnavailable marks a downstream provider failure. Quoting has no side
	// effects, so the caller may retry the whole initiation.
	ErrUnavailable = errors.New("gateway unavailable")
)

// Params carries the method-specific fields of a payment request.
type Params map[string]string

// Get returns the named parameter or ErrMissingParam.
func (p Params) Get(name string) (string, error) {
	v, ok := p[name]
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, name)
	}
	return v, nil
}

// UserContext identifies the depositing user for adapters that embed customer
// details in their payload.
type UserContext struct {
	UserID int64
}

// Quote is a set of payment instructions plus the moment they stop being
// honored. Details is opaque to the engine and persisted as-is.
type Quote struct {
	Details   map[string]any
	ExpiresAt time.Time
}

// Gateway produces payment instructions for one payment method. Quote must
// not mutate shared state and fails only on bad params or a provider fault.
type Gateway interface {
	Method() string
	Quote(ctx context.Context, referenceID string, amount decimal.Decimal, user UserContext, params Params) (*Quote, error)
}

// Registry is the set of available payment methods.
type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gws ...Gateway) *Registry {
	r := &Registry{gateways: make(map[string]Gateway, len(gws))}
	for _, g := range gws {
		r.gateways[g.Method()] = g
	}
	return r
}

func (r *Registry) Register(g Gateway) {
	r.gateways[g.Method()] = g
}

func (r *Registry) Lookup(method string) (Gateway, bool) {
	g, ok := r.gateways[method]
	return g, ok
}

// Methods lists the registered method names.
func (r *Registry) Methods() []string {
	out := make([]string, 0, len(r.gateways))
	for m := range r.gateways {
		out = append(out, m)
	}
	return out
}
