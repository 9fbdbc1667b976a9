package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/togelhub/lottery-ledger/internal/ledger"
)

type fakeLedger struct {
	lastUserID  int64
	lastBet     ledger.PlaceBetInput
	lastPayment ledger.PaymentInput

	betReceipt     *ledger.BetReceipt
	paymentReceipt *ledger.PaymentReceipt
	balance        decimal.Decimal
	txs            []ledger.Transaction
	err            error
}

func (f *fakeLedger) PlaceBet(ctx context.Context, userID int64, in ledger.PlaceBetInput) (*ledger.BetReceipt, error) {
	f.lastUserID, f.lastBet = userID, in
	return f.betReceipt, f.err
}

func (f *fakeLedger) InitiatePayment(ctx context.Context, userID int64, in ledger.PaymentInput) (*ledger.PaymentReceipt, error) {
	f.lastUserID, f.lastPayment = userID, in
	return f.paymentReceipt, f.err
}

func (f *fakeLedger) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	f.lastUserID = userID
	return f.balance, f.err
}

func (f *fakeLedger) RecentTransactions(ctx context.Context, userID int64, limit int) ([]ledger.Transaction, error) {
	f.lastUserID = userID
	return f.txs, f.err
}

type fakeAuth struct {
	sessions map[string]int64
}

func (f *fakeAuth) UserID(ctx context.Context, token string) (int64, error) {
	id, ok := f.sessions[token]
	if !ok {
		return 0, errors.New("no session")
	}
	return id, nil
}

func newTestServer(l Ledger) http.Handler {
	auth := &fakeAuth{sessions: map[string]int64{"tok-1": 1}}
	return NewServer(zap.NewNop(), l, auth).Router()
}

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestPlaceBetMethodNotAllowed(t *testing.T) {
	h := newTestServer(&fakeLedger{})
	rec, env := doJSON(t, h, http.MethodGet, "/api/place-bet", "tok-1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Method not allowed", env["message"])
}

func TestPlaceBetUnauthorized(t *testing.T) {
	h := newTestServer(&fakeLedger{})

	rec, env := doJSON(t, h, http.MethodPost, "/api/place-bet", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Unauthorized", env["message"])

	rec, _ = doJSON(t, h, http.MethodPost, "/api/place-bet", "bad-token", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlaceBetBadJSON(t *testing.T) {
	h := newTestServer(&fakeLedger{})
	rec, env := doJSON(t, h, http.MethodPost, "/api/place-bet", "tok-1", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", env["error"])
}

func TestPlaceBetSuccess(t *testing.T) {
	f := &fakeLedger{betReceipt: &ledger.BetReceipt{
		BetID:        7,
		NewBalance:   decimal.NewFromInt(95000),
		PotentialWin: decimal.NewFromInt(250000),
	}}
	h := newTestServer(f)

	body := `{"game_type":"4d","numbers":["1","2","3","4"],"amount":5000,"draw_id":9}`
	rec, env := doJSON(t, h, http.MethodPost, "/api/place-bet", "tok-1", body)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, true, env["success"])
	data := env["data"].(map[string]any)
	assert.Equal(t, float64(7), data["bet_id"])
	assert.Equal(t, "95000", data["new_balance"])
	assert.Equal(t, "250000", data["potential_win"])

	assert.Equal(t, int64(1), f.lastUserID)
	assert.Equal(t, "4d", f.lastBet.GameType)
	assert.Equal(t, `["1","2","3","4"]`, f.lastBet.Numbers)
	assert.Equal(t, int64(9), f.lastBet.DrawID)
}

// Clients may send the numbers array JSON-encoded into a string; it reaches
// the engine in array form either way.
func TestPlaceBetNumbersAsString(t *testing.T) {
	f := &fakeLedger{betReceipt: &ledger.BetReceipt{}}
	h := newTestServer(f)

	body := `{"game_type":"4d","numbers":"[\"8\",\"9\"]","amount":5000,"draw_id":9}`
	rec, _ := doJSON(t, h, http.MethodPost, "/api/place-bet", "tok-1", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `["8","9"]`, f.lastBet.Numbers)
}

func TestPlaceBetFailureMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{ledger.ErrInsufficientFunds, http.StatusBadRequest, "insufficient_funds"},
		{ledger.ErrDrawClosed, http.StatusBadRequest, "draw_closed"},
		{ledger.ErrLockTimeout, http.StatusConflict, "lock_timeout"},
		{ledger.ErrGatewayUnavailable, http.StatusBadGateway, "gateway_unavailable"},
		{errors.New("pg down"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			h := newTestServer(&fakeLedger{err: tc.err})
			body := `{"game_type":"4d","numbers":["1"],"amount":5000,"draw_id":9}`
			rec, env := doJSON(t, h, http.MethodPost, "/api/place-bet", "tok-1", body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, false, env["success"])
			assert.Equal(t, tc.kind, env["error"])
			assert.NotEmpty(t, env["message"])
		})
	}
}

func TestProcessPaymentSuccess(t *testing.T) {
	f := &fakeLedger{paymentReceipt: &ledger.PaymentReceipt{
		ReferenceID:    "DEP1700000000abc",
		Amount:         decimal.NewFromInt(50000),
		Method:         "bank_transfer",
		PaymentDetails: map[string]any{"bank_code": "BCA", "account_number": "88881234567"},
	}}
	h := newTestServer(f)

	body := `{"amount":50000,"payment_method":"bank_transfer","bank_code":"BCA"}`
	rec, env := doJSON(t, h, http.MethodPost, "/api/process-payment", "tok-1", body)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, true, env["success"])
	data := env["data"].(map[string]any)
	assert.Equal(t, "DEP1700000000abc", data["reference_id"])
	assert.Equal(t, "bank_transfer", data["payment_method"])
	details := data["payment_details"].(map[string]any)
	assert.Equal(t, "BCA", details["bank_code"])

	assert.Equal(t, "bank_transfer", f.lastPayment.Method)
	assert.Equal(t, "BCA", f.lastPayment.Params["bank_code"])
}

func TestProcessPaymentFailure(t *testing.T) {
	h := newTestServer(&fakeLedger{err: ledger.ErrMissingPaymentParameter})
	body := `{"amount":50000,"payment_method":"bank_transfer"}`
	rec, env := doJSON(t, h, http.MethodPost, "/api/process-payment", "tok-1", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_payment_parameter", env["error"])
}

func TestBalanceEndpoint(t *testing.T) {
	f := &fakeLedger{balance: decimal.NewFromInt(93000)}
	h := newTestServer(f)

	rec, env := doJSON(t, h, http.MethodGet, "/api/balance", "tok-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := env["data"].(map[string]any)
	assert.Equal(t, "93000", data["balance"])

	rec, _ = doJSON(t, h, http.MethodPost, "/api/balance", "tok-1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTransactionsEndpoint(t *testing.T) {
	f := &fakeLedger{txs: []ledger.Transaction{
		{ID: 2, Type: ledger.TxTypeBet, Amount: decimal.NewFromInt(5000),
			Status: ledger.TxStatusCompleted, ReferenceID: "BET2"},
	}}
	h := newTestServer(f)

	rec, env := doJSON(t, h, http.MethodGet, "/api/transactions?limit=5", "tok-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := env["data"].([]any)
	require.Len(t, items, 1)
	first := items[0].(map[string]any)
	assert.Equal(t, "BET2", first["reference_id"])
	assert.Equal(t, "bet", first["type"])
}
