package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAmount = decimal.NewFromInt(50000)
	testUser   = UserContext{UserID: 7}
)

func TestQRISQuote(t *testing.T) {
	g := NewQRIS("ID1093847561")
	require.Equal(t, "qris", g.Method())

	before := time.Now()
	q, err := g.Quote(context.Background(), "DEP1700000000abcdef", testAmount, testUser, nil)
	require.NoError(t, err)

	code, ok := q.Details["qris_code"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, code)
	assert.Equal(t, "ID1093847561", q.Details["merchant_id"])

	// 15-minute expiry policy
	assert.WithinDuration(t, before.Add(15*time.Minute), q.ExpiresAt, 2*time.Second)
}

func TestBankTransferRequiresBankCode(t *testing.T) {
	g := NewBankTransfer("TOGEL ONLINE")

	_, err := g.Quote(context.Background(), "DEPx", testAmount, testUser, Params{})
	require.ErrorIs(t, err, ErrMissingParam)

	q, err := g.Quote(context.Background(), "DEPx", testAmount, testUser, Params{"bank_code": "BCA"})
	require.NoError(t, err)
	assert.Equal(t, "BCA", q.Details["bank_code"])
	assert.Equal(t, "TOGEL ONLINE", q.Details["account_name"])

	va, ok := q.Details["account_number"].(string)
	require.True(t, ok)
	assert.Len(t, va, 11)
	assert.Equal(t, "8888", va[:4])
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), q.ExpiresAt, 2*time.Second)
}

func TestEWalletVariants(t *testing.T) {
	g := NewEWallet()

	t.Run("missing wallet_type", func(t *testing.T) {
		_, err := g.Quote(context.Background(), "DEPx", testAmount, testUser, Params{})
		require.ErrorIs(t, err, ErrMissingParam)
	})

	t.Run("gopay", func(t *testing.T) {
		q, err := g.Quote(context.Background(), "DEPx", testAmount, testUser, Params{"wallet_type": "gopay"})
		require.NoError(t, err)
		assert.NotEmpty(t, q.Details["qr_code"])
		assert.Equal(t, "gojek://gopay/payment/DEPx", q.Details["deep_link"])
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), q.ExpiresAt, 2*time.Second)
	})

	t.Run("ovo", func(t *testing.T) {
		q, err := g.Quote(context.Background(), "DEPx", testAmount, testUser,
			Params{"wallet_type": "ovo", "phone_number": "+628111222333"})
		require.NoError(t, err)
		code, ok := q.Details["payment_code"].(string)
		require.True(t, ok)
		assert.Len(t, code, 6)
		assert.Equal(t, "+628111222333", q.Details["phone_number"])
	})

	t.Run("unsupported variant", func(t *testing.T) {
		_, err := g.Quote(context.Background(), "DEPx", testAmount, testUser, Params{"wallet_type": "dana"})
		require.ErrorIs(t, err, ErrInvalidParam)
	})
}

func TestHostedPageAdapters(t *testing.T) {
	m := NewMidtrans("https://app.midtrans.com")
	q, err := m.Quote(context.Background(), "DEPy", testAmount, testUser, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://app.midtrans.com/payment/DEPy", q.Details["redirect_url"])
	assert.WithinDuration(t, time.Now().Add(time.Hour), q.ExpiresAt, 2*time.Second)

	x := NewXendit("https://invoice.xendit.co")
	q, err = x.Quote(context.Background(), "DEPy", testAmount, testUser, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://invoice.xendit.co/DEPy", q.Details["invoice_url"])
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), q.ExpiresAt, 2*time.Second)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(NewQRIS("m"), NewEWallet())
	_, ok := r.Lookup("qris")
	assert.True(t, ok)
	_, ok = r.Lookup("crypto")
	assert.False(t, ok)

	r.Register(NewBankTransfer("ACME"))
	_, ok = r.Lookup("bank_transfer")
	assert.True(t, ok)
	assert.ElementsMatch(t, []string{"qris", "e_wallet", "bank_transfer"}, r.Methods())
}

func TestParamsGet(t *testing.T) {
	p := Params{"a": "1", "b": ""}
	v, err := p.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	_, err = p.Get("b")
	assert.True(t, errors.Is(err, ErrMissingParam))
	_, err = p.Get("c")
	assert.True(t, errors.Is(err, ErrMissingParam))
}
