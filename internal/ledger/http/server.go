package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/togelhub/lottery-ledger/internal/ledger"
	"github.com/togelhub/lottery-ledger/internal/ledger/dto"
	"github.com/togelhub/lottery-ledger/internal/shared/metrics"
)

// Ledger is the engine surface the API exposes.
type Ledger interface {
	PlaceBet(ctx context.Context, userID int64, in ledger.PlaceBetInput) (*ledger.BetReceipt, error)
	InitiatePayment(ctx context.Context, userID int64, in ledger.PaymentInput) (*ledger.PaymentReceipt, error)
	Balance(ctx context.Context, userID int64) (decimal.Decimal, error)
	RecentTransactions(ctx context.Context, userID int64, limit int) ([]ledger.Transaction, error)
}

// Authenticator resolves a session token to a trusted user id. Session
// issuance belongs to the auth service; the API only resolves.
type Authenticator interface {
	UserID(ctx context.Context, token string) (int64, error)
}

type Server struct {
	log    *zap.Logger
	ledger Ledger
	auth   Authenticator
}

func NewServer(log *zap.Logger, l Ledger, auth Authenticator) *Server {
	return &Server{log: log, ledger: l, auth: auth}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/place-bet", s.placeBet)             // POST
	mux.HandleFunc("/api/process-payment", s.processPayment) // POST
	mux.HandleFunc("/api/balance", s.balance)                // GET
	mux.HandleFunc("/api/transactions", s.transactions)      // GET
	return mux
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("place_bet"))
	defer timer.ObserveDuration()

	if r.Method != http.MethodPost {
		writeFailure(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "validation", "Invalid JSON body")
		return
	}
	numbers, err := req.NormalizedNumbers()
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "validation", "Invalid numbers payload")
		return
	}

	receipt, err := s.ledger.PlaceBet(r.Context(), userID, ledger.PlaceBetInput{
		GameType: req.GameType,
		Numbers:  numbers,
		Amount:   req.Amount,
		DrawID:   req.DrawID,
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Envelope{
		Success: true,
		Message: "Bet placed successfully",
		Data: dto.BetData{
			BetID:        receipt.BetID,
			NewBalance:   receipt.NewBalance,
			PotentialWin: receipt.PotentialWin,
		},
	})
}

func (s *Server) processPayment(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("process_payment"))
	defer timer.ObserveDuration()

	if r.Method != http.MethodPost {
		writeFailure(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req dto.ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "validation", "Invalid JSON body")
		return
	}

	receipt, err := s.ledger.InitiatePayment(r.Context(), userID, ledger.PaymentInput{
		Amount: req.Amount,
		Method: req.PaymentMethod,
		Params: req.Params(),
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Envelope{
		Success: true,
		Message: "Payment initiated successfully",
		Data: dto.PaymentData{
			ReferenceID:    receipt.ReferenceID,
			Amount:         receipt.Amount,
			PaymentMethod:  receipt.Method,
			PaymentDetails: receipt.PaymentDetails,
		},
	})
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeFailure(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	balance, err := s.ledger.Balance(r.Context(), userID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Envelope{Success: true, Data: dto.BalanceData{Balance: balance}})
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeFailure(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	txs, err := s.ledger.RecentTransactions(r.Context(), userID, limit)
	if err != nil {
		s.fail(w, err)
		return
	}

	out := make([]dto.TransactionData, 0, len(txs))
	for _, t := range txs {
		out = append(out, dto.TransactionData{
			ID:            t.ID,
			Type:          t.Type,
			Amount:        t.Amount,
			Status:        t.Status,
			ReferenceID:   t.ReferenceID,
			PaymentMethod: t.PaymentMethod,
			CreatedAt:     t.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, dto.Envelope{Success: true, Data: out})
}

// requireUser resolves the bearer token to a user id or writes a 401.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	token := bearerToken(r)
	if token == "" {
		writeFailure(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
		return 0, false
	}
	userID, err := s.auth.UserID(r.Context(), token)
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
		return 0, false
	}
	return userID, true
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.Header.Get("X-Session-Token")
}

// fail maps an engine failure to the envelope and HTTP status. Business
// failures are 400; infrastructure failures get their own statuses so callers
// can decide retry-safety.
func (s *Server) fail(w http.ResponseWriter, err error) {
	kind := ledger.Kind(err)
	status := http.StatusBadRequest
	message := err.Error()

	switch {
	case errors.Is(err, ledger.ErrUnauthenticated):
		status = http.StatusUnauthorized
		message = "Unauthorized"
	case errors.Is(err, ledger.ErrLockTimeout), errors.Is(err, ledger.ErrReferenceConflict):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrGatewayUnavailable):
		status = http.StatusBadGateway
	case !ledger.IsBusiness(err):
		status = http.StatusInternalServerError
		message = "Internal error"
		s.log.Error("internal error", zap.Error(err))
	}

	writeFailure(w, status, kind, message)
}

func writeFailure(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, dto.Envelope{Success: false, Error: kind, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
