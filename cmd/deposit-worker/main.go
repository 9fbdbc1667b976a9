package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/togelhub/lottery-ledger/internal/gateway"
	"github.com/togelhub/lottery-ledger/internal/ledger"
	"github.com/togelhub/lottery-ledger/internal/ledger/store"
	"github.com/togelhub/lottery-ledger/internal/notifier"
	"github.com/togelhub/lottery-ledger/internal/shared/config"
	"github.com/togelhub/lottery-ledger/internal/shared/db"
	"github.com/togelhub/lottery-ledger/internal/shared/kafka"
	"github.com/togelhub/lottery-ledger/internal/shared/logger"
	"github.com/togelhub/lottery-ledger/internal/shared/metrics"
	"github.com/togelhub/lottery-ledger/pkg/contracts/events"
)

// deposit-worker consumes gateway settlement events and moves pending deposit
// transactions to their final state, crediting balances on success. The engine
// is idempotent for settlements, so the topic can be replayed.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New("deposit-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicDepositSettled, "deposit-worker")
	defer reader.Close()

	dlqWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicDepositSettledDQ)
	defer dlqWriter.Close()

	notifyWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicNotifications)
	defer notifyWriter.Close()

	// No gateways here: settlement never quotes new payments.
	engine := ledger.NewEngine(
		store.NewPostgres(pg, cfg.BalanceLockTimeout),
		gateway.NewRegistry(),
		notifier.NewKafka(notifyWriter, log),
		log,
		ledger.Limits{MinDeposit: cfg.MinDeposit, MaxDeposit: cfg.MaxDeposit},
	)

	metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
		return nil
	})

	log.Info("deposit-worker started", zap.String("consume", cfg.TopicDepositSettled))

	ctx := context.Background()
	for {
		key, value, err := kafka.ReadNext(ctx, reader)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var settled events.DepositSettled
		if err := json.Unmarshal(value, &settled); err != nil {
			log.Error("unmarshal deposit_settled", zap.ByteString("key", key), zap.Error(err))
			_ = kafka.WriteJSON(ctx, dlqWriter, string(key), value)
			continue
		}

		if err := processOne(ctx, engine, &settled); err != nil {
			log.Error("settle deposit",
				zap.String("reference_id", settled.ReferenceID),
				zap.Error(err),
			)
			_ = kafka.WriteJSON(ctx, dlqWriter, settled.ReferenceID, value)
		}
	}
}

// processOne applies one settlement with a short bounded retry for transient
// lock contention before giving up to the DLQ.
func processOne(ctx context.Context, engine *ledger.Engine, settled *events.DepositSettled) error {
	completed := settled.Status == events.SettlementCompleted

	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(300*attempt) * time.Millisecond)
		}
		err = engine.ConfirmDeposit(ctx, settled.ReferenceID, completed)
		if err == nil || !errors.Is(err, ledger.ErrLockTimeout) {
			return err
		}
	}
	return err
}
