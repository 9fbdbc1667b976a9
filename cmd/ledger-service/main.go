package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/togelhub/lottery-ledger/internal/auth"
	"github.com/togelhub/lottery-ledger/internal/gateway"
	"github.com/togelhub/lottery-ledger/internal/ledger"
	lhttp "github.com/togelhub/lottery-ledger/internal/ledger/http"
	"github.com/togelhub/lottery-ledger/internal/ledger/store"
	"github.com/togelhub/lottery-ledger/internal/notifier"
	"github.com/togelhub/lottery-ledger/internal/shared/config"
	"github.com/togelhub/lottery-ledger/internal/shared/db"
	"github.com/togelhub/lottery-ledger/internal/shared/kafka"
	"github.com/togelhub/lottery-ledger/internal/shared/logger"
	"github.com/togelhub/lottery-ledger/internal/shared/metrics"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres: balances, bets, ledger, catalog
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis: session token resolution
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}

	// Kafka writer: fire-and-forget user notices
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicNotifications)
	defer writer.Close()

	gateways := gateway.NewRegistry(
		gateway.NewQRIS(cfg.QRISMerchantID),
		gateway.NewBankTransfer("TOGEL ONLINE"),
		gateway.NewEWallet(),
		gateway.NewMidtrans(cfg.MidtransBaseURL),
		gateway.NewXendit(cfg.XenditBaseURL),
	)

	engine := ledger.NewEngine(
		store.NewPostgres(pg, cfg.BalanceLockTimeout),
		gateways,
		notifier.NewKafka(writer, log),
		log,
		ledger.Limits{MinDeposit: cfg.MinDeposit, MaxDeposit: cfg.MaxDeposit},
	)

	api := lhttp.NewServer(log, engine, auth.NewSessionStore(rdb))
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	log.Info("metrics/health listening", zap.String("port", cfg.MetricsPort))

	log.Info("ledger-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
