// Package notifier publishes fire-and-forget user notices to Kafka. Delivery
// failures are logged and swallowed: a lost notice must never fail a
// committed bet or deposit.
package notifier

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/togelhub/lottery-ledger/internal/shared/kafka"
	"github.com/togelhub/lottery-ledger/pkg/contracts/events"
)

type Kafka struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafka(w *kafka.Writer, log *zap.Logger) *Kafka {
	return &Kafka{writer: w, log: log}
}

func (n *Kafka) Notify(ctx context.Context, userID int64, event string, message string) {
	ev := events.Notification{
		ID:       uuid.NewString(),
		UserID:   userID,
		Event:    event,
		Message:  message,
		TsUnixMs: time.Now().UnixMilli(),
	}

	b, err := json.Marshal(ev)
	if err != nil {
		n.log.Warn("encode notification", zap.Error(err))
		return
	}
	// Keyed by user so one user's notices stay ordered per partition.
	if err := kafka.WriteJSON(ctx, n.writer, strconv.FormatInt(userID, 10), b); err != nil {
		n.log.Warn("publish notification",
			zap.Int64("user_id", userID),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}
