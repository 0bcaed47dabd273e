package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vvitengg/admissions-backend/internal/config"
	"github.com/vvitengg/admissions-backend/internal/model"
	"github.com/vvitengg/admissions-backend/internal/notify"
)

const (
	notifyPollTimeout = 1 * time.Second
	notifySendTimeout = 15 * time.Second
)

// NotificationWorker drains the notify queue and delivers WhatsApp
// confirmations. Delivery is best-effort: failures are logged and the job
// dropped — the admission record is already durable.
type NotificationWorker struct {
	rdb *redis.Client
	wa  *notify.WhatsApp
	log zerolog.Logger
}

func NewNotificationWorker(rdb *redis.Client, wa *notify.WhatsApp, log zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{
		rdb: rdb,
		wa:  wa,
		log: log.With().Str("component", "notification_worker").Logger(),
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("NotificationWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("NotificationWorker stopped")
			return
		default:
			item, err := w.rdb.BLPop(ctx, notifyPollTimeout, config.QueueKey.NotifyQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			var ev model.AdmissionEvent
			if err := json.Unmarshal([]byte(item[1]), &ev); err != nil {
				w.log.Error().Err(err).Msg("Malformed notify job")
				continue
			}

			w.deliver(ev)
		}
	}
}

func (w *NotificationWorker) deliver(ev model.AdmissionEvent) {
	sendCtx, cancel := context.WithTimeout(context.Background(), notifySendTimeout)
	defer cancel()

	message := notify.AdmissionMessage(ev.AdmissionID, ev.StudentName, ev.Branch)
	if err := w.wa.Send(sendCtx, ev.MobileNumber, message); err != nil {
		w.log.Error().Err(err).
			Str("admission_id", ev.AdmissionID).
			Msg("WhatsApp delivery failed")
		return
	}

	w.log.Info().
		Str("admission_id", ev.AdmissionID).
		Msg("Notification delivered")
}
