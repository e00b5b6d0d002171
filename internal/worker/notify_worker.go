package worker

// notify_worker.go
// Processes new-lead notification jobs from QueueNotify: renders the lead
// summary PDF and emails it to the configured inbox. Delivery failures land
// in the DLQ — the lead itself was already persisted, so nothing is retried
// inline.

import (
	"context"
	"encoding/json"
	"fmt"

	"leadhub/internal/infra"
	"leadhub/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NotifyJobPayload is the job envelope sent to QueueNotify. It is a snapshot
// of the buyer at creation time — the worker never reads the database.
type NotifyJobPayload struct {
	Buyer model.Buyer `json:"buyer"`
}

// NotifyWorker emails a new-lead alert with the lead summary sheet attached.
type NotifyWorker struct {
	mailer      *infra.Mailer
	rdb         *redis.Client
	notifyEmail string
	storagePath string
}

func NewNotifyWorker(mailer *infra.Mailer, rdb *redis.Client, notifyEmail, storagePath string) *NotifyWorker {
	return &NotifyWorker{mailer: mailer, rdb: rdb, notifyEmail: notifyEmail, storagePath: storagePath}
}

// Process sends the notification email for one created lead.
func (w *NotifyWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload NotifyJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notify_worker: invalid payload")
		return
	}
	if w.notifyEmail == "" {
		log.Debug().Msg("notify_worker: NOTIFY_EMAIL not configured — skipping")
		return
	}

	b := payload.Buyer

	// Attachment is best-effort; the alert still goes out without it.
	pdfPath, err := infra.GenerateLeadPDF(&b, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("buyer_id", b.ID.String()).Msg("notify_worker: lead PDF generation failed")
		pdfPath = ""
	}

	subject := fmt.Sprintf("New lead: %s (%s, %s)", b.FullName, b.City, b.PropertyType)
	body := fmt.Sprintf("A new buyer lead was captured.\n\nName: %s\nPhone: %s\nCity: %s\nProperty: %s\nPurpose: %s\nTimeline: %s\nSource: %s\n",
		b.FullName, b.Phone, b.City, b.PropertyType, b.Purpose, b.Timeline, b.Source)

	if err := w.mailer.SendLeadAlert(w.notifyEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("buyer_id", b.ID.String()).Msg("notify_worker: failed to send alert")
		SendToDLQ(ctx, w.rdb, QueueNotify, "notify", raw, err.Error(), 1)
		return
	}
	log.Info().Str("buyer_id", b.ID.String()).Msg("notify_worker: lead alert sent")
}
