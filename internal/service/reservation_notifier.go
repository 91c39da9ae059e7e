package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/internal/pkg/mailer"
	"github.com/molinerisit/wa-bot-sheets/pkg/events"
	"github.com/molinerisit/wa-bot-sheets/pkg/evolution"
	"github.com/molinerisit/wa-bot-sheets/pkg/nats"
)

// ReservationNotifier tells the owner about new reservations by email and
// WhatsApp. Without NATS it is used as the publisher itself.
type ReservationNotifier struct {
	mail        mailer.IEmailService
	ownerEmail  string
	sender      evolution.Sender
	ownerNumber string
	log         logger.ILogger
}

var _ nats.EventPublisher = &ReservationNotifier{}

func NewReservationNotifier(mail mailer.IEmailService, ownerEmail string, sender evolution.Sender, ownerNumber string, log logger.ILogger) *ReservationNotifier {
	return &ReservationNotifier{mail: mail, ownerEmail: ownerEmail, sender: sender, ownerNumber: ownerNumber, log: log}
}

func (n *ReservationNotifier) Publish(ctx context.Context, event events.Event) error {
	return n.Handle(ctx, event)
}

// Handle fails only when every configured channel failed, so a redelivery
// does not repeat a notification that already went out.
func (n *ReservationNotifier) Handle(ctx context.Context, event events.Event) error {
	if event.EventType() != events.RESERVATION_CREATED {
		return nil
	}
	notice := noticeFromPayload(event.Payload())

	var attempted int
	var errs []error

	if n.mail != nil && n.ownerEmail != "" {
		attempted++
		if err := n.mail.SendReservationNotice(n.ownerEmail, notice); err != nil {
			errs = append(errs, err)
			n.log.Warn("Notifier", "Reservation email failed", map[string]interface{}{"reservation_id": notice.ID, "error": err.Error()})
		}
	}

	if n.sender != nil && n.ownerNumber != "" {
		attempted++
		if err := n.sender.SendText(ctx, n.ownerNumber, ownerMessage(notice)); err != nil {
			errs = append(errs, err)
			n.log.Warn("Notifier", "Reservation WhatsApp notice failed", map[string]interface{}{"reservation_id": notice.ID, "error": err.Error()})
		}
	}

	if attempted == 0 {
		n.log.Debug("Notifier", "No owner channel configured", map[string]interface{}{"reservation_id": notice.ID})
		return nil
	}
	if len(errs) == attempted {
		return errors.Join(errs...)
	}
	n.log.Info("Notifier", "Owner notified", map[string]interface{}{"reservation_id": notice.ID})
	return nil
}

func ownerMessage(n mailer.ReservationNotice) string {
	msg := fmt.Sprintf("📅 Nueva reserva: %s %s, %d personas\n👤 %s (%s)", n.Date, n.Time, n.People, n.Name, n.Phone)
	if n.Notes != "" {
		msg += "\n📝 " + n.Notes
	}
	return msg
}

// noticeFromPayload accepts both the in-process payload and one decoded from
// JSON, where numbers arrive as float64.
func noticeFromPayload(p map[string]interface{}) mailer.ReservationNotice {
	str := func(k string) string {
		if v, ok := p[k].(string); ok {
			return v
		}
		return ""
	}
	people := 0
	switch v := p["people"].(type) {
	case int:
		people = v
	case float64:
		people = int(v)
	}
	return mailer.ReservationNotice{
		ID:     str("id"),
		Name:   str("name"),
		Phone:  str("phone"),
		Date:   str("date"),
		Time:   str("time"),
		People: people,
		Notes:  str("notes"),
	}
}
