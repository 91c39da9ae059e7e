package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/mailer"
	"github.com/molinerisit/wa-bot-sheets/pkg/events"
)

type recordingMailer struct {
	notices []mailer.ReservationNotice
	err     error
}

func (m *recordingMailer) SendReservationNotice(_ string, n mailer.ReservationNotice) error {
	m.notices = append(m.notices, n)
	return m.err
}

func TestReservationNotifier(t *testing.T) {
	created := events.ReservationCreated("r-1", "549351", "Ana", "351", "2026-10-15", "21:00", 4, "ventana")

	t.Run("both channels", func(t *testing.T) {
		mail, sender := &recordingMailer{}, &recordingSender{}
		n := NewReservationNotifier(mail, "owner@example.com", sender, "5493510000", nopLog)

		require.NoError(t, n.Publish(context.Background(), created))
		require.Len(t, mail.notices, 1)
		assert.Equal(t, 4, mail.notices[0].People)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "5493510000", sender.sent[0].to)
		assert.Contains(t, sender.sent[0].text, "2026-10-15 21:00, 4 personas")
		assert.Contains(t, sender.sent[0].text, "ventana")
	})

	t.Run("one channel failing is tolerated", func(t *testing.T) {
		n := NewReservationNotifier(&recordingMailer{err: errors.New("smtp")}, "owner@example.com", &recordingSender{}, "5493510000", nopLog)
		assert.NoError(t, n.Handle(context.Background(), created))
	})

	t.Run("every channel failing is an error", func(t *testing.T) {
		n := NewReservationNotifier(&recordingMailer{err: errors.New("smtp")}, "owner@example.com", &recordingSender{err: errors.New("evo")}, "5493510000", nopLog)
		assert.Error(t, n.Handle(context.Background(), created))
	})

	t.Run("decoded json payload", func(t *testing.T) {
		mail := &recordingMailer{}
		n := NewReservationNotifier(mail, "owner@example.com", nil, "", nopLog)
		ev := events.BaseEvent{Type: events.RESERVATION_CREATED, Data: map[string]interface{}{"id": "r-2", "people": float64(3)}}
		require.NoError(t, n.Handle(context.Background(), ev))
		assert.Equal(t, 3, mail.notices[0].People)
	})

	t.Run("other events and no channels", func(t *testing.T) {
		mail := &recordingMailer{}
		n := NewReservationNotifier(mail, "", nil, "", nopLog)
		assert.NoError(t, n.Handle(context.Background(), events.BaseEvent{Type: "OTHER"}))
		assert.NoError(t, n.Handle(context.Background(), created))
		assert.Empty(t, mail.notices)
	})
}
