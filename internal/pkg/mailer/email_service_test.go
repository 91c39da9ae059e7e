package mailer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSendReservationNotice(t *testing.T) {
	d := &recordingDialer{}
	svc := &emailService{dialer: d, senderEmail: "bot@example.com", senderName: "Bot"}

	err := svc.SendReservationNotice("owner@example.com", ReservationNotice{
		ID: "r-1", Name: "Ana <b>", Phone: "351", Date: "2026-10-15", Time: "21:00", People: 4,
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	assert.Equal(t, []string{"owner@example.com"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Nueva reserva: 2026-10-15 21:00 (4 personas)"}, d.sent[0].GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = d.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Ana &lt;b&gt;")
}

func TestSendReservationNoticeErrors(t *testing.T) {
	unconfigured := NewEmailService("", 587, "", "", "", "")
	assert.ErrorIs(t, unconfigured.SendReservationNotice("owner@example.com", ReservationNotice{}), ErrNotConfigured)

	boom := errors.New("smtp down")
	svc := &emailService{dialer: &recordingDialer{err: boom}}
	assert.ErrorIs(t, svc.SendReservationNotice("owner@example.com", ReservationNotice{ID: "r-2"}), boom)
}
