package mailer

import (
	"errors"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("mailer: SMTP host or recipient not configured")

type ReservationNotice struct {
	ID     string
	Name   string
	Phone  string
	Date   string
	Time   string
	People int
	Notes  string
}

type IEmailService interface {
	SendReservationNotice(toEmail string, n ReservationNotice) error
}

// sender is the part of gomail.Dialer the service uses.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	if host == "" {
		return &emailService{}
	}
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendReservationNotice(toEmail string, n ReservationNotice) error {
	if s.dialer == nil || toEmail == "" {
		return ErrNotConfigured
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", ReservationSubject(n))
	m.SetBody("text/html", reservationBody(n))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("mailer: send reservation %s: %w", n.ID, err)
	}
	return nil
}

func ReservationSubject(n ReservationNotice) string {
	return fmt.Sprintf("Nueva reserva: %s %s (%d personas)", n.Date, n.Time, n.People)
}

func reservationBody(n ReservationNotice) string {
	notes := n.Notes
	if notes == "" {
		notes = "-"
	}
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Nueva reserva pendiente</h2>
			<p><b>Nombre:</b> %s</p>
			<p><b>Teléfono:</b> %s</p>
			<p><b>Fecha:</b> %s %s</p>
			<p><b>Personas:</b> %d</p>
			<p><b>Notas:</b> %s</p>
			<p style="color: #888;">Reserva %s</p>
		</div>
	`,
		html.EscapeString(n.Name),
		html.EscapeString(n.Phone),
		html.EscapeString(n.Date), html.EscapeString(n.Time),
		n.People,
		html.EscapeString(notes),
		html.EscapeString(n.ID),
	)
}
