// Package notify delivers budget-alert messages to users. Delivery is
// best-effort and asynchronous: failures are logged and swallowed, never
// surfaced into the request that triggered them.
package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"fintrack/internal/config"
)

// Sender delivers a single alert message to an address.
type Sender interface {
	Send(to, subject, body string) error
}

// mailSender sends alerts over SMTP.
type mailSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailSender creates a Sender backed by the configured SMTP server.
func NewMailSender(cfg config.SMTPConfig) Sender {
	return &mailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *mailSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
