// smtp.go implements the email notification channel. Each message goes to a
// single recipient resolved by the caller, typically the email of the user
// named as the asset's responsible party.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/asset-inventory/asset-inventory/internal/config"
)

// EmailSender delivers messages as plain-text email via SMTP.
type EmailSender struct {
	cfg *config.SMTPConfig

	// sendMail is swappable in tests; defaults to the real SMTP path.
	sendMail func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailSender(cfg *config.SMTPConfig) *EmailSender {
	s := &EmailSender{cfg: cfg}
	s.sendMail = s.deliver
	return s
}

// Send delivers one message to a single recipient.
func (s *EmailSender) Send(ctx context.Context, to, subject, body string) error {
	headers := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nDate: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n",
		s.cfg.From, to, subject, time.Now().UTC().Format(time.RFC1123Z),
	)
	raw := []byte(headers + body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	return s.sendMail(addr, auth, s.cfg.From, []string{to}, raw)
}

// deliver sends via implicit TLS when UseTLS is set, otherwise plain SMTP.
// smtp.SendMail upgrades to STARTTLS on its own when the server offers it, so
// the fallback path still ends up encrypted on port 587 servers.
func (s *EmailSender) deliver(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	if s.cfg.UseTLS {
		return sendMailTLS(addr, s.cfg.Host, auth, from, to, msg)
	}
	return smtp.SendMail(addr, auth, from, to, msg)
}

// sendMailTLS connects via implicit TLS (port 465 / SMTPS) and sends a message.
// If the TLS dial fails the standard smtp.SendMail path is tried, which covers
// port 587 STARTTLS servers.
func sendMailTLS(addr, host string, auth smtp.Auth, from string, to []string, msg []byte) error {
	tlsConfig := &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return smtp.SendMail(addr, auth, from, to, msg)
	}
	defer conn.Close()

	hostname, _, _ := net.SplitHostPort(addr)
	c, err := smtp.NewClient(conn, hostname)
	if err != nil {
		return fmt.Errorf("smtp new client: %w", err)
	}
	defer c.Quit() //nolint:errcheck

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return w.Close()
}
