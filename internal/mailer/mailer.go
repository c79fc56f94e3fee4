package mailer

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"visit-report-service/internal/config"

	"gopkg.in/gomail.v2"
)

// addressPattern is a structural check, not full RFC validation.
var addressPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateAddress checks a destination email before any send is attempted.
func ValidateAddress(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return fmt.Errorf("destination email is required")
	}
	if !addressPattern.MatchString(addr) {
		return fmt.Errorf("invalid email address: %s", addr)
	}
	return nil
}

// Attachment is an in-memory file attached to a report email.
type Attachment struct {
	Filename string
	Content  []byte
}

// Mailer sends report emails through the configured SMTP relay.
type Mailer struct {
	cfg config.MailConfig

	// dial is swapped out by tests to capture messages without a relay.
	dial func(m *gomail.Message) error
}

// NewMailer creates a mailer from SMTP settings.
func NewMailer(cfg config.MailConfig) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &Mailer{
		cfg:  cfg,
		dial: func(m *gomail.Message) error { return d.DialAndSend(m) },
	}
}

// SendReport sends the HTML report with its attachments to one recipient.
func (m *Mailer) SendReport(to, subject, htmlBody string, attachments []Attachment) error {
	if err := ValidateAddress(to); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	for _, a := range attachments {
		content := a.Content
		msg.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	if err := m.dial(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
