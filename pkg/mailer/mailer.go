package mailer

import (
	"fmt"
	"os"
	"strconv"

	gomail "github.com/wneessen/go-mail"
)

// Mailer sends transactional email (verification links).
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
}

// NewSMTPMailer builds a Mailer from EMAIL_* environment variables.
func NewSMTPMailer() (Mailer, error) {
	port, err := strconv.Atoi(valueOrDefault("EMAIL_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMAIL_PORT: %w", err)
	}

	host := os.Getenv("EMAIL_HOST")
	if host == "" {
		return nil, fmt.Errorf("EMAIL_HOST is not set")
	}

	return &smtpMailer{
		host:     host,
		port:     port,
		username: os.Getenv("EMAIL_USERNAME"),
		password: os.Getenv("EMAIL_PASSWORD"),
		from:     valueOrDefault("EMAIL_FROM", "noreply@peerverse.app"),
		fromName: valueOrDefault("EMAIL_FROM_NAME", "Peerverse"),
	}, nil
}

func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	client, err := gomail.NewClient(m.host,
		gomail.WithPort(m.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.username),
		gomail.WithPassword(m.password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	return client.DialAndSend(msg)
}

func valueOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
