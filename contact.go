package main

import (
	"errors"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"
)

var ErrSMTPNotConfigured = errors.New("SMTP credentials not configured")

// ContactMessage is a submission from the contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// Validate checks the fields a reply needs.
func (m ContactMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Message) == "" {
		return errors.New("name and message are required")
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}
	// Header injection
	if strings.ContainsAny(m.Name+m.Email, "\r\n") {
		return errors.New("invalid characters in name or email")
	}
	return nil
}

// Mailer delivers contact form messages.
type Mailer interface {
	Send(msg ContactMessage) error
}

// SMTPMailer sends contact messages through an SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// compose builds the RFC 822 message sent to the site owner.
func (m *SMTPMailer) compose(msg ContactMessage) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", msg.Name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	return []byte("To: " + m.cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + msg.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

func (m *SMTPMailer) Send(msg ContactMessage) error {
	if m.cfg.User == "" || m.cfg.Pass == "" || m.cfg.To == "" {
		return ErrSMTPNotConfigured
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := smtp.SendMail(addr, auth, m.cfg.User, []string{m.cfg.To}, m.compose(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
