// Package mailer delivers plain-text notification emails over SMTP, through
// SendGrid, or to the log.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"facilitydesk/backend/internal/config"
	"facilitydesk/backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Message is one outbound email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the transport named by cfg.EmailTransport.
func New(cfg *config.Config) (Sender, error) {
	switch cfg.EmailTransport {
	case "smtp":
		if cfg.EmailHost == "" {
			return nil, errors.New("mailer: EMAIL_HOST is required for smtp transport")
		}
		return NewSMTP(cfg), nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, errors.New("mailer: SENDGRID_API_KEY is required for sendgrid transport")
		}
		sg := NewSendGrid(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.AppName)
		sg.Sandbox = cfg.SendGridSandbox
		return sg, nil
	case "log", "":
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("mailer: unknown EMAIL_TRANSPORT %q", cfg.EmailTransport)
	}
}

// SMTP sends through a configured relay. A fresh connection is dialed per message.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(cfg *config.Config) *SMTP {
	d := gomail.NewDialer(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass)
	d.SSL = cfg.EmailSecure
	return &SMTP{dialer: d, from: cfg.EmailFrom}
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetAddressHeader("To", msg.ToEmail, msg.ToName)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.ToEmail, err)
	}
	return nil
}

// SendGrid sends through the SendGrid v3 API.
type SendGrid struct {
	client  *sendgrid.Client
	from    *mail.Email
	Sandbox bool
}

func NewSendGrid(apiKey, fromEmail, fromName string) *SendGrid {
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	m := mail.NewSingleEmail(s.from, msg.Subject, to, msg.Text, "")
	if s.Sandbox {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		m.MailSettings = ms
	}

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", msg.ToEmail, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sendgrid send to %s: status %d: %s", msg.ToEmail, resp.StatusCode, resp.Body)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	logger.Log.WithFields(logrus.Fields{
		"to":      msg.ToEmail,
		"subject": msg.Subject,
	}).Info("email (log transport)")
	return nil
}
