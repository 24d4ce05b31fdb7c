// Package mailer delivers password-reset links. SMTPSender talks to a real
// mail server through go-mail; LogSender only records that a message would
// have been sent.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/blogauth/internal/logging"
	"github.com/wneessen/go-mail"
)

const resetSubject = "Reset your password"

// Sender delivers a password-reset link to a user.
type Sender interface {
	Send(ctx context.Context, toEmail, resetLink, displayName string) error
}

// SMTPConfig holds the mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// dialer is the part of *mail.Client used by SMTPSender.
type dialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type SMTPSender struct {
	client dialer
	from   string
}

// NewSMTPSender builds a sender using opportunistic TLS. PLAIN auth is
// enabled only when a username is set.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTPSender{client: client, from: cfg.From}, nil
}

func (s *SMTPSender) Send(ctx context.Context, toEmail, resetLink, displayName string) error {
	msg, err := buildResetMessage(s.from, toEmail, resetLink, displayName)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildResetMessage(from, toEmail, resetLink, displayName string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if displayName != "" {
		if err := msg.AddToFormat(displayName, toEmail); err != nil {
			return nil, fmt.Errorf("invalid recipient address: %w", err)
		}
	} else if err := msg.To(toEmail); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(resetSubject)
	msg.SetBodyString(mail.TypeTextPlain, resetBody(resetLink, displayName))
	return msg, nil
}

func resetBody(resetLink, displayName string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = "there"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	b.WriteString("We received a request to reset your password. Open the link below to choose a new one:\n\n")
	b.WriteString(resetLink)
	b.WriteString("\n\nThe link expires soon. If you did not ask for a reset, ignore this message.\n")
	return b.String()
}

// LogSender is used when no mail server is configured. It logs the
// recipient only; the link carries a live token and is never logged.
type LogSender struct {
	log logging.Logger
}

func NewLogSender(log logging.Logger) *LogSender {
	return &LogSender{log: log.With("module", "mailer")}
}

func (s *LogSender) Send(ctx context.Context, toEmail, _, _ string) error {
	s.log.Info(ctx, "password reset email not sent: smtp disabled", "to", toEmail)
	return nil
}
