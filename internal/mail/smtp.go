package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	gomail "gopkg.in/mail.v2"
)

type SMTPConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTP sends each message over its own authenticated SMTP session.
type SMTP struct {
	dialer *gomail.Dialer
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	dialer := gomail.NewDialer(cfg.Server, cfg.Port, cfg.Username, cfg.Password)
	if cfg.Timeout > 0 {
		dialer.Timeout = cfg.Timeout
	}
	return &SMTP{dialer: dialer}
}

func (s *SMTP) Name() string {
	return "smtp"
}

func (s *SMTP) Send(ctx context.Context, msg Message) Outcome {
	if err := ctx.Err(); err != nil {
		return Failed(msg.Recipient, err.Error(), ClassOther)
	}

	m := msg.compose()
	id := messageID(msg.From)
	m.SetHeader("Message-ID", id)

	if err := s.dialer.DialAndSend(m); err != nil {
		return failure(msg.Recipient, &smtpError{err: err})
	}
	return Sent(msg.Recipient, id)
}

// smtpError marks an error as coming from an SMTP session.
type smtpError struct {
	err error
}

func (e *smtpError) Error() string {
	return "sending mail: " + e.err.Error()
}

func (e *smtpError) Unwrap() error {
	return e.err
}

// messageID generates a Message-ID in the sender's domain.
func messageID(from string) string {
	domain := "mail-blast.local"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
