package mail

import (
	"context"

	"github.com/resend/resend-go/v2"
)

type resendAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Resend sends through the Resend HTTP API.
type Resend struct {
	emails resendAPI
}

func NewResend(apiKey string) *Resend {
	return &Resend{emails: resend.NewClient(apiKey).Emails}
}

func (r *Resend) Name() string {
	return "resend"
}

func (r *Resend) Send(ctx context.Context, msg Message) Outcome {
	params := &resend.SendEmailRequest{
		From:    msg.FromHeader(),
		To:      []string{msg.Recipient.String()},
		Subject: msg.Subject,
		Text:    msg.Body,
		Html:    msg.HTML,
	}

	sent, err := r.emails.SendWithContext(ctx, params)
	if err != nil {
		return failure(msg.Recipient, err)
	}
	return Sent(msg.Recipient, sent.Id)
}
