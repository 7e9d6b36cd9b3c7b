package mail

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/ryan-gang/mail-blast/internal/credentials"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Gmail sends through the Gmail API as the authorized user.
type Gmail struct {
	service *gmail.Service
	user    string
}

// NewGmail obtains a session from creds and builds the API client. A
// credentials failure is a setup error: no batch can run without it.
func NewGmail(ctx context.Context, creds credentials.Provider) (*Gmail, error) {
	session, err := creds.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtaining gmail session: %w", err)
	}
	service, err := gmail.NewService(ctx, option.WithTokenSource(session.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("creating gmail client: %w", err)
	}
	return NewGmailFromService(service), nil
}

// NewGmailFromService wraps an already configured API client.
func NewGmailFromService(service *gmail.Service) *Gmail {
	return &Gmail{service: service, user: "me"}
}

func (g *Gmail) Name() string {
	return "gmail"
}

func (g *Gmail) Send(ctx context.Context, msg Message) Outcome {
	raw, err := BuildRaw(msg)
	if err != nil {
		return Failed(msg.Recipient, err.Error(), ClassOther)
	}

	payload := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}
	sent, err := g.service.Users.Messages.Send(g.user, payload).Context(ctx).Do()
	if err != nil {
		return failure(msg.Recipient, err)
	}
	return Sent(msg.Recipient, sent.Id)
}
