package mail

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SES sends raw messages through Amazon SES v2.
type SES struct {
	client sesAPI
}

func NewSES(cfg aws.Config) *SES {
	return &SES{client: sesv2.NewFromConfig(cfg)}
}

func (s *SES) Name() string {
	return "ses"
}

func (s *SES) Send(ctx context.Context, msg Message) Outcome {
	raw, err := BuildRaw(msg)
	if err != nil {
		return Failed(msg.Recipient, err.Error(), ClassOther)
	}

	input := &sesv2.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{msg.Recipient.String()}},
		Content:     &types.EmailContent{Raw: &types.RawMessage{Data: raw}},
	}
	if msg.From != "" {
		input.FromEmailAddress = aws.String(msg.FromHeader())
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return failure(msg.Recipient, err)
	}
	return Sent(msg.Recipient, aws.ToString(out.MessageId))
}
