package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/smithy-go"
	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sesMock struct {
	input *sesv2.SendEmailInput
	err   error
}

func (m *sesMock) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-0001")}, nil
}

func TestSESSend(t *testing.T) {
	mock := &sesMock{}
	transport := &SES{client: mock}

	outcome := transport.Send(context.Background(), Message{FromName: "Ada", From: "ada@x.com", Subject: "s", Body: "b", Recipient: "bob@x.com"})

	assert.Equal(t, Sent("bob@x.com", "ses-0001"), outcome)
	require.NotNil(t, mock.input)
	assert.Equal(t, []string{"bob@x.com"}, mock.input.Destination.ToAddresses)
	assert.Equal(t, `"Ada" <ada@x.com>`, aws.ToString(mock.input.FromEmailAddress))
	assert.Contains(t, string(mock.input.Content.Raw.Data), "To: bob@x.com")
}

func TestSESSendThrottled(t *testing.T) {
	transport := &SES{client: &sesMock{err: &smithy.GenericAPIError{Code: "TooManyRequestsException", Message: "Maximum sending rate exceeded."}}}

	outcome := transport.Send(context.Background(), Message{Recipient: "bob@x.com"})

	assert.Equal(t, ClassRateLimited, outcome.Class)
	assert.True(t, outcome.StopsBatch())
}

type resendMock struct {
	params *resend.SendEmailRequest
	err    error
}

func (m *resendMock) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	m.params = params
	if m.err != nil {
		return nil, m.err
	}
	return &resend.SendEmailResponse{Id: "re_123"}, nil
}

func TestResendSend(t *testing.T) {
	mock := &resendMock{}
	transport := &Resend{emails: mock}

	outcome := transport.Send(context.Background(), Message{From: "ada@x.com", Subject: "s", Body: "b", HTML: "<p>b</p>", Recipient: "bob@x.com"})

	assert.Equal(t, Sent("bob@x.com", "re_123"), outcome)
	assert.Equal(t, []string{"bob@x.com"}, mock.params.To)
	assert.Equal(t, "ada@x.com", mock.params.From)
	assert.Equal(t, "b", mock.params.Text)
	assert.Equal(t, "<p>b</p>", mock.params.Html)
}

func TestResendSendDailyQuota(t *testing.T) {
	transport := &Resend{emails: &resendMock{err: errors.New("[ERROR]: daily_quota_exceeded")}}

	outcome := transport.Send(context.Background(), Message{Recipient: "bob@x.com"})

	assert.Equal(t, ClassQuotaExceeded, outcome.Class)
	assert.True(t, outcome.Heuristic)
}

func TestResendSendRateLimited(t *testing.T) {
	limited := &resend.RateLimitError{Message: "Too many requests", Limit: "2", Remaining: "0", RetryAfter: "1"}
	transport := &Resend{emails: &resendMock{err: limited}}

	outcome := transport.Send(context.Background(), Message{Recipient: "bob@x.com"})

	assert.False(t, outcome.Sent)
	assert.Equal(t, ClassRateLimited, outcome.Class)
	assert.False(t, outcome.Heuristic)
	assert.True(t, outcome.StopsBatch())
}

func TestSMTPSendRespectsCancelledContext(t *testing.T) {
	transport := NewSMTP(SMTPConfig{Server: "127.0.0.1", Port: 1, Username: "u", Password: "p"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := transport.Send(ctx, Message{Recipient: "bob@x.com"})

	assert.False(t, outcome.Sent)
	assert.Equal(t, ClassOther, outcome.Class)
	assert.Equal(t, "smtp", transport.Name())
}
