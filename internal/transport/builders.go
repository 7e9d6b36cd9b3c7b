package transport

import (
	"context"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/ryan-gang/mail-blast/internal/config"
	"github.com/ryan-gang/mail-blast/internal/credentials"
	"github.com/ryan-gang/mail-blast/internal/mail"
)

// Default returns a registry holding every supported provider.
func Default() *Registry {
	r := NewRegistry()
	r.Register("gmail", Gmail)
	r.Register("smtp", SMTP)
	r.Register("ses", SES)
	r.Register("resend", Resend)
	return r
}

// GmailCredentials builds the OAuth provider backed by the configured token file.
func GmailCredentials(cfg config.ConfigProvider, authorizer credentials.Authorizer) (*credentials.OAuth, error) {
	oauthCfg, err := credentials.ConfigFromFile(cfg.GetCredentialsPath())
	if err != nil {
		return nil, err
	}
	return credentials.NewOAuth(oauthCfg, credentials.NewFileTokenStore(cfg.GetTokenPath()), authorizer), nil
}

func Gmail(ctx context.Context, cfg config.ConfigProvider, authorizer credentials.Authorizer) (mail.Transport, error) {
	provider, err := GmailCredentials(cfg, authorizer)
	if err != nil {
		return nil, err
	}
	gmail, err := mail.NewGmail(ctx, provider)
	if errors.Is(err, credentials.ErrAuthorizationRequired) {
		return nil, fmt.Errorf("%w: run 'mail-blast auth' first", err)
	}
	if err != nil {
		return nil, err
	}
	return gmail, nil
}

func SMTP(_ context.Context, cfg config.ConfigProvider, _ credentials.Authorizer) (mail.Transport, error) {
	if cfg.GetServer() == "" {
		return nil, errors.New("smtp server is not configured")
	}
	return mail.NewSMTP(mail.SMTPConfig{
		Server:   cfg.GetServer(),
		Port:     cfg.GetPort(),
		Username: cfg.GetSender(),
		Password: cfg.GetPassword(),
		Timeout:  cfg.GetSendTimeout(),
	}), nil
}

func SES(ctx context.Context, cfg config.ConfigProvider, _ credentials.Authorizer) (mail.Transport, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region := cfg.GetAwsRegion(); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws configuration: %w", err)
	}
	return mail.NewSES(awsCfg), nil
}

func Resend(_ context.Context, cfg config.ConfigProvider, _ credentials.Authorizer) (mail.Transport, error) {
	if cfg.GetResendAPIKey() == "" {
		return nil, errors.New("resend api key is not configured")
	}
	return mail.NewResend(cfg.GetResendAPIKey()), nil
}
