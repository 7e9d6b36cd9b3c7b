package cmdutil

import (
	"errors"

	"github.com/ryan-gang/mail-blast/internal/compose"
	"github.com/ryan-gang/mail-blast/internal/config"
	"github.com/ryan-gang/mail-blast/internal/mail"
)

// DraftOptions override the campaign fields of the configuration.
type DraftOptions struct {
	Subject      string
	TemplatePath string
	Format       string
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// BuildDraft reads the template once and renders it in the selected format.
func BuildDraft(cfg config.ConfigProvider, opts DraftOptions) (mail.Draft, error) {
	subject := firstNonEmpty(opts.Subject, cfg.GetSubject())
	if subject == "" {
		return mail.Draft{}, errors.New("subject is required, pass --subject or set it in the configuration")
	}
	templatePath := firstNonEmpty(opts.TemplatePath, cfg.GetTemplatePath())
	if templatePath == "" {
		return mail.Draft{}, errors.New("template is required, pass --template or set it in the configuration")
	}

	format, err := compose.ParseFormat(firstNonEmpty(opts.Format, cfg.GetBodyFormat()))
	if err != nil {
		return mail.Draft{}, err
	}
	body, err := compose.LoadTemplate(templatePath)
	if err != nil {
		return mail.Draft{}, err
	}
	content, err := compose.Render(body, format)
	if err != nil {
		return mail.Draft{}, err
	}

	return mail.Draft{
		FromName: cfg.GetSenderName(),
		From:     cfg.GetSender(),
		Subject:  subject,
		Body:     content.Text,
		HTML:     content.HTML,
	}, nil
}
