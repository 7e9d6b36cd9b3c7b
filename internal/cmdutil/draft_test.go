package cmdutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryan-gang/mail-blast/internal/compose"
	"github.com/ryan-gang/mail-blast/internal/config"
)

func writeTemplate(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "body.md")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestBuildDraftFromConfig(t *testing.T) {
	c := config.NewConfig()
	c.Sender = "ada@x.com"
	c.SenderName = "Ada"
	c.Subject = "Launch"
	c.TemplatePath = writeTemplate(t, "Hello *world*")
	c.BodyFormat = "markdown"

	draft, err := BuildDraft(config.NewConfigProvider(c), DraftOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Launch", draft.Subject)
	assert.Equal(t, "ada@x.com", draft.From)
	assert.Equal(t, "Ada", draft.FromName)
	assert.Equal(t, "Hello *world*", draft.Body)
	assert.Contains(t, draft.HTML, "<em>world</em>")
}

func TestBuildDraftOverrides(t *testing.T) {
	c := config.NewConfig()
	c.Subject = "From config"
	c.TemplatePath = filepath.Join(t.TempDir(), "missing.txt")

	draft, err := BuildDraft(config.NewConfigProvider(c), DraftOptions{
		Subject:      "From flag",
		TemplatePath: writeTemplate(t, "plain body"),
		Format:       "text",
	})
	require.NoError(t, err)

	assert.Equal(t, "From flag", draft.Subject)
	assert.Equal(t, "plain body", draft.Body)
	assert.Empty(t, draft.HTML)
}

func TestBuildDraftErrors(t *testing.T) {
	c := config.NewConfig()
	p := config.NewConfigProvider(c)

	_, err := BuildDraft(p, DraftOptions{TemplatePath: "x"})
	assert.ErrorContains(t, err, "subject is required")

	_, err = BuildDraft(p, DraftOptions{Subject: "s"})
	assert.ErrorContains(t, err, "template is required")

	_, err = BuildDraft(p, DraftOptions{Subject: "s", TemplatePath: filepath.Join(t.TempDir(), "nope")})
	assert.ErrorIs(t, err, compose.ErrNotFound)

	_, err = BuildDraft(p, DraftOptions{Subject: "s", TemplatePath: writeTemplate(t, "x"), Format: "rtf"})
	assert.Error(t, err)
}
