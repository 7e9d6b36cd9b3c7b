package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftFor(t *testing.T) {
	d := Draft{FromName: "Ada", From: "ada@x.com", Subject: "Hello", Body: "Hi", HTML: "<p>Hi</p>"}

	m := d.For("bob@x.com")
	assert.Equal(t, Message{FromName: "Ada", From: "ada@x.com", Subject: "Hello", Body: "Hi", HTML: "<p>Hi</p>", Recipient: "bob@x.com"}, m)
}

func TestFromHeader(t *testing.T) {
	assert.Equal(t, "", Message{}.FromHeader())
	assert.Equal(t, "ada@x.com", Message{From: "ada@x.com"}.FromHeader())
	assert.Equal(t, `"Ada Lovelace" <ada@x.com>`, Message{From: "ada@x.com", FromName: "Ada Lovelace"}.FromHeader())
}

func TestBuildRawPlainText(t *testing.T) {
	raw, err := BuildRaw(Message{Subject: "Hello", Body: "Hi there", Recipient: "bob@x.com"})
	require.NoError(t, err)

	text := string(raw)
	assert.Contains(t, text, "To: bob@x.com\r\n")
	assert.Contains(t, text, "Subject: Hello\r\n")
	assert.Contains(t, text, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, text, "Hi there")
	assert.NotContains(t, text, "From:")
	assert.NotContains(t, text, "multipart/alternative")
}

func TestBuildRawWithHTMLAlternative(t *testing.T) {
	raw, err := BuildRaw(Message{From: "ada@x.com", Subject: "Hello", Body: "Hi", HTML: "<p>Hi</p>", Recipient: "bob@x.com"})
	require.NoError(t, err)

	text := string(raw)
	assert.Contains(t, text, "From: ada@x.com\r\n")
	assert.Contains(t, text, "multipart/alternative")
	assert.Contains(t, text, "Content-Type: text/html; charset=UTF-8")
	assert.True(t, strings.Index(text, "text/plain") < strings.Index(text, "text/html"))
}

func TestMessageID(t *testing.T) {
	assert.True(t, strings.HasSuffix(messageID("ada@example.org"), "@example.org>"))
	assert.True(t, strings.HasSuffix(messageID(""), "@mail-blast.local>"))
	assert.NotEqual(t, messageID("a@x.com"), messageID("a@x.com"))
}
