package mail

import (
	"bytes"
	"fmt"
	netmail "net/mail"

	"github.com/ryan-gang/mail-blast/internal/recipients"

	gomail "gopkg.in/mail.v2"
)

// Draft is the part of a message shared by every recipient of a batch.
type Draft struct {
	FromName string
	From     string
	Subject  string
	Body     string
	HTML     string
}

// For addresses the draft to one recipient.
func (d Draft) For(r recipients.Recipient) Message {
	return Message{
		FromName:  d.FromName,
		From:      d.From,
		Subject:   d.Subject,
		Body:      d.Body,
		HTML:      d.HTML,
		Recipient: r,
	}
}

// Message is built per send and never stored.
type Message struct {
	FromName  string
	From      string
	Subject   string
	Body      string
	HTML      string
	Recipient recipients.Recipient
}

// FromHeader formats the sender as it appears in the From header.
func (m Message) FromHeader() string {
	if m.From == "" {
		return ""
	}
	if m.FromName == "" {
		return m.From
	}
	return (&netmail.Address{Name: m.FromName, Address: m.From}).String()
}

func (m Message) compose() *gomail.Message {
	msg := gomail.NewMessage()
	if m.From != "" {
		msg.SetAddressHeader("From", m.From, m.FromName)
	}
	msg.SetHeader("To", m.Recipient.String())
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Body)
	if m.HTML != "" {
		msg.AddAlternative("text/html", m.HTML)
	}
	return msg
}

// BuildRaw renders the message as an RFC 5322 document.
func BuildRaw(m Message) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := m.compose().WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encoding message for %s: %w", m.Recipient, err)
	}
	return buf.Bytes(), nil
}
