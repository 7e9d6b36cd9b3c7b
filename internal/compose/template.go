// Package compose loads the default message body and renders it into the
// parts of an outgoing mail.
package compose

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
)

var (
	ErrNotFound = errors.New("template not found")
	ErrFormat   = errors.New("template is not valid utf-8 text")
)

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatMarkdown, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown body format %q (want text, markdown or html)", s)
	}
}

// Content holds the parts of a message body. HTML is empty for plain text bodies.
type Content struct {
	Text string
	HTML string
}

// LoadTemplate reads the default body from path. It is read once per run.
func LoadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrFormat, path)
	}
	return string(data), nil
}

// Render turns body into message parts according to format.
func Render(body string, format Format) (Content, error) {
	switch format {
	case FormatText, "":
		return Content{Text: body}, nil
	case FormatMarkdown:
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(body), &buf); err != nil {
			return Content{}, fmt.Errorf("rendering markdown: %w", err)
		}
		return Content{Text: body, HTML: buf.String()}, nil
	case FormatHTML:
		text, err := PlainText(body)
		if err != nil {
			return Content{}, err
		}
		return Content{Text: text, HTML: body}, nil
	default:
		return Content{}, fmt.Errorf("unknown body format %q", format)
	}
}

// PlainText extracts the readable text of an html document, one block per line.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing html body: %w", err)
	}
	doc.Find("script, style, head").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, h1, h2, h3, h4, h5, h6, li, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	lines := strings.Split(doc.Text(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n"), nil
}
