package convert

import (
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// Markdown converts HTML bodies to markdown text.
type Markdown struct {
	converter *md.Converter
}

// NewMarkdown builds a converter with default rules.
func NewMarkdown() *Markdown {
	return &Markdown{converter: md.NewConverter("", true, nil)}
}

// Name identifies the format inside the registry.
func (m *Markdown) Name() string { return "markdown" }

// Convert renders the HTML body as markdown.
func (m *Markdown) Convert(body string) (string, error) {
	out, err := m.converter.ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return out, nil
}
