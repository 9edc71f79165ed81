package usecase

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
)

// RenderMarkdown converts provider markdown to HTML. Raw HTML in the source is
// not passed through. On a conversion error the text is returned escaped.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "<p>" + html.EscapeString(src) + "</p>"
	}
	return buf.String()
}
