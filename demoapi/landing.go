// ABOUTME: Renders the demo server's landing page from embedded markdown with goldmark.
package demoapi

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var landingTemplate = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>calldeck demo API</title>
</head>
<body>
{{ .Body }}
<p><small>{{ .Calls }} calls stored</small></p>
</body>
</html>
`))

// markdownToHTML converts markdown to HTML. Raw HTML in the input is dropped.
func markdownToHTML(input []byte) (template.HTML, error) {
	var buf bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := md.Convert(input, &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// renderLanding renders the full landing page.
func renderLanding(calls int) ([]byte, error) {
	src, err := assets.ReadFile("assets/landing.md")
	if err != nil {
		return nil, fmt.Errorf("reading landing page: %w", err)
	}
	body, err := markdownToHTML(src)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := landingTemplate.Execute(&buf, struct {
		Body  template.HTML
		Calls int
	}{body, calls}); err != nil {
		return nil, fmt.Errorf("executing landing template: %w", err)
	}
	return buf.Bytes(), nil
}
