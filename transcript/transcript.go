//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package transcript renders session history as HTML. Assistant text is
// treated as Markdown, the form gamemaster replies typically arrive in.
package transcript

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/sommda/gamemaster-client/session"
)

// Renderer converts exchanges to HTML fragments.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a renderer. GFM tables and strikethrough are enabled; raw HTML
// in the source is escaped, not passed through.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(ghtml.WithHardWraps()),
		),
	}
}

// RenderMarkdown converts one Markdown document to HTML.
func (r *Renderer) RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// RenderExchange renders one exchange as a transcript fragment: the user's
// text escaped verbatim, the assistant's reply rendered as Markdown.
func (r *Renderer) RenderExchange(exchange session.Exchange) (string, error) {
	assistantHTML, err := r.RenderMarkdown(exchange.AssistantText)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(`<div class="exchange">`)
	b.WriteString(`<div class="user">`)
	b.WriteString(html.EscapeString(exchange.UserText))
	b.WriteString(`</div>`)
	b.WriteString(`<div class="assistant">`)
	b.WriteString(assistantHTML)
	b.WriteString(`</div>`)
	b.WriteString(`</div>`)
	return b.String(), nil
}

// RenderSession renders a whole session's exchanges in order.
func (r *Renderer) RenderSession(exchanges []session.Exchange) (string, error) {
	var b strings.Builder
	b.WriteString(`<div class="transcript">`)
	for _, exchange := range exchanges {
		fragment, err := r.RenderExchange(exchange)
		if err != nil {
			return "", err
		}
		b.WriteString(fragment)
	}
	b.WriteString(`</div>`)
	return b.String(), nil
}
