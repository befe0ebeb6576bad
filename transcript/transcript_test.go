//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sommda/gamemaster-client/session"
)

func TestRenderMarkdown(t *testing.T) {
	r := New()

	html, err := r.RenderMarkdown("You rolled a **17**.")
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>17</strong>")
}

func TestRenderExchangeEscapesUserText(t *testing.T) {
	r := New()

	html, err := r.RenderExchange(session.Exchange{
		UserText:      `I cast <script>alert("fireball")</script>`,
		AssistantText: "The spell fizzles.",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "The spell fizzles.")
}

func TestRenderSession(t *testing.T) {
	r := New()

	html, err := r.RenderSession([]session.Exchange{
		{UserText: "Hello", AssistantText: "Well met, *traveler*."},
		{UserText: "I attack!", AssistantText: "Roll a d20."},
	})
	require.NoError(t, err)
	assert.Contains(t, html, `<div class="transcript">`)
	assert.Contains(t, html, "<em>traveler</em>")
	assert.Contains(t, html, "Roll a d20.")
}

func TestRenderSessionEmpty(t *testing.T) {
	r := New()

	html, err := r.RenderSession(nil)
	require.NoError(t, err)
	assert.Equal(t, `<div class="transcript"></div>`, html)
}
