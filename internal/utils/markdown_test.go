package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownBasic(t *testing.T) {
	html := RenderMarkdown("**bold** and [a link](https://example.com)")

	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, `href="https://example.com"`)
	assert.Contains(t, html, `target="_blank"`)
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	html := RenderMarkdown(`hello <script>alert("xss")</script> world`)

	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "alert")
	assert.Contains(t, html, "hello")
}

func TestRenderMarkdownStripsEventHandlers(t *testing.T) {
	html := RenderMarkdown(`<a href="https://example.com" onclick="steal()">x</a>`)

	assert.NotContains(t, html, "onclick")
}
