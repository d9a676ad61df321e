// ABOUTME: Glamour-backed renderer for the help overlay
// ABOUTME: Caches renderings keyed by source text and wrap width

package btea

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

type renderKey struct {
	md    string
	width int
}

// MarkdownRenderer wraps glamour with a rendering cache.
type MarkdownRenderer struct {
	cache map[renderKey]string
}

// NewMarkdownRenderer creates a renderer with an empty cache.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{cache: make(map[renderKey]string)}
}

// Render returns md styled for the terminal, falling back to the raw text
// when glamour cannot render it.
func (r *MarkdownRenderer) Render(md string, width int) string {
	key := renderKey{md, width}
	if cached, ok := r.cache[key]; ok {
		return cached
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	rendered = strings.TrimRight(rendered, "\n ")
	r.cache[key] = rendered
	return rendered
}
