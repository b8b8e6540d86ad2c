package topics

import (
	"github.com/charmbracelet/glamour"
)

// Renderer formats topic content for the terminal. format is the file
// extension of the topic.
type Renderer interface {
	Render(content, format string) string
}

// PlainRenderer returns content unchanged.
type PlainRenderer struct{}

// Render implements Renderer
func (PlainRenderer) Render(content, _ string) string {
	return content
}

// GlamourRenderer renders markdown topics with glamour. Other formats pass
// through.
type GlamourRenderer struct {
	// Style is a glamour style name or path; "" or "auto" detects it.
	Style string
	// Width wraps output; 0 keeps glamour's default.
	Width int
}

// NewGlamourRenderer returns a renderer with an auto-detected style.
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto"}
}

// Render implements Renderer
func (r *GlamourRenderer) Render(content, format string) string {
	if format != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
