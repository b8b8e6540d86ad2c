// Package styles colours run log lines for the terminal.
//
// Colours, styles and the token-to-style table live in styles.yaml, which
// is embedded. Every colour is adaptive so light and dark terminals both
// stay readable.
package styles

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef is an adaptive colour in styles.yaml.
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style in styles.yaml.
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// Config is the whole of styles.yaml.
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
	Tokens map[string]string   `yaml:"tokens"`
}

// Theme is a loaded styles.yaml bound to a lipgloss renderer.
type Theme struct {
	renderer *lipgloss.Renderer
	styles   map[string]lipgloss.Style
	// tokens sorted longest first so a token never matches inside a longer
	// one.
	tokens []tokenStyle
}

type tokenStyle struct {
	token string
	style string
}

//go:embed styles.yaml
var embeddedStyles []byte

var (
	defaultOnce  sync.Once
	defaultTheme *Theme
)

var codeSpan = regexp.MustCompile("`[^`\n]*`")

// Default returns the embedded theme rendering to stdout.
func Default() *Theme {
	defaultOnce.Do(func() {
		theme, err := Load(embeddedStyles, lipgloss.NewRenderer(os.Stdout))
		if err != nil {
			theme = &Theme{renderer: lipgloss.DefaultRenderer(), styles: map[string]lipgloss.Style{}}
		}
		defaultTheme = theme
	})
	return defaultTheme
}

// Load parses styles data for renderer r.
func Load(data []byte, r *lipgloss.Renderer) (*Theme, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse styles data: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	t := &Theme{renderer: r, styles: make(map[string]lipgloss.Style, len(cfg.Styles))}
	for name, def := range cfg.Styles {
		t.styles[name] = buildStyle(r, def, colors)
	}
	for token, style := range cfg.Tokens {
		if _, ok := t.styles[style]; !ok {
			return nil, fmt.Errorf("token %s uses unknown style %s", token, style)
		}
		t.tokens = append(t.tokens, tokenStyle{token: token, style: style})
	}
	sort.Slice(t.tokens, func(i, j int) bool {
		if len(t.tokens[i].token) != len(t.tokens[j].token) {
			return len(t.tokens[i].token) > len(t.tokens[j].token)
		}
		return t.tokens[i].token < t.tokens[j].token
	})
	return t, nil
}

func buildStyle(r *lipgloss.Renderer, def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := r.NewStyle()
	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}
	if c, ok := colors[def.Foreground]; ok {
		style = style.Foreground(c)
	}
	if c, ok := colors[def.Background]; ok {
		style = style.Background(c)
	}
	return style
}

// Style returns the named style, or an empty style.
func (t *Theme) Style(name string) lipgloss.Style {
	if s, ok := t.styles[name]; ok {
		return s
	}
	return t.renderer.NewStyle()
}

// Render renders text with the named style.
func (t *Theme) Render(name, text string) string {
	return t.Style(name).Render(text)
}

// Colorize styles every known token and every backtick code span in line.
func (t *Theme) Colorize(line string) string {
	line = codeSpan.ReplaceAllStringFunc(line, func(span string) string {
		return t.Render("Code", span)
	})
	for _, ts := range t.tokens {
		if strings.Contains(line, ts.token) {
			line = strings.ReplaceAll(line, ts.token, t.Render(ts.style, ts.token))
		}
	}
	return line
}
