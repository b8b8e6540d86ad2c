package styles

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func colorRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	r.SetHasDarkBackground(true)
	return r
}

func TestEmbeddedStylesLoad(t *testing.T) {
	theme, err := Load(embeddedStyles, colorRenderer())
	require.NoError(t, err)
	for _, name := range []string{"Error", "Warn", "Info", "Action", "Skip", "Code", "Heading", "Muted"} {
		_, ok := theme.styles[name]
		assert.True(t, ok, "style %s missing", name)
	}
	assert.NotEmpty(t, theme.tokens)
}

func TestColorizeKeepsText(t *testing.T) {
	theme, err := Load(embeddedStyles, colorRenderer())
	require.NoError(t, err)

	line := "\t > [REPLACE LINE]      Init\t\t`x = 2;`"
	out := theme.Colorize(line)

	assert.NotEqual(t, line, out)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "[REPLACE LINE]")
	assert.Contains(t, out, "`x = 2;`")
}

func TestColorizePlainRendererIsIdentity(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	theme, err := Load(embeddedStyles, r)
	require.NoError(t, err)

	line := "[ERROR] Could not create backup! `a.c`"
	assert.Equal(t, line, theme.Colorize(line))
}

func TestLoadRejectsUnknownStyle(t *testing.T) {
	_, err := Load([]byte("styles: {}\ntokens:\n  \"[X]\": Nope\n"), colorRenderer())
	assert.Error(t, err)

	_, err = Load([]byte("colors: [nope"), colorRenderer())
	assert.Error(t, err)
}

func TestTokensLongestFirst(t *testing.T) {
	theme, err := Load(embeddedStyles, colorRenderer())
	require.NoError(t, err)
	for i := 1; i < len(theme.tokens); i++ {
		assert.GreaterOrEqual(t, len(theme.tokens[i-1].token), len(theme.tokens[i].token))
	}
	assert.False(t, strings.Contains(theme.Render("Missing", "x"), "\x1b["))
}
