package modloader

import (
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/modloader/pkg/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// formatBold returns s in bold when stdout takes colours.
func formatBold(s string) string {
	if ui.DetectFormat(os.Stdout) != ui.FormatColor {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// initTemplateFormatting registers the functions msgs/usage-template.txt
// uses.
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":  formatBold,
		"upper": strings.ToUpper,
		"boldUpper": func(s string) string {
			return formatBold(strings.ToUpper(s))
		},
	})
}
