package engine

import (
	"fmt"

	"github.com/arthur-debert/modloader/pkg/report"
)

// summarize prints the end-of-run report. It uses the error and warning
// counts already stored in res so its own lines are not counted.
func (c *Context) summarize(res *Result) {
	width := 0
	for _, s := range res.Files {
		if n := len(s.Key()); n > width {
			width = n
		}
	}

	c.Log.Printf("\n%s", report.TokenSummary)
	for _, s := range res.Files {
		if n := s.LineCount(); n > 0 {
			c.Log.Printf(" | %-*s\t replaced %d line(s)", width, s.Key(), n)
		}
	}
	for _, s := range res.Files {
		if s.Functions > 0 {
			c.Log.Printf(" | %-*s\t replaced %d function(s)", width, s.Key(), s.Functions)
		}
	}
	for _, s := range res.Files {
		if s.Files > 0 {
			c.Log.Printf(" | %-*s\t replaced %d file(s)", width, s.Key(), s.Files)
		}
	}

	verdict := "No errors detected."
	if res.Errors > 0 {
		verdict = plural(res.Errors, "There is 1 error!", "There are %d errors!")
	}
	c.Log.Printf("\nMODLOADER FINISHED! Loaded total %d mods, changed %d lines, %d functions, and %d files. %s",
		len(res.Mods), res.LinesChanged, res.FunctionsSwapped, res.FilesSwapped, verdict)
	if res.Errors > 0 {
		c.Log.Printf(" | Warning! Game may CRASH! You should check logs for details and fix all %d errors", res.Errors)
	}
	if res.Warnings > 0 {
		c.Log.Printf(" | Warning! There are %d files that require your attention! Check %s logs for details", res.Warnings, report.TokenWarn)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return fmt.Sprintf(many, n)
}
