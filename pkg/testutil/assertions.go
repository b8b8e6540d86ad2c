package testutil

import (
	"strings"
	"testing"

	"github.com/arthur-debert/modloader/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

// AssertFileContent checks that path exists with exactly content.
func AssertFileContent(t *testing.T, fs afero.Fs, path, content string) bool {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if !assert.NoError(t, err, "reading %s", path) {
		return false
	}
	return assert.Equal(t, content, string(data), "content of %s", path)
}

// AssertNoFile checks that path does not exist.
func AssertNoFile(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	return assert.False(t, filesystem.Exists(fs, path), "%s should not exist", path)
}

// AssertLogContains checks that every fragment appears in at least one line
// of the run log.
func AssertLogContains(t *testing.T, lines []string, fragments ...string) bool {
	t.Helper()
	ok := true
	for _, f := range fragments {
		if CountLines(lines, f) == 0 {
			ok = assert.Fail(t, "no log line contains fragment",
				"fragment: %q\nlog:\n%s", f, strings.Join(lines, "\n"))
		}
	}
	return ok
}

// CountLines counts log lines containing fragment.
func CountLines(lines []string, fragment string) int {
	n := 0
	for _, line := range lines {
		if strings.Contains(line, fragment) {
			n++
		}
	}
	return n
}
