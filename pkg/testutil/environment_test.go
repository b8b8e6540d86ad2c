package testutil

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentLayout(t *testing.T) {
	env := NewEnvironment(t)

	assert.Equal(t, "/virtual/steamapps/common/Game", env.GameRoot)
	assert.Equal(t, "/virtual/steamapps/workshop/content/2230980", env.WorkshopRoot)
	assert.True(t, env.DirExists(env.ModsDir))
	assert.False(t, env.Exists(env.ModsDir))

	env.WriteGameFile("src/a.c", "int x;\n")
	assert.Equal(t, "int x;\n", env.GameFile("src/a.c"))

	env.WriteBackup("basegame", "src/a.c", "orig")
	AssertFileContent(t, env.FS, env.BackupPath("basegame", "src/a.c"), "orig")
	assert.True(t, env.Exists(env.BackupPath("basegame", "src/a.c")))
	assert.False(t, env.DirExists(env.BackupPath("basegame", "src/a.c")))
	assert.True(t, env.DirExists(env.BackupDir))
}

func TestModBuilder(t *testing.T) {
	env := NewEnvironment(t)
	base := env.Mod("M").Priority(50).Disabled().Rules("[FILE_REPLACEMENTS]\n").Line("fix.c", "x").Build()

	manifest := env.ReadFile(filepath.Join(base, "manifest.json"))
	assert.Contains(t, manifest, `"priority": 50`)
	assert.Contains(t, manifest, `"enabled": false`)
	assert.True(t, env.Exists(filepath.Join(base, "replacements.toml")))
	assert.Equal(t, "x", env.ReadFile(filepath.Join(base, "replacements", "lines", "fix.c")))
}

func TestFailingFS(t *testing.T) {
	fs := NewFailingFS(afero.NewMemMapFs())
	boom := errors.New("boom")
	fs.FailWrites("/a.txt", boom)

	err := afero.WriteFile(fs, "/a.txt", []byte("x"), 0644)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	require.NoError(t, afero.WriteFile(fs, "/b.txt", []byte("x"), 0644))
	assert.Equal(t, 1, fs.WriteCount())
}

func TestLogHelpers(t *testing.T) {
	lines := []string{"[INFO] one", "\t > [REPLACE LINE]      Init"}
	assert.Equal(t, 1, CountLines(lines, "[REPLACE LINE]"))
	AssertLogContains(t, lines, "[REPLACE LINE]", "Init")
}
