package modloader

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modloader/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gameSource = "void Init() {\n    x = 1;\n}\n"

type testGame struct {
	t        *testing.T
	root     string
	gameRoot string
	appDir   string
}

func newTestGame(t *testing.T) *testGame {
	t.Helper()
	root := t.TempDir()
	g := &testGame{
		t:        t,
		root:     root,
		gameRoot: filepath.Join(root, "steamapps", "common", "Game"),
	}
	g.appDir = filepath.Join(g.gameRoot, "modloader")
	require.NoError(t, os.MkdirAll(filepath.Join(g.appDir, "mods"), 0755))
	t.Setenv(paths.EnvStateDir, filepath.Join(root, "state"))
	t.Setenv("NO_COLOR", "1")
	return g
}

func (g *testGame) write(path, content string) {
	g.t.Helper()
	require.NoError(g.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(g.t, os.WriteFile(path, []byte(content), 0644))
}

func (g *testGame) read(path string) string {
	g.t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(g.t, err)
	return string(data)
}

func (g *testGame) addMod(dir string, manifest map[string]any, rules string) string {
	g.t.Helper()
	base := filepath.Join(g.appDir, "mods", dir)
	data, err := json.Marshal(manifest)
	require.NoError(g.t, err)
	g.write(filepath.Join(base, "manifest.json"), string(data))
	if rules != "" {
		g.write(filepath.Join(base, "replacements.toml"), rules)
	}
	return base
}

func (g *testGame) execute(args ...string) (string, error) {
	g.t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--app-dir", g.appDir, "--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

const initRules = `
[LINE_REPLACEMENTS."src/a.c"]
Init = [["x = 1;", "x = 2;"]]
`

func TestRunCommand(t *testing.T) {
	g := newTestGame(t)
	live := filepath.Join(g.gameRoot, "src", "a.c")
	g.write(live, gameSource)
	g.addMod("M", map[string]any{"name": "M", "priority": 100}, initRules)

	out, err := g.execute("run")
	require.NoError(t, err)

	assert.Equal(t, "void Init() {\n    x = 2;\n}\n", g.read(live))
	assert.Contains(t, out, "STARTING MODLOADER PROCESS...")
	assert.Contains(t, out, "[BACKUP CREATED]")
	assert.Contains(t, out, "changed 1 lines, 0 functions, and 0 files. No errors detected.")
	assert.FileExists(t, filepath.Join(g.appDir, "assets", "backups", "original_game_files", "basegame", "src", "a.c"))
}

func TestRunDryRunWithDiff(t *testing.T) {
	g := newTestGame(t)
	live := filepath.Join(g.gameRoot, "src", "a.c")
	g.write(live, gameSource)
	g.addMod("M", map[string]any{"name": "M"}, initRules)

	out, err := g.execute("run", "--dry-run", "--diff")
	require.NoError(t, err)

	assert.Equal(t, gameSource, g.read(live))
	assert.Contains(t, out, "[DRY RUN]")
	assert.Contains(t, out, "+    x = 2;")
	assert.NoDirExists(t, filepath.Join(g.appDir, "assets"))
}

func TestRunReportsErrors(t *testing.T) {
	g := newTestGame(t)
	g.addMod("Broken", map[string]any{"name": "Broken"}, "[[[nope")

	out, err := g.execute("run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 error(s)")
	assert.Contains(t, out, "[ERROR] Failed to load rules for mod 'Broken'")
}

func TestResetCommand(t *testing.T) {
	g := newTestGame(t)
	live := filepath.Join(g.gameRoot, "src", "a.c")
	g.write(live, gameSource)
	g.addMod("M", map[string]any{"name": "M"}, initRules)

	_, err := g.execute("run")
	require.NoError(t, err)

	out, err := g.execute("reset")
	require.NoError(t, err)
	assert.Equal(t, gameSource, g.read(live))
	assert.Contains(t, out, "[REPORT] FACTORY RESET FINISHED!")
}

func TestPurgeCommand(t *testing.T) {
	g := newTestGame(t)
	live := filepath.Join(g.gameRoot, "src", "a.c")
	g.write(live, gameSource)
	g.addMod("M", map[string]any{"name": "M"}, initRules)

	_, err := g.execute("run")
	require.NoError(t, err)

	out, err := g.execute("purge")
	require.NoError(t, err)
	assert.Equal(t, "void Init() {\n    x = 2;\n}\n", g.read(live))
	assert.NoDirExists(t, filepath.Join(g.appDir, "assets", "backups", "original_game_files"))
	assert.Contains(t, out, "[REPORT] BACKUP PURGE FINISHED!")
}

func TestModManagementCommands(t *testing.T) {
	g := newTestGame(t)

	out, err := g.execute("list")
	require.NoError(t, err)
	assert.Contains(t, out, MsgNoMods)

	out, err = g.execute("new", "Better Fishing", "--author", "me")
	require.NoError(t, err)
	assert.Contains(t, out, "Created mod 'Better Fishing'")
	base := filepath.Join(g.appDir, "mods", "Better_Fishing")
	assert.FileExists(t, filepath.Join(base, "manifest.json"))
	assert.FileExists(t, filepath.Join(base, "replacements.toml"))

	out, err = g.execute("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Better Fishing")
	assert.Contains(t, out, "100")

	out, err = g.execute("disable", "better_fishing")
	require.NoError(t, err)
	assert.Contains(t, out, "Disabled Better Fishing")

	var manifest map[string]any
	require.NoError(t, json.Unmarshal([]byte(g.read(filepath.Join(base, "manifest.json"))), &manifest))
	assert.Equal(t, false, manifest["enabled"])
	assert.Equal(t, "me", manifest["author"])

	out, err = g.execute("list")
	require.NoError(t, err)
	assert.Contains(t, out, MsgNoMods)

	out, err = g.execute("list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "false")

	out, err = g.execute("disable", "Better Fishing")
	require.NoError(t, err)
	assert.Contains(t, out, "already disabled")

	out, err = g.execute("enable", "Better Fishing")
	require.NoError(t, err)
	assert.Contains(t, out, "Enabled Better Fishing")

	_, err = g.execute("enable", "nope")
	assert.Error(t, err)
}

func TestNormalizeCommand(t *testing.T) {
	g := newTestGame(t)
	g.addMod("A", map[string]any{"name": "A", "priority": 7}, "")
	g.addMod("B", map[string]any{"name": "B", "priority": 3}, "")

	out, err := g.execute("normalize")
	require.NoError(t, err)
	assert.Contains(t, out, "Renumbered 2 mod(s)")

	var manifest map[string]any
	require.NoError(t, json.Unmarshal([]byte(g.read(filepath.Join(g.appDir, "mods", "B", "manifest.json"))), &manifest))
	assert.Equal(t, float64(100), manifest["priority"])
	require.NoError(t, json.Unmarshal([]byte(g.read(filepath.Join(g.appDir, "mods", "A", "manifest.json"))), &manifest))
	assert.Equal(t, float64(101), manifest["priority"])
}

func TestStatusCommand(t *testing.T) {
	g := newTestGame(t)
	g.write(filepath.Join(g.gameRoot, "src", "a.c"), gameSource)
	g.addMod("M", map[string]any{"name": "M"}, initRules)

	out, err := g.execute("status")
	require.NoError(t, err)
	assert.Contains(t, out, "Mods:          1 enabled, 0 disabled")
	assert.Contains(t, out, "Backups:       none")

	_, err = g.execute("run")
	require.NoError(t, err)

	out, err = g.execute("status")
	require.NoError(t, err)
	assert.Contains(t, out, "Backups:       1 file(s)")
	assert.Contains(t, out, "Backed up:     basegame")
	assert.Contains(t, out, "Live files:    1 patched, 0 unchanged, 0 missing")
}

func TestConfigCommands(t *testing.T) {
	g := newTestGame(t)

	out, err := g.execute("config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(g.appDir, "modloader.toml"))

	_, err = g.execute("config", "init")
	assert.Error(t, err)

	out, err = g.execute("config", "show", "--game-root", "/games/other")
	require.NoError(t, err)
	assert.Contains(t, out, "# loaded from")
	assert.Contains(t, out, "2230980")
	assert.Contains(t, out, filepath.Clean("/games/other"))
}

func TestVersionAndHelpTopics(t *testing.T) {
	g := newTestGame(t)

	out, err := g.execute("version")
	require.NoError(t, err)
	assert.Contains(t, out, "modloader version")

	out, err = g.execute("help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "rules")
	assert.Contains(t, out, "--dry-run")

	out, err = g.execute("help", "dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "creates no backups")
}
