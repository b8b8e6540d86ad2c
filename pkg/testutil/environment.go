package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modloader/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// WorkshopAppID is the workshop app id used by test environments.
const WorkshopAppID = "2230980"

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// Environment lays out a Steam-like tree:
//
//	<root>/steamapps/common/Game                     game root
//	<root>/steamapps/common/Game/modloader           app dir
//	<root>/steamapps/common/Game/modloader/mods      local mods
//	<root>/steamapps/common/Game/modloader/assets/backups/original_game_files
//	<root>/steamapps/workshop/content/2230980        workshop content
type Environment struct {
	FS   afero.Fs
	Type EnvType

	Root         string
	GameRoot     string
	AppDir       string
	ModsDir      string
	BackupDir    string
	WorkshopRoot string

	t *testing.T
}

// NewEnvironment creates an in-memory environment.
func NewEnvironment(t *testing.T) *Environment {
	return NewEnvironmentOfType(t, EnvMemoryOnly)
}

// NewEnvironmentOfType creates an environment of the given type.
func NewEnvironmentOfType(t *testing.T, envType EnvType) *Environment {
	t.Helper()

	env := &Environment{t: t, Type: envType}
	switch envType {
	case EnvIsolated:
		env.FS = filesystem.NewOS()
		env.Root = t.TempDir()
	default:
		env.FS = filesystem.NewMemory()
		env.Root = "/virtual"
	}

	env.GameRoot = filepath.Join(env.Root, "steamapps", "common", "Game")
	env.AppDir = filepath.Join(env.GameRoot, "modloader")
	env.ModsDir = filepath.Join(env.AppDir, "mods")
	env.BackupDir = filepath.Join(env.AppDir, "assets", "backups", "original_game_files")
	env.WorkshopRoot = filepath.Join(env.Root, "steamapps", "workshop", "content", WorkshopAppID)

	for _, dir := range []string{env.GameRoot, env.ModsDir} {
		require.NoError(t, env.FS.MkdirAll(dir, 0755))
	}
	return env
}

// WriteFile writes content at an absolute path, creating parents.
func (env *Environment) WriteFile(path, content string) string {
	env.t.Helper()
	require.NoError(env.t, env.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(env.t, afero.WriteFile(env.FS, path, []byte(content), 0644))
	return path
}

// WriteGameFile writes a file relative to the game root.
func (env *Environment) WriteGameFile(rel, content string) string {
	env.t.Helper()
	return env.WriteFile(filepath.Join(env.GameRoot, filepath.FromSlash(rel)), content)
}

// WriteBackup writes a backup file for (label, rel).
func (env *Environment) WriteBackup(label, rel, content string) string {
	env.t.Helper()
	return env.WriteFile(filepath.Join(env.BackupDir, filepath.FromSlash(label), filepath.FromSlash(rel)), content)
}

// WorkshopItem creates a workshop item folder with a Program/ subfolder and
// returns its path.
func (env *Environment) WorkshopItem(id string) string {
	env.t.Helper()
	item := filepath.Join(env.WorkshopRoot, id)
	require.NoError(env.t, env.FS.MkdirAll(filepath.Join(item, "Program"), 0755))
	return item
}

// ReadFile returns the content at path, failing the test if it is missing.
func (env *Environment) ReadFile(path string) string {
	env.t.Helper()
	data, err := afero.ReadFile(env.FS, path)
	require.NoError(env.t, err)
	return string(data)
}

// GameFile reads a file relative to the game root.
func (env *Environment) GameFile(rel string) string {
	env.t.Helper()
	return env.ReadFile(filepath.Join(env.GameRoot, filepath.FromSlash(rel)))
}

// BackupPath returns where the backup of (label, rel) lives.
func (env *Environment) BackupPath(label, rel string) string {
	return filepath.Join(env.BackupDir, filepath.FromSlash(label), filepath.FromSlash(rel))
}

// Exists reports whether path exists and is a regular file.
func (env *Environment) Exists(path string) bool {
	return filesystem.Exists(env.FS, path)
}

// DirExists reports whether path exists and is a directory.
func (env *Environment) DirExists(path string) bool {
	return filesystem.DirExists(env.FS, path)
}
