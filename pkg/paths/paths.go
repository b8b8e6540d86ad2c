// Package paths locates the modloader app directory and its state files.
//
// The app directory is the folder that holds the config file and the local
// mods folder, normally <game>/<tool folder>. It is resolved in this order:
//
//  1. an explicit directory (the --app-dir flag)
//  2. the MODLOADER_HOME environment variable
//  3. the directory of the running executable, when it looks like an app
//     directory (it has a mods folder or a config file)
//  4. the current working directory, reported as a fallback
//
// Diagnostic logs go to the XDG state directory, which MODLOADER_STATE_DIR
// overrides.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/modloader/pkg/errors"
)

// Environment variable names
const (
	EnvHome     = "MODLOADER_HOME"
	EnvStateDir = "MODLOADER_STATE_DIR"
)

// Fixed names inside the app and state directories.
const (
	AppName       = "modloader"
	ConfigFile    = "modloader.toml"
	ModsDirName   = "mods"
	LogFileName   = "modloader.log"
	BackupsSubdir = "assets/backups/original_game_files"
)

// Paths holds the resolved directories of one invocation.
type Paths struct {
	appDir       string
	stateDir     string
	usedFallback bool
}

// New resolves the app directory. appDir may be empty.
func New(appDir string) (*Paths, error) {
	p := &Paths{}

	root, fallback, err := findAppDir(appDir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", root)
	}
	p.appDir = abs
	p.usedFallback = fallback

	if dir := os.Getenv(EnvStateDir); dir != "" {
		p.stateDir = expandHome(dir)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, AppName)
	}
	return p, nil
}

// AppDir is the directory holding the config file and the mods folder.
func (p *Paths) AppDir() string { return p.appDir }

// UsedFallback reports whether AppDir is just the working directory.
func (p *Paths) UsedFallback() bool { return p.usedFallback }

// ConfigPath is the default config file.
func (p *Paths) ConfigPath() string { return filepath.Join(p.appDir, ConfigFile) }

// ModsDir is the default local mods folder.
func (p *Paths) ModsDir() string { return filepath.Join(p.appDir, ModsDirName) }

// BackupDir is the default backup root.
func (p *Paths) BackupDir() string {
	return filepath.Join(p.appDir, filepath.FromSlash(BackupsSubdir))
}

// GameRoot is the default game install, the parent of the app directory.
func (p *Paths) GameRoot() string { return filepath.Dir(p.appDir) }

// StateDir holds diagnostic logs.
func (p *Paths) StateDir() string { return p.stateDir }

// LogFilePath is the diagnostic log file.
func (p *Paths) LogFilePath() string { return filepath.Join(p.stateDir, LogFileName) }

func findAppDir(explicit string) (string, bool, error) {
	if explicit != "" {
		return expandHome(explicit), false, nil
	}
	if home := os.Getenv(EnvHome); home != "" {
		return expandHome(home), false, nil
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		if looksLikeAppDir(dir) {
			return dir, false, nil
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrNotFound, "failed to get current directory")
	}
	return cwd, true, nil
}

func looksLikeAppDir(dir string) bool {
	if info, err := os.Stat(filepath.Join(dir, ModsDirName)); err == nil && info.IsDir() {
		return true
	}
	_, err := os.Stat(filepath.Join(dir, ConfigFile))
	return err == nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
