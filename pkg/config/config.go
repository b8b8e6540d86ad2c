package config

import (
	"path/filepath"
)

// FileName is the config file looked up in the app directory.
const FileName = "modloader.toml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MODLOADER_"

// Config is the decoded configuration.
type Config struct {
	GameRoot  string   `koanf:"game_root" toml:"game_root"`
	ModsDir   string   `koanf:"mods_dir" toml:"mods_dir"`
	BackupDir string   `koanf:"backup_dir" toml:"backup_dir"`
	Workshop  Workshop `koanf:"workshop" toml:"workshop"`
	Rules     Rules    `koanf:"rules" toml:"rules"`
	Output    Output   `koanf:"output" toml:"output"`

	// AppDir is the directory the configuration was resolved against. It is
	// not read from any layer.
	AppDir string `koanf:"-" toml:"-"`
	// Source is the config file that was loaded, if any.
	Source string `koanf:"-" toml:"-"`
}

// Workshop configures Steam Workshop discovery.
type Workshop struct {
	AppID       string   `koanf:"app_id" toml:"app_id"`
	ToolFolder  string   `koanf:"tool_folder" toml:"tool_folder"`
	ContentRoot string   `koanf:"content_root" toml:"content_root"`
	ContentDirs []string `koanf:"content_dirs" toml:"content_dirs"`
	Disabled    bool     `koanf:"disabled" toml:"disabled"`
}

// Rules configures rule file lookup.
type Rules struct {
	Files []string `koanf:"files" toml:"files"`
}

// Output configures the run log.
type Output struct {
	Format  string `koanf:"format" toml:"format"`
	LogFile string `koanf:"log_file" toml:"log_file"`
}

// resolvePaths fills derived paths and anchors relative ones at AppDir.
func (c *Config) resolvePaths() {
	if c.GameRoot == "" {
		c.GameRoot = filepath.Dir(c.AppDir)
	}
	if c.ModsDir == "" {
		c.ModsDir = filepath.Join(c.AppDir, "mods")
	}
	if c.BackupDir == "" {
		c.BackupDir = filepath.Join(c.AppDir, "assets", "backups", "original_game_files")
	}
	c.GameRoot = c.abs(c.GameRoot)
	c.ModsDir = c.abs(c.ModsDir)
	c.BackupDir = c.abs(c.BackupDir)
	if c.Workshop.ContentRoot != "" {
		c.Workshop.ContentRoot = c.abs(c.Workshop.ContentRoot)
	}
	if c.Output.LogFile != "" {
		c.Output.LogFile = c.abs(c.Output.LogFile)
	}
}

func (c *Config) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.AppDir, p)
}
