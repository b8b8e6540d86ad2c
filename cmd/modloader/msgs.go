package modloader

import (
	_ "embed"
	"strings"
)

// Short messages
const (
	MsgRootShort      = "Apply mod patches to game files"
	MsgRunShort       = "Patch game files with the rules of all enabled mods"
	MsgResetShort     = "Restore every original file from backups and remove the backups"
	MsgPurgeShort     = "Delete all backups without touching game files"
	MsgListShort      = "List mods in load order"
	MsgNewShort       = "Create a new mod skeleton"
	MsgEnableShort    = "Enable a mod"
	MsgDisableShort   = "Disable a mod"
	MsgNormalizeShort = "Renumber local mod priorities from 100 in load order"
	MsgStatusShort    = "Show installation and backup status"
	MsgConfigShort    = "Show or create the configuration file"
	MsgVersionShort   = "Print version information"

	MsgNoMods         = "No mods found."
	MsgModCreated     = "Created mod '%s' in %s\n"
	MsgModEnabled     = "Enabled %s\n"
	MsgModDisabled    = "Disabled %s\n"
	MsgModUnchanged   = "%s is already %s\n"
	MsgNormalized     = "Renumbered %d mod(s)\n"
	MsgConfigWritten  = "Wrote %s\n"
	MsgFallbackNotice = "Warning: no app directory found, using current directory %s\n"

	MsgErrRunErrors   = "run finished with %d error(s)"
	MsgErrConfigExist = "config file already exists: %s"

	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig       = "Config file (default <app dir>/modloader.toml)"
	MsgFlagAppDir       = "App directory holding the config and the mods folder"
	MsgFlagGameRoot     = "Game install directory"
	MsgFlagModsDir      = "Local mods directory"
	MsgFlagBackupDir    = "Backup directory"
	MsgFlagWorkshopRoot = "Steam Workshop content directory"
	MsgFlagNoWorkshop   = "Ignore Steam Workshop content"
	MsgFlagNoColor      = "Disable coloured output"
	MsgFlagFormat       = "Output format: auto, color or plain"
	MsgFlagDryRun       = "Compute every change but write nothing"
	MsgFlagDiff         = "Print a unified diff of every file that changes"
	MsgFlagAll          = "Include disabled mods"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")

	//go:embed msgs/new-example.txt
	msgNewExampleRaw string
	MsgNewExample    = strings.TrimRight(msgNewExampleRaw, "\n")

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
