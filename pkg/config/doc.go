// Package config loads the modloader configuration.
//
// Values are layered, later layers winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. modloader.toml in the app directory, or the file named by --config
//  3. MODLOADER_* environment variables; a double underscore separates
//     nested keys (MODLOADER_WORKSHOP__APP_ID sets workshop.app_id)
//  4. explicit overrides, typically command line flags
//
// After decoding, empty paths are derived from the app directory and
// relative paths are made absolute against it.
package config
