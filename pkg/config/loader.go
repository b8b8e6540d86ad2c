package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	mlerrors "github.com/arthur-debert/modloader/pkg/errors"
	"github.com/arthur-debert/modloader/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Options select the layers Load reads.
type Options struct {
	// AppDir anchors relative paths and holds the default config file.
	AppDir string
	// File is an explicit config file. It must exist when set.
	File string
	// Environ replaces os.Environ for the env layer, mainly for tests.
	Environ []string
	// Overrides are applied last, keyed by dotted path ("workshop.app_id").
	Overrides map[string]interface{}
}

// DefaultContent returns the embedded defaults, used by "config init".
func DefaultContent() string {
	return string(defaultConfig)
}

// Load builds the configuration from every layer.
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, mlerrors.Wrap(err, mlerrors.ErrConfigParse, "failed to load default configuration")
	}

	// 2. Config file
	source := opts.File
	if source == "" && opts.AppDir != "" {
		candidate := filepath.Join(opts.AppDir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			source = candidate
		}
	}
	if source != "" {
		if err := k.Load(file.Provider(source), toml.Parser()); err != nil {
			return nil, mlerrors.Wrapf(err, mlerrors.ErrConfigLoad, "failed to load config from %s", source).
				WithDetail("path", source)
		}
		logger.Debug().Str("path", source).Msg("Loaded config file")
	}

	// 3. Environment
	if err := k.Load(envProvider(opts.Environ), nil); err != nil {
		return nil, mlerrors.Wrap(err, mlerrors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, mlerrors.Wrap(err, mlerrors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, mlerrors.Wrap(err, mlerrors.ErrConfigParse, "failed to decode configuration")
	}

	cfg.AppDir = opts.AppDir
	if cfg.AppDir == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.AppDir = wd
		}
	}
	cfg.Source = source
	cfg.resolvePaths()

	logger.Debug().
		Str("app_dir", cfg.AppDir).
		Str("game_root", cfg.GameRoot).
		Str("mods_dir", cfg.ModsDir).
		Msg("Configuration loaded")
	return &cfg, nil
}

// envKey maps MODLOADER_WORKSHOP__APP_ID to workshop.app_id.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func envProvider(environ []string) koanf.Provider {
	if environ == nil {
		return env.Provider(EnvPrefix, ".", envKey)
	}
	values := make(map[string]interface{})
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		values[envKey(name)] = value
	}
	return confmap.Provider(values, ".")
}
