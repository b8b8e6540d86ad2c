package mods

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/arthur-debert/modloader/pkg/errors"
	"github.com/arthur-debert/modloader/pkg/filesystem"
	"github.com/spf13/afero"
)

// ReadManifest decodes a manifest into a generic map. Numbers are kept as
// json.Number so that integers survive a rewrite unchanged.
func ReadManifest(fs afero.Fs, path string) (map[string]any, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestRead, "failed to read %s", path)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var manifest map[string]any
	if err := dec.Decode(&manifest); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "invalid manifest %s", path)
	}
	if manifest == nil {
		return nil, errors.Newf(errors.ErrManifestParse, "manifest %s is not a JSON object", path)
	}
	return manifest, nil
}

// WriteManifest writes manifest as JSON with two-space indentation.
func WriteManifest(fs afero.Fs, path string, manifest map[string]any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWrite, "failed to encode manifest %s", path)
	}
	if err := filesystem.WriteText(fs, path, buf.String()); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWrite, "failed to write manifest %s", path)
	}
	return nil
}

// manifestEnabled reads "enabled" with truthiness semantics, default true.
func manifestEnabled(manifest map[string]any) bool {
	v, ok := manifest["enabled"]
	if !ok {
		return true
	}
	return truthy(v)
}

// manifestPriority coerces "priority" to an int. Numbers are truncated,
// numeric strings are parsed, booleans count as 0 or 1.
func manifestPriority(manifest map[string]any) (int, error) {
	v, ok := manifest["priority"]
	if !ok || v == nil {
		return DefaultPriority, nil
	}
	switch p := v.(type) {
	case json.Number:
		if i, err := p.Int64(); err == nil {
			return int(i), nil
		}
		f, err := p.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, errors.Newf(errors.ErrManifestParse, "invalid priority %q", p.String())
		}
		return int(f), nil
	case float64:
		return int(p), nil
	case int:
		return p, nil
	case bool:
		if p {
			return 1, nil
		}
		return 0, nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, errors.Wrapf(err, errors.ErrManifestParse, "invalid priority %q", p)
		}
		return i, nil
	default:
		return 0, errors.Newf(errors.ErrManifestParse, "invalid priority %v", v)
	}
}

// truthy mirrors the usual notion of an "empty" JSON value.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
