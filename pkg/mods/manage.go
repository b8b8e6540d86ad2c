package mods

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/arthur-debert/modloader/pkg/errors"
	"github.com/arthur-debert/modloader/pkg/filesystem"
	"github.com/arthur-debert/modloader/pkg/logging"
	"github.com/arthur-debert/modloader/pkg/rules"
	"github.com/spf13/afero"
)

const maxDirName = 64

// NewModOptions describes a mod to scaffold.
type NewModOptions struct {
	Name        string
	Author      string
	ModVersion  string
	GameVersion string
	Link        string
	Description string
	Changes     []string
}

// SanitizeDirName maps a display name to a folder name: letters, digits,
// "-", "_" and spaces are kept, anything else becomes "_", spaces become "_"
// and the result is cut to 64 characters. An empty result becomes "mod".
func SanitizeDirName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == ' ' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	s := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	if s == "" {
		s = "mod"
	}
	if r := []rune(s); len(r) > maxDirName {
		s = string(r[:maxDirName])
	}
	return s
}

// NextPriority returns one more than the highest priority in list, or
// DefaultPriority when list is empty.
func NextPriority(list []Mod) int {
	if len(list) == 0 {
		return DefaultPriority
	}
	highest := list[0].Priority
	for _, m := range list[1:] {
		if m.Priority > highest {
			highest = m.Priority
		}
	}
	return highest + 1
}

// Create scaffolds a new mod under root and returns it. existing is used to
// pick the priority. A folder name already taken gets a "_2", "_3"...
// suffix.
func Create(fs afero.Fs, root string, opts NewModOptions, existing []Mod) (Mod, error) {
	logger := logging.GetLogger("mods.create")
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return Mod{}, errors.New(errors.ErrInvalidInput, "mod name cannot be empty")
	}

	dirName := SanitizeDirName(name)
	candidate := dirName
	for suffix := 2; ; suffix++ {
		if _, err := fs.Stat(filepath.Join(root, candidate)); err != nil {
			break
		}
		candidate = dirName + "_" + strconv.Itoa(suffix)
	}
	base := filepath.Join(root, candidate)

	manifest := map[string]any{
		"name":     name,
		"enabled":  true,
		"priority": NextPriority(existing),
	}
	setIf(manifest, "game_version", opts.GameVersion)
	setIf(manifest, "mod_version", opts.ModVersion)
	if link := strings.TrimSpace(opts.Link); link != "" {
		if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
			link = "https://" + link
		}
		manifest["link"] = link
	}
	setIf(manifest, "author", opts.Author)
	setIf(manifest, "description", opts.Description)
	var changes []any
	for _, c := range opts.Changes {
		if c = strings.TrimSpace(c); c != "" {
			changes = append(changes, c)
		}
	}
	if len(changes) > 0 {
		manifest["changes"] = changes
	}

	mod := Mod{Base: base, DirName: candidate, Priority: manifest["priority"].(int), Enabled: true, Meta: manifest}
	for _, dir := range []string{mod.LinesDir(), mod.FunctionsDir(), mod.FilesDir()} {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return Mod{}, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
		}
	}
	if err := WriteManifest(fs, mod.ManifestPath(), manifest); err != nil {
		return Mod{}, err
	}

	ruleData, err := rules.Encode(rules.NewBundle())
	if err != nil {
		return Mod{}, err
	}
	if err := filesystem.WriteText(fs, filepath.Join(base, rules.DefaultFileNames[0]), string(ruleData)); err != nil {
		return Mod{}, err
	}

	logger.Info().Str("mod", name).Str("path", base).Msg("Created mod")
	return mod, nil
}

// SetEnabled rewrites the "enabled" flag of a mod's manifest, keeping every
// other key.
func SetEnabled(fs afero.Fs, mod Mod, enabled bool) (Mod, error) {
	manifest, err := ReadManifest(fs, mod.ManifestPath())
	if err != nil {
		return mod, err
	}
	manifest["enabled"] = enabled
	if err := WriteManifest(fs, mod.ManifestPath(), manifest); err != nil {
		return mod, err
	}
	mod.Enabled = enabled
	mod.Meta = manifest
	return mod, nil
}

// NormalizePriorities rewrites the priorities of list, in its current order,
// to 100, 101, 102... and returns the updated mods.
func NormalizePriorities(fs afero.Fs, list []Mod) ([]Mod, error) {
	out := make([]Mod, 0, len(list))
	for i, mod := range list {
		priority := DefaultPriority + i
		manifest, err := ReadManifest(fs, mod.ManifestPath())
		if err != nil {
			return out, err
		}
		manifest["priority"] = priority
		if err := WriteManifest(fs, mod.ManifestPath(), manifest); err != nil {
			return out, err
		}
		mod.Priority = priority
		mod.Meta = manifest
		out = append(out, mod)
	}
	return out, nil
}

// Find returns the mod whose directory name or manifest name equals key,
// case-insensitively. Directory names are matched first.
func Find(list []Mod, key string) (Mod, error) {
	for _, m := range list {
		if strings.EqualFold(m.DirName, key) {
			return m, nil
		}
	}
	for _, m := range list {
		if strings.EqualFold(m.Name(), key) {
			return m, nil
		}
	}
	return Mod{}, errors.Newf(errors.ErrModNotFound, "no mod named %q", key).WithDetail("mod", key)
}

func setIf(m map[string]any, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		m[key] = v
	}
}
