// Package mods discovers mod packages and manages their manifests.
//
// A mod is a directory holding a manifest.json, an optional rule file
// (see package rules) and a replacements/ folder with the lines/,
// functions/ and files/ subfolders that rule specs are resolved against.
//
// Load order is ascending (priority, lower-cased name). The last mod in load
// order has the highest precedence when rules are merged.
package mods

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// ManifestFile is the manifest every mod directory must contain.
	ManifestFile = "manifest.json"
	// DefaultPriority applies when a manifest has no priority.
	DefaultPriority = 100

	replacementsDir = "replacements"
)

// Origin tags stored in Meta["origin"].
const (
	OriginLocal    = "local"
	OriginWorkshop = "workshop"
)

// WorkshopItemOrigin is the origin tag of mods shipped inside a workshop item.
func WorkshopItemOrigin(item string) string {
	return OriginWorkshop + ":" + item
}

// Mod is one discovered mod. It is not modified during a run.
type Mod struct {
	Base     string
	DirName  string
	Priority int
	Enabled  bool
	Meta     map[string]any
}

// Name returns the manifest name, falling back to the directory name.
func (m Mod) Name() string {
	if v, ok := m.Meta["name"]; ok && truthy(v) {
		return fmt.Sprint(v)
	}
	return m.DirName
}

// Origin returns the origin tag injected at discovery.
func (m Mod) Origin() string {
	if v, ok := m.Meta["origin"].(string); ok {
		return v
	}
	return ""
}

// ManifestPath is the path of the mod's manifest.
func (m Mod) ManifestPath() string { return filepath.Join(m.Base, ManifestFile) }

// ReplacementsDir is the root of the mod's spec folders.
func (m Mod) ReplacementsDir() string { return filepath.Join(m.Base, replacementsDir) }

// LinesDir holds line rule specs.
func (m Mod) LinesDir() string { return filepath.Join(m.ReplacementsDir(), "lines") }

// FunctionsDir holds whole-function specs.
func (m Mod) FunctionsDir() string { return filepath.Join(m.ReplacementsDir(), "functions") }

// FilesDir holds whole-file specs.
func (m Mod) FilesDir() string { return filepath.Join(m.ReplacementsDir(), "files") }

func (m Mod) String() string {
	return fmt.Sprintf("Mod(name=%q, priority=%d, enabled=%t)", m.Name(), m.Priority, m.Enabled)
}

// SortLoadOrder sorts mods by (priority, lower-cased name), keeping the
// relative order of ties.
func SortLoadOrder(list []Mod) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Priority != list[j].Priority {
			return list[i].Priority < list[j].Priority
		}
		return strings.ToLower(list[i].Name()) < strings.ToLower(list[j].Name())
	})
}
