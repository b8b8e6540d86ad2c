package mods

import (
	"path/filepath"
	"sort"

	"github.com/arthur-debert/modloader/pkg/filesystem"
	"github.com/arthur-debert/modloader/pkg/logging"
	"github.com/arthur-debert/modloader/pkg/report"
	"github.com/spf13/afero"
)

// DefaultToolFolder is the folder a workshop item uses to ship mods for this
// tool: <item>/<tool folder>/mods/.
const DefaultToolFolder = "WhaleModLoader"

// Discoverer finds mods under local and workshop roots.
type Discoverer struct {
	FS  afero.Fs
	Log *report.Stream
	// ToolFolder overrides DefaultToolFolder.
	ToolFolder string
	// IncludeDisabled keeps disabled mods in the result, for management
	// commands. A run never sets it.
	IncludeDisabled bool
}

// DiscoverIn lists the enabled mods directly under root, in load order.
func DiscoverIn(fs afero.Fs, root, origin string, log *report.Stream) []Mod {
	d := &Discoverer{FS: fs, Log: log}
	return d.In(root, origin)
}

// DiscoverAll lists the enabled mods of the local root and the workshop
// content root, deduplicated and in load order.
func DiscoverAll(fs afero.Fs, localRoot, workshopRoot, toolFolder string, log *report.Stream) []Mod {
	d := &Discoverer{FS: fs, Log: log, ToolFolder: toolFolder}
	return d.All(localRoot, workshopRoot)
}

// In scans the immediate subdirectories of root for manifests. A manifest
// that cannot be read or parsed drops that mod only. Mods whose manifest
// has no "origin" get origin.
func (d *Discoverer) In(root, origin string) []Mod {
	logger := logging.GetLogger("mods.discovery")
	if !filesystem.DirExists(d.FS, root) {
		logger.Debug().Str("root", root).Msg("Mods root does not exist")
		return nil
	}

	entries, err := afero.ReadDir(d.FS, root)
	if err != nil {
		d.Log.Error("Failed to list mods in %s: %v", root, err)
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var found []Mod
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		base := filepath.Join(root, entry.Name())
		manifestPath := filepath.Join(base, ManifestFile)
		if !filesystem.Exists(d.FS, manifestPath) {
			continue
		}

		mod, err := d.load(base, entry.Name(), manifestPath)
		if err != nil {
			d.Log.Error("Failed to read manifest for mod '%s': %v", entry.Name(), err)
			continue
		}
		if _, ok := mod.Meta["origin"]; !ok && origin != "" {
			mod.Meta["origin"] = origin
		}
		if !mod.Enabled && !d.IncludeDisabled {
			d.Log.Info("Mod disabled, skipping: %s", mod.Name())
			continue
		}

		logger.Trace().
			Str("mod", mod.Name()).
			Int("priority", mod.Priority).
			Str("path", base).
			Msg("Found mod")
		found = append(found, mod)
	}

	SortLoadOrder(found)
	return found
}

func (d *Discoverer) load(base, dirName, manifestPath string) (Mod, error) {
	manifest, err := ReadManifest(d.FS, manifestPath)
	if err != nil {
		return Mod{}, err
	}
	priority, err := manifestPriority(manifest)
	if err != nil {
		return Mod{}, err
	}
	return Mod{
		Base:     base,
		DirName:  dirName,
		Priority: priority,
		Enabled:  manifestEnabled(manifest),
		Meta:     manifest,
	}, nil
}

// All discovers local mods, then workshop top-level mods, then mods nested
// in workshop items under <item>/<tool folder>/mods/. A mod found twice
// keeps its first position and its last discovery.
func (d *Discoverer) All(localRoot, workshopRoot string) []Mod {
	logger := logging.GetLogger("mods.discovery")
	var all []Mod
	all = append(all, d.In(localRoot, OriginLocal)...)

	if workshopRoot != "" && filesystem.DirExists(d.FS, workshopRoot) {
		all = append(all, d.In(workshopRoot, OriginWorkshop)...)

		toolFolder := d.ToolFolder
		if toolFolder == "" {
			toolFolder = DefaultToolFolder
		}
		items, err := afero.ReadDir(d.FS, workshopRoot)
		if err != nil {
			d.Log.Warn("Could not list workshop content %s: %v", workshopRoot, err)
		}
		sort.Slice(items, func(i, j int) bool { return items[i].Name() < items[j].Name() })
		for _, item := range items {
			if !item.IsDir() {
				continue
			}
			nested := filepath.Join(workshopRoot, item.Name(), toolFolder, "mods")
			if filesystem.DirExists(d.FS, nested) {
				all = append(all, d.In(nested, WorkshopItemOrigin(item.Name()))...)
			}
		}
	}

	result := dedupe(all)
	SortLoadOrder(result)
	logger.Debug().Int("count", len(result)).Msg("Discovered mods")
	return result
}

type modKey struct {
	base    string
	dirName string
}

func dedupe(list []Mod) []Mod {
	index := make(map[modKey]int, len(list))
	var out []Mod
	for _, m := range list {
		k := modKey{filepath.Clean(m.Base), m.DirName}
		if i, ok := index[k]; ok {
			out[i] = m
			continue
		}
		index[k] = len(out)
		out = append(out, m)
	}
	return out
}
