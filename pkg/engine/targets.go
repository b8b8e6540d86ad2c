package engine

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/modloader/pkg/backup"
	"github.com/arthur-debert/modloader/pkg/filesystem"
	"github.com/spf13/afero"
)

// DefaultAppID is the Steam app id whose workshop content is scanned.
const DefaultAppID = "2230980"

// BaseGameLabel labels the game install target.
const BaseGameLabel = "basegame"

// DefaultContentDirs are the folders that make a workshop item a patch
// target.
var DefaultContentDirs = []string{"Program", "Resource", "Resources"}

// FindWorkshopContentRoot derives <steamapps>/workshop/content/<appID> from
// the nearest ancestor of gameRoot named "steamapps". It returns "" when
// there is none. The directory is not required to exist.
func FindWorkshopContentRoot(gameRoot, appID string) string {
	if appID == "" {
		appID = DefaultAppID
	}
	dir := filepath.Dir(filepath.Clean(gameRoot))
	for {
		if strings.EqualFold(filepath.Base(dir), "steamapps") {
			return filepath.Join(dir, "workshop", "content", appID)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// DiscoverTargets returns the base game target followed by one target per
// workshop item. An item qualifies when its folder name is all digits and it
// contains one of contentDirs.
func DiscoverTargets(fs afero.Fs, gameRoot, workshopRoot string, contentDirs []string) []backup.Target {
	targets := []backup.Target{{Label: BaseGameLabel, Root: gameRoot}}
	if workshopRoot == "" || !filesystem.DirExists(fs, workshopRoot) {
		return targets
	}
	if len(contentDirs) == 0 {
		contentDirs = DefaultContentDirs
	}

	entries, err := afero.ReadDir(fs, workshopRoot)
	if err != nil {
		return targets
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if !entry.IsDir() || !allDigits(entry.Name()) {
			continue
		}
		item := filepath.Join(workshopRoot, entry.Name())
		for _, d := range contentDirs {
			if filesystem.Exists(fs, filepath.Join(item, d)) {
				targets = append(targets, backup.Target{Label: "workshop/" + entry.Name(), Root: item})
				break
			}
		}
	}
	return targets
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
