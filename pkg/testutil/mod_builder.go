package testutil

import (
	"encoding/json"
	"path/filepath"

	"github.com/stretchr/testify/require"
)

// ModBuilder sets up a mod folder declaratively.
//
//	env.Mod("M").Priority(100).Rules(`...`).Line("fix.c", "...").Build()
type ModBuilder struct {
	env      *Environment
	root     string
	dirName  string
	manifest map[string]any
	rules    string
	files    map[string]string
	raw      *string
}

// Mod starts a mod in the local mods folder.
func (env *Environment) Mod(dirName string) *ModBuilder {
	return env.ModIn(env.ModsDir, dirName)
}

// ModIn starts a mod under an arbitrary mods root.
func (env *Environment) ModIn(root, dirName string) *ModBuilder {
	return &ModBuilder{
		env:      env,
		root:     root,
		dirName:  dirName,
		manifest: map[string]any{"name": dirName},
		files:    make(map[string]string),
	}
}

// Name sets the manifest name.
func (b *ModBuilder) Name(name string) *ModBuilder {
	b.manifest["name"] = name
	return b
}

// Priority sets the manifest priority.
func (b *ModBuilder) Priority(p int) *ModBuilder {
	b.manifest["priority"] = p
	return b
}

// Disabled marks the mod disabled.
func (b *ModBuilder) Disabled() *ModBuilder {
	b.manifest["enabled"] = false
	return b
}

// Meta sets an arbitrary manifest key.
func (b *ModBuilder) Meta(key string, value any) *ModBuilder {
	b.manifest[key] = value
	return b
}

// RawManifest replaces the manifest with raw text, for broken manifests.
func (b *ModBuilder) RawManifest(text string) *ModBuilder {
	b.raw = &text
	return b
}

// Rules sets the content of replacements.toml.
func (b *ModBuilder) Rules(toml string) *ModBuilder {
	b.rules = toml
	return b
}

// Line adds a file under replacements/lines.
func (b *ModBuilder) Line(name, content string) *ModBuilder {
	b.files[filepath.Join("replacements", "lines", name)] = content
	return b
}

// Function adds a file under replacements/functions.
func (b *ModBuilder) Function(name, content string) *ModBuilder {
	b.files[filepath.Join("replacements", "functions", name)] = content
	return b
}

// File adds a file under replacements/files.
func (b *ModBuilder) File(name, content string) *ModBuilder {
	b.files[filepath.Join("replacements", "files", name)] = content
	return b
}

// Build writes the mod and returns its folder.
func (b *ModBuilder) Build() string {
	t := b.env.t
	t.Helper()

	base := filepath.Join(b.root, b.dirName)
	manifest := ""
	if b.raw != nil {
		manifest = *b.raw
	} else {
		data, err := json.MarshalIndent(b.manifest, "", "  ")
		require.NoError(t, err)
		manifest = string(data)
	}
	b.env.WriteFile(filepath.Join(base, "manifest.json"), manifest)

	if b.rules != "" {
		b.env.WriteFile(filepath.Join(base, "replacements.toml"), b.rules)
	}
	for rel, content := range b.files {
		b.env.WriteFile(filepath.Join(base, rel), content)
	}
	return base
}
