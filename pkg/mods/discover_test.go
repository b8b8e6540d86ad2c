package mods

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modloader/pkg/report"
	"github.com/arthur-debert/modloader/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(list []Mod) []string {
	out := make([]string, 0, len(list))
	for _, m := range list {
		out = append(out, m.Name())
	}
	return out
}

func TestDiscoverLoadOrder(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Mod("c").Name("C").Priority(50).Build()
	env.Mod("a").Name("A").Priority(200).Build()
	env.Mod("b").Name("B").Priority(100).Build()

	found := DiscoverIn(env.FS, env.ModsDir, OriginLocal, nil)
	assert.Equal(t, []string{"C", "B", "A"}, names(found))
}

func TestDiscoverTieBreaksOnLowerName(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Mod("1").Name("beta").Build()
	env.Mod("2").Name("Alpha").Build()
	env.Mod("3").Name("alpha2").Build()

	found := DiscoverIn(env.FS, env.ModsDir, OriginLocal, nil)
	assert.Equal(t, []string{"Alpha", "alpha2", "beta"}, names(found))
	for _, m := range found {
		assert.Equal(t, DefaultPriority, m.Priority)
		assert.True(t, m.Enabled)
	}
}

func TestDiscoverSkipsDisabledAndBroken(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Mod("good").Build()
	env.Mod("off").Name("Off Mod").Disabled().Build()
	env.Mod("broken").RawManifest("{not json").Build()
	env.Mod("badprio").Meta("priority", "high").Build()
	require.NoError(t, env.FS.MkdirAll(filepath.Join(env.ModsDir, "nomanifest"), 0755))
	env.WriteFile(filepath.Join(env.ModsDir, "stray.txt"), "x")

	stream := report.NewStream()
	found := DiscoverIn(env.FS, env.ModsDir, OriginLocal, stream)

	assert.Equal(t, []string{"good"}, names(found))
	testutil.AssertLogContains(t, stream.Lines(), "[INFO] Mod disabled, skipping: Off Mod")
	testutil.AssertLogContains(t, stream.Lines(), "[ERROR] Failed to read manifest for mod 'broken'")
	testutil.AssertLogContains(t, stream.Lines(), "[ERROR] Failed to read manifest for mod 'badprio'")
	assert.Equal(t, 2, stream.Errors())
}

func TestDiscoverIncludeDisabled(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Mod("on").Build()
	env.Mod("off").Disabled().Build()

	d := &Discoverer{FS: env.FS, IncludeDisabled: true}
	found := d.In(env.ModsDir, OriginLocal)
	require.Len(t, found, 2)
	assert.False(t, found[0].Enabled)
	assert.True(t, found[1].Enabled)
}

func TestDiscoverPriorityCoercion(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Mod("str").Meta("priority", " 42 ").Build()
	env.Mod("float").Meta("priority", 7.9).Build()

	found := DiscoverIn(env.FS, env.ModsDir, OriginLocal, nil)
	require.Len(t, found, 2)
	assert.Equal(t, "float", found[0].DirName)
	assert.Equal(t, 7, found[0].Priority)
	assert.Equal(t, 42, found[1].Priority)
}

func TestDiscoverEnabledTruthiness(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Mod("zero").Meta("enabled", 0).Build()
	env.Mod("empty").Meta("enabled", "").Build()
	env.Mod("one").Meta("enabled", 1).Build()

	found := DiscoverIn(env.FS, env.ModsDir, OriginLocal, nil)
	assert.Equal(t, []string{"one"}, names(found))
}

func TestDiscoverAll(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Mod("local").Priority(10).Build()
	env.ModIn(env.WorkshopRoot, "top").Priority(20).Build()
	item := env.WorkshopItem("123456789")
	env.ModIn(filepath.Join(item, DefaultToolFolder, "mods"), "nested").Priority(30).Build()
	env.ModIn(filepath.Join(item, "OtherTool", "mods"), "ignored").Build()
	env.ModIn(env.WorkshopRoot, "custom").Meta("origin", "mine").Priority(40).Build()

	found := DiscoverAll(env.FS, env.ModsDir, env.WorkshopRoot, "", nil)

	require.Equal(t, []string{"local", "top", "nested", "custom"}, names(found))
	assert.Equal(t, OriginLocal, found[0].Origin())
	assert.Equal(t, OriginWorkshop, found[1].Origin())
	assert.Equal(t, "workshop:123456789", found[2].Origin())
	assert.Equal(t, "mine", found[3].Origin())
}

func TestDiscoverAllMissingWorkshop(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Mod("local").Build()

	assert.Len(t, DiscoverAll(env.FS, env.ModsDir, "", "", nil), 1)
	assert.Len(t, DiscoverAll(env.FS, env.ModsDir, "/nope", "", nil), 1)
	assert.Empty(t, DiscoverAll(env.FS, "/missing", "", "", nil))
}

func TestDedupeLaterWins(t *testing.T) {
	first := Mod{Base: "/m/a", DirName: "a", Priority: 1, Meta: map[string]any{"name": "first"}}
	other := Mod{Base: "/m/b", DirName: "b", Priority: 2}
	second := Mod{Base: "/m/a/", DirName: "a", Priority: 3, Meta: map[string]any{"name": "second"}}

	out := dedupe([]Mod{first, other, second})
	require.Len(t, out, 2)
	assert.Equal(t, "second", out[0].Name())
	assert.Equal(t, "b", out[1].Name())
}

func TestModPaths(t *testing.T) {
	m := Mod{Base: "/mods/x", DirName: "x", Meta: map[string]any{}}
	assert.Equal(t, "x", m.Name())
	assert.Equal(t, "/mods/x/manifest.json", m.ManifestPath())
	assert.Equal(t, "/mods/x/replacements/lines", m.LinesDir())
	assert.Equal(t, "/mods/x/replacements/functions", m.FunctionsDir())
	assert.Equal(t, "/mods/x/replacements/files", m.FilesDir())
	assert.Contains(t, m.String(), `name="x"`)
}
