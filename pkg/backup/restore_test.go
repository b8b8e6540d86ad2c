package backup

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modloader/pkg/report"
	"github.com/arthur-debert/modloader/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func targetsFor(env *testutil.Environment, items ...string) []Target {
	targets := []Target{{Label: "basegame", Root: env.GameRoot}}
	for _, id := range items {
		targets = append(targets, Target{Label: "workshop/" + id, Root: filepath.Join(env.WorkshopRoot, id)})
	}
	return targets
}

func TestFactoryResetRoundTrip(t *testing.T) {
	env := testutil.NewEnvironment(t)
	store := NewStore(env.FS, env.BackupDir)
	live := env.WriteGameFile("src/a.c", "original")
	_, err := store.Ensure("basegame", "src/a.c", live)
	require.NoError(t, err)
	env.WriteGameFile("src/a.c", "patched")

	log := report.NewStream()
	res := store.FactoryReset(targetsFor(env), log)

	assert.Equal(t, 1, res.Restored)
	assert.Equal(t, 1, res.Removed)
	assert.True(t, res.RootRemoved)
	assert.Equal(t, "original", env.GameFile("src/a.c"))
	testutil.AssertNoFile(t, env.FS, env.BackupPath("basegame", "src/a.c"))
	testutil.AssertNoFile(t, env.FS, env.BackupDir)
	testutil.AssertLogContains(t, log.Lines(), "[INFO] Restored backup: a.c")
	testutil.AssertLogContains(t, log.Lines(), "All original backup files removed.")
}

func TestPurgeOnlyLeavesLiveFiles(t *testing.T) {
	env := testutil.NewEnvironment(t)
	store := NewStore(env.FS, env.BackupDir)
	live := env.WriteGameFile("src/a.c", "original")
	_, err := store.Ensure("basegame", "src/a.c", live)
	require.NoError(t, err)
	env.WriteGameFile("src/a.c", "patched")

	res := store.PurgeOnly(report.NewStream())

	assert.Equal(t, 1, res.Removed)
	assert.True(t, res.RootRemoved)
	assert.Equal(t, "patched", env.GameFile("src/a.c"))
	testutil.AssertNoFile(t, env.FS, env.BackupDir)
}

func TestFactoryResetLongestLabelWins(t *testing.T) {
	env := testutil.NewEnvironment(t)
	store := NewStore(env.FS, env.BackupDir)
	env.WorkshopItem("123456789")
	env.WriteBackup("workshop/123456789", "Program/foo.c", "ws original")
	env.WriteBackup("basegame", "Program/foo.c", "base original")

	// A broad "workshop" label must lose to the item label.
	targets := append(targetsFor(env, "123456789"), Target{Label: "workshop", Root: "/elsewhere"})
	res := store.FactoryReset(targets, report.NewStream())

	assert.Equal(t, 2, res.Restored)
	testutil.AssertFileContent(t, env.FS, filepath.Join(env.WorkshopRoot, "123456789", "Program", "foo.c"), "ws original")
	testutil.AssertFileContent(t, env.FS, filepath.Join(env.GameRoot, "Program", "foo.c"), "base original")
	testutil.AssertNoFile(t, env.FS, "/elsewhere/123456789/Program/foo.c")
}

func TestFactoryResetUnmapped(t *testing.T) {
	env := testutil.NewEnvironment(t)
	store := NewStore(env.FS, env.BackupDir)
	env.WriteBackup("workshop/999", "Program/x.c", "orphan")
	env.WriteBackup("basegame", "y.c", "y")

	log := report.NewStream()
	res := store.FactoryReset(targetsFor(env), log)

	assert.Equal(t, 1, res.Unmapped)
	assert.Equal(t, 1, res.Restored)
	assert.False(t, res.RootRemoved)
	assert.True(t, env.Exists(env.BackupPath("workshop/999", "Program/x.c")))
	testutil.AssertLogContains(t, log.Lines(), "[WARN] Could not map backup file to any target, skipping: x.c")
	assert.Equal(t, 1, log.Warnings())
	// The emptied basegame folder is pruned, the unmapped one stays.
	testutil.AssertNoFile(t, env.FS, filepath.Join(env.BackupDir, "basegame"))
}

func TestFactoryResetRestoreFailure(t *testing.T) {
	env := testutil.NewEnvironment(t)
	fs := testutil.NewFailingFS(env.FS)
	store := NewStore(fs, env.BackupDir)
	env.WriteBackup("basegame", "a.c", "orig")
	fs.FailWrites(filepath.Join(env.GameRoot, "a.c"), errors.New("read-only"))

	log := report.NewStream()
	res := store.FactoryReset(targetsFor(env), log)

	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 0, res.Restored)
	assert.True(t, env.Exists(env.BackupPath("basegame", "a.c")))
	assert.Equal(t, 1, log.Errors())
}

func TestResetAndPurgeWithoutBackups(t *testing.T) {
	env := testutil.NewEnvironment(t)
	store := NewStore(env.FS, env.BackupDir)

	log := report.NewStream()
	assert.Equal(t, RestoreResult{}, store.FactoryReset(targetsFor(env), log))
	assert.Equal(t, RestoreResult{}, store.PurgeOnly(log))
	testutil.AssertLogContains(t, log.Lines(), "No backups to restore")
	testutil.AssertLogContains(t, log.Lines(), "Nothing to purge")

	require.NoError(t, env.FS.MkdirAll(filepath.Join(env.BackupDir, "basegame", "empty"), 0755))
	res := store.PurgeOnly(log)
	assert.True(t, res.RootRemoved)
	testutil.AssertLogContains(t, log.Lines(), "No backup files found. Nothing to purge.")
}

func TestBestTarget(t *testing.T) {
	labels := labelIndex([]Target{
		{Label: "basegame", Root: "/g"},
		{Label: "workshop/1", Root: "/w/1"},
		{Label: "workshop/12", Root: "/w/12"},
	})

	got, ok := bestTarget([]string{"workshop", "12", "Program", "a.c"}, labels)
	require.True(t, ok)
	assert.Equal(t, "/w/12", got.Root)

	_, ok = bestTarget([]string{"workshop", "123", "a.c"}, labels)
	assert.False(t, ok)

	_, ok = bestTarget([]string{"basegame"}, labels)
	assert.False(t, ok)
}
