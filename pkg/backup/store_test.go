package backup

import (
	"errors"
	"testing"
	"time"

	"github.com/arthur-debert/modloader/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureIsOneShot(t *testing.T) {
	env := testutil.NewEnvironment(t)
	fs := testutil.NewFailingFS(env.FS)
	store := NewStore(fs, env.BackupDir)
	live := env.WriteGameFile("src/a.c", "original")

	outcome, err := store.Ensure("basegame", "src/a.c", live)
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	writes := fs.WriteCount()

	env.WriteGameFile("src/a.c", "patched")
	outcome, err = store.Ensure("basegame", "src/a.c", live)
	require.NoError(t, err)
	assert.Equal(t, AlreadyPresent, outcome)
	assert.Equal(t, writes, fs.WriteCount())

	testutil.AssertFileContent(t, env.FS, env.BackupPath("basegame", "src/a.c"), "original")
}

func TestEnsurePreservesModTime(t *testing.T) {
	env := testutil.NewEnvironment(t)
	store := NewStore(env.FS, env.BackupDir)
	live := env.WriteGameFile("a.txt", "x")
	stamp := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, env.FS.Chtimes(live, stamp, stamp))

	_, err := store.Ensure("basegame", "a.txt", live)
	require.NoError(t, err)

	info, err := env.FS.Stat(store.Path("basegame", "a.txt"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(stamp))
}

func TestEnsureOutcomes(t *testing.T) {
	env := testutil.NewEnvironment(t)
	store := NewStore(env.FS, env.BackupDir)

	outcome, err := store.Ensure("basegame", "none.c", env.GameRoot+"/none.c")
	require.NoError(t, err)
	assert.Equal(t, Missing, outcome)
	assert.False(t, store.HasBackups())

	env.WriteBackup("basegame", "gone.c", "orig")
	outcome, err = store.Ensure("basegame", "gone.c", env.GameRoot+"/gone.c")
	require.NoError(t, err)
	assert.Equal(t, LiveMissing, outcome)
	assert.Equal(t, store.Path("basegame", "gone.c"), store.SourcePath("basegame", "gone.c", env.GameRoot+"/gone.c"))
	assert.True(t, store.HasBackups())
}

func TestEnsureCopyFailure(t *testing.T) {
	env := testutil.NewEnvironment(t)
	fs := testutil.NewFailingFS(env.FS)
	store := NewStore(fs, env.BackupDir)
	live := env.WriteGameFile("a.c", "x")
	fs.FailWrites(store.Path("basegame", "a.c"), errors.New("disk full"))

	outcome, err := store.Ensure("basegame", "a.c", live)
	require.Error(t, err)
	assert.Equal(t, Missing, outcome)
	assert.Contains(t, err.Error(), "BACKUP_CREATE")
}

func TestSourcePathPrefersBackup(t *testing.T) {
	env := testutil.NewEnvironment(t)
	store := NewStore(env.FS, env.BackupDir)
	live := env.WriteGameFile("a.c", "live")

	assert.Equal(t, live, store.SourcePath("basegame", "a.c", live))
	_, err := store.Ensure("basegame", "a.c", live)
	require.NoError(t, err)
	assert.Equal(t, store.Path("basegame", "a.c"), store.SourcePath("basegame", "a.c", live))
}

func TestStat(t *testing.T) {
	env := testutil.NewEnvironment(t)
	store := NewStore(env.FS, env.BackupDir)

	st, err := store.Stat()
	require.NoError(t, err)
	assert.False(t, st.Present)

	env.WriteBackup("basegame", "a.c", "12345")
	env.WriteBackup("workshop/123", "Program/b.c", "123")
	st, err = store.Stat()
	require.NoError(t, err)
	assert.True(t, st.Present)
	assert.Equal(t, 2, st.Files)
	assert.Equal(t, int64(8), st.Bytes)
	assert.ElementsMatch(t, []string{"basegame", "workshop/123"}, st.Labels)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "created", Created.String())
	assert.Equal(t, "already-present", AlreadyPresent.String())
	assert.Equal(t, "live-missing", LiveMissing.String())
	assert.Equal(t, "missing", Missing.String())
}

func TestDrift(t *testing.T) {
	env := testutil.NewEnvironment(t)
	store := NewStore(env.FS, env.BackupDir)
	targets := []Target{{Label: "basegame", Root: env.GameRoot}}

	env.WriteGameFile("patched.c", "new")
	env.WriteBackup("basegame", "patched.c", "old")
	env.WriteGameFile("same.c", "x")
	env.WriteBackup("basegame", "same.c", "x")
	env.WriteBackup("basegame", "gone.c", "orig")
	env.WriteBackup("workshop/9", "a.c", "orig")

	d, err := store.Drift(targets)
	require.NoError(t, err)
	assert.Equal(t, Drift{Patched: 1, Unchanged: 1, LiveMissing: 1, Unmapped: 1}, d)
}
