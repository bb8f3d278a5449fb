package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func gitLog(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir))

	require.NoError(t, Init(context.Background(), dir))
	assert.True(t, IsRepo(dir))

	// Second call is a no-op.
	require.NoError(t, Init(context.Background(), dir))
}

func TestCommit(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "journal.csv"), []byte("hello"), 0o644))

	hash, err := Commit(ctx, dir, "import: chase_jan.csv", "Test Author <test@example.com>")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.Contains(t, gitLog(t, dir, "%s"), "import: chase_jan.csv")
	assert.Contains(t, gitLog(t, dir, "%an <%ae>"), "Test Author <test@example.com>")

	hash, err = Commit(ctx, dir, "nothing", "Test Author <test@example.com>")
	require.NoError(t, err)
	assert.Empty(t, hash)
}

func TestCommit_Paths(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "2025"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025", "journal.csv"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("b"), 0o644))

	hash, err := Commit(ctx, dir, "journal", "A <a@example.com>", "2025")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	dirty, err := Dirty(ctx, dir, "scratch.txt")
	require.NoError(t, err)
	assert.True(t, dirty)
	dirty, err = Dirty(ctx, dir, "2025")
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestCommit_NotARepo(t *testing.T) {
	requireGit(t)
	_, err := Commit(context.Background(), t.TempDir(), "msg", "A <a@example.com>")
	assert.Error(t, err)
}

func TestSplitAuthor(t *testing.T) {
	name, email := splitAuthor("Cleared Reports <reports@cleared.dev>")
	assert.Equal(t, "Cleared Reports", name)
	assert.Equal(t, "reports@cleared.dev", email)

	name, email = splitAuthor("solo")
	assert.Equal(t, "solo", name)
	assert.Empty(t, email)
}
