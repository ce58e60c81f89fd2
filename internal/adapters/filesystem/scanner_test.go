package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		full := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0644))
	}
}

func TestScanPlots(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"b_rama.png",
		"a_hbonds.PNG",
		"sub/c_omega.svg",
		"sub/deeper/d_chi.pdf",
		"notes.txt",
		".cache/hidden.png",
	)

	res, err := NewScanner().ScanPlots(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"a_hbonds.PNG",
		"b_rama.png",
		"sub/c_omega.svg",
		"sub/deeper/d_chi.pdf",
	}, res.Files)
	assert.Equal(t, 5, res.FilesScanned, "hidden directories are not visited")
}

func TestScanPlots_Empty(t *testing.T) {
	res, err := NewScanner().ScanPlots(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.Zero(t, res.FilesScanned)
}

func TestScanPlots_MissingDir(t *testing.T) {
	_, err := NewScanner().ScanPlots(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestScanPlots_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner().ScanPlots(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/plots")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "plots"), got)

	got, err = expandPath("/abs/plots")
	require.NoError(t, err)
	assert.Equal(t, "/abs/plots", got)
}
