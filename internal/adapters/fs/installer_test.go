package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/adapters/fs"
	"go.trai.ch/recipe/internal/core/domain"
)

func TestInstaller_InstallAndUninstall(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, filepath.Join("utils", "nik2img", "nik2img"))
	src := filepath.Join(tmpDir, "utils", "nik2img", "nik2img")
	dest := filepath.Join(tmpDir, "prefix", "bin", "nik2img")
	installer := fs.NewInstaller()

	require.NoError(t, installer.Install(context.Background(), src, dest))

	//nolint:gosec // Test file with controlled path
	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "content "+filepath.Join("utils", "nik2img", "nik2img"), string(content))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.ExecPerm), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary copy must not be left behind")

	require.NoError(t, installer.Uninstall(context.Background(), dest))
	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err))
}

func TestInstaller_Overwrite(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "new", filepath.Join("bin", "tool"))
	dest := filepath.Join(tmpDir, "bin", "tool")

	require.NoError(t, fs.NewInstaller().Install(context.Background(), filepath.Join(tmpDir, "new"), dest))

	//nolint:gosec // Test file with controlled path
	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "content new", string(content))
}

func TestInstaller_MissingSource(t *testing.T) {
	tmpDir := t.TempDir()

	err := fs.NewInstaller().Install(context.Background(), filepath.Join(tmpDir, "absent"), filepath.Join(tmpDir, "bin", "absent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInstallFailed.Error())
}

func TestInstaller_UninstallMissingIsNoop(t *testing.T) {
	err := fs.NewInstaller().Uninstall(context.Background(), filepath.Join(t.TempDir(), "bin", "nik2img"))
	require.NoError(t, err)
}

func TestInstaller_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fs.NewInstaller().Install(ctx, "a", "b")
	require.ErrorIs(t, err, context.Canceled)
}
