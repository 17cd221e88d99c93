package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/adapters/fs"
	"go.trai.ch/recipe/internal/core/domain"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, []byte("content "+name), domain.FilePerm))
	}
}

func TestResolver_ResolveInputs_Glob(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "b.cpp", "a.cpp", "c.hpp")

	resolved, err := fs.NewResolver().ResolveInputs([]string{"*.cpp"}, tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a.cpp"),
		filepath.Join(tmpDir, "b.cpp"),
	}, resolved)
}

func TestResolver_ResolveInputs_KeepsDeclarationOrder(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "main.cpp", "args.cpp")

	resolved, err := fs.NewResolver().ResolveInputs([]string{"main.cpp", "args.cpp", "*.cpp"}, tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(tmpDir, "main.cpp"),
		filepath.Join(tmpDir, "args.cpp"),
	}, resolved)
}

func TestResolver_ResolveInputs_GlobError(t *testing.T) {
	_, err := fs.NewResolver().ResolveInputs([]string{"["}, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to glob path")
}

func TestResolver_ResolveInputs_NoMatches(t *testing.T) {
	_, err := fs.NewResolver().ResolveInputs([]string{"nik2img.cpp"}, t.TempDir())
	require.ErrorIs(t, err, domain.ErrInputNotFound)
	assert.Contains(t, err.Error(), "nik2img.cpp")
}
