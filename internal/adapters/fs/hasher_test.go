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

func compileTask(root string) *domain.Task {
	return &domain.Task{
		Name:    domain.NewInternedString("nik2img"),
		Kind:    domain.TaskCompile,
		Command: []string{"c++", "-O2", "-o", "nik2img", "nik2img.cpp"},
		Inputs: domain.InternAll([]string{
			filepath.Join(root, "nik2img.cpp"),
			filepath.Join(root, "args.cpp"),
		}),
		Outputs: domain.InternAll([]string{filepath.Join(root, "nik2img")}),
	}
}

func TestHasher_ComputeSignature_Deterministic(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "nik2img.cpp", "args.cpp")
	hasher := fs.NewHasher()

	first, err := hasher.ComputeSignature(context.Background(), compileTask(tmpDir))
	require.NoError(t, err)
	second, err := hasher.ComputeSignature(context.Background(), compileTask(tmpDir))
	require.NoError(t, err)

	assert.Len(t, first, 16)
	assert.Equal(t, first, second)
}

func TestHasher_ComputeSignature_ChangesWithInputs(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "nik2img.cpp", "args.cpp")
	hasher := fs.NewHasher()

	base, err := hasher.ComputeSignature(context.Background(), compileTask(tmpDir))
	require.NoError(t, err)

	t.Run("content", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "args.cpp"), []byte("changed"), domain.FilePerm))
		t.Cleanup(func() { writeFiles(t, tmpDir, "args.cpp") })

		got, err := hasher.ComputeSignature(context.Background(), compileTask(tmpDir))
		require.NoError(t, err)
		assert.NotEqual(t, base, got)
	})

	t.Run("command", func(t *testing.T) {
		task := compileTask(tmpDir)
		task.Command = append(task.Command, "-ldl")

		got, err := hasher.ComputeSignature(context.Background(), task)
		require.NoError(t, err)
		assert.NotEqual(t, base, got)
	})

	t.Run("environment", func(t *testing.T) {
		task := compileTask(tmpDir)
		task.Environment = map[string]string{"LANG": "C"}

		got, err := hasher.ComputeSignature(context.Background(), task)
		require.NoError(t, err)
		assert.NotEqual(t, base, got)
	})
}

func TestHasher_ComputeSignature_ChangesWithPrerequisite(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "nik2img.cpp", "args.cpp")
	lib := filepath.Join(tmpDir, "libmapnik.so")
	hasher := fs.NewHasher()

	task := compileTask(tmpDir)
	task.Prerequisites = domain.InternAll([]string{lib})

	absent, err := hasher.ComputeSignature(context.Background(), task)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(lib, []byte("v1"), domain.FilePerm))
	before, err := hasher.ComputeSignature(context.Background(), task)
	require.NoError(t, err)
	assert.NotEqual(t, absent, before)

	require.NoError(t, os.WriteFile(lib, []byte("v2 rebuilt core library"), domain.FilePerm))
	after, err := hasher.ComputeSignature(context.Background(), task)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	again, err := hasher.ComputeSignature(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, after, again)
}

func TestHasher_ComputeSignature_MissingInput(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "nik2img.cpp")

	_, err := fs.NewHasher().ComputeSignature(context.Background(), compileTask(tmpDir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrFileOpenFailed.Error())
}

func TestHasher_ComputeFileHash(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "a", "b")
	hasher := fs.NewHasher()

	a, err := hasher.ComputeFileHash(filepath.Join(tmpDir, "a"))
	require.NoError(t, err)
	b, err := hasher.ComputeFileHash(filepath.Join(tmpDir, "b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
