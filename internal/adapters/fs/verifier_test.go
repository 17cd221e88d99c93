package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/adapters/fs"
)

func TestVerifier_VerifyOutputs(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "out1", "out2")
	verifier := fs.NewVerifier()

	exists, err := verifier.VerifyOutputs([]string{filepath.Join(tmpDir, "out1"), filepath.Join(tmpDir, "out2")})
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = verifier.VerifyOutputs([]string{filepath.Join(tmpDir, "out1"), filepath.Join(tmpDir, "missing")})
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = verifier.VerifyOutputs(nil)
	require.NoError(t, err)
	assert.True(t, exists)
}
