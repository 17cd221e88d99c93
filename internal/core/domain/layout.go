package domain

import "path/filepath"

const (
	// StateDirName is the name of the internal state directory kept next to the recipe.
	StateDirName = ".recipe"

	// StateFileName is the name of the build signature store.
	StateFileName = "state.json"

	// RecipeFileName is the default name of the recipe file.
	RecipeFileName = "recipe.yaml"

	// RecipeVersion is the only recipe format version understood.
	RecipeVersion = "1"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// ExecPerm is the permission given to installed executables (rwxr-xr-x).
	ExecPerm = 0o755

	// InstallDirPerm is the permission used when creating install directories.
	InstallDirPerm = 0o755
)

// DefaultStatePath returns the default path of the build signature store.
func DefaultStatePath() string {
	return filepath.Join(StateDirName, StateFileName)
}
