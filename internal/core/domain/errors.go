package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrDuplicateOutput is returned when two tasks declare the same output path.
	ErrDuplicateOutput = zerr.New("output produced by more than one task")

	// ErrUnknownTarget is returned when a command-line target matches no alias, task or output path.
	ErrUnknownTarget = zerr.New("unknown target")

	// ErrMissingConfigKey is returned when a required configuration key is absent.
	ErrMissingConfigKey = zerr.New("missing configuration key")

	// ErrMalformedConfigKey is returned when a configuration key holds a value of the wrong shape.
	ErrMalformedConfigKey = zerr.New("malformed configuration key")

	// ErrUnknownSubstitution is returned when a $KEY reference names a key absent from the environment.
	ErrUnknownSubstitution = zerr.New("unknown substitution key")

	// ErrInvalidLinkMode is returned when RUNTIME_LINK is neither "static" nor "shared".
	ErrInvalidLinkMode = zerr.New("invalid runtime link mode, expected 'static' or 'shared'")

	// ErrInvalidTargetName is returned when a target name contains invalid characters.
	ErrInvalidTargetName = zerr.New("invalid target name")

	// ErrReservedTargetName is returned when a target uses an alias name ("install", "uninstall").
	ErrReservedTargetName = zerr.New("target name is reserved")

	// ErrDuplicateTargetName is returned when two targets share the same name.
	ErrDuplicateTargetName = zerr.New("duplicate target name")

	// ErrInvalidTargetKind is returned when a target kind is not recognised.
	ErrInvalidTargetKind = zerr.New("invalid target kind, expected 'program' or 'shared_library'")

	// ErrNoSources is returned when a target declares no source files.
	ErrNoSources = zerr.New("target has no sources")

	// ErrInputNotFound is returned when a declared source file or pattern matches nothing.
	ErrInputNotFound = zerr.New("input not found")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedVersion is returned when the recipe file declares an unknown format version.
	ErrUnsupportedVersion = zerr.New("unsupported recipe version")

	// ErrRecipeExists is returned by init when a recipe file is already present.
	ErrRecipeExists = zerr.New("recipe file already exists")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrPrerequisiteMissing is returned when a build-order prerequisite is neither produced nor present.
	ErrPrerequisiteMissing = zerr.New("build prerequisite not found")

	// ErrInstallFailed is returned when copying an artifact into the install tree fails.
	ErrInstallFailed = zerr.New("failed to install artifact")

	// ErrUninstallFailed is returned when removing an installed artifact fails.
	ErrUninstallFailed = zerr.New("failed to uninstall artifact")

	// ErrStoreCreateFailed is returned when the build info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build info store directory")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")
)

// keyError reports a configuration problem for key, keeping the sentinel in the chain.
func keyError(sentinel error, key string) error {
	return zerr.With(zerr.Wrap(sentinel, key), "key", key)
}
