package domain

import "path/filepath"

// TargetKind selects what a target links into.
type TargetKind string

const (
	// KindProgram links an executable.
	KindProgram TargetKind = "program"
	// KindSharedLibrary links a shared object.
	KindSharedLibrary TargetKind = "shared_library"
)

// Reserved alias names registered by install and uninstall steps.
const (
	AliasInstall   = "install"
	AliasUninstall = "uninstall"
)

// DefaultCoreLibrary is the prerequisite template used by program targets,
// relative to the target directory.
const DefaultCoreLibrary = "../../src/${MAPNIK_LIB_NAME}"

// Features holds the optional backends a target is compiled with.
type Features struct {
	Cairo bool
}

// TargetSpec is the declared, not yet assembled, form of one target.
type TargetSpec struct {
	Name    string
	Kind    TargetKind
	Dir     string
	Sources []string
	// CoreLibrary is a substitution template naming the library artifact this
	// target must be ordered after. Empty means no such dependency.
	CoreLibrary string
	Features    Features
	Install     bool
}

// TargetDescriptor is everything the orchestrator needs to produce one artifact.
type TargetDescriptor struct {
	Name          string
	Kind          TargetKind
	Dir           string
	Sources       []string
	Env           *Environment
	Libs          []string
	Output        string
	Prerequisites []string
	Install       bool
}

// InstallAction copies a built artifact into the install tree.
type InstallAction struct {
	Target string
	Source string
	Dest   string
}

// NewInstallAction derives the install action of desc under prefix.
// Programs go to <prefix>/bin/<name>, shared libraries to <prefix>/lib/<file>.
func NewInstallAction(desc *TargetDescriptor, prefix string) InstallAction {
	dest := filepath.Join(InstallBinDir(prefix), desc.Name)
	if desc.Kind == KindSharedLibrary {
		dest = filepath.Join(InstallLibDir(prefix), filepath.Base(desc.Output))
	}
	return InstallAction{
		Target: desc.Name,
		Source: desc.Output,
		Dest:   dest,
	}
}

// InstallBinDir returns the directory the install alias points at.
func InstallBinDir(prefix string) string {
	return filepath.Join(prefix, "bin")
}

// InstallLibDir returns the directory shared libraries are installed into.
func InstallLibDir(prefix string) string {
	return filepath.Join(prefix, "lib")
}

// Recipe is a loaded recipe file: its root, parent environment, settings and targets.
type Recipe struct {
	Root        string
	Environment *Environment
	Settings    Settings
	Targets     []TargetSpec
}
