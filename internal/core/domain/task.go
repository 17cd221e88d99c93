package domain

// TaskKind identifies which adapter carries out a task.
type TaskKind string

const (
	// TaskCompile runs the toolchain to produce an artifact.
	TaskCompile TaskKind = "compile"
	// TaskInstall copies its single input to its single output.
	TaskInstall TaskKind = "install"
	// TaskUninstall removes the installed file named by its single input.
	TaskUninstall TaskKind = "uninstall"
)

// Task represents a unit of work in the build graph.
// It uses InternedString for fields that are frequently repeated to save memory.
type Task struct {
	Name         InternedString
	Kind         TaskKind
	Command      []string
	Inputs       []InternedString
	Outputs      []InternedString
	Dependencies []InternedString
	// Prerequisites are file paths that must exist before the task runs.
	// Validate turns those produced inside the graph into dependencies.
	Prerequisites []InternedString
	Environment   map[string]string
	WorkingDir    InternedString
}
