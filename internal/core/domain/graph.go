// Package domain contains the core domain models of the recipe engine: environments,
// target descriptors and the task graph they are lowered into.
package domain

import (
	"iter"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph represents a dependency graph of tasks plus the aliases that group them.
type Graph struct {
	tasks          map[InternedString]Task
	producers      map[InternedString]InternedString
	aliases        map[string][]InternedString
	dependents     map[InternedString][]InternedString
	executionOrder []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks:     make(map[InternedString]Task),
		producers: make(map[InternedString]InternedString),
		aliases:   make(map[string][]InternedString),
	}
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same name, or a task producing one of
// the same outputs, already exists.
func (g *Graph) AddTask(t *Task) error {
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(zerr.Wrap(ErrTaskAlreadyExists, t.Name.String()), "task_name", t.Name.String())
	}
	for _, out := range t.Outputs {
		if owner, taken := g.producers[out]; taken {
			err := zerr.With(zerr.Wrap(ErrDuplicateOutput, out.String()), "output", out.String())
			return zerr.With(err, "task_name", owner.String())
		}
	}
	for _, out := range t.Outputs {
		g.producers[out] = t.Name
	}
	g.tasks[t.Name] = *t
	return nil
}

// HasTask reports whether a task with the given name exists.
func (g *Graph) HasTask(name string) bool {
	_, ok := g.tasks[NewInternedString(name)]
	return ok
}

// Task returns the task with the given name.
func (g *Graph) Task(name string) (Task, bool) {
	t, ok := g.tasks[NewInternedString(name)]
	return t, ok
}

// Producer returns the task that outputs path, if any.
func (g *Graph) Producer(path string) (InternedString, bool) {
	name, ok := g.producers[NewInternedString(filepath.Clean(path))]
	return name, ok
}

// AddAlias registers path under alias.
// Registering the same path twice is a no-op.
func (g *Graph) AddAlias(alias, path string) {
	p := NewInternedString(path)
	if slices.Contains(g.aliases[alias], p) {
		return
	}
	g.aliases[alias] = append(g.aliases[alias], p)
}

// Alias returns the paths registered under alias, in registration order.
func (g *Graph) Alias(alias string) []string {
	return Strings(g.aliases[alias])
}

// AliasNames returns all registered alias names in sorted order.
func (g *Graph) AliasNames() []string {
	return slices.Sorted(maps.Keys(g.aliases))
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Validate binds prerequisites to their producing tasks, checks that every
// dependency exists and that the graph is acyclic, and fixes the execution order.
// Tasks are visited in name order so the resulting order is deterministic.
func (g *Graph) Validate() error {
	names := g.sortedNames()

	for _, name := range names {
		task := g.tasks[name]
		for _, pre := range task.Prerequisites {
			producer, ok := g.producers[pre]
			if !ok || producer == name || slices.Contains(task.Dependencies, producer) {
				continue
			}
			task.Dependencies = append(task.Dependencies, producer)
		}
		g.tasks[name] = task
	}

	g.dependents = make(map[InternedString][]InternedString, len(g.tasks))
	for _, name := range names {
		for _, dep := range g.tasks[name].Dependencies {
			if _, ok := g.tasks[dep]; !ok {
				err := zerr.With(zerr.Wrap(ErrMissingDependency, dep.String()), "dependency", dep.String())
				return zerr.With(err, "task_name", name.String())
			}
			g.dependents[dep] = append(g.dependents[dep], name)
		}
	}

	g.executionOrder = make([]InternedString, 0, len(g.tasks))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		for _, dep := range g.tasks[u].Dependencies {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for _, name := range names {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	startIdx := slices.Index(path, dep)
	parts := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		parts = append(parts, node.String())
	}
	parts = append(parts, dep.String())
	return zerr.With(zerr.Wrap(ErrCycleDetected, "invalid graph"), "cycle", strings.Join(parts, " -> "))
}

// Walk returns an iterator that yields tasks in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}

// Dependents returns the tasks that depend directly on name.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Dependents(name InternedString) []InternedString {
	return g.dependents[name]
}

// Resolve expands command-line targets into the tasks they require, in execution order.
//
// A target may name an alias, a task, or a path: a path selects the task
// producing it or every task producing something beneath it. No targets
// selects every compile task. It assumes Validate() has been called.
func (g *Graph) Resolve(targets []string) ([]Task, error) {
	var roots []InternedString
	if len(targets) == 0 {
		for _, name := range g.executionOrder {
			if g.tasks[name].Kind == TaskCompile {
				roots = append(roots, name)
			}
		}
	}

	for _, target := range targets {
		if paths, ok := g.aliases[target]; ok {
			for _, p := range paths {
				roots = append(roots, g.matchPath(p.String())...)
			}
			continue
		}
		matched := g.matchPath(target)
		if len(matched) == 0 {
			return nil, zerr.With(zerr.Wrap(ErrUnknownTarget, target), "target", target)
		}
		roots = append(roots, matched...)
	}

	required := make(map[InternedString]bool)
	var mark func(name InternedString)
	mark = func(name InternedString) {
		if required[name] {
			return
		}
		required[name] = true
		for _, dep := range g.tasks[name].Dependencies {
			mark(dep)
		}
	}
	for _, root := range roots {
		mark(root)
	}

	selected := make([]Task, 0, len(required))
	for _, name := range g.executionOrder {
		if required[name] {
			selected = append(selected, g.tasks[name])
		}
	}
	return selected, nil
}

// matchPath returns the task named p, or the tasks whose outputs are p or lie beneath it.
func (g *Graph) matchPath(p string) []InternedString {
	if name := NewInternedString(p); g.tasks[name].Name == name {
		return []InternedString{name}
	}

	clean := filepath.Clean(p)
	if producer, ok := g.producers[NewInternedString(clean)]; ok {
		return []InternedString{producer}
	}

	prefix := clean + string(filepath.Separator)
	var matched []InternedString
	for _, name := range g.executionOrder {
		for _, out := range g.tasks[name].Outputs {
			if strings.HasPrefix(out.String(), prefix) {
				matched = append(matched, name)
				break
			}
		}
	}
	return matched
}

func (g *Graph) sortedNames() []InternedString {
	names := slices.Collect(maps.Keys(g.tasks))
	slices.SortFunc(names, func(a, b InternedString) int {
		return strings.Compare(a.String(), b.String())
	})
	return names
}
