package recipe

import (
	"path/filepath"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
)

// Plan is the outcome of one configuration pass: every descriptor and the
// validated graph built from them.
type Plan struct {
	Root        string
	Settings    domain.Settings
	Descriptors []*domain.TargetDescriptor
	Graph       *domain.Graph
	// Targets are the command-line targets the plan was built for.
	Targets []string
}

// Tasks returns the tasks the plan's command-line targets require, in execution order.
func (p *Plan) Tasks() ([]domain.Task, error) {
	targets := make([]string, 0, len(p.Targets))
	for _, target := range p.Targets {
		targets = append(targets, p.normalizeTarget(target))
	}
	return p.Graph.Resolve(targets)
}

// Rel returns path relative to the plan root, or path itself when it lies elsewhere.
func (p *Plan) Rel(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil || !filepath.IsLocal(rel) {
		return path
	}
	return rel
}

// normalizeTarget anchors relative paths at the root; aliases and task names pass through.
func (p *Plan) normalizeTarget(target string) string {
	if filepath.IsAbs(target) || p.Graph.HasTask(target) || len(p.Graph.Alias(target)) > 0 {
		return target
	}
	return filepath.Join(p.Root, target)
}

// Planner lowers a loaded recipe into a Plan.
type Planner struct {
	resolver ports.InputResolver
}

// NewPlanner creates a new Planner.
func NewPlanner(resolver ports.InputResolver) *Planner {
	return &Planner{resolver: resolver}
}

// Plan assembles every target of r, adds its compile, install and uninstall
// tasks, and validates the resulting graph.
//
// All paths in the graph are absolute. Compile tasks are named by their
// output path relative to the root.
func (p *Planner) Plan(r *domain.Recipe, targets []string) (*Plan, error) {
	root, err := filepath.Abs(r.Root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve recipe root"), "path", r.Root)
	}

	settings := r.Settings
	if !filepath.IsAbs(settings.InstallPrefix) {
		settings.InstallPrefix = filepath.Join(root, settings.InstallPrefix)
	}

	plan := &Plan{
		Root:        root,
		Settings:    settings,
		Descriptors: make([]*domain.TargetDescriptor, 0, len(r.Targets)),
		Graph:       domain.NewGraph(),
		Targets:     targets,
	}

	for i := range r.Targets {
		spec := r.Targets[i]
		spec.Dir = filepath.Join(root, spec.Dir)

		desc, err := p.describe(r.Environment, &settings, &spec)
		if err != nil {
			return nil, zerr.With(err, "target", spec.Name)
		}
		plan.Descriptors = append(plan.Descriptors, desc)

		compile := &domain.Task{
			Name:          domain.NewInternedString(plan.Rel(desc.Output)),
			Kind:          domain.TaskCompile,
			Command:       CommandLine(desc),
			Inputs:        domain.InternAll(desc.Sources),
			Outputs:       domain.InternAll([]string{desc.Output}),
			Prerequisites: domain.InternAll(desc.Prerequisites),
			WorkingDir:    domain.NewInternedString(root),
		}
		if err := plan.Graph.AddTask(compile); err != nil {
			return nil, zerr.With(err, "target", spec.Name)
		}

		if desc.Install {
			if err := RegisterInstall(plan.Graph, desc, &settings, targets); err != nil {
				return nil, zerr.With(err, "target", spec.Name)
			}
		}
	}

	if err := plan.Graph.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// describe assembles one descriptor and expands its source patterns.
func (p *Planner) describe(
	parent *domain.Environment,
	settings *domain.Settings,
	spec *domain.TargetSpec,
) (*domain.TargetDescriptor, error) {
	desc, err := Assemble(parent, settings, spec)
	if err != nil {
		return nil, err
	}
	sources, err := p.resolver.ResolveInputs(desc.Sources, "")
	if err != nil {
		return nil, err
	}
	desc.Sources = sources
	return desc, nil
}
