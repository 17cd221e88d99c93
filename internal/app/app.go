// Package app implements the application layer for recipe.
package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/recipe/internal/engine/recipe"
	"go.trai.ch/recipe/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	planner      *recipe.Planner
	scheduler    *scheduler.Scheduler
	watcher      ports.Watcher
	telemetry    ports.Telemetry
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	planner *recipe.Planner,
	sched *scheduler.Scheduler,
	watcher ports.Watcher,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		planner:      planner,
		scheduler:    sched,
		watcher:      watcher,
		telemetry:    telemetry,
		logger:       log,
	}
}

// RunOptions configuration for the Run, Plan and Watch methods.
type RunOptions struct {
	// ConfigPath is the recipe file to load. Empty means recipe.yaml in the working directory.
	ConfigPath string
	Jobs       int
	Force      bool
	DryRun     bool
}

var overridePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

// ParseArgs splits command-line arguments into targets and KEY=VALUE overrides.
// A later override of the same key wins.
func ParseArgs(args []string) (targets []string, overrides map[string]string) {
	targets = []string{}
	overrides = make(map[string]string)
	for _, arg := range args {
		if overridePattern.MatchString(arg) {
			key, value, _ := strings.Cut(arg, "=")
			overrides[key] = value
			continue
		}
		targets = append(targets, arg)
	}
	return targets, overrides
}

// Run loads the recipe, plans the requested targets and executes them.
func (a *App) Run(ctx context.Context, args []string, opts RunOptions) error {
	_, err := a.build(ctx, args, opts)
	return err
}

// Close flushes telemetry.
func (a *App) Close() error {
	return a.telemetry.Close()
}

// build runs one full load-plan-execute cycle and returns the plan it executed.
func (a *App) build(ctx context.Context, args []string, opts RunOptions) (*recipe.Plan, error) {
	plan, err := a.plan(args, opts)
	if err != nil {
		return nil, err
	}

	tasks, err := plan.Tasks()
	if err != nil {
		return plan, err
	}

	schedOpts := scheduler.Options{Jobs: opts.Jobs, Force: opts.Force, DryRun: opts.DryRun}
	if err := a.scheduler.Run(ctx, plan.Graph, tasks, schedOpts); err != nil {
		return plan, zerr.Wrap(err, domain.ErrBuildExecutionFailed.Error())
	}

	a.logger.Info(summarize(a.scheduler.Summary()))
	return plan, nil
}

func (a *App) plan(args []string, opts RunOptions) (*recipe.Plan, error) {
	targets, overrides := ParseArgs(args)

	r, err := a.configLoader.Load(opts.ConfigPath, overrides)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	plan, err := a.planner.Plan(r, targets)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to plan build")
	}
	return plan, nil
}

func summarize(counts map[domain.VertexStatus]int) string {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return "nothing to do"
	}

	parts := make([]string, 0, 4)
	for _, c := range []struct {
		status domain.VertexStatus
		label  string
	}{
		{domain.VertexStatusCompleted, "done"},
		{domain.VertexStatusCached, "up to date"},
		{domain.VertexStatusSkipped, "skipped"},
	} {
		if n := counts[c.status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, c.label))
		}
	}
	noun := "tasks"
	if total == 1 {
		noun = "task"
	}
	return fmt.Sprintf("%d %s: %s", total, noun, strings.Join(parts, ", "))
}
