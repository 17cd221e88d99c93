package app

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/recipe/internal/adapters/watcher" //nolint:depguard // Debouncer is shared infrastructure
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/engine/recipe"
	"golang.org/x/sync/errgroup"
)

// watchSet holds the files whose change triggers a rebuild.
type watchSet struct {
	mu    sync.RWMutex
	files map[string]bool
}

func (w *watchSet) reset(configPath string, plan *recipe.Plan) {
	files := make(map[string]bool)
	if abs, err := filepath.Abs(configPath); err == nil {
		files[abs] = true
	}
	for task := range plan.Graph.Walk() {
		if task.Kind != domain.TaskCompile {
			continue
		}
		for _, in := range task.Inputs {
			files[in.String()] = true
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files = files
}

func (w *watchSet) contains(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[abs]
}

func (w *watchSet) dirs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var dirs []string
	for file := range w.files {
		dir := filepath.Dir(file)
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs)
	return dirs
}

// Watch builds once, then rebuilds whenever the recipe file or a source of a
// compile task changes. It returns when ctx is cancelled.
//
// Build failures after the first successful load are logged, not returned.
func (a *App) Watch(ctx context.Context, args []string, opts RunOptions) error {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = domain.RecipeFileName
	}

	plan, err := a.build(ctx, args, opts)
	if plan == nil {
		return err
	}
	if err != nil {
		a.logger.Error(err)
	}

	var set watchSet
	set.reset(configPath, plan)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.watcher.Start(ctx, set.dirs()); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	a.logger.Info("watching for changes")

	g, ctx := errgroup.WithContext(ctx)
	changes := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		select {
		case changes <- paths:
		case <-ctx.Done():
		}
	})

	g.Go(func() error {
		defer cancel()
		defer debouncer.Stop()
		for event := range a.watcher.Events() {
			if set.contains(event.Path) {
				debouncer.Add(event.Path)
			}
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case paths := <-changes:
				a.logger.Info(fmt.Sprintf("%s changed, rebuilding", describeChanges(paths)))
				plan, err := a.build(ctx, args, opts)
				if err != nil {
					a.logger.Error(err)
				}
				if plan != nil {
					set.reset(configPath, plan)
				}
			}
		}
	})

	return g.Wait()
}

func describeChanges(paths []string) string {
	if len(paths) == 1 {
		return filepath.Base(paths[0])
	}
	return fmt.Sprintf("%d files", len(paths))
}
