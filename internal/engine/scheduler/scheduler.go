// Package scheduler implements the task execution scheduler.
package scheduler

import (
	"context"
	"errors"
	"maps"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options control a single scheduler run.
type Options struct {
	// Jobs is the maximum number of tasks run at once. Zero or less means NumCPU.
	Jobs int
	// Force rebuilds compile tasks even when their signature is unchanged.
	Force bool
	// DryRun reports what would run without touching the file system.
	DryRun bool
}

// Scheduler manages the execution of tasks in the dependency graph.
type Scheduler struct {
	executor  ports.Executor
	installer ports.Installer
	hasher    ports.Hasher
	store     ports.BuildInfoStore
	verifier  ports.Verifier
	telemetry ports.Telemetry
	logger    ports.Logger

	mu         sync.RWMutex
	taskStatus map[domain.InternedString]domain.VertexStatus
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	executor ports.Executor,
	installer ports.Installer,
	hasher ports.Hasher,
	store ports.BuildInfoStore,
	verifier ports.Verifier,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		executor:   executor,
		installer:  installer,
		hasher:     hasher,
		store:      store,
		verifier:   verifier,
		telemetry:  telemetry,
		logger:     logger,
		taskStatus: make(map[domain.InternedString]domain.VertexStatus),
	}
}

// Statuses returns the status of every task of the last run, keyed by task name.
func (s *Scheduler) Statuses() map[string]domain.VertexStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make(map[string]domain.VertexStatus, len(s.taskStatus))
	for name, status := range s.taskStatus {
		statuses[name.String()] = status
	}
	return statuses
}

func (s *Scheduler) initTaskStatuses(tasks []domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.taskStatus)
	for i := range tasks {
		s.taskStatus[tasks[i].Name] = domain.VertexStatusPending
	}
}

func (s *Scheduler) updateStatus(name domain.InternedString, status domain.VertexStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

// Run executes tasks, a dependency-closed selection of graph, honouring their
// dependencies. Independent tasks run in parallel up to opts.Jobs.
//
// A failed task stops its dependents; unrelated tasks keep running. All task
// errors are joined into the returned error.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, tasks []domain.Task, opts Options) error {
	s.initTaskStatuses(tasks)
	return s.newRunState(ctx, graph, tasks, opts).runExecutionLoop()
}

type result struct {
	task   domain.InternedString
	status domain.VertexStatus
	err    error
}

type schedulerRunState struct {
	graph       *domain.Graph
	inDegree    map[domain.InternedString]int
	tasks       map[domain.InternedString]domain.Task
	ready       []domain.InternedString
	active      int
	resultsCh   chan result
	errs        error
	ctx         context.Context
	parallelism int
	opts        Options
	s           *Scheduler
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	graph *domain.Graph,
	selected []domain.Task,
	opts Options,
) *schedulerRunState {
	parallelism := opts.Jobs
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	tasks := make(map[domain.InternedString]domain.Task, len(selected))
	for i := range selected {
		tasks[selected[i].Name] = selected[i]
	}

	inDegree := make(map[domain.InternedString]int, len(tasks))
	var ready []domain.InternedString
	// Seed the ready queue in execution order so runs are reproducible with one job.
	for i := range selected {
		name := selected[i].Name
		degree := 0
		for _, dep := range selected[i].Dependencies {
			if _, ok := tasks[dep]; ok {
				degree++
			}
		}
		inDegree[name] = degree
		if degree == 0 {
			ready = append(ready, name)
		}
	}

	return &schedulerRunState{
		graph:       graph,
		inDegree:    inDegree,
		tasks:       tasks,
		ready:       ready,
		resultsCh:   make(chan result, parallelism),
		ctx:         ctx,
		parallelism: parallelism,
		opts:        opts,
		s:           s,
	}
}

func (state *schedulerRunState) runExecutionLoop() error {
	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil {
			if state.active == 0 {
				return errors.Join(state.errs, state.ctx.Err())
			}
			// Nothing new is scheduled once cancelled; wait for running tasks.
			state.handleResult(<-state.resultsCh)
			continue
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return state.errs
}

func (state *schedulerRunState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *schedulerRunState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		taskName := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(taskName, domain.VertexStatusRunning)

		t := state.tasks[taskName]
		go state.executeTask(&t)
	}
}

func (state *schedulerRunState) executeTask(t *domain.Task) {
	// The vertex is completed before the result is sent so that telemetry
	// never outlives the run loop.
	res := func() result {
		ctx, vertex := state.s.telemetry.Record(state.ctx, t.Name.String(), ports.WithKind(t.Kind))

		status, err := state.runTask(ctx, vertex, t)
		if status == domain.VertexStatusCached {
			vertex.Cached()
		}
		vertex.Complete(err)

		return result{task: t.Name, status: status, err: err}
	}()

	state.resultsCh <- res
}

func (state *schedulerRunState) runTask(ctx context.Context, vertex ports.Vertex, t *domain.Task) (domain.VertexStatus, error) {
	if err := state.checkPrerequisites(t); err != nil {
		if !state.opts.DryRun {
			return domain.VertexStatusFailed, err
		}
		state.s.logger.Warn(err.Error())
	}

	switch t.Kind {
	case domain.TaskCompile:
		return state.compile(ctx, vertex, t)
	case domain.TaskInstall:
		return state.install(ctx, vertex, t)
	case domain.TaskUninstall:
		return state.uninstall(ctx, vertex, t)
	default:
		return domain.VertexStatusFailed, zerr.With(zerr.New("unknown task kind"), "kind", string(t.Kind))
	}
}

// checkPrerequisites fails when a prerequisite is neither produced in the graph nor present on disk.
func (state *schedulerRunState) checkPrerequisites(t *domain.Task) error {
	for _, pre := range t.Prerequisites {
		path := pre.String()
		if _, produced := state.graph.Producer(path); produced {
			continue
		}
		ok, err := state.s.verifier.VerifyOutputs([]string{path})
		if err != nil {
			return err
		}
		if !ok {
			return zerr.With(zerr.Wrap(domain.ErrPrerequisiteMissing, path), "path", path)
		}
	}
	return nil
}

func (state *schedulerRunState) compile(ctx context.Context, vertex ports.Vertex, t *domain.Task) (domain.VertexStatus, error) {
	command := strings.Join(t.Command, " ")
	if state.opts.DryRun {
		state.s.logger.Info(command)
		return domain.VertexStatusSkipped, nil
	}

	signature, err := state.s.hasher.ComputeSignature(ctx, t)
	if err != nil {
		return domain.VertexStatusFailed, err
	}

	if !state.opts.Force {
		hit, err := state.checkCacheHit(t, signature)
		if err != nil {
			return domain.VertexStatusFailed, err
		}
		if hit {
			vertex.Log(domain.LogLevelInfo, "up to date")
			return domain.VertexStatusCached, nil
		}
	}

	state.s.logger.Info("compiling " + t.Name.String())
	vertex.Log(domain.LogLevelInfo, command)
	if err := state.s.executor.Execute(ctx, t); err != nil {
		return domain.VertexStatusFailed, err
	}

	info := domain.BuildInfo{
		TaskName:  t.Name.String(),
		Signature: signature,
		Outputs:   domain.Strings(t.Outputs),
		Timestamp: time.Now(),
	}
	if err := state.s.store.Put(info); err != nil {
		state.s.logger.Warn("failed to record build signature for " + t.Name.String() + ": " + err.Error())
	}
	return domain.VertexStatusCompleted, nil
}

// checkCacheHit reports whether the stored signature matches and every output still exists.
func (state *schedulerRunState) checkCacheHit(t *domain.Task, signature string) (bool, error) {
	info, err := state.s.store.Get(t.Name.String())
	if err != nil {
		return false, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	if info == nil || info.Signature != signature {
		return false, nil
	}
	return state.s.verifier.VerifyOutputs(domain.Strings(t.Outputs))
}

func (state *schedulerRunState) install(ctx context.Context, vertex ports.Vertex, t *domain.Task) (domain.VertexStatus, error) {
	src, dest := first(t.Inputs), first(t.Outputs)
	msg := "installing " + src + " -> " + dest
	state.s.logger.Info(msg)
	if state.opts.DryRun {
		return domain.VertexStatusSkipped, nil
	}

	vertex.Log(domain.LogLevelInfo, msg)
	if err := state.s.installer.Install(ctx, src, dest); err != nil {
		return domain.VertexStatusFailed, err
	}
	return domain.VertexStatusCompleted, nil
}

func (state *schedulerRunState) uninstall(ctx context.Context, vertex ports.Vertex, t *domain.Task) (domain.VertexStatus, error) {
	path := first(t.Inputs)
	msg := "removing " + path
	state.s.logger.Info(msg)
	if state.opts.DryRun {
		return domain.VertexStatusSkipped, nil
	}

	vertex.Log(domain.LogLevelInfo, msg)
	if err := state.s.installer.Uninstall(ctx, path); err != nil {
		return domain.VertexStatusFailed, err
	}
	return domain.VertexStatusCompleted, nil
}

func (state *schedulerRunState) handleResult(res result) {
	state.active--
	state.s.updateStatus(res.task, res.status)

	if res.err != nil {
		wrapped := zerr.With(zerr.Wrap(res.err, domain.ErrTaskExecutionFailed.Error()), "task", res.task.String())
		state.errs = errors.Join(state.errs, wrapped)
		return
	}

	for _, dep := range state.graph.Dependents(res.task) {
		// Only dependents that are part of this run are released.
		if _, ok := state.tasks[dep]; ok {
			state.inDegree[dep]--
			if state.inDegree[dep] == 0 {
				state.ready = append(state.ready, dep)
			}
		}
	}
}

func first(values []domain.InternedString) string {
	if len(values) == 0 {
		return ""
	}
	return values[0].String()
}

// Summary counts the statuses of the last run.
func (s *Scheduler) Summary() map[domain.VertexStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.VertexStatus]int)
	for status := range maps.Values(s.taskStatus) {
		counts[status]++
	}
	return counts
}
