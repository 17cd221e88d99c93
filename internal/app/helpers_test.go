package app_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/adapters/telemetry"
	"go.trai.ch/recipe/internal/app"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports/mocks"
	"go.trai.ch/recipe/internal/engine/recipe"
	"go.trai.ch/recipe/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

const root = "/work/mapnik"

type appMocks struct {
	loader    *mocks.MockConfigLoader
	resolver  *mocks.MockInputResolver
	executor  *mocks.MockExecutor
	installer *mocks.MockInstaller
	hasher    *mocks.MockHasher
	store     *mocks.MockBuildInfoStore
	verifier  *mocks.MockVerifier
	watcher   *mocks.MockWatcher
	logger    *mocks.MockLogger
}

// setupApp wires a real planner and scheduler around mocked adapters.
// Sources resolve to themselves.
func setupApp(t *testing.T) (*app.App, appMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := appMocks{
		loader:    mocks.NewMockConfigLoader(ctrl),
		resolver:  mocks.NewMockInputResolver(ctrl),
		executor:  mocks.NewMockExecutor(ctrl),
		installer: mocks.NewMockInstaller(ctrl),
		hasher:    mocks.NewMockHasher(ctrl),
		store:     mocks.NewMockBuildInfoStore(ctrl),
		verifier:  mocks.NewMockVerifier(ctrl),
		watcher:   mocks.NewMockWatcher(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}
	m.resolver.EXPECT().ResolveInputs(gomock.Any(), "").DoAndReturn(
		func(inputs []string, _ string) ([]string, error) {
			return inputs, nil
		},
	).AnyTimes()

	tel := telemetry.NewNoOp()
	sched := scheduler.NewScheduler(m.executor, m.installer, m.hasher, m.store, m.verifier, tel, m.logger)
	a := app.New(m.loader, recipe.NewPlanner(m.resolver), sched, m.watcher, tel, m.logger)
	return a, m
}

// mapnikRecipe declares the core library and one utility linked against it.
func mapnikRecipe(t *testing.T) *domain.Recipe {
	t.Helper()
	env := domain.NewEnvironment()
	env.Set(domain.KeyLibMapnikCXXFlags, "-O2", "-std=c++14")
	env.Set(domain.KeyLibMapnikDefines, "-DMAPNIK_THREADSAFE")
	env.Set(domain.KeyLibMapnikLibs, "png", "icuuc")
	env.Set(domain.KeyMapnikName, "mapnik")
	env.Set(domain.KeyMapnikLibName, "libmapnik.so")
	env.Set(domain.KeyBoostAppend, "-mt")
	env.Set(domain.KeyRuntimeLink, "shared")
	env.Set(domain.KeyPlatform, "Linux")
	env.Set(domain.KeyInstallPrefix, "/usr/local")

	settings, err := domain.ParseSettings(env)
	require.NoError(t, err)

	return &domain.Recipe{
		Root:        root,
		Environment: env,
		Settings:    settings,
		Targets: []domain.TargetSpec{
			{
				Name:    "mapnik",
				Kind:    domain.KindSharedLibrary,
				Dir:     "src",
				Sources: []string{"map.cpp", "layer.cpp"},
			},
			{
				Name:        "nik2img",
				Kind:        domain.KindProgram,
				Dir:         "utils/nik2img",
				Sources:     []string{"nik2img.cpp"},
				CoreLibrary: domain.DefaultCoreLibrary,
				Install:     true,
			},
		},
	}
}

// taskMatcher implements gomock.Matcher for domain.Task.
type taskMatcher struct {
	name string
}

func (m taskMatcher) Matches(x any) bool {
	t, ok := x.(*domain.Task)
	if !ok {
		return false
	}
	return t.Name.String() == m.name
}

func (m taskMatcher) String() string {
	return "task name is " + m.name
}

func matchTask(name string) gomock.Matcher {
	return taskMatcher{name: name}
}
