package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/app"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		wantTargets   []string
		wantOverrides map[string]string
	}{
		{
			name:          "empty",
			args:          nil,
			wantTargets:   []string{},
			wantOverrides: map[string]string{},
		},
		{
			name:          "targets only",
			args:          []string{"install", "utils/nik2img"},
			wantTargets:   []string{"install", "utils/nik2img"},
			wantOverrides: map[string]string{},
		},
		{
			name:        "mixed",
			args:        []string{"BOOST_APPEND=-mt", "install", "CXXFLAGS=-O3 -g"},
			wantTargets: []string{"install"},
			wantOverrides: map[string]string{
				"BOOST_APPEND": "-mt",
				"CXXFLAGS":     "-O3 -g",
			},
		},
		{
			name:          "empty value",
			args:          []string{"BOOST_APPEND="},
			wantTargets:   []string{},
			wantOverrides: map[string]string{"BOOST_APPEND": ""},
		},
		{
			name:          "later override wins",
			args:          []string{"PLATFORM=Linux", "PLATFORM=Darwin"},
			wantTargets:   []string{},
			wantOverrides: map[string]string{"PLATFORM": "Darwin"},
		},
		{
			name:          "not a key",
			args:          []string{"=x", "1X=2", "out/a=b"},
			wantTargets:   []string{"=x", "1X=2", "out/a=b"},
			wantOverrides: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			targets, overrides := app.ParseArgs(tt.args)
			assert.Equal(t, tt.wantTargets, targets)
			assert.Equal(t, tt.wantOverrides, overrides)
		})
	}
}

func TestApp_Run_Build(t *testing.T) {
	a, m := setupApp(t)
	m.loader.EXPECT().Load("", map[string]string{}).Return(mapnikRecipe(t), nil)
	m.hasher.EXPECT().ComputeSignature(gomock.Any(), gomock.Any()).Return("sig", nil).Times(2)
	m.store.EXPECT().Get(gomock.Any()).Return(nil, nil).Times(2)
	m.store.EXPECT().Put(gomock.Any()).Return(nil).Times(2)
	gomock.InOrder(
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("src/libmapnik.so")).Return(nil),
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("utils/nik2img/nik2img")).Return(nil),
	)
	m.logger.EXPECT().Info("2 tasks: 2 done")
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	require.NoError(t, a.Run(context.Background(), nil, app.RunOptions{Jobs: 2}))
}

func TestApp_Run_Install(t *testing.T) {
	a, m := setupApp(t)
	m.loader.EXPECT().Load("recipe.yaml", map[string]string{}).Return(mapnikRecipe(t), nil)
	m.hasher.EXPECT().ComputeSignature(gomock.Any(), gomock.Any()).Return("sig", nil).Times(2)
	m.store.EXPECT().Get(gomock.Any()).Return(nil, nil).Times(2)
	m.store.EXPECT().Put(gomock.Any()).Return(nil).Times(2)
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	m.installer.EXPECT().Install(gomock.Any(), root+"/utils/nik2img/nik2img", "/usr/local/bin/nik2img").Return(nil)
	m.logger.EXPECT().Info("3 tasks: 3 done")
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	err := a.Run(context.Background(), []string{"install"}, app.RunOptions{ConfigPath: "recipe.yaml"})
	require.NoError(t, err)
}

func TestApp_Run_Uninstall(t *testing.T) {
	a, m := setupApp(t)
	overrides := map[string]string{"INSTALL_PREFIX": "/usr/local"}
	m.loader.EXPECT().Load("", overrides).Return(mapnikRecipe(t), nil)
	m.installer.EXPECT().Uninstall(gomock.Any(), "/usr/local/bin/nik2img").Return(nil)
	m.logger.EXPECT().Info("1 task: 1 done")
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	err := a.Run(context.Background(), []string{"uninstall", "INSTALL_PREFIX=/usr/local"}, app.RunOptions{})
	require.NoError(t, err)
}

func TestApp_Run_DryRun(t *testing.T) {
	a, m := setupApp(t)
	m.loader.EXPECT().Load("", map[string]string{}).Return(mapnikRecipe(t), nil)
	m.logger.EXPECT().Info("3 tasks: 3 skipped")
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	err := a.Run(context.Background(), []string{"install"}, app.RunOptions{DryRun: true})
	require.NoError(t, err)
}

func TestApp_Run_NothingToDo(t *testing.T) {
	a, m := setupApp(t)
	r := mapnikRecipe(t)
	r.Targets = nil
	m.loader.EXPECT().Load("", map[string]string{}).Return(r, nil)
	m.logger.EXPECT().Info("nothing to do")

	require.NoError(t, a.Run(context.Background(), nil, app.RunOptions{}))
}

func TestApp_Run_LoadError(t *testing.T) {
	a, m := setupApp(t)
	m.loader.EXPECT().Load("", map[string]string{}).
		Return(nil, zerr.Wrap(domain.ErrConfigReadFailed, "recipe.yaml"))

	err := a.Run(context.Background(), nil, app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrConfigReadFailed)
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestApp_Run_UnknownTarget(t *testing.T) {
	a, m := setupApp(t)
	m.loader.EXPECT().Load("", map[string]string{}).Return(mapnikRecipe(t), nil)

	err := a.Run(context.Background(), []string{"utils/shapeindex"}, app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrUnknownTarget)
}

func TestApp_Run_BuildFailure(t *testing.T) {
	a, m := setupApp(t)
	m.loader.EXPECT().Load("", map[string]string{}).Return(mapnikRecipe(t), nil)
	m.hasher.EXPECT().ComputeSignature(gomock.Any(), gomock.Any()).Return("sig", nil)
	m.store.EXPECT().Get(gomock.Any()).Return(nil, nil)
	m.executor.EXPECT().Execute(gomock.Any(), matchTask("src/libmapnik.so")).Return(errors.New("exit status 1"))
	m.logger.EXPECT().Info("compiling src/libmapnik.so")

	err := a.Run(context.Background(), nil, app.RunOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrBuildExecutionFailed.Error())
	assert.ErrorContains(t, err, "exit status 1")
}

func TestApp_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	tel.EXPECT().Close().Return(nil)

	a := app.New(nil, nil, nil, nil, tel, mocks.NewMockLogger(ctrl))
	require.NoError(t, a.Close())
}
