package app_test

import (
	"context"
	"iter"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/app"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.uber.org/mock/gomock"
)

func TestApp_Watch_RebuildsOnChange(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a, m := setupApp(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		loads := 0
		m.loader.EXPECT().Load("", map[string]string{}).DoAndReturn(
			func(string, map[string]string) (*domain.Recipe, error) {
				loads++
				if loads == 2 {
					cancel()
				}
				return mapnikRecipe(t), nil
			},
		).Times(2)
		m.logger.EXPECT().Info("map.cpp changed, rebuilding")
		m.logger.EXPECT().Info(gomock.Any()).AnyTimes()
		m.logger.EXPECT().Error(gomock.Any()).AnyTimes()

		events := make(chan ports.WatchEvent)
		var watchCtx context.Context
		m.watcher.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, dirs []string) error {
				assert.Contains(t, dirs, root+"/src")
				assert.Contains(t, dirs, root+"/utils/nik2img")
				watchCtx = ctx
				return nil
			},
		)
		m.watcher.EXPECT().Events().DoAndReturn(func() iter.Seq[ports.WatchEvent] {
			return func(yield func(ports.WatchEvent) bool) {
				for {
					select {
					case e := <-events:
						if !yield(e) {
							return
						}
					case <-watchCtx.Done():
						return
					}
				}
			}
		})
		m.watcher.EXPECT().Stop().Return(nil)

		done := make(chan error, 1)
		go func() {
			done <- a.Watch(ctx, nil, app.RunOptions{DryRun: true})
		}()

		events <- ports.WatchEvent{Path: root + "/README.md", Operation: ports.OpWrite}
		events <- ports.WatchEvent{Path: root + "/src/map.cpp", Operation: ports.OpWrite}

		require.NoError(t, <-done)
	})
}

func TestApp_Watch_LoadError(t *testing.T) {
	a, m := setupApp(t)
	m.loader.EXPECT().Load("", map[string]string{}).Return(nil, domain.ErrConfigParseFailed)

	err := a.Watch(context.Background(), nil, app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}
