package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/adapters/fs"
	"go.trai.ch/recipe/internal/adapters/watcher"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/recipe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func nextEvent(t *testing.T, events <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream closed before %s", path)
			if ev.Path == path {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func startWatcher(t *testing.T, dirs ...string) (<-chan ports.WatchEvent, *watcher.Watcher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(fs.NewWalker(), log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, dirs))
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})

	ch := make(chan ports.WatchEvent)
	go func() {
		defer close(ch)
		for ev := range w.Events() {
			ch <- ev
		}
	}()
	return ch, w
}

func TestWatcher_WriteAndRemove(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "nik2img.cpp")
	require.NoError(t, os.WriteFile(src, []byte("int main() {}"), domain.FilePerm))

	events, _ := startWatcher(t, root)

	require.NoError(t, os.WriteFile(src, []byte("int main() { return 1; }"), domain.FilePerm))
	assert.Equal(t, ports.OpWrite, nextEvent(t, events, src).Operation)

	require.NoError(t, os.Remove(src))
	assert.Equal(t, ports.OpRemove, nextEvent(t, events, src).Operation)
}

func TestWatcher_NewDirectoryIsWatched(t *testing.T) {
	root := t.TempDir()
	events, _ := startWatcher(t, root)

	sub := filepath.Join(root, "include")
	require.NoError(t, os.Mkdir(sub, domain.DirPerm))
	assert.Equal(t, ports.OpCreate, nextEvent(t, events, sub).Operation)

	header := filepath.Join(sub, "args.hpp")
	require.Eventually(t, func() bool {
		return os.WriteFile(header, []byte("#pragma once"), domain.FilePerm) == nil
	}, time.Second, 10*time.Millisecond)
	nextEvent(t, events, header)
}

func TestWatcher_StateDirectoryIgnored(t *testing.T) {
	root := t.TempDir()
	state := filepath.Join(root, domain.StateDirName)
	require.NoError(t, os.Mkdir(state, domain.DirPerm))

	events, _ := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(state, domain.StateFileName), []byte("{}"), domain.FilePerm))
	marker := filepath.Join(root, "marker")
	require.NoError(t, os.WriteFile(marker, nil, domain.FilePerm))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			assert.NotEqual(t, filepath.Join(state, domain.StateFileName), ev.Path)
			if ev.Path == marker {
				return
			}
		case <-timeout:
			t.Fatal("no event for marker")
		}
	}
}

func TestWatcher_StopEndsEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	w, err := watcher.NewWatcher(fs.NewWalker(), mocks.NewMockLogger(ctrl))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background(), []string{t.TempDir()}))
	require.NoError(t, w.Stop())

	done := make(chan struct{})
	go func() {
		for range w.Events() {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events did not end after Stop")
	}
}
