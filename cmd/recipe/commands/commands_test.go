package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/cmd/recipe/commands"
	"go.trai.ch/recipe/internal/app"
	"go.trai.ch/recipe/internal/build"
	"go.trai.ch/recipe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type call struct {
	method string
	args   []string
	opts   app.RunOptions
	path   string
}

type mockApp struct {
	calls []call
	err   error
}

func (m *mockApp) Run(_ context.Context, args []string, opts app.RunOptions) error {
	m.calls = append(m.calls, call{method: "run", args: args, opts: opts})
	return m.err
}

func (m *mockApp) Plan(w io.Writer, args []string, opts app.RunOptions) error {
	m.calls = append(m.calls, call{method: "plan", args: args, opts: opts})
	_, _ = io.WriteString(w, "tasks\n")
	return m.err
}

func (m *mockApp) Watch(_ context.Context, args []string, opts app.RunOptions) error {
	m.calls = append(m.calls, call{method: "watch", args: args, opts: opts})
	return m.err
}

func (m *mockApp) Init(path string) error {
	m.calls = append(m.calls, call{method: "init", path: path})
	return m.err
}

// jsonLogger records SetJSON calls on top of the generated mock.
type jsonLogger struct {
	*mocks.MockLogger
	json *bool
}

func (l jsonLogger) SetJSON(enable bool) {
	*l.json = enable
}

func newCLI(t *testing.T, a *mockApp, args ...string) (*commands.CLI, *bytes.Buffer) {
	t.Helper()
	cli := commands.New(a, mocks.NewMockLogger(gomock.NewController(t)))
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	return cli, buf
}

func TestCommands_Build(t *testing.T) {
	t.Run("wires flags and arguments", func(t *testing.T) {
		a := &mockApp{}
		cli, _ := newCLI(t, a, "build", "install", "BOOST_APPEND=-mt", "-j", "4", "--force", "--dry-run", "-f", "build/recipe.yaml")

		require.NoError(t, cli.Execute(context.Background()))
		require.Len(t, a.calls, 1)
		assert.Equal(t, "run", a.calls[0].method)
		assert.Equal(t, []string{"install", "BOOST_APPEND=-mt"}, a.calls[0].args)
		assert.Equal(t, app.RunOptions{
			ConfigPath: "build/recipe.yaml",
			Jobs:       4,
			Force:      true,
			DryRun:     true,
		}, a.calls[0].opts)
	})

	t.Run("builds everything without targets", func(t *testing.T) {
		a := &mockApp{}
		cli, _ := newCLI(t, a, "build")

		require.NoError(t, cli.Execute(context.Background()))
		require.Len(t, a.calls, 1)
		assert.Empty(t, a.calls[0].args)
		assert.Equal(t, app.RunOptions{}, a.calls[0].opts)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		a := &mockApp{err: errors.New("simulated error")}
		cli, _ := newCLI(t, a, "build", "install")

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Watch(t *testing.T) {
	a := &mockApp{}
	cli, _ := newCLI(t, a, "watch", "-j", "2", "utils/nik2img")

	require.NoError(t, cli.Execute(context.Background()))
	require.Len(t, a.calls, 1)
	assert.Equal(t, "watch", a.calls[0].method)
	assert.Equal(t, []string{"utils/nik2img"}, a.calls[0].args)
	assert.Equal(t, app.RunOptions{Jobs: 2}, a.calls[0].opts)
}

func TestCommands_Watch_RejectsDryRun(t *testing.T) {
	a := &mockApp{}
	cli, _ := newCLI(t, a, "watch", "--dry-run")

	require.Error(t, cli.Execute(context.Background()))
	assert.Empty(t, a.calls)
}

func TestCommands_Plan(t *testing.T) {
	a := &mockApp{}
	cli, buf := newCLI(t, a, "plan", "--file", "other.yaml", "uninstall")

	require.NoError(t, cli.Execute(context.Background()))
	require.Len(t, a.calls, 1)
	assert.Equal(t, "plan", a.calls[0].method)
	assert.Equal(t, []string{"uninstall"}, a.calls[0].args)
	assert.Equal(t, "other.yaml", a.calls[0].opts.ConfigPath)
	assert.Equal(t, "tasks\n", buf.String())
}

func TestCommands_Init(t *testing.T) {
	a := &mockApp{}
	cli, _ := newCLI(t, a, "init", "-f", "mapnik.yaml")

	require.NoError(t, cli.Execute(context.Background()))
	require.Len(t, a.calls, 1)
	assert.Equal(t, call{method: "init", path: "mapnik.yaml"}, a.calls[0])
}

func TestCommands_Init_RejectsArguments(t *testing.T) {
	a := &mockApp{}
	cli, _ := newCLI(t, a, "init", "extra")

	require.Error(t, cli.Execute(context.Background()))
	assert.Empty(t, a.calls)
}

func TestCommands_JSON(t *testing.T) {
	var enabled bool
	log := jsonLogger{MockLogger: mocks.NewMockLogger(gomock.NewController(t)), json: &enabled}
	cli := commands.New(&mockApp{}, log)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"build", "--json"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, enabled)
}

func TestCommands_Version(t *testing.T) {
	cli, buf := newCLI(t, &mockApp{}, "version")

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), "recipe version "+build.Version)
	assert.Contains(t, buf.String(), build.Commit)
}
