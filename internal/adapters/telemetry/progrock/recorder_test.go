package progrock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/adapters/telemetry/progrock"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
)

func TestNew(t *testing.T) {
	assert.NotNil(t, progrock.New())
}

func TestRecorder_Record(t *testing.T) {
	recorder := progrock.New()

	ctx, vertex := recorder.Record(context.Background(), "utils/nik2img/nik2img", ports.WithKind(domain.TaskCompile))
	require.NotNil(t, vertex)

	got, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, got)

	_, err := vertex.Stdout().Write([]byte("c++ -o nik2img nik2img.cpp\n"))
	require.NoError(t, err)
	_, err = vertex.Stderr().Write([]byte("warning: deprecated\n"))
	require.NoError(t, err)
	vertex.Log(domain.LogLevelWarn, "slow link")
	vertex.Complete(errors.New("link failed"))

	require.NoError(t, recorder.Close())
}

func TestRecorder_Cached(t *testing.T) {
	recorder := progrock.New()

	_, vertex := recorder.Record(context.Background(), "nik2img")
	vertex.Cached()
	vertex.Complete(nil)

	require.NoError(t, recorder.Close())
}
