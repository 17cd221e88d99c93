package ports

import (
	"context"
	"io"

	"go.trai.ch/recipe/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records the progress of build tasks.
type Telemetry interface {
	// Record starts a vertex for a unit of work and returns a context carrying it.
	Record(ctx context.Context, name string, opts ...VertexOption) (context.Context, Vertex)
	// Close flushes the recording session.
	Close() error
}

// Vertex is one recorded unit of work.
type Vertex interface {
	// Stdout returns a writer capturing the task's standard output.
	Stdout() io.Writer
	// Stderr returns a writer capturing the task's error output.
	Stderr() io.Writer
	// Log records a message against the vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex finished; a nil error means success.
	Complete(err error)
	// Cached marks the vertex as satisfied by a stored signature.
	Cached()
}

// VertexConfig holds configuration for a vertex.
type VertexConfig struct {
	Kind domain.TaskKind
}

// VertexOption is a functional option for configuring a vertex.
type VertexOption func(*VertexConfig)

// WithKind tags the vertex with the kind of task it records.
func WithKind(kind domain.TaskKind) VertexOption {
	return func(c *VertexConfig) {
		c.Kind = kind
	}
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex stored in ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
