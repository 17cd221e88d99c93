// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/recipe/internal/core/domain"
)

// Executor defines the interface for running a compile task's command line.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the task's command in its working directory.
	//
	// It returns an error carrying the exit code if the toolchain fails.
	Execute(ctx context.Context, task *domain.Task) error
}
