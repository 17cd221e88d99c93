package ports

import (
	"context"

	"go.trai.ch/recipe/internal/core/domain"
)

// Hasher defines the interface for computing task signatures.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeSignature hashes the task definition together with the content of its inputs.
	ComputeSignature(ctx context.Context, task *domain.Task) (string, error)
}
