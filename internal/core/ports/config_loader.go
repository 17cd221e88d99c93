package ports

import "go.trai.ch/recipe/internal/core/domain"

// ConfigLoader defines the interface for loading a recipe file.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the recipe at path, applies the KEY=VALUE overrides to its
	// environment and validates the resulting settings.
	Load(path string, overrides map[string]string) (*domain.Recipe, error)
}
