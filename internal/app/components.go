package app

import "go.trai.ch/recipe/internal/core/ports"

// Components holds what the command layer needs from the dependency graph.
type Components struct {
	App    *App
	Logger ports.Logger
}
