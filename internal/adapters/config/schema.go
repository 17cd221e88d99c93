package config

import "gopkg.in/yaml.v3"

// Recipefile represents the structure of the recipe.yaml configuration file.
type Recipefile struct {
	Version     string               `yaml:"version"`
	Root        string               `yaml:"root"`
	Environment map[string]yaml.Node `yaml:"environment"`
	Targets     []TargetDTO          `yaml:"targets"`
}

// TargetDTO represents a target definition in the configuration.
type TargetDTO struct {
	Name        string   `yaml:"name"`
	Kind        string   `yaml:"kind"`
	Dir         string   `yaml:"dir"`
	Sources     []string `yaml:"sources"`
	CoreLibrary *string  `yaml:"coreLibrary"`
	Cairo       *bool    `yaml:"cairo"`
	Install     *bool    `yaml:"install"`
}
