// Package config provides the recipe file loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

var validTargetNameRegex = regexp.MustCompile(`^[A-Za-z0-9_.+-]+$`)

// listKeys are split on whitespace when given as a command-line override.
var listKeys = []string{
	domain.KeyLibMapnikCXXFlags,
	domain.KeyLibMapnikDefines,
	domain.KeyLibMapnikLibs,
	domain.KeyCairoCPPPaths,
	domain.KeyCXXFlags,
	domain.KeyCPPDefines,
	domain.KeyCPPPath,
	domain.KeyLibs,
	domain.KeyLibPath,
	domain.KeyLinkFlags,
}

// Load reads the recipe at configPath, applies overrides and validates it.
// An empty configPath selects recipe.yaml in the working directory.
func (l *Loader) Load(configPath string, overrides map[string]string) (*domain.Recipe, error) {
	if configPath == "" {
		configPath = domain.RecipeFileName
	}

	var file Recipefile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if file.Version != domain.RecipeVersion {
		err := zerr.With(zerr.Wrap(domain.ErrUnsupportedVersion, configPath), "version", file.Version)
		return nil, zerr.With(err, "expected", domain.RecipeVersion)
	}

	env, err := buildEnvironment(file.Environment)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	l.applyOverrides(env, overrides)

	settings, err := domain.ParseSettings(env)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	targets, err := buildTargets(file.Targets, env, &settings)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	return &domain.Recipe{
		Root:        resolveRoot(configPath, file.Root),
		Environment: env,
		Settings:    settings,
		Targets:     targets,
	}, nil
}

// buildEnvironment normalises the raw environment mapping into construction variables.
// Scalars become one value, sequences keep their order and null declares an empty key.
func buildEnvironment(raw map[string]yaml.Node) (*domain.Environment, error) {
	env := domain.NewEnvironment()
	for key, node := range raw {
		values, err := nodeValues(&node)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrMalformedConfigKey, key), "key", key)
		}
		env.Set(key, values...)
	}
	return env, nil
}

func nodeValues(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		values := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, domain.ErrMalformedConfigKey
			}
			values = append(values, item.Value)
		}
		return values, nil
	default:
		return nil, domain.ErrMalformedConfigKey
	}
}

// applyOverrides sets command-line KEY=VALUE pairs, which take precedence over the file.
func (l *Loader) applyOverrides(env *domain.Environment, overrides map[string]string) {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		value := overrides[key]
		if !env.Has(key) && l.Logger != nil {
			l.Logger.Warn(fmt.Sprintf("override %s is not declared in %s", key, domain.RecipeFileName))
		}
		switch {
		case slices.Contains(listKeys, key):
			env.Set(key, strings.Fields(value)...)
		case value == "":
			env.Set(key)
		default:
			env.Set(key, value)
		}
	}
}

func buildTargets(dtos []TargetDTO, env *domain.Environment, settings *domain.Settings) ([]domain.TargetSpec, error) {
	seen := make(map[string]bool, len(dtos))
	targets := make([]domain.TargetSpec, 0, len(dtos))

	for i := range dtos {
		dto := &dtos[i]
		if err := validateTargetName(dto.Name); err != nil {
			return nil, err
		}
		if seen[dto.Name] {
			return nil, zerr.With(zerr.Wrap(domain.ErrDuplicateTargetName, dto.Name), "target", dto.Name)
		}
		seen[dto.Name] = true

		spec, err := buildTarget(dto, env, settings)
		if err != nil {
			return nil, zerr.With(err, "target", dto.Name)
		}
		targets = append(targets, spec)
	}
	return targets, nil
}

func buildTarget(dto *TargetDTO, env *domain.Environment, settings *domain.Settings) (domain.TargetSpec, error) {
	kind := domain.TargetKind(dto.Kind)
	switch kind {
	case "":
		kind = domain.KindProgram
	case domain.KindProgram, domain.KindSharedLibrary:
	default:
		return domain.TargetSpec{}, zerr.With(zerr.Wrap(domain.ErrInvalidTargetKind, dto.Kind), "kind", dto.Kind)
	}

	if len(dto.Sources) == 0 {
		return domain.TargetSpec{}, zerr.Wrap(domain.ErrNoSources, dto.Name)
	}

	spec := domain.TargetSpec{
		Name:     dto.Name,
		Kind:     kind,
		Dir:      filepath.Clean(dto.Dir),
		Sources:  slices.Clone(dto.Sources),
		Features: domain.Features{Cairo: settings.HasCairo},
		Install:  kind == domain.KindProgram,
	}
	if kind == domain.KindProgram {
		spec.CoreLibrary = domain.DefaultCoreLibrary
	}
	if dto.CoreLibrary != nil {
		spec.CoreLibrary = *dto.CoreLibrary
	}
	if dto.Cairo != nil {
		spec.Features.Cairo = *dto.Cairo
	}
	// A cairo-enabled target needs CAIRO_CPPPATHS whether or not HAS_CAIRO is set.
	if spec.Features.Cairo {
		if _, err := env.List(domain.KeyCairoCPPPaths); err != nil {
			return domain.TargetSpec{}, err
		}
	}
	if dto.Install != nil {
		spec.Install = *dto.Install
	}
	return spec, nil
}

// validateTargetName checks if the target name is reserved or contains invalid characters.
func validateTargetName(name string) error {
	if name == domain.AliasInstall || name == domain.AliasUninstall {
		return zerr.With(zerr.Wrap(domain.ErrReservedTargetName, name), "target", name)
	}
	if !validTargetNameRegex.MatchString(name) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidTargetName, name), "target", name)
	}
	return nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is provided by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
