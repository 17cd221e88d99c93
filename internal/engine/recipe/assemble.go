// Package recipe turns declared targets into descriptors and lowers them into a task graph.
package recipe

import (
	"path/filepath"
	"slices"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// Assemble derives the descriptor of one target from the parent environment.
//
// The parent is cloned before any mutation; it is never modified.
func Assemble(parent *domain.Environment, settings *domain.Settings, spec *domain.TargetSpec) (*domain.TargetDescriptor, error) {
	env := parent.Clone()
	env.Set(domain.KeyCXX, settings.CXX)
	env.Set(domain.KeyCXXFlags, settings.LibMapnikCXXFlags...)
	env.Append(domain.KeyCPPDefines, settings.LibMapnikDefines...)

	if spec.Features.Cairo {
		env.PrependUnique(domain.KeyCPPPath, settings.CairoCPPPaths...)
		env.Append(domain.KeyCPPDefines, domain.CairoDefine)
	}

	desc := &domain.TargetDescriptor{
		Name:    spec.Name,
		Kind:    spec.Kind,
		Dir:     spec.Dir,
		Sources: make([]string, 0, len(spec.Sources)),
		Env:     env,
		Install: spec.Install,
	}
	for _, src := range spec.Sources {
		desc.Sources = append(desc.Sources, filepath.Join(spec.Dir, src))
	}

	switch spec.Kind {
	case domain.KindSharedLibrary:
		env.AppendUnique(domain.KeyCXXFlags, "-fPIC")
		env.AppendUnique(domain.KeyLinkFlags, "-shared")
		desc.Libs = slices.Clone(settings.LibMapnikLibs)
		desc.Output = filepath.Join(spec.Dir, settings.MapnikLibName)
	default:
		desc.Libs = programLibs(settings)
		desc.Output = filepath.Join(spec.Dir, spec.Name)
	}

	if spec.CoreLibrary != "" {
		lib, err := env.Subst(spec.CoreLibrary)
		if err != nil {
			return nil, zerr.With(err, "target", spec.Name)
		}
		prerequisite := filepath.Clean(filepath.Join(spec.Dir, lib))
		if !slices.Contains(desc.Prerequisites, prerequisite) {
			desc.Prerequisites = append(desc.Prerequisites, prerequisite)
		}
	}

	return desc, nil
}

// programLibs returns the link libraries of a program in their fixed order.
func programLibs(settings *domain.Settings) []string {
	libs := make([]string, 0, len(settings.LibMapnikLibs)+3)
	libs = append(libs, settings.MapnikName, settings.OptionParserLib+settings.BoostAppend)
	libs = append(libs, settings.LibMapnikLibs...)
	if settings.NeedsDynamicLoader() {
		libs = append(libs, settings.DLLib)
	}
	return libs
}
