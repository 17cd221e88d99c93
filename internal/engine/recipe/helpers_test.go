package recipe_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/core/domain"
)

func parentEnvironment() *domain.Environment {
	env := domain.NewEnvironment()
	env.Set(domain.KeyLibMapnikCXXFlags, "-O2", "-std=c++14")
	env.Set(domain.KeyLibMapnikDefines, "-DMAPNIK_THREADSAFE", "BIGINT")
	env.Set(domain.KeyLibMapnikLibs, "png", "icuuc")
	env.Set(domain.KeyMapnikName, "mapnik")
	env.Set(domain.KeyMapnikLibName, "libmapnik.so")
	env.Set(domain.KeyBoostAppend, "-mt")
	env.Set(domain.KeyRuntimeLink, "shared")
	env.Set(domain.KeyPlatform, "Linux")
	env.Set(domain.KeyCairoCPPPaths, "/usr/include/cairo", "/usr/include/pixman-1")
	env.Set(domain.KeyInstallPrefix, "/usr/local")
	return env
}

func parseSettings(t *testing.T, env *domain.Environment) *domain.Settings {
	t.Helper()
	s, err := domain.ParseSettings(env)
	require.NoError(t, err)
	return &s
}

func nik2img(cairo bool) *domain.TargetSpec {
	return &domain.TargetSpec{
		Name:        "nik2img",
		Kind:        domain.KindProgram,
		Dir:         "utils/nik2img",
		Sources:     []string{"nik2img.cpp"},
		CoreLibrary: domain.DefaultCoreLibrary,
		Features:    domain.Features{Cairo: cairo},
		Install:     true,
	}
}

func coreLibrary() *domain.TargetSpec {
	return &domain.TargetSpec{
		Name:    "mapnik",
		Kind:    domain.KindSharedLibrary,
		Dir:     "src",
		Sources: []string{"map.cpp", "layer.cpp"},
	}
}
