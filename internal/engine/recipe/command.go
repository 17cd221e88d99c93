package recipe

import (
	"strings"

	"go.trai.ch/recipe/internal/core/domain"
)

// CommandLine renders the single compile-and-link invocation that produces desc.Output.
func CommandLine(desc *domain.TargetDescriptor) []string {
	env := desc.Env
	args := []string{firstOr(env.Get(domain.KeyCXX), domain.DefaultCXX)}

	args = append(args, env.Get(domain.KeyCXXFlags)...)
	for _, def := range env.Get(domain.KeyCPPDefines) {
		args = append(args, define(def))
	}
	for _, dir := range env.Get(domain.KeyCPPPath) {
		args = append(args, "-I"+dir)
	}

	args = append(args, "-o", desc.Output)
	args = append(args, desc.Sources...)

	args = append(args, env.Get(domain.KeyLinkFlags)...)
	for _, dir := range env.Get(domain.KeyLibPath) {
		args = append(args, "-L"+dir)
	}
	for _, lib := range desc.Libs {
		args = append(args, "-l"+lib)
	}
	return args
}

// define renders a preprocessor define, accepting values that already carry the -D flag.
func define(def string) string {
	if strings.HasPrefix(def, "-D") {
		return def
	}
	return "-D" + def
}

func firstOr(values []string, def string) string {
	if len(values) == 0 || values[0] == "" {
		return def
	}
	return values[0]
}
