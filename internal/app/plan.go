package app

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/engine/recipe"
	"go.trai.ch/recipe/internal/ui/output"
	"go.trai.ch/recipe/internal/ui/style"
)

// Plan loads and plans the recipe, then writes every descriptor and the
// selected tasks to w without executing anything.
func (a *App) Plan(w io.Writer, args []string, opts RunOptions) error {
	plan, err := a.plan(args, opts)
	if err != nil {
		return err
	}
	tasks, err := plan.Tasks()
	if err != nil {
		return err
	}
	return RenderPlan(w, plan, tasks)
}

// RenderPlan writes a human-readable view of plan. Paths below the root are
// shown relative to it.
func RenderPlan(w io.Writer, plan *recipe.Plan, tasks []domain.Task) error {
	out := output.New(w)
	heading := func(s string) string {
		return out.String(s).Foreground(termenv.RGBColor(string(style.Iris))).Bold().String()
	}
	muted := func(s string) string {
		return out.String(s).Foreground(termenv.RGBColor(string(style.Slate))).String()
	}

	var b strings.Builder
	for _, desc := range plan.Descriptors {
		fmt.Fprintf(&b, "%s %s\n", heading("target "+desc.Name), muted("("+string(desc.Kind)+")"))
		field(&b, "dir", plan.Rel(desc.Dir))
		field(&b, "output", plan.Rel(desc.Output))
		field(&b, "sources", relAll(plan, desc.Sources)...)
		field(&b, "defines", desc.Env.Get(domain.KeyCPPDefines)...)
		field(&b, "includes", desc.Env.Get(domain.KeyCPPPath)...)
		field(&b, "libs", desc.Libs...)
		field(&b, "requires", relAll(plan, desc.Prerequisites)...)
		if desc.Install {
			field(&b, "install", plan.Rel(domain.NewInstallAction(desc, plan.Settings.InstallPrefix).Dest))
		}
		b.WriteString("\n")
	}

	b.WriteString(heading("tasks") + "\n")
	for i := range tasks {
		task := &tasks[i]
		fmt.Fprintf(&b, "  %s %-9s %s\n", style.Dot, task.Kind, plan.Rel(task.Name.String()))
		if len(task.Command) > 0 {
			b.WriteString("      " + muted(strings.Join(relAll(plan, task.Command), " ")) + "\n")
		}
	}

	for _, alias := range plan.Graph.AliasNames() {
		fmt.Fprintf(&b, "\n%s\n", heading("alias "+alias))
		for _, path := range plan.Graph.Alias(alias) {
			b.WriteString("  " + relTaskName(plan, path) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func field(b *strings.Builder, name string, values ...string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "  %-9s %s\n", name+":", strings.Join(values, " "))
}

// relAll shortens every absolute path in values.
func relAll(plan *recipe.Plan, values []string) []string {
	res := make([]string, len(values))
	for i, v := range values {
		if filepath.IsAbs(v) {
			v = plan.Rel(v)
		}
		res[i] = v
	}
	return res
}

func relTaskName(plan *recipe.Plan, name string) string {
	if path, ok := strings.CutPrefix(name, recipe.UninstallTaskName("")); ok {
		return recipe.UninstallTaskName(plan.Rel(path))
	}
	return plan.Rel(name)
}
