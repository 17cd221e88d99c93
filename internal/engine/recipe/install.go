package recipe

import (
	"path/filepath"
	"slices"

	"go.trai.ch/recipe/internal/core/domain"
)

// UninstallTaskName returns the name of the task removing an installed path.
func UninstallTaskName(path string) string {
	return "uninstall-" + path
}

// RegisterInstall adds the install and uninstall steps of desc to graph.
//
// The install copy is skipped when the invocation targets "uninstall". The
// uninstall step is always registered. Aliases keep set semantics, so many
// descriptors may register the same alias path.
func RegisterInstall(graph *domain.Graph, desc *domain.TargetDescriptor, settings *domain.Settings, targets []string) error {
	action := domain.NewInstallAction(desc, settings.InstallPrefix)

	if !slices.Contains(targets, domain.AliasUninstall) {
		install := &domain.Task{
			Name:          domain.NewInternedString(action.Dest),
			Kind:          domain.TaskInstall,
			Inputs:        domain.InternAll([]string{action.Source}),
			Outputs:       domain.InternAll([]string{action.Dest}),
			Prerequisites: domain.InternAll([]string{action.Source}),
		}
		if err := graph.AddTask(install); err != nil {
			return err
		}
		graph.AddAlias(domain.AliasInstall, filepath.Dir(action.Dest))
	}

	name := UninstallTaskName(action.Dest)
	uninstall := &domain.Task{
		Name:   domain.NewInternedString(name),
		Kind:   domain.TaskUninstall,
		Inputs: domain.InternAll([]string{action.Dest}),
	}
	if err := graph.AddTask(uninstall); err != nil {
		return err
	}
	graph.AddAlias(domain.AliasUninstall, name)
	return nil
}
