package installer

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentx-labs/extinstall/internal/extension"
)

// Plan summarizes what installing an extension will do.
type Plan struct {
	Extension string
	Download  []DependencyStatus // auto-downloadable, missing or outdated
	Manual    []DependencyStatus // manually installable, missing or outdated
	Skip      []DependencyStatus // already installed
}

// Empty reports whether the plan has nothing to download or install by hand.
func (p *Plan) Empty() bool {
	return len(p.Download) == 0 && len(p.Manual) == 0
}

// BuildPlan checks the dependencies of cfg against layout and sorts them into
// downloads, manual steps, and skips. Declaration order is preserved within
// each group.
func BuildPlan(cfg *extension.ExtensionConfig, layout Layout) (*Plan, error) {
	plan := &Plan{Extension: cfg.Name()}

	auto, err := statusesOf(cfg.AutoDownloadableDependencies(), layout)
	if err != nil {
		return nil, err
	}
	manual, err := statusesOf(cfg.ManuallyInstallableDependencies(), layout)
	if err != nil {
		return nil, err
	}

	for _, st := range auto {
		if st.Status == StatusInstalled {
			plan.Skip = append(plan.Skip, st)
		} else {
			plan.Download = append(plan.Download, st)
		}
	}
	for _, st := range manual {
		if st.Status == StatusInstalled {
			plan.Skip = append(plan.Skip, st)
		} else {
			plan.Manual = append(plan.Manual, st)
		}
	}
	return plan, nil
}

func statusesOf(deps []extension.DependencyConfig, layout Layout) ([]DependencyStatus, error) {
	result := make([]DependencyStatus, 0, len(deps))
	for _, dep := range deps {
		st, err := CheckDependency(dep, layout)
		if err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, nil
}

// PrintPlan prints the plan as a tree with box-drawing characters.
func PrintPlan(w io.Writer, plan *Plan) {
	fmt.Fprintf(w, "  %s\n", plan.Extension)

	type group struct {
		title string
		deps  []DependencyStatus
	}
	groups := []group{
		{"download", plan.Download},
		{"install manually", plan.Manual},
		{"already installed", plan.Skip},
	}

	var nonEmpty []group
	for _, g := range groups {
		if len(g.deps) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}

	for gi, g := range nonEmpty {
		lastGroup := gi == len(nonEmpty)-1
		connector, childPrefix := "├── ", "│   "
		if lastGroup {
			connector, childPrefix = "└── ", "    "
		}
		fmt.Fprintf(w, "  %s%s\n", connector, g.title)

		for di, st := range g.deps {
			depConnector := "├── "
			if di == len(g.deps)-1 {
				depConnector = "└── "
			}
			fmt.Fprintf(w, "  %s%s%s\n", childPrefix, depConnector, dependencyLabel(st))
		}
	}
	fmt.Fprintln(w)

	var parts []string
	if n := len(plan.Download); n > 0 {
		parts = append(parts, fmt.Sprintf("%d to download", n))
	}
	if n := len(plan.Manual); n > 0 {
		parts = append(parts, fmt.Sprintf("%d to install manually", n))
	}
	if n := len(plan.Skip); n > 0 {
		parts = append(parts, fmt.Sprintf("%d already installed", n))
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "  Dependencies: %s\n\n", strings.Join(parts, ", "))
	}
}

func dependencyLabel(st DependencyStatus) string {
	label := st.Dependency.Name
	if st.Dependency.Version != "" {
		label += " " + st.Dependency.Version
	}
	switch st.Status {
	case StatusOutdated:
		label += fmt.Sprintf(" (outdated: found %s)", st.FoundVersion)
	case StatusPartiallyInstalled:
		label += " (partially installed)"
	}
	return label
}

// PrintManualSteps prints installation instructions for manual dependencies.
func PrintManualSteps(w io.Writer, deps []extension.DependencyConfig, layout Layout) {
	for _, dep := range deps {
		fmt.Fprintf(w, "  %s", dep.Name)
		if dep.Version != "" {
			fmt.Fprintf(w, " %s", dep.Version)
		}
		fmt.Fprintln(w)
		if dep.Repo != "" {
			fmt.Fprintf(w, "    Project:      %s\n", dep.Repo)
		}
		if dep.Download.Instructions != "" {
			fmt.Fprintf(w, "    Instructions: %s\n", strings.TrimSpace(dep.Download.Instructions))
		}
		for _, dir := range layout.Dirs(dep.Usages) {
			fmt.Fprintf(w, "    Place in:     %s\n", dir)
		}
	}
}
