package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/agentx-labs/extinstall/internal/extension"
	"github.com/spf13/cobra"
)

var (
	depsAuto   bool
	depsManual bool
	depsJSON   bool
)

var depsCmd = &cobra.Command{
	Use:   "deps <id>",
	Short: "List the dependencies of an extension",
	Long: `List the dependencies of an extension in declaration order. Use --auto to
show only the ones that can be downloaded automatically, or --manual to show
only the ones that must be installed by hand.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeps,
}

func init() {
	depsCmd.Flags().BoolVar(&depsAuto, "auto", false, "Only auto-downloadable dependencies")
	depsCmd.Flags().BoolVar(&depsManual, "manual", false, "Only manually installable dependencies")
	depsCmd.Flags().BoolVar(&depsJSON, "json", false, "Output in JSON format")
	depsCmd.MarkFlagsMutuallyExclusive("auto", "manual")
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
	_, cfg, err := lookupExtension(args[0])
	if err != nil {
		return err
	}

	var deps []extension.DependencyConfig
	switch {
	case depsAuto:
		deps = cfg.AutoDownloadableDependencies()
	case depsManual:
		deps = cfg.ManuallyInstallableDependencies()
	default:
		deps = cfg.Dependencies()
	}

	if depsJSON {
		if deps == nil {
			deps = []extension.DependencyConfig{}
		}
		data, err := json.MarshalIndent(deps, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(deps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No dependencies.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tMODE\tUSAGES")
	for _, dep := range deps {
		mode := "manual"
		if dep.IsAutoDownloadable() {
			mode = "auto"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", dep.Name, dep.Version, mode, formatUsages(dep.Usages))
	}
	return w.Flush()
}
