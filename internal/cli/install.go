package cli

import (
	"fmt"

	"github.com/agentx-labs/extinstall/internal/branding"
	"github.com/agentx-labs/extinstall/internal/installer"
	"github.com/spf13/cobra"
)

var installYes bool

var installCmd = &cobra.Command{
	Use:   "install <id>",
	Short: "Install the dependencies of an extension",
	Long: `Download every auto-downloadable dependency of an extension that is not
already present and place it in the runtime and editor homes. Dependencies
that cannot be downloaded are listed with instructions for installing them.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVarP(&installYes, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	id := args[0]
	out := cmd.OutOrStdout()

	l, err := layout(false)
	if err != nil {
		return err
	}
	_, cfg, err := lookupExtension(id)
	if err != nil {
		return err
	}

	plan, err := installer.BuildPlan(cfg, l)
	if err != nil {
		return fmt.Errorf("planning install of %s: %w", id, err)
	}
	if plan.Empty() {
		fmt.Fprintf(out, "Nothing to install. All dependencies of %s are already installed.\n", id)
		return nil
	}

	installer.PrintPlan(out, plan)

	if len(plan.Download) > 0 && !installYes {
		if !confirm(cmd.InOrStdin(), out, "Proceed with installation?") {
			fmt.Fprintln(out, "Installation cancelled.")
			return nil
		}
	}

	result, err := newInstaller(cmd, l).Install(cmd.Context(), cfg)
	if result != nil {
		if len(result.Downloaded) > 0 {
			fmt.Fprintf(out, "\n✓ Installed %d dependencies\n", len(result.Downloaded))
		}
		if len(result.Manual) > 0 {
			fmt.Fprintln(out, "\nThe following dependencies must be installed manually:")
			installer.PrintManualSteps(out, result.Manual, l)
			fmt.Fprintf(out, "\nRun '%s status %s' after installing them.\n", branding.CLIName(), id)
		}
	}
	if err != nil {
		return fmt.Errorf("installing %s: %w", id, err)
	}
	return nil
}
