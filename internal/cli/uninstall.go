package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallYes bool

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <id>",
	Short: "Remove an extension and its dependencies",
	Long: `Remove the extension artifact and its dependencies from the runtime and
editor homes. Dependencies shared with other installed extensions are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().BoolVarP(&uninstallYes, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	id := args[0]
	out := cmd.OutOrStdout()

	l, err := layout(false)
	if err != nil {
		return err
	}
	idx, cfg, err := lookupExtension(id)
	if err != nil {
		return err
	}

	if !uninstallYes {
		if !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Uninstall %s?", id)) {
			fmt.Fprintln(out, "Uninstall cancelled.")
			return nil
		}
	}

	removed, err := newInstaller(cmd, l).Uninstall(cmd.Context(), cfg, idx)
	for _, path := range removed {
		fmt.Fprintf(out, "  removed %s\n", path)
	}
	if err != nil {
		return fmt.Errorf("uninstalling %s: %w", id, err)
	}
	if len(removed) == 0 {
		fmt.Fprintf(out, "%s is not installed.\n", id)
		return nil
	}
	fmt.Fprintf(out, "✓ Uninstalled %s\n", id)
	return nil
}
