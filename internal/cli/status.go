package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentx-labs/extinstall/internal/installer"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [id]",
	Short: "Show installation status",
	Long: `Show whether extensions and their dependencies are present in the runtime
and editor homes. Without an id, every extension in the index is summarized.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	l, err := layout(false)
	if err != nil {
		return err
	}
	idx, err := loadIndex()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		for _, id := range idx.IDs() {
			cfg, _ := idx.Get(id)
			st, err := installer.CheckExtension(cfg, l)
			if err != nil {
				return fmt.Errorf("checking %s: %w", id, err)
			}
			fmt.Fprintf(out, "%-24s %s\n", id, st.Status)
		}
		return nil
	}

	cfg, err := idx.Lookup(args[0])
	if err != nil {
		return err
	}
	st, err := installer.CheckExtension(cfg, l)
	if err != nil {
		return fmt.Errorf("checking %s: %w", args[0], err)
	}
	printStatus(out, args[0], st)
	return nil
}

func printStatus(w io.Writer, id string, st *installer.ExtensionStatus) {
	fmt.Fprintf(w, "%s: %s\n", id, st.Status)
	if st.Artifact != installer.StatusUnknown {
		fmt.Fprintf(w, "  artifact: %s\n", st.Artifact)
	}
	for _, dep := range st.Dependencies {
		line := fmt.Sprintf("  %s %s: %s", dep.Dependency.Name, dep.Dependency.Version, dep.Status)
		if dep.FoundVersion != "" && dep.FoundVersion != dep.Dependency.Version {
			line += fmt.Sprintf(" (found %s)", dep.FoundVersion)
		}
		if dep.Status != installer.StatusInstalled && len(dep.Dirs) > 0 {
			line += " -> " + strings.Join(dep.Dirs, ", ")
		}
		fmt.Fprintln(w, line)
	}
}
