package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/agentx-labs/extinstall/internal/config"
	"github.com/agentx-labs/extinstall/internal/extension"
	"github.com/agentx-labs/extinstall/internal/installer"
	"github.com/spf13/cobra"
)

var doctorFix bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create missing jars/ and bundles/ directories")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, index, and product homes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		problems := checkIndex(out)
		fmt.Fprintln(out)

		l, _ := layout(true)
		problems += installer.CheckLayout(out, l, doctorFix)

		if problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		fmt.Fprintln(out, "\n✓ No problems found")
		return nil
	},
}

func checkIndex(w io.Writer) int {
	fmt.Fprintln(w, "Index check:")

	if _, err := os.Stat(config.FilePath()); err == nil {
		fmt.Fprintf(w, "  [ OK ] %s exists\n", config.FilePath())
	} else {
		fmt.Fprintf(w, "  [INFO] %s not found, using defaults\n", config.FilePath())
	}

	path := config.Get(config.KeyIndex)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s: %v\n", path, err)
		return 1
	}
	result, err := extension.Validate(data)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return 1
	}
	if !result.Valid {
		fmt.Fprintf(w, "  [FAIL] %s has %d issue(s); run 'validate' for details\n", path, len(result.Issues))
		return 1
	}
	fmt.Fprintf(w, "  [ OK ] %s is valid\n", path)
	return 0
}
