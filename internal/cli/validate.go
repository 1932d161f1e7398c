package cli

import (
	"fmt"
	"os"

	"github.com/agentx-labs/extinstall/internal/config"
	"github.com/agentx-labs/extinstall/internal/extension"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate an extension index",
	Long: `Check an extension index against its schema and for semantic problems such
as invalid versions or lookup patterns. Defaults to the configured index.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := config.Get(config.KeyIndex)
	if len(args) == 1 {
		path = args[0]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading index: %w", err)
	}

	result, err := extension.Validate(data)
	if err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	if result.Valid {
		fmt.Fprintf(out, "✓ %s is valid\n", path)
		return nil
	}

	fmt.Fprintf(out, "✗ %s has %d issue(s):\n", path, len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "  %s\n", issue)
	}
	return fmt.Errorf("index %s is invalid", path)
}
