package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/agentx-labs/extinstall/internal/extension"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var infoOutput string

var infoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show details of an extension",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().StringVarP(&infoOutput, "output", "o", "text", "Output format (text, yaml)")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	_, cfg, err := lookupExtension(args[0])
	if err != nil {
		return err
	}

	switch infoOutput {
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", args[0], err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	case "text":
		printInfo(cmd.OutOrStdout(), args[0], cfg)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected text or yaml)", infoOutput)
	}
}

func printInfo(w io.Writer, id string, cfg *extension.ExtensionConfig) {
	fmt.Fprintf(w, "%s (%s)\n", cfg.DisplayName(), id)

	info := cfg.ExtensionInfo()
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-12s %s\n", k+":", info[k])
	}

	if ident, ok := cfg.Identifier(); ok {
		fmt.Fprintf(w, "\nIdentifier: %s\n", ident.ID)
		if ident.LookupRegex != "" {
			fmt.Fprintf(w, "  lookup:     %s\n", ident.LookupRegex)
		}
		fmt.Fprintf(w, "  usages:     %s\n", formatUsages(ident.Usages))
	}

	deps := cfg.Dependencies()
	if len(deps) == 0 {
		fmt.Fprintln(w, "\nNo dependencies.")
		return
	}
	fmt.Fprintf(w, "\nDependencies (%d auto, %d manual):\n",
		len(cfg.AutoDownloadableDependencies()), len(cfg.ManuallyInstallableDependencies()))
	for _, dep := range deps {
		mode := "manual"
		if dep.IsAutoDownloadable() {
			mode = "auto"
		}
		fmt.Fprintf(w, "  - %s %s [%s] %s\n", dep.Name, dep.Version, mode, formatUsages(dep.Usages))
	}
}

func formatUsages(usages []extension.UsageConfig) string {
	if len(usages) == 0 {
		return "-"
	}
	parts := make([]string, len(usages))
	for i, u := range usages {
		parts[i] = strings.ToLower(string(u.UsedBy)) + "/" + strings.ToLower(string(u.Type))
	}
	return strings.Join(parts, ", ")
}
