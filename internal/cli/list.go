package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/agentx-labs/extinstall/internal/installer"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list [term]",
	Short: "List extensions in the index",
	Long: `List the extensions described by the extension index. An optional term
filters by id, name, or any other info field. When a runtime home is
configured, the installation status of each extension is shown as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents one extension for display.
type listEntry struct {
	ID          string `json:"id"`
	Version     string `json:"version"`
	DisplayName string `json:"displayName"`
	Status      string `json:"status,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	idx, err := loadIndex()
	if err != nil {
		return err
	}

	ids := idx.IDs()
	if len(args) == 1 {
		ids = idx.Search(args[0])
	}

	if len(ids) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No extensions found.")
		return nil
	}

	l, _ := layout(true)
	entries := make([]listEntry, 0, len(ids))
	for _, id := range ids {
		cfg, _ := idx.Get(id)
		entry := listEntry{
			ID:          id,
			Version:     cfg.Version(),
			DisplayName: cfg.DisplayName(),
		}
		if l.RuntimeHome != "" {
			st, err := installer.CheckExtension(cfg, l)
			if err != nil {
				return fmt.Errorf("checking %s: %w", id, err)
			}
			entry.Status = string(st.Status)
		}
		entries = append(entries, entry)
	}

	if listJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tDISPLAY NAME\tSTATUS")
	for _, e := range entries {
		status := e.Status
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Version, e.DisplayName, status)
	}
	return w.Flush()
}
