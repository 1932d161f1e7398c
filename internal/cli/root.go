package cli

import (
	"fmt"

	"github.com/agentx-labs/extinstall/internal/branding"
	"github.com/agentx-labs/extinstall/internal/config"
	"github.com/agentx-labs/extinstall/internal/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose bool
	logJSON bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs stream processor extensions. It reads an extension index,
downloads the dependencies that can be fetched automatically, and explains how
to install the ones that cannot.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		// Flags override the config file and environment when set.
		for key, flag := range map[string]string{
			config.KeyIndex:       "index",
			config.KeyRuntimeHome: "runtime-home",
			config.KeyEditorHome:  "editor-home",
		} {
			if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return fmt.Errorf("binding flag --%s: %w", flag, err)
			}
		}

		log.Init(log.Options{
			Verbose:    verbose,
			JSONFormat: logJSON,
			Stderr:     cmd.ErrOrStderr(),
		})
		log.Debug("config loaded", "file", config.FilePath())
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("index", "", "Path to the extension index (default ~/"+branding.HomeDir()+"/index.yaml)")
	flags.String("runtime-home", "", "Runtime product home containing jars/ and bundles/")
	flags.String("editor-home", "", "Editor product home containing jars/ and bundles/")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&logJSON, "log-json", false, "Write logs as JSON")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
