package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/agentx-labs/extinstall/internal/branding"
	"github.com/agentx-labs/extinstall/internal/config"
	"github.com/agentx-labs/extinstall/internal/extension"
	"github.com/agentx-labs/extinstall/internal/installer"
	"github.com/agentx-labs/extinstall/internal/log"
	"github.com/spf13/cobra"
)

// loadIndex reads the configured extension index.
func loadIndex() (*extension.Index, error) {
	path := config.Get(config.KeyIndex)
	if path == "" {
		return nil, fmt.Errorf("no extension index configured. Set it with '%s config set index <path>'", branding.CLIName())
	}
	log.Debug("loading extension index", "path", path)
	return extension.LoadIndex(path)
}

// lookupExtension loads the index and returns the extension with id.
func lookupExtension(id string) (*extension.Index, *extension.ExtensionConfig, error) {
	idx, err := loadIndex()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := idx.Lookup(id)
	if err != nil {
		return nil, nil, fmt.Errorf("%w. Run '%s list' to see available extensions", err, branding.CLIName())
	}
	return idx, cfg, nil
}

// layout returns the configured product homes. The runtime home is required
// unless optional is set.
func layout(optional bool) (installer.Layout, error) {
	l := installer.Layout{
		RuntimeHome: config.Get(config.KeyRuntimeHome),
		EditorHome:  config.Get(config.KeyEditorHome),
	}
	if l.RuntimeHome == "" && !optional {
		return l, fmt.Errorf("runtime home is not set. Use --runtime-home, %s, or '%s config set %s <path>'",
			branding.EnvVar(config.KeyRuntimeHome), branding.CLIName(), config.KeyRuntimeHome)
	}
	return l, nil
}

// newInstaller builds an installer from the current configuration. Progress
// is only shown for sequential downloads, where lines cannot interleave.
func newInstaller(cmd *cobra.Command, l installer.Layout) *installer.Installer {
	concurrency := config.GetInt(config.KeyConcurrency, config.DefaultConcurrency)

	var dlOpts []installer.DownloaderOption
	if mirror := config.Get(config.KeyMirror); mirror != "" {
		dlOpts = append(dlOpts, installer.WithMirror(mirror))
	}
	if concurrency == 1 {
		dlOpts = append(dlOpts, installer.WithProgress(cmd.ErrOrStderr()))
	}

	return installer.New(l,
		installer.WithDownloader(installer.NewDownloader(dlOpts...)),
		installer.WithConcurrency(concurrency),
		installer.WithLogger(log.Logger()),
	)
}

// confirm asks a yes/no question; an empty answer means yes.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "? %s (Y/n) ", question)
	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return answer == "" || answer == "y" || answer == "yes"
	}
	return true
}
