package installer

import (
	"path/filepath"

	"github.com/agentx-labs/extinstall/internal/extension"
)

// Directory names inside a product home.
const (
	JarsDir    = "jars"
	BundlesDir = "bundles"
)

// defaultUsage applies to artifacts that declare no usages.
var defaultUsage = extension.UsageConfig{Type: extension.UsageJar, UsedBy: extension.UsedByRuntime}

// Layout locates the product homes artifacts are installed into.
type Layout struct {
	RuntimeHome string
	EditorHome  string // optional; editor usages are skipped when empty
}

// Dir returns the directory an artifact with the given usage belongs in.
// The boolean is false when the usage targets a home that is not configured.
func (l Layout) Dir(u extension.UsageConfig) (string, bool) {
	var home string
	switch u.UsedBy {
	case extension.UsedByRuntime:
		home = l.RuntimeHome
	case extension.UsedByEditor:
		home = l.EditorHome
	}
	if home == "" {
		return "", false
	}

	sub := JarsDir
	if u.Type == extension.UsageBundle {
		sub = BundlesDir
	}
	return filepath.Join(home, sub), true
}

// Dirs returns the distinct target directories for usages, in usage order.
// An empty usage list means a runtime jar.
func (l Layout) Dirs(usages []extension.UsageConfig) []string {
	if len(usages) == 0 {
		usages = []extension.UsageConfig{defaultUsage}
	}

	seen := make(map[string]bool)
	var dirs []string
	for _, u := range usages {
		dir, ok := l.Dir(u)
		if !ok || seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs
}
