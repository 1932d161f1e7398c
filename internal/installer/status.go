package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/agentx-labs/extinstall/internal/extension"
)

// Status describes how much of an artifact set is present on disk.
type Status string

const (
	StatusInstalled          Status = "installed"
	StatusNotInstalled       Status = "not installed"
	StatusPartiallyInstalled Status = "partially installed"
	StatusOutdated           Status = "outdated"
	StatusUnknown            Status = "unknown"
)

// DependencyStatus is the installation state of one dependency.
type DependencyStatus struct {
	Dependency   extension.DependencyConfig
	Status       Status
	Dirs         []string // target directories
	Found        []string // matching files, across all target directories
	FoundVersion string   // version captured by the lookup regex, if any
}

// ExtensionStatus is the installation state of an extension as a whole.
type ExtensionStatus struct {
	Name         string
	Status       Status
	Artifact     Status // status of the extension's own artifact; unknown without a lookup regex
	Dependencies []DependencyStatus
}

// artifactMatcher finds the files belonging to one artifact.
type artifactMatcher struct {
	re       *regexp.Regexp
	fileName string
}

func newMatcher(lookupRegex, fileName string) (*artifactMatcher, error) {
	m := &artifactMatcher{fileName: fileName}
	if lookupRegex != "" {
		re, err := regexp.Compile("^(?:" + lookupRegex + ")$")
		if err != nil {
			return nil, fmt.Errorf("compiling lookup regex %q: %w", lookupRegex, err)
		}
		m.re = re
	}
	return m, nil
}

func (m *artifactMatcher) match(name string) bool {
	if m.re != nil {
		return m.re.MatchString(name)
	}
	return name == m.fileName
}

// version returns the "version" capture group of name, or "".
func (m *artifactMatcher) version(name string) string {
	if m.re == nil {
		return ""
	}
	i := m.re.SubexpIndex("version")
	if i < 0 {
		return ""
	}
	sub := m.re.FindStringSubmatch(name)
	if sub == nil {
		return ""
	}
	return sub[i]
}

// find lists matching files in dir. A missing directory has no matches.
func (m *artifactMatcher) find(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var found []string
	for _, e := range entries {
		if !e.IsDir() && m.match(e.Name()) {
			found = append(found, filepath.Join(dir, e.Name()))
		}
	}
	return found, nil
}

// CheckDependency reports whether dep is present in every directory its
// usages map to. A dependency whose lookup regex captures an older "version"
// than the declared one is outdated.
func CheckDependency(dep extension.DependencyConfig, layout Layout) (DependencyStatus, error) {
	st := DependencyStatus{
		Dependency: dep,
		Dirs:       layout.Dirs(dep.Usages),
	}

	m, err := newMatcher(dep.LookupRegex, dep.FileName())
	if err != nil {
		return st, fmt.Errorf("dependency %s: %w", dep.Name, err)
	}

	present := 0
	for _, dir := range st.Dirs {
		found, err := m.find(dir)
		if err != nil {
			return st, fmt.Errorf("dependency %s: %w", dep.Name, err)
		}
		if len(found) > 0 {
			present++
		}
		st.Found = append(st.Found, found...)
	}

	for _, f := range st.Found {
		if v := m.version(filepath.Base(f)); v != "" {
			st.FoundVersion = v
			break
		}
	}

	switch {
	case len(st.Dirs) == 0:
		// Nothing targets a configured home.
		st.Status = StatusInstalled
	case present == 0:
		st.Status = StatusNotInstalled
	case present < len(st.Dirs):
		st.Status = StatusPartiallyInstalled
	case dep.Version != "" && st.FoundVersion != "" && extension.IsOlder(st.FoundVersion, dep.Version):
		st.Status = StatusOutdated
	default:
		st.Status = StatusInstalled
	}
	return st, nil
}

// Statuses checks every dependency of cfg, in declaration order.
func Statuses(cfg *extension.ExtensionConfig, layout Layout) ([]DependencyStatus, error) {
	deps := cfg.Dependencies()
	result := make([]DependencyStatus, 0, len(deps))
	for _, dep := range deps {
		st, err := CheckDependency(dep, layout)
		if err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, nil
}

// CheckExtension reports the status of an extension's own artifact and of
// all its dependencies, and folds them into one status.
func CheckExtension(cfg *extension.ExtensionConfig, layout Layout) (*ExtensionStatus, error) {
	deps, err := Statuses(cfg, layout)
	if err != nil {
		return nil, err
	}

	es := &ExtensionStatus{
		Name:         cfg.Name(),
		Artifact:     StatusUnknown,
		Dependencies: deps,
	}

	var parts []Status
	if id, ok := cfg.Identifier(); ok && id.LookupRegex != "" {
		artifact, err := CheckDependency(extension.DependencyConfig{
			Name:        id.ID,
			Usages:      id.Usages,
			LookupRegex: id.LookupRegex,
		}, layout)
		if err != nil {
			return nil, fmt.Errorf("extension %s: %w", cfg.Name(), err)
		}
		es.Artifact = artifact.Status
		parts = append(parts, artifact.Status)
	}
	for _, d := range deps {
		parts = append(parts, d.Status)
	}

	es.Status = combine(parts)
	return es, nil
}

func combine(parts []Status) Status {
	if len(parts) == 0 {
		return StatusUnknown
	}

	all := func(s Status) bool {
		return !slices.ContainsFunc(parts, func(p Status) bool { return p != s })
	}
	switch {
	case all(StatusInstalled):
		return StatusInstalled
	case all(StatusNotInstalled):
		return StatusNotInstalled
	case !slices.Contains(parts, StatusNotInstalled) && !slices.Contains(parts, StatusPartiallyInstalled):
		return StatusOutdated
	default:
		return StatusPartiallyInstalled
	}
}
