package extension

import (
	"net/url"
	"path"
	"strings"
)

// UsageType is the kind of artifact a dependency is deployed as.
type UsageType string

// UsedBy names the product component that loads an artifact.
type UsedBy string

const (
	UsageJar    UsageType = "JAR"
	UsageBundle UsageType = "BUNDLE"

	UsedByRuntime UsedBy = "RUNTIME"
	UsedByEditor  UsedBy = "EDITOR"
)

// ValidUsageTypes contains all valid usage type values.
var ValidUsageTypes = []UsageType{UsageJar, UsageBundle}

// ValidUsedBy contains all valid used-by values.
var ValidUsedBy = []UsedBy{UsedByRuntime, UsedByEditor}

// UsageConfig describes where an artifact is placed.
type UsageConfig struct {
	Type   UsageType `yaml:"type" json:"type"`
	UsedBy UsedBy    `yaml:"usedBy" json:"usedBy"`
}

// DownloadConfig describes how a dependency is obtained.
type DownloadConfig struct {
	AutoDownloadable bool   `yaml:"autoDownloadable" json:"autoDownloadable"`
	URL              string `yaml:"url,omitempty" json:"url,omitempty"`
	Checksum         string `yaml:"checksum,omitempty" json:"checksum,omitempty"`
	Instructions     string `yaml:"instructions,omitempty" json:"instructions,omitempty"`
}

// IdentifierConfig uniquely names an extension and locates its own artifact.
type IdentifierConfig struct {
	ID          string        `yaml:"id" json:"id"`
	LookupRegex string        `yaml:"lookupRegex,omitempty" json:"lookupRegex,omitempty"`
	Usages      []UsageConfig `yaml:"usages,omitempty" json:"usages,omitempty"`
}

// DependencyConfig describes one artifact an extension needs at runtime.
type DependencyConfig struct {
	Name        string         `yaml:"name" json:"name"`
	Version     string         `yaml:"version,omitempty" json:"version,omitempty"`
	Repo        string         `yaml:"repo,omitempty" json:"repo,omitempty"`
	Download    DownloadConfig `yaml:"download" json:"download"`
	Usages      []UsageConfig  `yaml:"usages,omitempty" json:"usages,omitempty"`
	LookupRegex string         `yaml:"lookupRegex,omitempty" json:"lookupRegex,omitempty"`
}

// IsAutoDownloadable reports whether the installer may fetch the dependency
// without user intervention.
func (d DependencyConfig) IsAutoDownloadable() bool {
	return d.Download.AutoDownloadable
}

// FileName returns the file name the dependency is stored under. It is the
// last path segment of the download URL, or "<name>-<version>.jar" when the
// URL does not provide one.
func (d DependencyConfig) FileName() string {
	if d.Download.URL != "" {
		if u, err := url.Parse(d.Download.URL); err == nil {
			if base := path.Base(u.Path); base != "." && base != "/" && base != "" {
				return base
			}
		}
	}
	if d.Version == "" {
		return d.Name + ".jar"
	}
	return d.Name + "-" + strings.TrimPrefix(d.Version, "v") + ".jar"
}
