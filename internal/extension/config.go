package extension

import (
	"maps"
	"slices"

	"go.yaml.in/yaml/v3"
)

// Well-known keys in the extension info mapping.
const (
	InfoName        = "name"
	InfoDisplayName = "displayName"
	InfoVersion     = "version"
	InfoDescription = "description"
)

// ExtensionConfig holds one extension's metadata, identifier, and
// dependencies. Values are immutable once built: every accessor returns a
// copy, so a config can be shared between goroutines without locking. The
// zero value is an empty config.
type ExtensionConfig struct {
	info         map[string]string
	identifier   *IdentifierConfig
	dependencies []DependencyConfig
}

// configDocument is the serialized form of an ExtensionConfig.
type configDocument struct {
	Extension    map[string]string  `yaml:"extension,omitempty"`
	Identifier   *IdentifierConfig  `yaml:"identifier,omitempty"`
	Dependencies []DependencyConfig `yaml:"dependencies,omitempty"`
}

// New builds an ExtensionConfig from its three parts. A nil identifier means
// the identifier is absent. The arguments are copied.
func New(info map[string]string, identifier *IdentifierConfig, dependencies []DependencyConfig) *ExtensionConfig {
	c := &ExtensionConfig{
		info:         maps.Clone(info),
		dependencies: slices.Clone(dependencies),
	}
	if identifier != nil {
		id := *identifier
		id.Usages = slices.Clone(identifier.Usages)
		c.identifier = &id
	}
	return c
}

// ExtensionInfo returns a copy of the extension metadata. It is never nil.
func (c *ExtensionConfig) ExtensionInfo() map[string]string {
	if c == nil || c.info == nil {
		return map[string]string{}
	}
	return maps.Clone(c.info)
}

// Info returns a single metadata value, or "" when the key is not set.
func (c *ExtensionConfig) Info(key string) string {
	if c == nil {
		return ""
	}
	return c.info[key]
}

// Name returns the "name" metadata value.
func (c *ExtensionConfig) Name() string { return c.Info(InfoName) }

// Version returns the "version" metadata value.
func (c *ExtensionConfig) Version() string { return c.Info(InfoVersion) }

// DisplayName returns the "displayName" metadata value, falling back to the name.
func (c *ExtensionConfig) DisplayName() string {
	if v := c.Info(InfoDisplayName); v != "" {
		return v
	}
	return c.Name()
}

// Identifier returns the extension identifier. The boolean is false when no
// identifier has been configured.
func (c *ExtensionConfig) Identifier() (IdentifierConfig, bool) {
	if c == nil || c.identifier == nil {
		return IdentifierConfig{}, false
	}
	id := *c.identifier
	id.Usages = slices.Clone(c.identifier.Usages)
	return id, true
}

// Dependencies returns all dependencies in declaration order, duplicates
// included. It is never nil.
func (c *ExtensionConfig) Dependencies() []DependencyConfig {
	if c == nil {
		return []DependencyConfig{}
	}
	return filterDependencies(c.dependencies, func(DependencyConfig) bool { return true })
}

// ManuallyInstallableDependencies returns the dependencies that the user must
// install by hand, in declaration order.
func (c *ExtensionConfig) ManuallyInstallableDependencies() []DependencyConfig {
	if c == nil {
		return []DependencyConfig{}
	}
	return filterDependencies(c.dependencies, func(d DependencyConfig) bool {
		return !d.IsAutoDownloadable()
	})
}

// AutoDownloadableDependencies returns the dependencies that the installer
// can fetch on its own, in declaration order.
func (c *ExtensionConfig) AutoDownloadableDependencies() []DependencyConfig {
	if c == nil {
		return []DependencyConfig{}
	}
	return filterDependencies(c.dependencies, DependencyConfig.IsAutoDownloadable)
}

func filterDependencies(deps []DependencyConfig, keep func(DependencyConfig) bool) []DependencyConfig {
	result := make([]DependencyConfig, 0, len(deps))
	for _, d := range deps {
		if keep(d) {
			d.Usages = slices.Clone(d.Usages)
			result = append(result, d)
		}
	}
	return result
}

// UnmarshalYAML decodes a config document and replaces c with a freshly
// built value.
func (c *ExtensionConfig) UnmarshalYAML(value *yaml.Node) error {
	var doc configDocument
	if err := value.Decode(&doc); err != nil {
		return err
	}
	*c = *New(doc.Extension, doc.Identifier, doc.Dependencies)
	return nil
}

// MarshalYAML encodes the config in the same shape UnmarshalYAML reads.
func (c *ExtensionConfig) MarshalYAML() (interface{}, error) {
	if c == nil {
		return configDocument{}, nil
	}
	return configDocument{
		Extension:    c.info,
		Identifier:   c.identifier,
		Dependencies: c.dependencies,
	}, nil
}

// Builder assembles an ExtensionConfig field by field.
type Builder struct {
	info         map[string]string
	identifier   *IdentifierConfig
	dependencies []DependencyConfig
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{info: make(map[string]string)}
}

// Info sets one metadata entry.
func (b *Builder) Info(key, value string) *Builder {
	b.info[key] = value
	return b
}

// Identifier sets the extension identifier.
func (b *Builder) Identifier(id IdentifierConfig) *Builder {
	b.identifier = &id
	return b
}

// Dependency appends dependencies in order.
func (b *Builder) Dependency(deps ...DependencyConfig) *Builder {
	b.dependencies = append(b.dependencies, deps...)
	return b
}

// Build returns an ExtensionConfig holding copies of the builder's state.
func (b *Builder) Build() *ExtensionConfig {
	return New(b.info, b.identifier, b.dependencies)
}
