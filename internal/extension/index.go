package extension

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ErrNotFound is returned when an extension id is not in the index.
var ErrNotFound = errors.New("extension not found")

// Index is a set of extension configs keyed by extension id.
type Index struct {
	extensions map[string]*ExtensionConfig
}

type indexDocument struct {
	Extensions map[string]*ExtensionConfig `yaml:"extensions"`
}

// NewIndex builds an Index from id-keyed configs. Nil configs are dropped.
func NewIndex(extensions map[string]*ExtensionConfig) *Index {
	idx := &Index{extensions: make(map[string]*ExtensionConfig, len(extensions))}
	for id, cfg := range extensions {
		if cfg != nil {
			idx.extensions[id] = cfg
		}
	}
	return idx
}

// ParseIndex decodes index YAML (or JSON) data.
func ParseIndex(data []byte) (*Index, error) {
	var doc indexDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return NewIndex(doc.Extensions), nil
}

// LoadIndex reads and parses an index file.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading index %s: %w", path, err)
	}

	idx, err := ParseIndex(data)
	if err != nil {
		return nil, fmt.Errorf("parsing index %s: %w", path, err)
	}
	return idx, nil
}

// SaveIndex writes the index back to path.
func SaveIndex(path string, idx *Index) error {
	data, err := yaml.Marshal(indexDocument{Extensions: idx.extensions})
	if err != nil {
		return fmt.Errorf("marshaling index: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing index %s: %w", path, err)
	}
	return nil
}

// Len returns the number of extensions in the index.
func (idx *Index) Len() int {
	return len(idx.extensions)
}

// IDs returns all extension ids, sorted.
func (idx *Index) IDs() []string {
	ids := make([]string, 0, len(idx.extensions))
	for id := range idx.extensions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Get returns the extension with the given id.
func (idx *Index) Get(id string) (*ExtensionConfig, bool) {
	cfg, ok := idx.extensions[id]
	return cfg, ok
}

// Lookup is like Get but returns ErrNotFound for unknown ids.
func (idx *Index) Lookup(id string) (*ExtensionConfig, error) {
	cfg, ok := idx.extensions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return cfg, nil
}

// Search returns the sorted ids of extensions whose id or metadata values
// contain term, ignoring case. An empty term matches everything.
func (idx *Index) Search(term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	var result []string
	for _, id := range idx.IDs() {
		if term == "" || matches(id, idx.extensions[id], term) {
			result = append(result, id)
		}
	}
	return result
}

func matches(id string, cfg *ExtensionConfig, term string) bool {
	if strings.Contains(strings.ToLower(id), term) {
		return true
	}
	for _, v := range cfg.info {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}
