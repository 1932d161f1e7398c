package extension

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/index.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of validating an index.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single problem found in an index.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/extensions/kafka/dependencies/0/name")
	Message string // Human-readable error message
	Keyword string // Schema keyword or semantic rule that failed
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("index.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("index.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks raw index YAML against the index JSON schema and, when the
// document is structurally valid, against the semantic rules in CheckSemantics.
// The error return is for parse or schema compilation failures; problems in
// the document itself are reported in the ValidationResult.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	// Round-trip through JSON so the validator sees json.Number values.
	jsonData, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	if err := schema.Validate(inst); err != nil {
		validationErr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		return &ValidationResult{Issues: extractIssues(validationErr)}, nil
	}

	idx, err := ParseIndex(data)
	if err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}
	issues := CheckSemantics(idx)
	return &ValidationResult{Valid: len(issues) == 0, Issues: issues}, nil
}

// CheckSemantics reports problems in a decoded index: regexes that do
// not compile, auto-downloadable dependencies without a URL, manual ones
// without instructions, unknown usage values, and versions that are not
// semver. It applies to indexes built in code as well as parsed ones.
func CheckSemantics(idx *Index) []ValidationIssue {
	var issues []ValidationIssue
	add := func(path, keyword, format string, args ...interface{}) {
		issues = append(issues, ValidationIssue{
			Path:    path,
			Keyword: keyword,
			Message: fmt.Sprintf(format, args...),
		})
	}

	for _, id := range idx.IDs() {
		cfg, _ := idx.Get(id)
		base := "/extensions/" + id

		if v := cfg.Version(); v != "" {
			if _, err := parseSemver(v); err != nil {
				add(base+"/extension/version", "semver", "version %q is not a valid semantic version", v)
			}
		}

		if ident, ok := cfg.Identifier(); ok {
			if ident.LookupRegex != "" {
				if _, err := regexp.Compile(ident.LookupRegex); err != nil {
					add(base+"/identifier/lookupRegex", "regex", "invalid lookup regex: %v", err)
				}
			}
			checkUsages(base+"/identifier/usages", ident.Usages, add)
		}

		for i, dep := range cfg.Dependencies() {
			path := base + "/dependencies/" + strconv.Itoa(i)
			if dep.LookupRegex != "" {
				if _, err := regexp.Compile(dep.LookupRegex); err != nil {
					add(path+"/lookupRegex", "regex", "invalid lookup regex: %v", err)
				}
			}
			if dep.Version != "" {
				if _, err := parseSemver(dep.Version); err != nil {
					add(path+"/version", "semver", "version %q is not a valid semantic version", dep.Version)
				}
			}
			checkUsages(path+"/usages", dep.Usages, add)
			if dep.IsAutoDownloadable() && dep.Download.URL == "" {
				add(path+"/download/url", "required", "auto-downloadable dependency %q has no download URL", dep.Name)
			}
			if !dep.IsAutoDownloadable() && strings.TrimSpace(dep.Download.Instructions) == "" {
				add(path+"/download/instructions", "required", "manually installable dependency %q has no instructions", dep.Name)
			}
		}
	}
	return issues
}

func checkUsages(base string, usages []UsageConfig, add func(path, keyword, format string, args ...interface{})) {
	for i, u := range usages {
		path := base + "/" + strconv.Itoa(i)
		if !slices.Contains(ValidUsageTypes, u.Type) {
			add(path+"/type", "enum", "usage type %q is not one of %v", u.Type, ValidUsageTypes)
		}
		if !slices.Contains(ValidUsedBy, u.UsedBy) {
			add(path+"/usedBy", "enum", "usedBy %q is not one of %v", u.UsedBy, ValidUsedBy)
		}
	}
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{
			Message: ve.Error(),
		}}
	}
	return deduplicateIssues(issues)
}

func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		keyword := ""
		msg := ""
		if ve.ErrorKind != nil {
			kwPath := ve.ErrorKind.KeywordPath()
			if len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Container keywords carry no information of their own.
		if keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, ValidationIssue{
			Path:    path,
			Message: msg,
			Keyword: keyword,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}

// normalizeYAML converts YAML-decoded values into types encoding/json accepts.
// Mappings with non-string keys are re-keyed with their string form.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalizeYAML(v)
		}
		return a
	default:
		return val
	}
}
