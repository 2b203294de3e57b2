package validate

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/*.json
var schemaFS embed.FS

// Embedded schema names.
const (
	PreCommitSchema  = "precommit.schema.json"
	VimspectorSchema = "vimspector.schema.json"
)

var (
	compiler     *jsonschema.Compiler
	compiled     = map[string]*jsonschema.Schema{}
	compiledMu   sync.Mutex
	printer      = message.NewPrinter(language.English)
	compilerOnce sync.Once
	compilerErr  error
)

// Result contains the outcome of a validation.
type Result struct {
	Valid  bool
	Issues []Issue
}

// Issue is a single validation problem.
type Issue struct {
	Path    string // instance location, e.g. "/repos/0/hooks"
	Message string
	Keyword string
}

// String formats the issue for warnings.
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

func getCompiler() (*jsonschema.Compiler, error) {
	compilerOnce.Do(func() {
		c := jsonschema.NewCompiler()
		entries, err := schemaFS.ReadDir("schema")
		if err != nil {
			compilerErr = fmt.Errorf("listing schemas: %w", err)
			return
		}
		for _, e := range entries {
			data, err := schemaFS.ReadFile("schema/" + e.Name())
			if err != nil {
				compilerErr = fmt.Errorf("reading schema %s: %w", e.Name(), err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
			if err != nil {
				compilerErr = fmt.Errorf("unmarshaling schema %s: %w", e.Name(), err)
				return
			}
			if err := c.AddResource(e.Name(), doc); err != nil {
				compilerErr = fmt.Errorf("adding schema %s: %w", e.Name(), err)
				return
			}
		}
		compiler = c
	})
	return compiler, compilerErr
}

func getSchema(name string) (*jsonschema.Schema, error) {
	c, err := getCompiler()
	if err != nil {
		return nil, err
	}
	compiledMu.Lock()
	defer compiledMu.Unlock()
	if s, ok := compiled[name]; ok {
		return s, nil
	}
	s, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}
	compiled[name] = s
	return s, nil
}

// JSON validates raw JSON bytes against the named schema. The error return is
// for schema problems and malformed input; schema violations are Issues.
func JSON(schemaName string, data []byte) (*Result, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return validate(schemaName, inst)
}

// YAML validates raw YAML bytes against the named schema.
func YAML(schemaName string, data []byte) (*Result, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	// Round-trip through encoding/json so the validator sees json.Number values.
	jsonData, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	return JSON(schemaName, jsonData)
}

// TOML checks that data is a well-formed TOML document.
func TOML(data []byte) (*Result, error) {
	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		var derr *toml.DecodeError
		if !errors.As(err, &derr) {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
		row, col := derr.Position()
		return &Result{Issues: []Issue{{
			Path:    fmt.Sprintf("line %d, column %d", row, col),
			Message: derr.Error(),
			Keyword: "syntax",
		}}}, nil
	}
	return &Result{Valid: true}, nil
}

func validate(schemaName string, inst interface{}) (*Result, error) {
	schema, err := getSchema(schemaName)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &Result{Valid: true}, nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return &Result{Issues: extractIssues(ve)}, nil
}

// File validates a generated file, picking the check from its name. Files with
// no known check are reported valid.
func File(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Bytes(filepath.Base(path), data)
}

// Bytes validates content that will be written to a file named name.
func Bytes(name string, data []byte) (*Result, error) {
	switch {
	case name == ".pre-commit-config.yaml":
		return YAML(PreCommitSchema, data)
	case name == ".vimspector.json":
		return JSON(VimspectorSchema, data)
	case strings.HasSuffix(name, ".toml"):
		return TOML(data)
	default:
		return &Result{Valid: true}, nil
	}
}

func extractIssues(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		return []Issue{{Message: ve.Error()}}
	}
	return dedupe(issues)
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) == 0 {
		path := ""
		if len(ve.InstanceLocation) > 0 {
			path = "/" + strings.Join(ve.InstanceLocation, "/")
		}

		keyword, msg := "", ""
		if ve.ErrorKind != nil {
			if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
				keyword = kw[len(kw)-1]
			}
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Container keywords only say that a branch failed.
		if keyword == "oneOf" || keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, Issue{Path: path, Message: msg, Keyword: keyword})
		return
	}

	for _, cause := range ve.Causes {
		collectIssues(cause, issues)
	}
}

func dedupe(issues []Issue) []Issue {
	seen := make(map[string]bool)
	var out []Issue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			out = append(out, issue)
		}
	}
	return out
}

// normalizeYAML converts YAML-decoded values to JSON-compatible types.
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
