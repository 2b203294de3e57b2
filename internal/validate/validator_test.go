package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const goodPreCommit = `default_language_version:
  python: python3.12
repos:
- repo: https://github.com/psf/black
  rev: 24.4.2
  hooks:
  - id: black
    args: ["--skip-magic-trailing-comma"]
`

const goodVimspector = `{
  "configurations": {
    "demo: launch": {
      "adapter": "debugpy",
      "configuration": {"request": "launch", "program": "${file}"}
    }
  }
}`

func TestYAML_Valid(t *testing.T) {
	result, err := YAML(PreCommitSchema, []byte(goodPreCommit))
	if err != nil {
		t.Fatalf("YAML() error: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid, got issues: %v", result.Issues)
	}
}

func TestYAML_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing repos", "default_language_version:\n  python: python3.12\n"},
		{"hook without id", "repos:\n- repo: local\n  hooks:\n  - name: x\n"},
		{"unknown top-level key", "repos: []\nrepo: oops\n"},
		{"args not strings", "repos:\n- repo: local\n  hooks:\n  - id: x\n    args: [{a: 1}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := YAML(PreCommitSchema, []byte(tt.data))
			if err != nil {
				t.Fatalf("YAML() unexpected error: %v", err)
			}
			if result.Valid {
				t.Error("expected invalid")
			}
			if len(result.Issues) == 0 {
				t.Error("expected at least one issue")
			}
		})
	}
}

func TestYAML_Malformed(t *testing.T) {
	if _, err := YAML(PreCommitSchema, []byte("repos: [\n")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestJSON(t *testing.T) {
	result, err := JSON(VimspectorSchema, []byte(goodVimspector))
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid, got issues: %v", result.Issues)
	}

	bad, err := JSON(VimspectorSchema, []byte(`{"configurations": {"x": {"configuration": {"request": "run"}}}}`))
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if bad.Valid {
		t.Error("expected invalid request value")
	}
	for _, issue := range bad.Issues {
		if issue.Keyword == "" || issue.Message == "" {
			t.Errorf("issue fields should be populated: %+v", issue)
		}
	}
}

func TestJSON_Malformed(t *testing.T) {
	if _, err := JSON(VimspectorSchema, []byte(`{"configurations": `)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestTOML(t *testing.T) {
	ok, err := TOML([]byte("[project]\nname = \"demo\"\ndependencies = []\n"))
	if err != nil {
		t.Fatalf("TOML() error: %v", err)
	}
	if !ok.Valid {
		t.Errorf("expected valid, got %v", ok.Issues)
	}

	bad, err := TOML([]byte("[project]\nname = \"demo\"\nversion = \n"))
	if err != nil {
		t.Fatalf("TOML() error: %v", err)
	}
	if bad.Valid || len(bad.Issues) != 1 {
		t.Fatalf("expected one issue, got %+v", bad)
	}
	if !strings.HasPrefix(bad.Issues[0].Path, "line 3") {
		t.Errorf("issue path = %q, want line 3", bad.Issues[0].Path)
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		".pre-commit-config.yaml": goodPreCommit,
		".vimspector.json":        goodVimspector,
		"pyproject.toml":          "[tool.isort]\nprofile = \"black\"\n",
		"README.md":               "# anything goes\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		result, err := File(path)
		if err != nil {
			t.Errorf("File(%s) error: %v", name, err)
			continue
		}
		if !result.Valid {
			t.Errorf("File(%s) issues: %v", name, result.Issues)
		}
	}

	if _, err := File(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIssueString(t *testing.T) {
	if got := (Issue{Path: "/repos", Message: "bad"}).String(); got != "/repos: bad" {
		t.Errorf("String() = %q", got)
	}
	if got := (Issue{Message: "bad"}).String(); got != "bad" {
		t.Errorf("String() = %q", got)
	}
}
