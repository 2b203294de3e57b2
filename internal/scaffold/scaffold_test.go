package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/agentx-labs/pyseed/internal/project"
	"github.com/agentx-labs/pyseed/internal/snippet"
)

func demoConfig(t *testing.T) *project.Config {
	t.Helper()
	cfg, err := project.New(project.Input{
		Name:        "demo",
		Description: "A demo.",
		MinMinor:    "10",
		MaxMinor:    "11",
		DevDeps:     []string{"pytest"},
	}, project.Env{
		ProjectsDir: t.TempDir(),
		Author:      "tester",
		Now:         time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("project.New() error: %v", err)
	}
	return cfg
}

func mustLookup(t *testing.T, name string) Strategy {
	t.Helper()
	s, err := Lookup(name, "MIT")
	if err != nil {
		t.Fatalf("Lookup(%q) error: %v", name, err)
	}
	return s
}

func TestAssembleSetuptools(t *testing.T) {
	cfg := demoConfig(t)
	result, err := NewAssembler(nil).Assemble(cfg, mustLookup(t, Setuptools))
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}

	assertFiles(t, result, []string{
		"README.md",
		"src/demo/py.typed",
		"src/demo/__init__.py",
		"tests/__init__.py",
		"pyproject.toml",
		".pre-commit-config.yaml",
		".vimspector.json",
		"tests/conftest.py",
		".vimrc",
		".gitignore",
		"Update-PythonVenv.ps1",
	})
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	manifest := readGenerated(t, cfg.Root(), "pyproject.toml")
	assertContains(t, manifest, `name = "demo"`)
	assertContains(t, manifest, `description = "A demo."`)
	assertContains(t, manifest, `requires-python = ">=3.10,<3.12"`)
	assertContains(t, manifest, "dependencies = []")
	assertContains(t, manifest, `dev = ["pytest"]`)
	assertContains(t, manifest, "envlist = py{310,311}")
	assertContains(t, manifest, `pythonVersion = "3.10"`)
	assertContains(t, manifest, "where = [\"src\"]\n\n[tool.commitizen]")
	assertContains(t, manifest, "profile = \"black\"\n\n[tool.tox]")
	assertNotContains(t, manifest, "\n\n\n")
	if !strings.HasSuffix(manifest, "venv = \"./venv\"\n") {
		t.Errorf("manifest should end with the pyright venv line, got tail %q", tail(manifest))
	}
	order := []string{"[project]", "[tool.commitizen]", "[tool.isort]", "[tool.tox]", "[tool.pyright]"}
	last := -1
	for _, section := range order {
		i := strings.Index(manifest, section)
		if i <= last {
			t.Errorf("section %s out of order", section)
		}
		last = i
	}

	precommit := readGenerated(t, cfg.Root(), ".pre-commit-config.yaml")
	assertContains(t, precommit, "--py310-plus")
	assertContains(t, precommit, "python: python3.11")

	assertContains(t, readGenerated(t, cfg.Root(), ".vimspector.json"), `"demo: launch current file"`)
	assertContains(t, readGenerated(t, cfg.Root(), ".vimrc"), "let g:project_name = 'demo'")
	assertContains(t, readGenerated(t, cfg.Root(), "Update-PythonVenv.ps1"), "py -3.11 -m venv venv")
	assertContains(t, readGenerated(t, cfg.Root(), ".gitignore"), "Update-PythonVenv.ps1")

	conftest := readGenerated(t, cfg.Root(), "tests/conftest.py")
	assertContains(t, conftest, ":created: 2025-07-02")
	assertNotContains(t, conftest, "strftime")

	if got := readGenerated(t, cfg.Root(), "README.md"); got != "# demo\n\nA demo.\n" {
		t.Errorf("README.md = %q", got)
	}
	assertContains(t, readGenerated(t, cfg.Root(), "src/demo/__init__.py"), "Import functions into the package namespace.")
	assertContains(t, readGenerated(t, cfg.Root(), "tests/__init__.py"), "Mark the 'tests' directory as a package.")
	assertContains(t, readGenerated(t, cfg.Root(), "src/demo/py.typed"), "typed")

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(cfg.Root(), "Update-PythonVenv.ps1"))
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o755 {
			t.Errorf("Update-PythonVenv.ps1 permissions = %o, want 755", perm)
		}
	}
}

const uvManifest = `[project]
name = "demo"
version = "0.1.0"
description = "A demo."
readme = "README.md"
requires-python = ">=3.10"
dependencies = []

[build-system]
requires = ["hatchling"]
build-backend = "hatchling.build"

[dependency-groups]
dev = [
    "pytest>=8.0",
]
`

func TestAssembleUVAppendsToSeededManifest(t *testing.T) {
	cfg := demoConfig(t)
	writeFile(t, filepath.Join(cfg.Root(), "pyproject.toml"), uvManifest)

	result, err := NewAssembler(nil).Assemble(cfg, mustLookup(t, UV))
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	assertFiles(t, result, []string{
		"README.md",
		"src/demo/py.typed",
		"src/demo/__init__.py",
		"tests/__init__.py",
		"pyproject.toml",
		".pre-commit-config.yaml",
		".vimspector.json",
		"tests/conftest.py",
		".vimrc",
	})
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	manifest := readGenerated(t, cfg.Root(), "pyproject.toml")
	assertContains(t, manifest, "readme = \"README.md\"\nlicense = \"MIT\"\nrequires-python")
	assertContains(t, manifest, "    \"pytest>=8.0\",\n]\n\n[tool.commitizen]")
	assertContains(t, manifest, `venv = "./.venv"`)
	assertNotContains(t, manifest, `venv = "./venv"`)
	assertNotContains(t, manifest, "[tool.setuptools")
	assertNotContains(t, manifest, "\n\n\n")

	for _, name := range []string{"Update-PythonVenv.ps1", ".gitignore"} {
		if _, err := os.Stat(filepath.Join(cfg.Root(), name)); !os.IsNotExist(err) {
			t.Errorf("%s should not be generated by the uv strategy", name)
		}
	}
}

func TestAssembleUVWithoutReadmeLine(t *testing.T) {
	cfg := demoConfig(t)
	writeFile(t, filepath.Join(cfg.Root(), "pyproject.toml"), "[project]\nname = \"demo\"\n")

	_, err := NewAssembler(nil).Assemble(cfg, mustLookup(t, UV))
	if err == nil {
		t.Fatal("expected an error when the manifest has no readme line")
	}
	assertContains(t, err.Error(), "pyproject.toml")

	// The manifest is left as it was.
	if got := readGenerated(t, cfg.Root(), "pyproject.toml"); got != "[project]\nname = \"demo\"\n" {
		t.Errorf("manifest modified: %q", got)
	}
}

func TestAssembleMissingTriggerStopsBeforeOpening(t *testing.T) {
	cfg := demoConfig(t)
	store := snippet.NewStore(fstest.MapFS{
		snippet.TOML: {Data: []byte("snippet pyproject\n[project]\nendsnippet\n")},
	}, "test")

	result, err := NewAssembler(store).Assemble(cfg, mustLookup(t, Setuptools))
	if !errors.Is(err, snippet.ErrNotFound) {
		t.Fatalf("Assemble() error = %v, want ErrNotFound", err)
	}
	assertContains(t, err.Error(), "cz")

	if _, err := os.Stat(filepath.Join(cfg.Root(), "pyproject.toml")); !os.IsNotExist(err) {
		t.Error("pyproject.toml should not exist after a failed render")
	}
	if _, err := os.Stat(filepath.Join(cfg.Root(), "README.md")); err != nil {
		t.Errorf("README.md should be written before the manifest: %v", err)
	}
	if len(result.Files) != 4 {
		t.Errorf("written files = %v, want the four plain files", result.Files)
	}
}

func TestAssembleOverwritesExistingFiles(t *testing.T) {
	cfg := demoConfig(t)
	writeFile(t, filepath.Join(cfg.Root(), "README.md"), "stale\n")

	if _, err := NewAssembler(nil).Assemble(cfg, mustLookup(t, Setuptools)); err != nil {
		t.Fatal(err)
	}
	if got := readGenerated(t, cfg.Root(), "README.md"); got != "# demo\n\nA demo.\n" {
		t.Errorf("README.md = %q", got)
	}
}

func TestPlanDoesNotTouchDisk(t *testing.T) {
	cfg := demoConfig(t)
	planned, err := NewAssembler(nil).Plan(cfg, mustLookup(t, UV))
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if _, err := os.Stat(cfg.Root()); !os.IsNotExist(err) {
		t.Error("Plan created the project root")
	}

	var manifest *Planned
	for i := range planned {
		if planned[i].Path == "pyproject.toml" {
			manifest = &planned[i]
		}
	}
	if manifest == nil {
		t.Fatal("pyproject.toml missing from plan")
	}
	if manifest.Mode != Append {
		t.Errorf("manifest mode = %v, want append", manifest.Mode)
	}
	if !strings.HasPrefix(manifest.Content, "[tool.commitizen]") {
		t.Errorf("append section should start with commitizen, got %q", manifest.Content[:20])
	}
}

func TestRequired(t *testing.T) {
	cfg := demoConfig(t)
	req := Required(mustLookup(t, Setuptools), cfg)

	want := "pyproject,cz,isort,tox,pyright"
	if got := strings.Join(req[snippet.TOML], ","); got != want {
		t.Errorf("toml triggers = %s, want %s", got, want)
	}
	if got := req[snippet.PS1]; len(got) != 1 || got[0] != "update_venv" {
		t.Errorf("ps1 triggers = %v", got)
	}
	if _, ok := Required(mustLookup(t, UV), cfg)[snippet.PS1]; ok {
		t.Error("uv strategy should not need ps1 snippets")
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("poetry", ""); err == nil {
		t.Error("Lookup(poetry) should fail")
	}
}

func TestCheckReportsSchemaProblems(t *testing.T) {
	warnings := check(".vimspector.json", `{"configurations": {}}`)
	if len(warnings) == 0 {
		t.Fatal("expected a warning for an empty configurations object")
	}
	assertContains(t, warnings[0], ".vimspector.json: ")

	if w := check("README.md", "anything"); len(w) != 0 {
		t.Errorf("README.md warnings = %v", w)
	}
}

func assertFiles(t *testing.T, result *Result, expected []string) {
	t.Helper()
	if len(result.Files) != len(expected) {
		t.Errorf("got %d files %v, want %d files %v", len(result.Files), result.Files, len(expected), expected)
		return
	}
	for i, f := range expected {
		if result.Files[i] != f {
			t.Errorf("file[%d] = %q, want %q", i, result.Files[i], f)
		}
	}
}

func readGenerated(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("content does not contain %q\n--- content ---\n%s", substr, content)
	}
}

func assertNotContains(t *testing.T, content, substr string) {
	t.Helper()
	if strings.Contains(content, substr) {
		t.Errorf("content should not contain %q", substr)
	}
}

func tail(s string) string {
	if len(s) > 40 {
		return s[len(s)-40:]
	}
	return s
}
