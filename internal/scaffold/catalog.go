package scaffold

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentx-labs/pyseed/internal/project"
	"github.com/agentx-labs/pyseed/internal/snippet"
)

// Strategy names.
const (
	Setuptools = "setuptools"
	UV         = "uv"
)

const (
	// ReadmeLine anchors the license insertion in a uv-generated manifest.
	ReadmeLine = `readme = "README.md"`
	// DateMarker is the vim expression left in conftest.py by the snippet.
	DateMarker = "`!v strftime(\"%Y-%m-%d\")`"

	pyTypedText = `""" This file is used to indicate to mypy that the package is typed.

Do not delete this comment, because empty files choke
some cloud drives on sync.
"""`
)

// Strategy is a named file catalog. Seeded strategies expect an external
// initializer to have produced the manifest already.
type Strategy struct {
	Name    string
	Seeded  bool
	Catalog func(*project.Config) []File
}

// Strategies returns the supported strategy names.
func Strategies() []string {
	return []string{UV, Setuptools}
}

// Lookup returns the strategy called name. license is the SPDX identifier
// the uv strategy writes into the manifest.
func Lookup(name, license string) (Strategy, error) {
	switch name {
	case Setuptools:
		return Strategy{Name: Setuptools, Catalog: setuptoolsCatalog}, nil
	case UV:
		if license == "" {
			license = "MIT"
		}
		return Strategy{
			Name:   UV,
			Seeded: true,
			Catalog: func(cfg *project.Config) []File {
				return uvCatalog(cfg, license)
			},
		}, nil
	default:
		return Strategy{}, fmt.Errorf("unknown strategy %q (want %s)", name, strings.Join(Strategies(), " or "))
	}
}

func envMatrix(cfg *project.Config) string {
	return strings.Join(cfg.EnvMatrix(), ",")
}

func minor(n int) string {
	return strconv.Itoa(n)
}

func plainFiles(cfg *project.Config) []File {
	src := "src/" + cfg.Name()
	return []File{
		{Path: "README.md", Literal: "# " + cfg.Name() + "\n\n" + cfg.Description() + "\n"},
		{Path: src + "/py.typed", Literal: pyTypedText},
		{Path: src + "/__init__.py", Literal: cfg.InitText("Import functions into the package namespace.")},
		{Path: "tests/__init__.py", Literal: cfg.InitText("Mark the 'tests' directory as a package.")},
	}
}

func toolBlocks(cfg *project.Config, venv string) []Block {
	pyright := Block{
		Trigger: "pyright",
		Subs:    []snippet.Sub{snippet.Slot(1, minor(cfg.MinMinor())), snippet.Slot(2, "")},
	}
	if venv != "./venv" {
		pyright.Post = []Post{ReplaceLiteral(`venv = "./venv"`, `venv = "`+venv+`"`)}
	}
	return []Block{
		{Trigger: "cz"},
		{Trigger: "isort"},
		{Trigger: "tox", Subs: []snippet.Sub{snippet.Slot(1, envMatrix(cfg))}},
		pyright,
	}
}

func editorFiles(cfg *project.Config) []File {
	return []File{
		{
			Path:   ".pre-commit-config.yaml",
			Corpus: snippet.YAML,
			Blocks: []Block{{Trigger: "pre-commit-config", Subs: []snippet.Sub{
				snippet.Slot(1, minor(cfg.MinMinor())),
				snippet.Slot(2, minor(cfg.MaxMinor())),
			}}},
		},
		{
			Path:   ".vimspector.json",
			Corpus: snippet.JSON,
			Blocks: []Block{{Trigger: "vimspector", Subs: []snippet.Sub{snippet.Slot(1, cfg.Name())}}},
		},
		{
			Path:   "tests/conftest.py",
			Corpus: snippet.Python,
			Blocks: []Block{{
				Trigger: "conftest",
				Post:    []Post{ReplaceLiteral(DateMarker, cfg.CreationDate())},
			}},
		},
		{
			Path:   ".vimrc",
			Corpus: snippet.Vim,
			Blocks: []Block{{Trigger: "local", Subs: []snippet.Sub{snippet.Slot(1, cfg.Name())}}},
		},
	}
}

func setuptoolsCatalog(cfg *project.Config) []File {
	manifest := File{
		Path:   "pyproject.toml",
		Corpus: snippet.TOML,
		Blocks: append([]Block{{
			Trigger: "pyproject",
			Subs: []snippet.Sub{
				snippet.Slot(1, cfg.Name()),
				snippet.Slot(2, cfg.Description()),
				snippet.Slot(3, cfg.RequiresPython()),
				snippet.Slot(4, project.FormatDependencies(cfg.Deps())),
				snippet.Slot(5, project.FormatDependencies(cfg.DevDeps())),
			},
		}}, toolBlocks(cfg, "./venv")...),
	}
	files := plainFiles(cfg)
	files = append(files, manifest)
	files = append(files, editorFiles(cfg)...)
	files = append(files,
		File{Path: ".gitignore", Literal: "Update-PythonVenv.ps1\n"},
		File{
			Path:   "Update-PythonVenv.ps1",
			Corpus: snippet.PS1,
			Blocks: []Block{{Trigger: "update_venv", Subs: []snippet.Sub{snippet.Slot(1, "3."+minor(cfg.MaxMinor()))}}},
			Perm:   0o755,
		},
	)
	return files
}

func uvCatalog(cfg *project.Config, license string) []File {
	manifest := File{
		Path:   "pyproject.toml",
		Corpus: snippet.TOML,
		Blocks: toolBlocks(cfg, "./.venv"),
		Mode:   Append,
		Post:   []Post{InsertAfterLine(ReadmeLine, `license = "`+license+`"`)},
	}
	files := plainFiles(cfg)
	files = append(files, manifest)
	return append(files, editorFiles(cfg)...)
}

// Required maps each corpus to the triggers a strategy's catalog pulls from
// it.
func Required(s Strategy, cfg *project.Config) map[string][]string {
	out := map[string][]string{}
	for _, f := range s.Catalog(cfg) {
		if f.Plain() {
			continue
		}
		out[f.Corpus] = append(out[f.Corpus], f.Triggers()...)
	}
	return out
}
