package chores

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/agentx-labs/pyseed/internal/platform"
	"github.com/agentx-labs/pyseed/internal/project"
	"github.com/agentx-labs/pyseed/internal/scaffold"
)

// InitialCommitMessage is the message of the first commit in a new project.
const InitialCommitMessage = "Initial commit"

// GitSequence initializes a repository in root, switches to branch and
// commits README.md.
func GitSequence(git, branch, root string) []Command {
	if git == "" {
		git = "git"
	}
	return []Command{
		{Name: git, Args: []string{"init"}, Dir: root, Quiet: true},
		{Name: git, Args: []string{"checkout", "-b", branch}, Dir: root, Quiet: true},
		{Name: git, Args: []string{"add", "README.md"}, Dir: root, Quiet: true},
		{Name: git, Args: []string{"commit", "-m", InitialCommitMessage}, Dir: root, Quiet: true},
	}
}

// UVInitSequence creates a library project with uv init in the projects
// directory and adds the runtime and dev dependencies.
func UVInitSequence(cfg *project.Config) []Command {
	cmds := []Command{{
		Name: "uv",
		Args: []string{
			"init", "--lib", cfg.Name(),
			"--description", cfg.Description(),
			"--python", fmt.Sprintf("3.%d", cfg.MinMinor()),
		},
		Dir: cfg.ProjectsDir(),
	}}
	for _, dep := range cfg.Deps() {
		cmds = append(cmds, Command{Name: "uv", Args: []string{"add", dep}, Dir: cfg.Root()})
	}
	for _, dep := range cfg.DevDeps() {
		cmds = append(cmds, Command{Name: "uv", Args: []string{"add", dep, "--dev"}, Dir: cfg.Root()})
	}
	return cmds
}

// Virtual environment directories per strategy.
const (
	SetuptoolsVenv = "venv"
	UVVenv         = ".venv"
)

// DevInstallTarget installs the project in the working directory with its
// dev optional dependencies.
const DevInstallTarget = ".[dev]"

// EnvSequence builds the environment for a project and runs its hooks.
// setuptools projects get a venv from the newest supported interpreter with
// the project installed editable along with its dev extra; uv projects are
// synced by uv.
func EnvSequence(strategy string, cfg *project.Config) ([]Command, error) {
	root := cfg.Root()
	var cmds []Command
	var venv string

	switch strategy {
	case scaffold.Setuptools:
		venv = filepath.Join(root, SetuptoolsVenv)
		launcher, args := platform.PythonLauncher(cfg.MaxMinor())
		python := platform.VenvExe(venv, "python")
		cmds = append(cmds,
			Command{Name: launcher, Args: append(args, "-m", "venv", SetuptoolsVenv), Dir: root},
			Command{Name: python, Args: []string{"-m", "pip", "install", "--upgrade", "pip"}, Dir: root, Quiet: true},
			Command{Name: python, Args: []string{"-m", "pip", "install", "-e", DevInstallTarget}, Dir: root, Quiet: true},
			Command{Name: python, Args: []string{"-m", "pip", "install", "pre-commit"}, Dir: root, Quiet: true},
		)
	case scaffold.UV:
		venv = filepath.Join(root, UVVenv)
		cmds = append(cmds, Command{Name: "uv", Args: []string{"sync"}, Dir: root})
	default:
		return nil, fmt.Errorf("no environment sequence for strategy %q", strategy)
	}

	preCommit := platform.VenvExe(venv, "pre-commit")
	cmds = append(cmds,
		Command{Name: preCommit, Args: []string{"autoupdate"}, Dir: root},
		Command{Name: preCommit, Args: []string{"run", "-a"}, Dir: root},
	)
	return cmds, nil
}

// DetectPythonMinor asks python for its version and returns the minor
// number. Only Python 3 is accepted.
func DetectPythonMinor(ctx context.Context, r Runner, python string) (int, error) {
	out, err := r.Output(ctx, Command{Name: python, Args: []string{"--version"}})
	if err != nil {
		return 0, err
	}
	return parsePythonVersion(out)
}

func parsePythonVersion(out string) (int, error) {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty python version output")
	}
	raw := fields[len(fields)-1]
	// Pre-releases print as 3.13.0rc1; keep only the release numbers.
	if i := strings.IndexFunc(raw, func(r rune) bool { return r != '.' && (r < '0' || r > '9') }); i > 0 {
		raw = raw[:i]
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing python version %q: %w", out, err)
	}
	if v.Major() != 3 {
		return 0, fmt.Errorf("python %s is not Python 3", v)
	}
	return int(v.Minor()), nil
}
