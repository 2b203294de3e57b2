package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/agentx-labs/pyseed/internal/chores"
	"github.com/agentx-labs/pyseed/internal/config"
	"github.com/agentx-labs/pyseed/internal/create"
	"github.com/agentx-labs/pyseed/internal/output"
	"github.com/agentx-labs/pyseed/internal/platform"
	"github.com/agentx-labs/pyseed/internal/project"
	"github.com/agentx-labs/pyseed/internal/prompt"
	"github.com/agentx-labs/pyseed/internal/scaffold"
	"github.com/agentx-labs/pyseed/internal/snippet"
)

type newFlags struct {
	description string
	minMinor    string
	maxMinor    string
	deps        string
	devDeps     string
	strategy    string
	projectsDir string
	snippetsDir string
	noGit       bool
	noEnv       bool
	dryRun      bool
	yes         bool
}

// newRunner builds the runner used for external tools. Tests replace it.
var newRunner = func(cmd *cobra.Command) chores.Runner {
	return &chores.ExecRunner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
}

// newAsker picks promptui on a terminal and line reading otherwise.
var newAsker = func(cmd *cobra.Command) prompt.Asker {
	if stdinIsTerminal(cmd) {
		return prompt.ConsoleAsker{}
	}
	return prompt.NewLineAsker(cmd.InOrStdin(), cmd.ErrOrStderr())
}

func newNewCmd(root *rootFlags) *cobra.Command {
	flags := &newFlags{}

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new Python project",
		Long: `Create a new Python project under the projects directory.

Answers not given as flags are asked for interactively unless --yes is set,
in which case defaults are used. Without --max the newest supported version is
the running interpreter's.

Strategies:
  uv          uv init seeds the project; tool sections are appended to its
              pyproject.toml and the environment is built with uv sync
  setuptools  pyproject.toml is written in full and a venv is created with
              the newest supported interpreter

Examples:
  pyseed new demo --description "A demo." --min 10 --max 12
  pyseed new demo --strategy setuptools --dev-deps pytest,tox
  pyseed new demo --yes --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd, args, root, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "One-line project description")
	cmd.Flags().StringVar(&flags.minMinor, "min", "", "Minimum Python minor version (the n in 3.n)")
	cmd.Flags().StringVar(&flags.maxMinor, "max", "", "Maximum Python minor version (default: running interpreter)")
	cmd.Flags().StringVar(&flags.deps, "deps", "", "Comma-separated runtime dependencies")
	cmd.Flags().StringVar(&flags.devDeps, "dev-deps", "", "Comma-separated dev dependencies")
	cmd.Flags().StringVarP(&flags.strategy, "strategy", "s", "", "Build strategy: uv or setuptools (default from config)")
	cmd.Flags().StringVar(&flags.projectsDir, "projects-dir", "", "Parent directory of the new project (default from config)")
	cmd.Flags().StringVar(&flags.snippetsDir, "snippets-dir", "", "Directory of *.snippets corpora (default from config)")
	cmd.Flags().BoolVar(&flags.noGit, "no-git", false, "Skip git initialization")
	cmd.Flags().BoolVar(&flags.noEnv, "no-env", false, "Skip building the environment and running pre-commit")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show what would be written and run")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Use defaults for unanswered questions")

	return cmd
}

func runNew(cmd *cobra.Command, args []string, root *rootFlags, flags *newFlags) error {
	p := root.printer(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := config.Current()
	if err != nil {
		return fail(p, output.NewUserErrorWithCause("reading settings", err))
	}
	applyOverrides(settings, flags)

	in, err := gatherInput(cmd, args, flags)
	if err != nil {
		return fail(p, output.NewUserErrorWithCause("reading answers", err))
	}

	runner := newRunner(cmd)
	cfg, err := project.New(in, project.Env{
		ProjectsDir:  settings.ProjectsDir,
		Author:       settings.Author,
		Now:          time.Now(),
		RunningMinor: runningMinor(ctx, runner, in.MaxMinor, settings.PythonMinor),
	})
	if err != nil {
		return fail(p, output.NewUserErrorWithCause(err.Error(), err))
	}

	strategy, err := scaffold.Lookup(settings.Strategy, settings.License)
	if err != nil {
		return fail(p, output.NewUserErrorWithCause(err.Error(), err))
	}

	res, err := create.Run(ctx, create.Options{
		Config:   cfg,
		Strategy: strategy,
		Store:    storeFor(settings.SnippetsDir),
		Runner:   runner,
		Git:      settings.Git,
		Branch:   settings.Branch,
		SkipGit:  flags.noGit,
		SkipEnv:  flags.noEnv,
		DryRun:   flags.dryRun,
	})
	if err != nil {
		return fail(p, err)
	}
	return reportNew(p, cfg, strategy, res, flags.dryRun)
}

func applyOverrides(s *config.Settings, flags *newFlags) {
	if flags.strategy != "" {
		s.Strategy = flags.strategy
	}
	if flags.projectsDir != "" {
		s.ProjectsDir = flags.projectsDir
	}
	if flags.snippetsDir != "" {
		s.SnippetsDir = flags.snippetsDir
	}
}

func gatherInput(cmd *cobra.Command, args []string, flags *newFlags) (project.Input, error) {
	changed := cmd.Flags().Changed
	in := project.Input{
		Description: flags.description,
		MinMinor:    flags.minMinor,
		MaxMinor:    flags.maxMinor,
		Deps:        project.ParseList(flags.deps),
	}
	if len(args) == 1 {
		in.Name = args[0]
	}
	if changed("dev-deps") {
		in.DevDeps = project.ParseList(flags.devDeps)
		if in.DevDeps == nil {
			in.DevDeps = []string{}
		}
	}
	if flags.yes {
		return in, nil
	}
	return prompt.Fill(newAsker(cmd), in, prompt.Given{
		Name:        len(args) == 1,
		Description: changed("description"),
		MinMinor:    changed("min"),
		MaxMinor:    changed("max"),
		Deps:        changed("deps"),
		DevDeps:     changed("dev-deps"),
	})
}

// runningMinor is only consulted when no maximum was given.
func runningMinor(ctx context.Context, r chores.Runner, maxMinor string, fallback int) int {
	if maxMinor != "" {
		return fallback
	}
	minor, err := chores.DetectPythonMinor(ctx, r, platform.DefaultPython())
	if err != nil {
		log.Warnf("Could not detect the running Python version, using 3.%d: %s", fallback, err)
		return fallback
	}
	log.Debugf("Running Python is 3.%d", minor)
	return minor
}

func storeFor(dir string) *snippet.Store {
	if dir == "" {
		return snippet.Builtin()
	}
	return snippet.Dir(dir)
}

func reportNew(p *output.Printer, cfg *project.Config, s scaffold.Strategy, res *create.Result, dryRun bool) error {
	commands := make([]string, 0, len(res.Commands))
	for _, c := range res.Commands {
		commands = append(commands, c.String())
	}

	if p.IsJSON() {
		return p.WriteJSON(map[string]any{
			"name":            cfg.Name(),
			"root":            res.Root,
			"strategy":        s.Name,
			"requires_python": cfg.RequiresPython(),
			"files":           res.Files,
			"commands":        commands,
			"warnings":        res.Warnings,
			"dry_run":         dryRun,
		})
	}

	if dryRun {
		for _, planned := range res.Plan {
			p.Box(fmt.Sprintf("%s (%s)", planned.Path, planned.Mode), planned.Content)
		}
		if len(commands) > 0 {
			p.Section("Commands")
			for _, c := range commands {
				p.Println("  " + c)
			}
		}
		return nil
	}

	for _, w := range res.Warnings {
		p.Warn("%s", w)
	}
	p.Section(cfg.Name())
	p.KeyValue("Root", res.Root)
	p.KeyValue("Strategy", s.Name)
	p.KeyValue("Requires", cfg.RequiresPython())
	p.KeyValue("Files", fmt.Sprintf("%d", len(res.Files)))
	p.Println()
	return p.Success(map[string]any{"message": "Created " + cfg.Name()})
}
