package create

import (
	"context"

	"github.com/agentx-labs/pyseed/internal/chores"
	"github.com/agentx-labs/pyseed/internal/project"
	"github.com/agentx-labs/pyseed/internal/scaffold"
	"github.com/agentx-labs/pyseed/internal/snippet"
)

// Options configures a creation run.
type Options struct {
	Config   *project.Config
	Strategy scaffold.Strategy
	Store    *snippet.Store
	Runner   chores.Runner
	Git      string
	Branch   string
	SkipGit  bool
	SkipEnv  bool
	// DryRun renders everything and records the commands that would run,
	// without writing files or starting processes.
	DryRun bool
}

// Result is what a run produced, or in a dry run what it would produce.
type Result struct {
	scaffold.Result
	Plan     []scaffold.Planned
	Commands []chores.Command
}

// Step is a single link in the creation chain.
type Step interface {
	Name() string
	Run(ctx context.Context, opts *Options, res *Result) error
}

// run executes cmds, or records them in a dry run.
func run(ctx context.Context, opts *Options, res *Result, cmds []chores.Command) error {
	res.Commands = append(res.Commands, cmds...)
	if opts.DryRun {
		return nil
	}
	return chores.RunAll(ctx, opts.Runner, cmds)
}
