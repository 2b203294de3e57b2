package create

import (
	"context"

	"github.com/apex/log"

	"github.com/agentx-labs/pyseed/internal/chores"
	"github.com/agentx-labs/pyseed/internal/output"
)

// InitGit creates the repository and commits README.md on the work branch.
type InitGit struct{}

func (InitGit) Name() string { return "init git" }

func (InitGit) Run(ctx context.Context, opts *Options, res *Result) error {
	if opts.SkipGit {
		log.Debug("Skipping git step.")
		return nil
	}
	branch := opts.Branch
	if branch == "" {
		branch = "dev"
	}
	log.Infof("Initializing git repository on branch %s", branch)
	cmds := chores.GitSequence(opts.Git, branch, opts.Config.Root())
	if err := run(ctx, opts, res, cmds); err != nil {
		return output.NewSystemErrorWithCause("git setup failed", err)
	}
	return nil
}
