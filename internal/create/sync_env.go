package create

import (
	"context"

	"github.com/apex/log"

	"github.com/agentx-labs/pyseed/internal/chores"
	"github.com/agentx-labs/pyseed/internal/output"
)

// SyncEnvironment builds the virtual environment and runs pre-commit.
type SyncEnvironment struct{}

func (SyncEnvironment) Name() string { return "sync environment" }

func (SyncEnvironment) Run(ctx context.Context, opts *Options, res *Result) error {
	if opts.SkipEnv {
		log.Debug("Skipping environment step.")
		return nil
	}
	cmds, err := chores.EnvSequence(opts.Strategy.Name, opts.Config)
	if err != nil {
		return output.NewUserErrorWithCause(err.Error(), err)
	}
	log.Info("Building the virtual environment and running pre-commit")
	if err := run(ctx, opts, res, cmds); err != nil {
		return output.NewSystemErrorWithCause("environment setup failed", err)
	}
	return nil
}
