package create

import (
	"context"
	"os"

	"github.com/apex/log"

	"github.com/agentx-labs/pyseed/internal/chores"
	"github.com/agentx-labs/pyseed/internal/output"
)

// InitProject seeds the project with its strategy's external initializer.
// Strategies that write the manifest themselves skip it.
type InitProject struct{}

func (InitProject) Name() string { return "init project" }

func (InitProject) Run(ctx context.Context, opts *Options, res *Result) error {
	if !opts.Strategy.Seeded {
		log.Debug("Strategy writes its own manifest. Skipping init step.")
		return nil
	}
	if !opts.DryRun {
		if err := os.MkdirAll(opts.Config.ProjectsDir(), 0o755); err != nil {
			return output.NewSystemErrorWithCause("creating projects directory", err)
		}
	}
	log.Infof("Initializing %s with uv", opts.Config.Name())
	if err := run(ctx, opts, res, chores.UVInitSequence(opts.Config)); err != nil {
		return output.NewSystemErrorWithCause("uv init failed", err)
	}
	return nil
}
