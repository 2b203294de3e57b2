package create

import (
	"context"
	"fmt"

	"github.com/apex/log"

	"github.com/agentx-labs/pyseed/internal/chores"
)

// Chain returns the ordered creation steps.
func Chain() []Step {
	return []Step{
		CheckRoot{},
		InitProject{},
		Assemble{},
		InitGit{},
		SyncEnvironment{},
	}
}

// Run creates a project. The returned Result is never nil and describes
// what was done up to the failing step.
func Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}
	if err := checkOptions(&opts); err != nil {
		return res, err
	}
	res.Root = opts.Config.Root()

	for _, step := range Chain() {
		log.Debugf("Step: %s", step.Name())
		if err := step.Run(ctx, &opts, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func checkOptions(opts *Options) error {
	if opts.Config == nil {
		return fmt.Errorf("create: project config is missing")
	}
	if opts.Strategy.Catalog == nil {
		return fmt.Errorf("create: strategy is missing")
	}
	if opts.Runner == nil {
		opts.Runner = chores.NewExecRunner()
	}
	return nil
}
