package create

import (
	"context"
	"errors"

	"github.com/apex/log"

	"github.com/agentx-labs/pyseed/internal/output"
	"github.com/agentx-labs/pyseed/internal/scaffold"
	"github.com/agentx-labs/pyseed/internal/snippet"
)

// Assemble writes the strategy's file catalog.
type Assemble struct{}

func (Assemble) Name() string { return "assemble" }

func (Assemble) Run(_ context.Context, opts *Options, res *Result) error {
	a := scaffold.NewAssembler(opts.Store)

	if opts.DryRun {
		plan, err := a.Plan(opts.Config, opts.Strategy)
		if err != nil {
			return classify(err)
		}
		res.Root = opts.Config.Root()
		res.Plan = plan
		for _, p := range plan {
			res.Files = append(res.Files, p.Path)
		}
		return nil
	}

	log.Infof("Writing %s project files to %s", opts.Strategy.Name, opts.Config.Root())
	out, err := a.Assemble(opts.Config, opts.Strategy)
	if out != nil {
		res.Result = *out
	}
	if err != nil {
		return classify(err)
	}
	log.Debugf("Wrote %d files with %d warnings", len(out.Files), len(out.Warnings))
	return nil
}

// classify maps assembly failures onto exit codes: a missing snippet is
// fixable by the user, anything else is a system failure.
func classify(err error) error {
	if errors.Is(err, snippet.ErrNotFound) {
		return output.NewUserErrorWithCause(err.Error(), err)
	}
	return output.NewSystemErrorWithCause("assembling project", err)
}
