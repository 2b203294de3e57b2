package create

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/agentx-labs/pyseed/internal/output"
)

// CheckRoot refuses to touch an existing project directory.
type CheckRoot struct{}

func (CheckRoot) Name() string { return "check root" }

func (CheckRoot) Run(_ context.Context, opts *Options, _ *Result) error {
	root := opts.Config.Root()
	_, err := os.Stat(root)
	switch {
	case err == nil:
		return output.NewConflictError(fmt.Sprintf("%s already exists", root))
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return output.NewSystemErrorWithCause("checking "+root, err)
	}
}
