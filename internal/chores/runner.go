package chores

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

var (
	spinnerPicture    = spinner.CharSets[9]
	spinnerUpdateTime = 100 * time.Millisecond
)

// Command is one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env is appended to the current environment.
	Env []string
	// Quiet captures output instead of streaming it. The output is shown
	// only if the command fails.
	Quiet bool
}

func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	for i, p := range parts {
		if p == "" || strings.ContainsAny(p, " \t\"") {
			parts[i] = fmt.Sprintf("%q", p)
		}
	}
	return strings.Join(parts, " ")
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
	Output(ctx context.Context, cmd Command) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner streaming to the process stdout and stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) command(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	return cmd
}

// Run executes c and waits for it. Quiet commands show a spinner while they
// run when stdout is a terminal.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	log.Infof("Running %s", c)
	cmd := r.command(ctx, c)

	if !c.Quiet {
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("failed to run %s: %w", c, err)
		}
		return nil
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if isatty.IsTerminal(os.Stdout.Fd()) {
		s := spinner.New(spinnerPicture, spinnerUpdateTime)
		s.Suffix = " " + c.Name
		s.Start()
		defer s.Stop()
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run %s: %w\n%s", c, err, strings.TrimSpace(buf.String()))
	}
	return nil
}

// Output executes c and returns its trimmed stdout.
func (r *ExecRunner) Output(ctx context.Context, c Command) (string, error) {
	log.Debugf("Running %s", c)
	cmd := r.command(ctx, c)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to run %s: %w %s", c, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// RunAll runs cmds in order and stops at the first failure.
func RunAll(ctx context.Context, r Runner, cmds []Command) error {
	for i, c := range cmds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Run(ctx, c); err != nil {
			return fmt.Errorf("step %d of %d: %w", i+1, len(cmds), err)
		}
	}
	return nil
}
