package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/pyseed/internal/chores"
	"github.com/agentx-labs/pyseed/internal/config"
	"github.com/agentx-labs/pyseed/internal/output"
	"github.com/agentx-labs/pyseed/internal/platform"
	"github.com/agentx-labs/pyseed/internal/project"
	"github.com/agentx-labs/pyseed/internal/scaffold"
)

type checkStatus string

const (
	checkPass checkStatus = "pass"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

type checkResult struct {
	Name    string      `json:"name"`
	Status  checkStatus `json:"status"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

type doctorResult struct {
	Version  string        `json:"version"`
	Checks   []checkResult `json:"checks"`
	Passed   int           `json:"passed"`
	Warnings int           `json:"warnings"`
	Failed   int           `json:"failed"`
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

func newDoctorCmd(root *rootFlags, info buildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check tools, settings and snippet corpora",
		Long: `Check that pyseed can create projects.

Checks:
  tools     git, uv and python on PATH and the running Python version
  settings  config file readable, strategy valid, projects directory
  snippets  every trigger the configured strategy needs exists`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, root, info)
		},
	}
}

func runDoctor(cmd *cobra.Command, root *rootFlags, info buildInfo) error {
	p := root.printer(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := config.Current()
	if err != nil {
		return fail(p, output.NewUserErrorWithCause("reading settings", err))
	}

	result := &doctorResult{Version: info.version}
	result.Checks = append(result.Checks, toolChecks(ctx, newRunner(cmd), settings)...)
	result.Checks = append(result.Checks, settingsChecks(settings)...)
	result.Checks = append(result.Checks, snippetChecks(settings)...)
	for _, c := range result.Checks {
		switch c.Status {
		case checkPass:
			result.Passed++
		case checkWarn:
			result.Warnings++
		case checkFail:
			result.Failed++
		}
	}

	if p.IsJSON() {
		if err := p.WriteJSON(result); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(result.Checks))
		for _, c := range result.Checks {
			msg := c.Message
			if c.Hint != "" && c.Status != checkPass {
				msg += " (" + c.Hint + ")"
			}
			rows = append(rows, []string{c.Name, string(c.Status), msg})
		}
		p.Table([]string{"CHECK", "STATUS", "DETAIL"}, rows)
		p.Println()
		p.Println(fmt.Sprintf("%d passed, %d warnings, %d failed", result.Passed, result.Warnings, result.Failed))
	}

	if result.Failed > 0 {
		return output.NewSystemError(fmt.Sprintf("doctor found %d failing checks", result.Failed))
	}
	return nil
}

func toolChecks(ctx context.Context, r chores.Runner, s *config.Settings) []checkResult {
	checks := []checkResult{
		toolCheck("git", s.Git, checkFail, "install git or set the git key"),
		toolCheck("uv", "uv", uvSeverity(s.Strategy), "install uv from https://docs.astral.sh/uv/"),
	}
	python := platform.DefaultPython()
	check := toolCheck("python", python, checkFail, "install Python 3")
	if check.Status == checkPass {
		if minor, err := chores.DetectPythonMinor(ctx, r, python); err != nil {
			check = checkResult{Name: "python", Status: checkWarn, Message: err.Error(), Hint: "set python_minor"}
		} else {
			check.Message = fmt.Sprintf("Python 3.%d", minor)
		}
	}
	return append(checks, check)
}

func uvSeverity(strategy string) checkStatus {
	if strategy == scaffold.UV {
		return checkFail
	}
	return checkWarn
}

func toolCheck(name, bin string, missing checkStatus, hint string) checkResult {
	p, err := lookPath(bin)
	if err != nil {
		return checkResult{Name: name, Status: missing, Message: bin + " not found on PATH", Hint: hint}
	}
	return checkResult{Name: name, Status: checkPass, Message: p}
}

func settingsChecks(s *config.Settings) []checkResult {
	var checks []checkResult

	if _, err := os.Stat(config.FilePath()); err != nil {
		checks = append(checks, checkResult{Name: "config", Status: checkPass, Message: "using defaults"})
	} else {
		checks = append(checks, checkResult{Name: "config", Status: checkPass, Message: config.FilePath()})
	}

	if slices.Contains(scaffold.Strategies(), s.Strategy) {
		checks = append(checks, checkResult{Name: "strategy", Status: checkPass, Message: s.Strategy})
	} else {
		checks = append(checks, checkResult{
			Name: "strategy", Status: checkFail,
			Message: fmt.Sprintf("unknown strategy %q", s.Strategy),
			Hint:    "pyseed config set strategy uv",
		})
	}

	if info, err := os.Stat(s.ProjectsDir); err == nil && info.IsDir() {
		checks = append(checks, checkResult{Name: "projects_dir", Status: checkPass, Message: s.ProjectsDir})
	} else {
		checks = append(checks, checkResult{
			Name: "projects_dir", Status: checkWarn,
			Message: s.ProjectsDir + " does not exist",
			Hint:    "it is created with the first project",
		})
	}
	return checks
}

func snippetChecks(s *config.Settings) []checkResult {
	strategy, err := scaffold.Lookup(s.Strategy, s.License)
	if err != nil {
		return []checkResult{{
			Name: "snippets", Status: checkFail,
			Message: "cannot check triggers: " + err.Error(),
			Hint:    "pyseed config set strategy uv",
		}}
	}
	// Any valid configuration yields the same catalog triggers.
	cfg, err := project.New(project.Input{MaxMinor: project.DefaultMinMinor}, project.Env{Now: time.Now()})
	if err != nil {
		return []checkResult{{Name: "snippets", Status: checkFail, Message: err.Error()}}
	}

	store := storeFor(s.SnippetsDir)
	required := scaffold.Required(strategy, cfg)
	corpora := make([]string, 0, len(required))
	for c := range required {
		corpora = append(corpora, c)
	}
	slices.Sort(corpora)

	var checks []checkResult
	for _, corpus := range corpora {
		name := "snippets/" + corpus
		have, err := store.Triggers(corpus)
		if err != nil {
			checks = append(checks, checkResult{Name: name, Status: checkFail, Message: err.Error()})
			continue
		}
		var missing []string
		for _, t := range required[corpus] {
			if !slices.Contains(have, t) {
				missing = append(missing, t)
			}
		}
		if len(missing) > 0 {
			checks = append(checks, checkResult{
				Name: name, Status: checkFail,
				Message: "missing triggers: " + strings.Join(missing, ", "),
				Hint:    "add them to " + store.Location(corpus),
			})
			continue
		}
		checks = append(checks, checkResult{Name: name, Status: checkPass, Message: store.Location(corpus)})
	}
	return checks
}
