package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	logcli "github.com/apex/log/handlers/cli"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/agentx-labs/pyseed/internal/branding"
	"github.com/agentx-labs/pyseed/internal/config"
	"github.com/agentx-labs/pyseed/internal/output"
)

type buildInfo struct {
	version string
	commit  string
	date    string
}

func (b buildInfo) String() string {
	if b.commit == "unknown" && b.date == "unknown" {
		return b.version
	}
	short := b.commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", b.version, short, b.date)
}

type rootFlags struct {
	verbose bool
	quiet   bool
	json    bool
	color   string
}

// Execute runs the command tree and returns the process exit code.
func Execute(version, commit, date string) int {
	info := buildInfo{version: version, commit: commit, date: date}
	cmd := newRootCmd(info)
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(info.String()))
	return output.GetExitCode(err)
}

func newRootCmd(info buildInfo) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   branding.CLIName(),
		Short: branding.Description(),
		Long: branding.DisplayName() + ` lays out a new Python project: a src-layout package, a pyproject.toml
assembled from snippet templates, pre-commit and editor configuration, a git
repository on a work branch and a ready virtual environment.

Templates are read from UltiSnips-style *.snippets files. Without a configured
snippets_dir the built-in corpora are used.`,
		Version:       info.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(cmd, flags)
			if err := config.Load(); err != nil {
				return output.NewUserErrorWithCause("loading configuration", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "V", false, "Show debug output")
	cmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "Only show warnings and errors")
	cmd.PersistentFlags().BoolVar(&flags.json, "json", false, "Print results as JSON")
	cmd.PersistentFlags().StringVar(&flags.color, "color", "auto", "Color output: auto, always or never")

	cmd.AddCommand(
		newNewCmd(flags),
		newSnippetCmd(flags),
		newDoctorCmd(flags, info),
		newConfigCmd(flags),
		newVersionCmd(flags, info),
	)
	return cmd
}

func setupLogging(cmd *cobra.Command, flags *rootFlags) {
	log.SetHandler(logcli.New(cmd.ErrOrStderr()))
	switch {
	case flags.verbose:
		log.SetLevel(log.DebugLevel)
	case flags.quiet || flags.json:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// printer builds the output printer for a command.
func (f *rootFlags) printer(cmd *cobra.Command) *output.Printer {
	w := cmd.OutOrStdout()
	tty := output.ResolveColorMode(f.color, output.IsTTY(w))
	return output.NewPrinter(w, f.json, tty).WithStderr(cmd.ErrOrStderr())
}

// fail returns err for fang to report. In JSON mode the error is also
// written to stdout as a JSON document.
func fail(p *output.Printer, err error) error {
	if p.IsJSON() {
		p.Error(err)
	}
	return err
}

func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && output.IsTTY(f)
}
