package cli

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/pyseed/internal/config"
	"github.com/agentx-labs/pyseed/internal/output"
	"github.com/agentx-labs/pyseed/internal/snippet"
)

type snippetFlags struct {
	subs        []string
	list        bool
	snippetsDir string
}

func newSnippetCmd(root *rootFlags) *cobra.Command {
	flags := &snippetFlags{}

	cmd := &cobra.Command{
		Use:   "snippet <corpus> [trigger]",
		Short: "Print a filled-in snippet or list a corpus",
		Long: `Print the body of a snippet with positional markers filled in.

The corpus is a file name in the snippets directory; the .snippets extension
may be left off. Without a trigger the triggers are offered as a menu.

Examples:
  pyseed snippet toml pyproject --sub 1=demo --sub 2="A demo."
  pyseed snippet yaml --list`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnippet(cmd, args, root, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.subs, "sub", nil, "Fill marker $N with a value, as N=value (repeatable)")
	cmd.Flags().BoolVarP(&flags.list, "list", "l", false, "List the triggers in the corpus")
	cmd.Flags().StringVar(&flags.snippetsDir, "snippets-dir", "", "Directory of *.snippets corpora (default from config)")

	return cmd
}

func runSnippet(cmd *cobra.Command, args []string, root *rootFlags, flags *snippetFlags) error {
	p := root.printer(cmd)

	dir := flags.snippetsDir
	if dir == "" {
		settings, err := config.Current()
		if err != nil {
			return fail(p, output.NewUserErrorWithCause("reading settings", err))
		}
		dir = settings.SnippetsDir
	}
	store := storeFor(dir)
	corpus := corpusName(args[0])

	if flags.list || len(args) == 1 {
		triggers, err := store.Triggers(corpus)
		if err != nil {
			return fail(p, output.NewUserErrorWithCause(err.Error(), err))
		}
		if flags.list {
			if p.IsJSON() {
				return p.WriteJSON(map[string]any{"corpus": store.Location(corpus), "triggers": triggers})
			}
			for _, t := range triggers {
				p.Println(t)
			}
			return nil
		}
		trigger, err := newAsker(cmd).Choose("Select trigger:", triggers)
		if err != nil {
			return fail(p, output.NewUserErrorWithCause("choosing trigger", err))
		}
		args = append(args, trigger)
	}

	subs, err := parseSubs(flags.subs)
	if err != nil {
		return fail(p, output.NewUserErrorWithCause(err.Error(), err))
	}
	body, err := store.Select(corpus, args[1], subs...)
	if err != nil {
		return fail(p, output.NewUserErrorWithCause(err.Error(), err))
	}

	if p.IsJSON() {
		return p.WriteJSON(map[string]any{"corpus": store.Location(corpus), "trigger": args[1], "body": body})
	}
	p.Print("%s", body)
	return nil
}

// corpusName accepts "toml" for "toml.snippets".
func corpusName(arg string) string {
	if path.Ext(arg) == "" {
		return arg + ".snippets"
	}
	return arg
}

func parseSubs(raw []string) ([]snippet.Sub, error) {
	subs := make([]snippet.Sub, 0, len(raw))
	for _, r := range raw {
		key, value, ok := strings.Cut(r, "=")
		n, err := strconv.Atoi(strings.TrimPrefix(key, "$"))
		if !ok || err != nil || n < 0 {
			return nil, fmt.Errorf("invalid --sub %q: want N=value", r)
		}
		subs = append(subs, snippet.Slot(n, value))
	}
	return subs, nil
}
