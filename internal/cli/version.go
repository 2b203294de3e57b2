package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/pyseed/internal/branding"
)

func newVersionCmd(root *rootFlags, info buildInfo) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := root.printer(cmd)
			switch {
			case short:
				p.Println(info.version)
			case p.IsJSON():
				return p.WriteJSON(map[string]string{
					"version": info.version,
					"commit":  info.commit,
					"date":    info.date,
				})
			default:
				p.Println(fmt.Sprintf("%s version %s (commit: %s, built: %s)",
					branding.CLIName(), info.version, info.commit, info.date))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print version number only")
	return cmd
}
