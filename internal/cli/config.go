package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/pyseed/internal/config"
	"github.com/agentx-labs/pyseed/internal/output"
)

func newConfigCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user settings",
		Long: fmt.Sprintf(`Read and write settings stored at ~/.pyseed/config.yaml.

Environment variables named PYSEED_<KEY> override the file.

Keys: %v`, config.Keys()),
	}
	cmd.AddCommand(newConfigGetCmd(root), newConfigSetCmd(root), newConfigListCmd(root))
	return cmd
}

func newConfigSetCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := root.printer(cmd)
			key, value := args[0], args[1]
			if err := config.Set(key, value); err != nil {
				return fail(p, output.NewUserErrorWithCause(fmt.Sprintf("setting config key %q", key), err))
			}
			return p.Success(map[string]any{"message": fmt.Sprintf("Set %s = %s", key, value)})
		},
	}
}

func newConfigGetCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := root.printer(cmd)
			if p.IsJSON() {
				return p.WriteJSON(map[string]any{args[0]: config.Get(args[0])})
			}
			p.Println(config.Get(args[0]))
			return nil
		},
	}
}

func newConfigListCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every setting with its resolved value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := root.printer(cmd)
			values := make(map[string]any, len(config.Keys()))
			rows := make([][]string, 0, len(config.Keys()))
			for _, k := range config.Keys() {
				values[k] = config.Get(k)
				rows = append(rows, []string{k, config.Get(k)})
			}
			if p.IsJSON() {
				return p.WriteJSON(values)
			}
			p.Table([]string{"KEY", "VALUE"}, rows)
			return nil
		},
	}
}
