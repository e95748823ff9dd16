package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a server configuration file",
		Long: `Parse and bind a server configuration file against the schema,
reporting every binding diagnostic.

Validation fails on a malformed document or an unresolvable include.
Unknown elements and per-field kind mismatches are reported as
diagnostics without failing the command.`,
		Example: `  # Validate the default configuration
  loopcast validate

  # Validate a specific file
  loopcast validate --config /etc/loopcast/Server.xml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.Logger

			tree, binder, err := bindConfigFile(logger, configPath)
			if err != nil {
				return err
			}

			diags := binder.Diagnostics()
			for _, d := range diags {
				fmt.Printf("warning: %s\n", d)
			}

			name, _ := tree.GetString("Name")
			fmt.Printf("%s: OK (server %q, %d diagnostics)\n", configPath, name, len(diags))
			return nil
		},
	}
	return cmd
}
