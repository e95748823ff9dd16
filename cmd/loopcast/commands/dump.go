package commands

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/loopcast/loopcast/pkg/config"
)

func newDumpCommand() *cobra.Command {
	var (
		format          string
		includeDefaults bool
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump the effective configuration",
		Long: `Bind the server configuration file and print the effective tree,
including values layered in from include files.

By default only fields the documents actually supplied are printed;
--include-defaults prints every declared field with its default.`,
		Example: `  # Human-readable dump
  loopcast dump

  # Re-bindable XML with every field
  loopcast dump --format xml --include-defaults

  # Machine-readable dumps
  loopcast dump --format yaml
  loopcast dump --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.Logger

			tree, _, err := bindConfigFile(logger, configPath)
			if err != nil {
				return err
			}

			ser := config.Serializer{IncludeDefaults: includeDefaults}
			switch format {
			case "text":
				fmt.Print(ser.Render(tree))
			case "xml":
				fmt.Print(ser.RenderXML(tree))
			case "yaml":
				out, err := yaml.Marshal(ser.ToMap(tree))
				if err != nil {
					return fmt.Errorf("failed to render yaml: %w", err)
				}
				fmt.Print(string(out))
			case "json":
				out, err := json.MarshalIndent(ser.ToMap(tree), "", "  ")
				if err != nil {
					return fmt.Errorf("failed to render json: %w", err)
				}
				fmt.Println(string(out))
			default:
				return fmt.Errorf("unknown format %q (want text, xml, yaml or json)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, xml, yaml or json")
	cmd.Flags().BoolVar(&includeDefaults, "include-defaults", false, "print unparsed fields with their defaults")

	return cmd
}
