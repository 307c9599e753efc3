package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/smykla-skalski/codemate/internal/schema"
)

var (
	schemaOutput     string
	schemaCompact    bool
	configFormatFlag string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect codemate configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after merging defaults, the global and project
files, CODEMATE_* environment variables and command-line flags.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON Schema for configuration",
	Long: `Generate a JSON Schema (Draft 2020-12) for the codemate configuration format.

Examples:
  codemate config schema                           # Print to stdout
  codemate config schema --output schema.json      # Write to file
  codemate config schema --compact                 # Compact output`,
	Args: cobra.NoArgs,
	RunE: runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSchemaCmd)

	configShowCmd.Flags().StringVarP(&configFormatFlag, "format", "o", formatYAML, "Output format (json, yaml)")

	configSchemaCmd.Flags().StringVarP(
		&schemaOutput,
		"output", "O",
		"",
		"Write schema to file instead of stdout",
	)

	configSchemaCmd.Flags().BoolVar(
		&schemaCompact,
		"compact",
		false,
		"Output compact JSON without indentation",
	)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	switch configFormatFlag {
	case formatJSON:
		return writeStructured(cmd.OutOrStdout(), formatJSON, cfg)
	case formatYAML, formatText:
	default:
		return validateFormat(configFormatFlag)
	}

	// Config carries json tags only; going through JSON keeps the same keys.
	data, err := json.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return errors.Wrap(err, "converting config")
	}

	blockStyle(&node)

	return writeStructured(cmd.OutOrStdout(), formatYAML, &node)
}

// blockStyle drops the flow and quoting styles a JSON document parses with.
func blockStyle(n *yaml.Node) {
	n.Style = 0

	for _, c := range n.Content {
		blockStyle(c)
	}
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	data, err := schema.GenerateJSON(!schemaCompact)
	if err != nil {
		return errors.Wrap(err, "generating schema")
	}

	if schemaOutput != "" {
		const filePerms = 0o644

		if writeErr := os.WriteFile(schemaOutput, data, filePerms); writeErr != nil {
			return errors.Wrap(writeErr, "writing schema file")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", schemaOutput)

		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))

	return nil
}
