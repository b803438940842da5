package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/rail"
	"github.com/aretw0/rail/internal/cli"
	"github.com/aretw0/rail/pkg/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var validateCmd = &cobra.Command{
	Use:   "validate <schema.rail> [output.json|-]",
	Short: "Validate an output document against a schema",
	Long: `Validates a JSON or YAML output document (read from stdin when omitted
or "-") and prints the corrected document. Exits non-zero when validation fails.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}

		guard, err := env.OpenGuard(cmd.Context(), args[0], schema.Hooks{})
		if err != nil {
			return err
		}

		input := "-"
		if len(args) > 1 {
			input = args[1]
		}
		rc, err := cli.OpenInput(input, cmd.InOrStdin())
		if err != nil {
			return err
		}
		defer rc.Close()

		doc, err := rail.DecodeOutput(rc)
		if err != nil {
			return err
		}

		out, err := guard.Validate(cmd.Context(), doc)
		if err != nil {
			var vf *schema.ValidatorFailure
			if errors.As(err, &vf) && vf.Reask {
				return fmt.Errorf("output must be regenerated: %w", err)
			}
			return fmt.Errorf("validation failed: %w", err)
		}

		format, _ := cmd.Flags().GetString("format")
		w := cmd.OutOrStdout()
		switch format {
		case "json":
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		case "yaml":
			enc := yaml.NewEncoder(w)
			defer enc.Close()
			return enc.Encode(out)
		}
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("format", "f", "json", "Output format: json or yaml")
}
