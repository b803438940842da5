package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/rail"
	"github.com/aretw0/rail/internal/presentation/graph"
	"github.com/aretw0/rail/internal/presentation/tui"
	"github.com/aretw0/rail/pkg/schema"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <schema.rail>",
	Short: "Describe the fields and validators of a schema",
	Long: `Renders the schema as documentation. Formats:
- markdown (default): rendered for the terminal, plain when piped.
- json: the schema tree.
- mermaid: a flowchart of the tree.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		guard, err := env.OpenGuard(cmd.Context(), args[0], schema.Hooks{})
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		keywords, _ := cmd.Flags().GetBool("keywords")
		w := cmd.OutOrStdout()

		switch format {
		case "markdown", "md":
			tui.PrintBanner(w, strings.TrimSpace(rail.Version))
			render := tui.NewRenderer()
			out, err := render(guard.Describe(keywords))
			if err != nil {
				return err
			}
			fmt.Fprint(w, out)
			return nil
		case "json":
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(guard.Schema())
		case "mermaid":
			fmt.Fprint(w, graph.GenerateMermaid(guard.Schema().Root(), nil))
			return nil
		}
		return fmt.Errorf("unknown format %q (want markdown, json or mermaid)", format)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringP("format", "f", "markdown", "Output format: markdown, json or mermaid")
	describeCmd.Flags().Bool("keywords", false, "Render validator arguments with keyword names")
}
