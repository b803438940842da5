package main

import (
	"fmt"
	"os"

	"github.com/aretw0/rail"
	"github.com/aretw0/rail/internal/config"
	"github.com/aretw0/rail/internal/presentation/tui"
	"github.com/aretw0/rail/pkg/ports"
	"github.com/aretw0/rail/pkg/schema"
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint <schema.rail>...",
	Short: "Check schema documents for errors",
	Long:  `Builds each schema and reports every construction error, not just the first one.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		models, closeModels, err := config.OpenModels(env.Config.Models)
		if err != nil {
			return err
		}
		defer closeModels()

		w := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			errs, err := lintFile(cmd, path, env.Config.Strict, models)
			if err != nil {
				return err
			}
			if len(errs) == 0 {
				fmt.Fprintf(w, "%s %s\n", tui.Status(true), path)
				continue
			}
			failed++
			fmt.Fprintf(w, "%s %s\n", tui.Status(false), path)
			for _, e := range errs {
				fmt.Fprintf(w, "    %v\n", e)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d schemas have errors", failed, len(args))
		}
		return nil
	},
}

func lintFile(cmd *cobra.Command, path string, strict bool, models ports.ModelRegistry) ([]error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	err = rail.Lint(cmd.Context(), f, rail.WithStrict(strict), rail.WithModels(models))
	return schema.Errors(err), nil
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
