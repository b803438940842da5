package main

import (
	"fmt"
	"os"

	"github.com/aretw0/rail/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rail",
	Short: "rail validates and corrects structured output against a schema",
	Long: `rail loads an output schema written in the rail markup language and
validates JSON or YAML documents against it, applying the corrections the
schema's validators allow.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./rail.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("strict", false, "Reject validators that are not valid for their element")
	rootCmd.PersistentFlags().String("models", "", "Model registry: memory, file, loam or redis")
	rootCmd.PersistentFlags().String("models-path", "", "Directory of the file or loam model registry")
}

// setup resolves configuration from rail.yaml, RAIL_* variables and flags.
func setup(cmd *cobra.Command) (*cli.Env, error) {
	flags := cmd.Flags()
	f := cli.Flags{StrictSet: flags.Changed("strict")}
	f.ConfigPath, _ = flags.GetString("config")
	f.LogLevel, _ = flags.GetString("log-level")
	f.Strict, _ = flags.GetBool("strict")
	f.Models, _ = flags.GetString("models")
	f.ModelsPath, _ = flags.GetString("models-path")
	return cli.Setup(f)
}
