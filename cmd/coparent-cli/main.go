package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "coparent-cli",
		Short: "Operations CLI for the co-parent message API",
		Long: `coparent-cli manages the database schema, inspects the effective
configuration and probes a running API instance.

Examples:
  coparent-cli migrate up
  coparent-cli migrate status
  coparent-cli config show --format yaml
  coparent-cli health --url http://localhost:8080`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			files, _ := cmd.Flags().GetStringSlice("env-file")
			return loadEnvFiles(files)
		},
	}

	root.PersistentFlags().StringSlice("env-file", []string{".env"}, "Env files loaded before reading configuration")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newHealthCmd())
	return root
}

// loadEnvFiles overlays each existing file onto the environment. Missing files are skipped.
func loadEnvFiles(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Overload(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}
