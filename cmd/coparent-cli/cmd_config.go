package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"coparent-api/internal/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration inspection commands",
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the environment configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(); err != nil {
				printFailure(cmd.OutOrStdout(), "%v", err)
				return err
			}
			printSuccess(cmd.OutOrStdout(), "configuration is valid")
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		RunE:  runConfigShow,
	}
	showCmd.Flags().String("format", "env", "Output format: env, json, yaml")

	configCmd.AddCommand(validateCmd, showCmd)
	return configCmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	settings := cfg.Export()
	out := cmd.OutOrStdout()

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "env":
		for _, s := range settings {
			fmt.Fprintf(out, "%s=%s\n", s.Name, s.Value)
		}
		return nil
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(settingsMap(settings))
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(settingsMap(settings)); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format %q (use env, json or yaml)", format)
	}
}

func settingsMap(settings []config.Setting) map[string]string {
	m := make(map[string]string, len(settings))
	for _, s := range settings {
		m[s.Name] = s.Value
	}
	return m
}
