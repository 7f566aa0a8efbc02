package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

type readinessBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func newHealthCmd() *cobra.Command {
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Probe the liveness and readiness endpoints of a running API",
		RunE:  runHealth,
	}
	healthCmd.Flags().String("url", "http://localhost:8080", "Base URL of the API")
	healthCmd.Flags().Duration("timeout", 5*time.Second, "Per-request timeout")
	return healthCmd
}

func runHealth(cmd *cobra.Command, args []string) error {
	baseURL, _ := cmd.Flags().GetString("url")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	out := cmd.OutOrStdout()

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout)

	resp, err := client.R().SetContext(cmd.Context()).Get("/healthz")
	if err != nil {
		printFailure(out, "healthz: %v", err)
		return fmt.Errorf("api unreachable at %s", baseURL)
	}
	if resp.IsError() {
		printFailure(out, "healthz: HTTP %d", resp.StatusCode())
		return fmt.Errorf("api is not healthy")
	}
	printSuccess(out, "healthz")

	var body readinessBody
	resp, err = client.R().SetContext(cmd.Context()).SetResult(&body).SetError(&body).Get("/readyz")
	if err != nil {
		printFailure(out, "readyz: %v", err)
		return fmt.Errorf("readiness probe failed")
	}
	if resp.IsError() {
		for name, reason := range body.Checks {
			printFailure(out, "%s: %s", name, reason)
		}
		return fmt.Errorf("api is not ready (HTTP %d)", resp.StatusCode())
	}
	printSuccess(out, "readyz")
	return nil
}
