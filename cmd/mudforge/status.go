// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// ProcessStatus holds the status information for a running server.
type ProcessStatus struct {
	Addr    string `json:"addr"`
	Running bool   `json:"running"`
	Health  string `json:"health,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewStatusCmd creates the status subcommand. It probes the observability
// endpoints of a running server.
func NewStatusCmd() *cobra.Command {
	var (
		metricsAddr string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of a running MudForge server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status := queryStatus(metricsAddr)

			if jsonOutput {
				data, err := json.MarshalIndent(status, "", "  ")
				if err != nil {
					return fmt.Errorf("formatting status: %w", err)
				}
				cmd.Println(string(data))
				return nil
			}

			if status.Running {
				cmd.Printf("server at %s: %s\n", status.Addr, status.Health)
			} else {
				cmd.Printf("server at %s: not running (%s)\n", status.Addr, status.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", defaultMetricsAddr, "metrics/health HTTP address of the server")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output status as JSON")

	return cmd
}

func queryStatus(addr string) ProcessStatus {
	status := ProcessStatus{Addr: addr}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/healthz/readiness")
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer resp.Body.Close()

	status.Running = true
	if resp.StatusCode == http.StatusOK {
		status.Health = "ready"
	} else {
		status.Health = "not ready"
	}
	return status
}
