// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mudforge/mudforge/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// resolveConfigFile returns the explicit --config path, or the XDG config
// file when one exists.
func resolveConfigFile() string {
	if configFile != "" {
		return configFile
	}
	candidate := filepath.Join(xdg.ConfigDir(), "config.yaml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// NewRootCmd creates the root command for the MudForge CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mudforge",
		Short: "MudForge - a tick-based multiplayer text game engine",
		Long: `MudForge is a persistent-world text game engine built around a
single-threaded tick loop: command queues, reactive triggers, timed
skills, and round-based combat.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewValidateSkillsCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
