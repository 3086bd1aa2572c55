// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mudforge/mudforge/internal/skill"
)

// NewValidateSkillsCmd creates the validate-skills subcommand.
func NewValidateSkillsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-skills <dir-or-file>",
		Short: "Validate skill catalog files",
		Long: `Validate skill catalog files against the generated schema, the
supported format version range, and the builtin effect registry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalogPath(args[0])
			if err != nil {
				return err
			}

			manager, err := skill.NewManager(catalog)
			if err != nil {
				return err
			}
			if err := manager.ValidateEffects(); err != nil {
				return err
			}

			cmd.Printf("OK: %d skills valid\n", catalog.Len())
			return nil
		},
	}
}

func loadCatalogPath(path string) (*skill.Catalog, error) {
	catalog, err := skill.LoadDir(path)
	if err == nil {
		return catalog, nil
	}
	// Fall back to treating the argument as a single file.
	if fileCatalog, ferr := skill.LoadFile(path); ferr == nil {
		return fileCatalog, nil
	}
	return nil, fmt.Errorf("loading catalog from %s: %w", path, err)
}
