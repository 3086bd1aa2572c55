// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package skill

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// FormatConstraint is the range of catalog format versions this build reads.
const FormatConstraint = "^1.0.0"

// CatalogFile is the YAML shape of one skill catalog file.
type CatalogFile struct {
	FormatVersion string       `yaml:"format_version" json:"format_version" jsonschema:"required"`
	Skills        []Definition `yaml:"skills" json:"skills" jsonschema:"required"`
}

// Catalog is the merged, validated skill table. Immutable after loading;
// safe for concurrent reads.
type Catalog struct {
	byID map[string]*Definition

	// names holds lowercased skill names sorted longest-first (by word
	// count, then length) so multi-word resolution prefers the most
	// specific match.
	names []nameEntry

	dir string
}

type nameEntry struct {
	name string
	id   string
}

// LoadDir reads, validates, and merges every .yaml/.yml catalog file in dir.
func LoadDir(dir string) (*Catalog, error) {
	c := &Catalog{
		byID: make(map[string]*Definition),
		dir:  dir,
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		return c.loadFile(path)
	})
	if err != nil {
		return nil, err
	}

	c.indexNames()
	return c, nil
}

// LoadFile builds a catalog from a single file. Used by the validate
// subcommand and tests.
func LoadFile(path string) (*Catalog, error) {
	c := &Catalog{
		byID: make(map[string]*Definition),
		dir:  filepath.Dir(path),
	}
	if err := c.loadFile(path); err != nil {
		return nil, err
	}
	c.indexNames()
	return c, nil
}

func (c *Catalog) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ErrBadCatalog(path, err)
	}
	if err := ValidateSchema(data); err != nil {
		return ErrBadCatalog(path, err)
	}

	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return ErrBadCatalog(path, err)
	}
	if err := checkFormatVersion(path, file.FormatVersion); err != nil {
		return err
	}

	for i := range file.Skills {
		def := &file.Skills[i]
		if def.ID == "" || def.Name == "" {
			return ErrBadCatalog(path, oops.Errorf("skill entry missing id or name"))
		}
		if def.Effect != "" && def.Script != "" {
			return ErrBadCatalog(path, oops.Errorf("skill %s sets both effect and script", def.ID))
		}
		if _, dup := c.byID[def.ID]; dup {
			return ErrBadCatalog(path, oops.Errorf("duplicate skill id %s", def.ID))
		}
		c.byID[def.ID] = def
	}
	return nil
}

func checkFormatVersion(path, version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return ErrBadCatalog(path, err)
	}
	constraint, err := semver.NewConstraint(FormatConstraint)
	if err != nil {
		return ErrBadCatalog(path, err)
	}
	if !constraint.Check(v) {
		return ErrBadVersion(path, version, FormatConstraint)
	}
	return nil
}

func (c *Catalog) indexNames() {
	c.names = c.names[:0]
	for id, def := range c.byID {
		c.names = append(c.names, nameEntry{
			name: strings.ToLower(def.Name),
			id:   id,
		})
	}
	sort.Slice(c.names, func(i, j int) bool {
		wi := strings.Count(c.names[i].name, " ")
		wj := strings.Count(c.names[j].name, " ")
		if wi != wj {
			return wi > wj
		}
		if len(c.names[i].name) != len(c.names[j].name) {
			return len(c.names[i].name) > len(c.names[j].name)
		}
		return c.names[i].name < c.names[j].name
	})
}

// Get returns the definition for a skill id.
func (c *Catalog) Get(id string) (*Definition, bool) {
	def, ok := c.byID[id]
	return def, ok
}

// Len returns the number of skills in the catalog.
func (c *Catalog) Len() int {
	return len(c.byID)
}

// All returns every definition, in no particular order.
func (c *Catalog) All() []*Definition {
	defs := make([]*Definition, 0, len(c.byID))
	for _, def := range c.byID {
		defs = append(defs, def)
	}
	return defs
}

// Dir returns the directory the catalog was loaded from; Lua effect scripts
// resolve relative to it.
func (c *Catalog) Dir() string {
	return c.dir
}

// ResolveName matches the leading words of input against skill names,
// longest name first, so "mighty kick goblin" resolves the two-word skill
// before any one-word skill named "mighty". Returns the skill id and the
// unmatched remainder.
func (c *Catalog) ResolveName(input string) (id, remainder string, ok bool) {
	lowered := strings.ToLower(strings.TrimSpace(input))
	if lowered == "" {
		return "", "", false
	}
	for _, entry := range c.names {
		if lowered == entry.name {
			return entry.id, "", true
		}
		if strings.HasPrefix(lowered, entry.name+" ") {
			rest := strings.TrimSpace(input[len(entry.name):])
			return entry.id, rest, true
		}
	}
	return "", "", false
}
