// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package skill

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// schemaCache holds the compiled schema to avoid recompilation.
var schemaCache *jschema.Schema

// SchemaID is the schema $id advertised for skill catalog files.
const SchemaID = "https://mudforge.dev/schemas/skills.schema.json"

// GenerateSchema generates a JSON Schema from the CatalogFile struct.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&CatalogFile{})

	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "MudForge Skill Catalog"
	schema.Description = "Schema for skill catalog YAML files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, ErrBadCatalog("schema", err)
	}
	return data, nil
}

// ValidateSchema validates raw catalog YAML against the generated schema.
func ValidateSchema(data []byte) error {
	var yamlData any
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return err
	}

	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	return sch.Validate(convertToJSONTypes(yamlData))
}

func compiledSchema() (*jschema.Schema, error) {
	if schemaCache != nil {
		return schemaCache, nil
	}

	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, err
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("skills.schema.json", schemaData); err != nil {
		return nil, err
	}
	sch, err := c.Compile("skills.schema.json")
	if err != nil {
		return nil, err
	}

	schemaCache = sch
	return sch, nil
}

// convertToJSONTypes normalizes YAML-parsed values into the types the schema
// validator expects, recursing through maps and lists.
func convertToJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, inner := range val {
			result[k] = convertToJSONTypes(inner)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, inner := range val {
			result[i] = convertToJSONTypes(inner)
		}
		return result
	default:
		return val
	}
}
