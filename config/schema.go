package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema of the companion configuration
// file. Extension sections (logging, tui) are left open.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Extensions live next to the typed sections.
		AllowAdditionalProperties: true,
		// Expand struct references instead of using $ref for cleaner base schema.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
		// Every section is optional; defaults fill the gaps.
		RequiredFromJSONSchemaTags: true,
	}

	schema := r.Reflect(&Config{})
	schema.Title = "Companion Configuration"
	schema.Description = "Schema for companion.yml / companion.toml."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	// YAML reads an unquoted 1.0 as a number.
	if version, ok := schema.Properties.Get("version"); ok {
		version.Type = ""
		version.OneOf = []*jsonschema.Schema{{Type: "string"}, {Type: "number"}}
	}

	return json.MarshalIndent(schema, "", "  ")
}
