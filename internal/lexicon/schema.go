package lexicon

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildLexiconJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map used to validate lexicon files before loading them.
func BuildLexiconJSONSchema() map[string]any {
	entry := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"canonical_name": map[string]any{"type": "string", "minLength": 1},
			"aliases": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "minLength": 1},
			},
			"default_unit": map[string]any{"type": "string"},
			"range_low":    map[string]any{"type": "number"},
			"range_high":   map[string]any{"type": "number"},
			"qualitative":  map[string]any{"type": "boolean"},
		},
		"required": []string{"canonical_name"},
	}
	return map[string]any{
		"type":     "array",
		"items":    entry,
		"minItems": 1,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
