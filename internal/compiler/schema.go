package compiler

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// modSpecSchemaJSON is the JSON Schema every ModSpec must satisfy before
// compilation proceeds. It only constrains shape and enum membership
// shallowly; the Compiler's own validate.go enforces the deeper
// cross-element invariants (registry-id uniqueness) a generic schema
// cannot express.
const modSpecSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "mod_name": {"type": "string"},
    "mod_id": {"type": "string"},
    "version": {"type": "string"},
    "author": {"type": "string"},
    "items": {"type": "array"},
    "blocks": {"type": "array"},
    "tools": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "material_tier": {
            "enum": ["WOOD", "STONE", "IRON", "DIAMOND", "NETHERITE", ""]
          }
        }
      }
    }
  }
}`

func validateAgainstSchema(spec any) error {
	payload, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshal spec for schema validation: %w", err)
	}
	var payloadDoc any
	if err := json.Unmarshal(payload, &payloadDoc); err != nil {
		return fmt.Errorf("unmarshal spec for schema validation: %w", err)
	}

	var schemaDoc any
	if err := json.Unmarshal([]byte(modSpecSchemaJSON), &schemaDoc); err != nil {
		return fmt.Errorf("unmarshal embedded schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("modspec.json", schemaDoc); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile("modspec.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(payloadDoc); err != nil {
		return &CompilationError{Reason: fmt.Sprintf("spec failed schema validation: %v", err)}
	}
	return nil
}
