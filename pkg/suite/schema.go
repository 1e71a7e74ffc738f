package suite

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is the JSON Schema suite files are validated against,
// whatever format they are written in.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://digital.vasic/assert/suite.schema.json",
  "title": "Assertion suite",
  "type": "object",
  "required": ["name", "assertions"],
  "additionalProperties": false,
  "properties": {
    "version": {"type": "string"},
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "assertions": {
      "type": "array",
      "items": {"$ref": "#/$defs/assertion"}
    }
  },
  "$defs": {
    "assertion": {
      "type": "object",
      "required": ["type"],
      "additionalProperties": false,
      "properties": {
        "type": {"type": "string", "minLength": 1},
        "target": {"type": "string"},
        "value": true,
        "values": {"type": "array"},
        "delta": {"type": "number", "minimum": 0},
        "not": {"type": "boolean"},
        "message": {"type": "string"},
        "all": {
          "type": "array",
          "minItems": 1,
          "items": {"$ref": "#/$defs/assertion"}
        },
        "any": {
          "type": "array",
          "minItems": 1,
          "items": {"$ref": "#/$defs/assertion"}
        }
      }
    }
  }
}`

const schemaURL = "suite.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(Schema))
		if err != nil {
			compileErr = fmt.Errorf("failed to parse suite schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("failed to add suite schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf(
				"failed to compile suite schema: %w", compileErr,
			)
		}
	})
	return compiled, compileErr
}

// ValidateDocument checks JSON encoded suite data against Schema.
func ValidateDocument(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse suite document: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("suite does not match schema: %w", err)
	}
	return nil
}
